// File: utils/constants.go
package utils

import "time"

// QueryTimeout bounds single Mongo reads and writes issued by repositories.
const QueryTimeout = 5 * time.Second

// DispatchTimeout bounds one full fan-out (collector lookup, head lookup, bulk insert).
const DispatchTimeout = 15 * time.Second

// HealthCheckInterval is how often the health monitor pings Mongo and Redis.
const HealthCheckInterval = 60 * time.Second
