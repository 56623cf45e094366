// File: utils/cache.go
package utils

import (
	"context"
	"time"

	"civicdesk/config"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

var (
	// CacheClient is the generic Redis client, used for health reporting.
	CacheClient *redis.Client
	// QueueClient is the asynq client used to enqueue background dispatches.
	QueueClient *asynq.Client
)

// InitRedis initializes the generic Redis client. A failed ping is logged, not fatal:
// the API keeps serving and the queue notifier dispatches inline when enqueue fails.
func InitRedis() {
	CacheClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisCacheDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := CacheClient.Ping(ctx).Result(); err != nil {
		GetLogger().Warn("Failed to connect to Redis (Cache)", zap.Error(err))
	}
}

// GetCacheClient returns the generic cache client.
func GetCacheClient() *redis.Client {
	if CacheClient == nil {
		InitRedis()
	}
	return CacheClient
}

// QueueRedisOpt returns the connection options for the dispatch queue database.
func QueueRedisOpt() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}
}

// GetQueueClient returns the shared asynq client, creating it on first use.
func GetQueueClient() *asynq.Client {
	if QueueClient == nil {
		QueueClient = asynq.NewClient(QueueRedisOpt())
	}
	return QueueClient
}
