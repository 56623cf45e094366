// models/user.go
package models

import "time"

// User roles.
const (
	RoleCitizen   = "citizen"
	RoleCollector = "collector"
	RoleHead      = "head"
	RoleStaff     = "staff"
	RoleAdmin     = "admin"
)

// User account statuses.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// User represents a platform account.
type User struct {
	ID             string    `bson:"id" json:"id"`
	Name           string    `bson:"name" json:"name"`
	Email          string    `bson:"email" json:"email"`
	Role           string    `bson:"role" json:"role"`
	Status         string    `bson:"status" json:"status"`
	DepartmentName string    `bson:"departmentName,omitempty" json:"departmentName,omitempty"`
	CreatedAt      time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time `bson:"updatedAt" json:"updatedAt"`
}

// Department is the administrative unit a problem can be assigned to.
type Department struct {
	ID        string    `bson:"id" json:"id"`
	Name      string    `bson:"name" json:"name"`
	HeadID    string    `bson:"headId,omitempty" json:"headId,omitempty"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}
