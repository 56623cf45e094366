package models

import (
	"time"
)

// Recipient kinds.
const (
	RecipientDepartment = "department"
	RecipientUser       = "user"
)

// Recipient names who a notification is addressed to: either a department by
// display name or a single user by id.
type Recipient struct {
	Kind   string `bson:"kind" json:"kind"`
	Name   string `bson:"name,omitempty" json:"name,omitempty"`
	UserID string `bson:"userId,omitempty" json:"userId,omitempty"`
}

// DepartmentRecipient addresses a department by its display name.
func DepartmentRecipient(name string) Recipient {
	return Recipient{Kind: RecipientDepartment, Name: name}
}

// UserRecipient addresses a single user.
func UserRecipient(id string) Recipient {
	return Recipient{Kind: RecipientUser, UserID: id}
}

// String returns the department name or the user id, depending on Kind.
func (r Recipient) String() string {
	switch r.Kind {
	case RecipientDepartment:
		return r.Name
	case RecipientUser:
		return r.UserID
	default:
		return ""
	}
}

// IsZero reports whether the recipient is unset.
func (r Recipient) IsZero() bool {
	return r.Kind == "" && r.Name == "" && r.UserID == ""
}

const (
	DefaultNotificationType      = "notification"
	DefaultNotificationPriority  = "medium"
	AssignmentNotificationType   = "department_assignment"
	StatusUpdateNotificationType = "status_update"
	PortalSender                 = "Public Portal"
)

// Notification is a single in-app notification document.
type Notification struct {
	ID             string         `bson:"id" json:"id"`
	Title          string         `bson:"title" json:"title"`
	Message        string         `bson:"message" json:"message"`
	Type           string         `bson:"type" json:"type"`
	Sender         string         `bson:"sender,omitempty" json:"sender,omitempty"`
	ReceiverRole   string         `bson:"receiverRole,omitempty" json:"receiverRole,omitempty"`
	Department     string         `bson:"department,omitempty" json:"department,omitempty"`
	Recipient      Recipient      `bson:"recipient" json:"recipient"`
	RelatedProblem string         `bson:"relatedProblem,omitempty" json:"relatedProblem,omitempty"`
	Data           map[string]any `bson:"data,omitempty" json:"data,omitempty"`
	Read           bool           `bson:"read" json:"read"`
	Priority       string         `bson:"priority,omitempty" json:"priority,omitempty"`
	CreatedAt      time.Time      `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time      `bson:"updatedAt" json:"updatedAt"`
}

// DisplayNotification is the shape returned to department-facing clients.
type DisplayNotification struct {
	MongoID        string    `json:"_id"`
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Message        string    `json:"message"`
	Type           string    `json:"type"`
	Department     string    `json:"department"`
	Time           time.Time `json:"time"`
	Read           bool      `json:"read"`
	Priority       string    `json:"priority"`
	Recipient      string    `json:"recipient,omitempty"`
	RelatedProblem string    `json:"relatedProblem,omitempty"`
}

// DispatchRecord is one entry of the dispatch outcome log.
type DispatchRecord struct {
	ID           string    `bson:"id" json:"id"`
	Department   string    `bson:"department" json:"department"`
	Message      string    `bson:"message" json:"message"`
	CreatedCount int       `bson:"createdCount" json:"createdCount"`
	Error        string    `bson:"error,omitempty" json:"error,omitempty"`
	CreatedAt    time.Time `bson:"createdAt" json:"createdAt"`
}
