package models

import "time"

// Problem statuses.
const (
	ProblemPending    = "pending"
	ProblemAssigned   = "assigned"
	ProblemInProgress = "in_progress"
	ProblemResolved   = "resolved"
	ProblemRejected   = "rejected"
)

// Problem is a complaint submitted by a citizen.
type Problem struct {
	ID          string    `bson:"id" json:"id"`
	Title       string    `bson:"title" json:"title"`
	Description string    `bson:"description" json:"description"`
	Location    string    `bson:"location,omitempty" json:"location,omitempty"`
	Department  string    `bson:"department,omitempty" json:"department,omitempty"`
	Status      string    `bson:"status" json:"status"`
	SubmittedBy string    `bson:"submittedBy" json:"submittedBy"`
	CreatedAt   time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time `bson:"updatedAt" json:"updatedAt"`
}

// ProblemInput is the body of a new complaint.
type ProblemInput struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description" binding:"required"`
	Location    string `json:"location"`
}

// ProblemStatusUpdate is the body of a status change.
type ProblemStatusUpdate struct {
	Status     string `json:"status" binding:"required,oneof=pending assigned in_progress resolved rejected"`
	Department string `json:"department"`
}

// DispatchPayload is queued for background notification fan-out.
type DispatchPayload struct {
	Department string         `json:"department"`
	Message    string         `json:"message"`
	Title      string         `json:"title,omitempty"`
	Type       string         `json:"type,omitempty"`
	ProblemID  string         `json:"problemId,omitempty"`
	Data       map[string]any `json:"data,omitempty"`
}
