package userRepo

import (
	"context"

	"civicdesk/models"
)

// UserRepository defines methods for user data access.
type UserRepository interface {
	// GetByID retrieves a user by its unique ID.
	GetByID(ctx context.Context, id string) (*models.User, error)
	// FindApprovedByRole returns the ids of approved users holding role.
	FindApprovedByRole(ctx context.Context, role string) ([]models.User, error)
	// FindApprovedHead returns the approved head of a department, or nil when none exists.
	FindApprovedHead(ctx context.Context, departmentName string) (*models.User, error)
}
