package departmentRepo

import (
	"context"

	"civicdesk/models"
)

// DepartmentRepository defines methods for department data access.
type DepartmentRepository interface {
	// FindHead returns the user referenced by the department's head, or nil when the
	// department does not exist, has no head, or the head user is missing.
	FindHead(ctx context.Context, name string) (*models.User, error)
	// List returns every department ordered by name.
	List(ctx context.Context) ([]models.Department, error)
	// SetHead assigns a head user to the department.
	SetHead(ctx context.Context, name, userID string) error
	// Seed inserts any of names that do not exist yet. Existing documents are untouched.
	Seed(ctx context.Context, names []string) error
}
