package problemRepo

import (
	"context"
	"errors"

	"civicdesk/models"
)

// ErrNotFound is returned when a problem id matches no document.
var ErrNotFound = errors.New("problem not found")

type ProblemRepository interface {
	Create(ctx context.Context, problem *models.Problem) error
	GetByID(ctx context.Context, id string) (*models.Problem, error)
	// UpdateStatus sets status and, when department is non-empty, the assigned department.
	UpdateStatus(ctx context.Context, id, status, department string) (*models.Problem, error)
}
