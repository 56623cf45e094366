package problem

import (
	"context"
	"errors"

	problemRepo "civicdesk/database/repository/problem"
	"civicdesk/models"
	"civicdesk/services/tasks"

	"go.uber.org/zap"
)

var (
	// ErrUnknownDepartment rejects assignments to departments outside the canonical table.
	ErrUnknownDepartment = errors.New("unknown department")
	// ErrNotFound is returned when a problem id matches nothing.
	ErrNotFound = problemRepo.ErrNotFound
)

type ProblemService interface {
	Submit(ctx context.Context, citizenID string, input models.ProblemInput) (*models.Problem, error)
	Get(ctx context.Context, id string) (*models.Problem, error)
	UpdateStatus(ctx context.Context, id string, update models.ProblemStatusUpdate) (*models.Problem, error)
}

// DefaultProblemService is the production implementation.
type DefaultProblemService struct {
	Repo     problemRepo.ProblemRepository
	Notifier tasks.Notifier
	Logger   *zap.Logger
}
