package problem

import (
	"context"
	"fmt"
	"strings"

	"civicdesk/departments"
	"civicdesk/models"

	"go.uber.org/zap"
)

// Submit stores a new pending complaint.
func (s *DefaultProblemService) Submit(ctx context.Context, citizenID string, input models.ProblemInput) (*models.Problem, error) {
	p := &models.Problem{
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		Location:    strings.TrimSpace(input.Location),
		Status:      models.ProblemPending,
		SubmittedBy: citizenID,
	}
	if err := s.Repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *DefaultProblemService) Get(ctx context.Context, id string) (*models.Problem, error) {
	return s.Repo.GetByID(ctx, id)
}

// UpdateStatus applies the change and then schedules a department notification.
// Notification failures are logged and never fail the update.
func (s *DefaultProblemService) UpdateStatus(ctx context.Context, id string, update models.ProblemStatusUpdate) (*models.Problem, error) {
	dept := strings.TrimSpace(update.Department)
	if dept != "" {
		canonical, ok := departments.Canonical(dept)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownDepartment, dept)
		}
		dept = canonical
	}

	p, err := s.Repo.UpdateStatus(ctx, id, update.Status, dept)
	if err != nil {
		return nil, err
	}

	if p.Department != "" && s.Notifier != nil {
		payload := models.DispatchPayload{
			Department: p.Department,
			Message:    statusMessage(p),
			Title:      statusTitle(p.Status),
			Type:       notificationType(dept),
			ProblemID:  p.ID,
		}
		if err := s.Notifier.Notify(ctx, payload); err != nil {
			s.logger().Warn("problem notification not scheduled",
				zap.String("problemId", p.ID),
				zap.String("department", p.Department),
				zap.Error(err))
		}
	}
	return p, nil
}

func (s *DefaultProblemService) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

// notificationType is an assignment when this update carried a department.
func notificationType(assignedNow string) string {
	if assignedNow != "" {
		return models.AssignmentNotificationType
	}
	return models.StatusUpdateNotificationType
}

var statusVerbs = map[string]string{
	models.ProblemPending:    "is pending review",
	models.ProblemAssigned:   "assigned",
	models.ProblemInProgress: "is in progress",
	models.ProblemResolved:   "resolved",
	models.ProblemRejected:   "rejected",
}

func statusMessage(p *models.Problem) string {
	verb, ok := statusVerbs[p.Status]
	if !ok {
		verb = "updated to " + p.Status
	}
	return fmt.Sprintf("Problem %q %s (%s)", p.Title, verb, p.Department)
}

func statusTitle(status string) string {
	if status == models.ProblemAssigned {
		return "Department Assignment"
	}
	return "Problem Status Update"
}
