package notification

import (
	"context"
	"fmt"
	"strings"

	"civicdesk/departments"
	"civicdesk/models"

	"go.uber.org/zap"
)

const defaultDispatchTitle = "Department Assignment"

// DispatchRequest is one department-level message to fan out.
type DispatchRequest struct {
	Department string         `json:"department" binding:"required"`
	Message    string         `json:"message" binding:"required"`
	Title      string         `json:"title"`
	Type       string         `json:"type"`
	Data       map[string]any `json:"data"`
}

// DispatchResult reports how many notification documents were written.
type DispatchResult struct {
	CreatedCount int `json:"createdCount"`
}

// Dispatch writes one notification per approved collector plus at most one for the
// department head. A missing head contributes nothing. The batch is inserted in one
// call, so a failed insert loses the whole batch.
func (s *DefaultNotificationService) Dispatch(ctx context.Context, req DispatchRequest) (*DispatchResult, error) {
	req.Department = strings.TrimSpace(req.Department)
	if canonical, ok := departments.Canonical(req.Department); ok {
		req.Department = canonical
	}
	if req.Department == "" || strings.TrimSpace(req.Message) == "" {
		return nil, ErrInvalidDispatch
	}

	created, err := s.dispatch(ctx, req)
	s.record(ctx, req, created, err)
	if err != nil {
		s.Logger.Error("notification dispatch failed",
			zap.String("department", req.Department),
			zap.Error(err))
		return nil, err
	}

	s.Logger.Info("notification dispatch complete",
		zap.String("department", req.Department),
		zap.Int("created", created))
	return &DispatchResult{CreatedCount: created}, nil
}

func (s *DefaultNotificationService) dispatch(ctx context.Context, req DispatchRequest) (int, error) {
	collectors, err := s.Users.FindApprovedByRole(ctx, models.RoleCollector)
	if err != nil {
		return 0, fmt.Errorf("dispatch: failed to load collectors: %w", err)
	}

	batch := make([]models.Notification, 0, len(collectors)+1)
	for _, c := range collectors {
		batch = append(batch, s.newNotification(req, c.ID, models.RoleCollector))
	}

	head, err := s.resolveHead(ctx, req.Department)
	if err != nil {
		return 0, err
	}
	if head != nil {
		batch = append(batch, s.newNotification(req, head.ID, models.RoleHead))
	}

	if len(batch) == 0 {
		return 0, nil
	}
	created, err := s.Notifications.InsertMany(ctx, batch)
	if err != nil {
		return 0, fmt.Errorf("dispatch: %w", err)
	}
	return created, nil
}

// resolveHead prefers the head referenced by the department document and falls back
// to an approved head user whose departmentName matches.
func (s *DefaultNotificationService) resolveHead(ctx context.Context, department string) (*models.User, error) {
	head, err := s.Departments.FindHead(ctx, department)
	if err != nil {
		return nil, fmt.Errorf("dispatch: failed to look up department head: %w", err)
	}
	if head != nil {
		return head, nil
	}

	head, err = s.Users.FindApprovedHead(ctx, department)
	if err != nil {
		return nil, fmt.Errorf("dispatch: failed to look up head user: %w", err)
	}
	return head, nil
}

func (s *DefaultNotificationService) newNotification(req DispatchRequest, userID, role string) models.Notification {
	title := req.Title
	if title == "" {
		title = defaultDispatchTitle
	}
	typ := req.Type
	if typ == "" {
		typ = models.AssignmentNotificationType
	}

	n := models.Notification{
		Title:        title,
		Message:      req.Message,
		Type:         typ,
		Sender:       models.PortalSender,
		ReceiverRole: role,
		Department:   req.Department,
		Recipient:    models.UserRecipient(userID),
		Data:         req.Data,
		Priority:     models.DefaultNotificationPriority,
	}
	if pid, ok := req.Data["problemId"].(string); ok {
		n.RelatedProblem = pid
	}
	return n
}

func (s *DefaultNotificationService) record(ctx context.Context, req DispatchRequest, created int, dispatchErr error) {
	if s.Log == nil {
		return
	}
	rec := models.DispatchRecord{
		Department:   req.Department,
		Message:      req.Message,
		CreatedCount: created,
	}
	if dispatchErr != nil {
		rec.Error = dispatchErr.Error()
	}
	if err := s.Log.Append(context.WithoutCancel(ctx), rec); err != nil {
		s.Logger.Warn("failed to record dispatch outcome", zap.Error(err))
	}
}
