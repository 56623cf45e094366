package notification

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	notificationRepo "civicdesk/database/repository/notification"
	"civicdesk/models"
)

// ResolveQuery is the department read path input.
type ResolveQuery struct {
	Department string
	Type       string
	// Limit of zero means the configured default.
	Limit int
}

// ResolveResult is the success envelope of the department read path.
type ResolveResult struct {
	Success       bool                         `json:"success"`
	Count         int                          `json:"count"`
	Notifications []models.DisplayNotification `json:"notifications"`
}

// ParseLimit turns the raw limit query parameter into a bounded positive value.
// An empty string yields def; values above max are clamped to max.
func ParseLimit(raw string, def, max int) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, ErrInvalidLimit
	}
	if max > 0 && n > max {
		return max, nil
	}
	return n, nil
}

func (s *DefaultNotificationService) limit(n int) (int, error) {
	switch {
	case n < 0:
		return 0, ErrInvalidLimit
	case n == 0:
		return s.Limits.Default, nil
	case n > s.Limits.Max:
		return s.Limits.Max, nil
	}
	return n, nil
}

// Resolve selects department-related notifications newest first and labels each
// with its inferred department.
func (s *DefaultNotificationService) Resolve(ctx context.Context, q ResolveQuery) (*ResolveResult, error) {
	limit, err := s.limit(q.Limit)
	if err != nil {
		return nil, err
	}

	filter := notificationRepo.Filter{
		Department: strings.TrimSpace(q.Department),
		Type:       strings.TrimSpace(q.Type),
	}
	found, err := s.Notifications.Find(ctx, filter, limit)
	if err != nil {
		return nil, fmt.Errorf("resolve: %w", err)
	}

	out := make([]models.DisplayNotification, 0, len(found))
	for _, n := range found {
		out = append(out, ToDisplay(n))
	}
	return &ResolveResult{Success: true, Count: len(out), Notifications: out}, nil
}

// ToDisplay projects a stored notification into its client shape.
func ToDisplay(n models.Notification) models.DisplayNotification {
	typ := n.Type
	if typ == "" {
		typ = models.DefaultNotificationType
	}
	priority := n.Priority
	if priority == "" {
		priority = models.DefaultNotificationPriority
	}
	return models.DisplayNotification{
		MongoID:        n.ID,
		ID:             n.ID,
		Title:          n.Title,
		Message:        n.Message,
		Type:           typ,
		Department:     InferDepartment(n),
		Time:           n.CreatedAt,
		Read:           n.Read,
		Priority:       priority,
		Recipient:      n.Recipient.String(),
		RelatedProblem: n.RelatedProblem,
	}
}

// ListForUser returns notifications addressed to the user, newest first.
func (s *DefaultNotificationService) ListForUser(ctx context.Context, userID string, limit int) ([]models.Notification, error) {
	limit, err := s.limit(limit)
	if err != nil {
		return nil, err
	}
	return s.Notifications.FindByRecipient(ctx, userID, limit)
}

func (s *DefaultNotificationService) UnreadCount(ctx context.Context, userID string) (int64, error) {
	return s.Notifications.CountUnread(ctx, userID)
}

// MarkRead is idempotent: an already-read notification stays read and no error is returned.
// Readers that are not addressees get ErrForbidden.
func (s *DefaultNotificationService) MarkRead(ctx context.Context, id string, reader Reader) error {
	n, err := s.Notifications.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !reader.CanAccess(*n) {
		return ErrForbidden
	}
	return s.Notifications.MarkRead(ctx, id)
}

func (s *DefaultNotificationService) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	return s.Notifications.MarkAllRead(ctx, userID)
}

func (s *DefaultNotificationService) Delete(ctx context.Context, id string) error {
	return s.Notifications.Delete(ctx, id)
}

// DispatchLog returns the most recent dispatch outcomes.
func (s *DefaultNotificationService) DispatchLog(ctx context.Context, limit int) ([]models.DispatchRecord, error) {
	if s.Log == nil {
		return []models.DispatchRecord{}, nil
	}
	limit, err := s.limit(limit)
	if err != nil {
		return nil, err
	}
	return s.Log.Recent(ctx, limit)
}
