package notification

import (
	"context"
	"errors"
	"strings"

	departmentRepo "civicdesk/database/repository/department"
	dispatchLogRepo "civicdesk/database/repository/dispatchlog"
	notificationRepo "civicdesk/database/repository/notification"
	userRepo "civicdesk/database/repository/user"
	"civicdesk/models"

	"go.uber.org/zap"
)

var (
	// ErrInvalidLimit rejects zero, negative or non-numeric result limits.
	ErrInvalidLimit = errors.New("limit must be a positive integer")
	// ErrInvalidDispatch rejects a dispatch without department or message.
	ErrInvalidDispatch = errors.New("department and message are required")
	// ErrNotFound is returned when a notification id matches nothing.
	ErrNotFound = notificationRepo.ErrNotFound
	// ErrForbidden is returned when the reader is not an addressee of the notification.
	ErrForbidden = errors.New("notification is not addressed to this user")
)

// Reader identifies the authenticated user acting on a notification.
type Reader struct {
	UserID     string
	Role       string
	Department string
}

// CanAccess reports whether r may act on n. Collectors and admins operate on every
// notification; everyone else only on their own or their department's.
func (r Reader) CanAccess(n models.Notification) bool {
	switch r.Role {
	case models.RoleAdmin, models.RoleCollector:
		return true
	}
	switch n.Recipient.Kind {
	case models.RecipientUser:
		return r.UserID != "" && n.Recipient.UserID == r.UserID
	case models.RecipientDepartment:
		return r.Department != "" && strings.EqualFold(n.Recipient.Name, r.Department)
	}
	return false
}

// Dispatcher fans a department message out to every eligible recipient.
type Dispatcher interface {
	Dispatch(ctx context.Context, req DispatchRequest) (*DispatchResult, error)
}

// NotificationService is the full in-app notification surface.
type NotificationService interface {
	Dispatcher
	Resolve(ctx context.Context, q ResolveQuery) (*ResolveResult, error)
	ListForUser(ctx context.Context, userID string, limit int) ([]models.Notification, error)
	UnreadCount(ctx context.Context, userID string) (int64, error)
	MarkRead(ctx context.Context, id string, reader Reader) error
	MarkAllRead(ctx context.Context, userID string) (int64, error)
	Delete(ctx context.Context, id string) error
	DispatchLog(ctx context.Context, limit int) ([]models.DispatchRecord, error)
}

// Limits bounds the read path.
type Limits struct {
	Default int
	Max     int
}

// DefaultNotificationService is the production implementation.
type DefaultNotificationService struct {
	Notifications notificationRepo.NotificationRepository
	Users         userRepo.UserRepository
	Departments   departmentRepo.DepartmentRepository
	// Log is optional; when nil dispatch outcomes are only written to the logger.
	Log    dispatchLogRepo.DispatchLogRepository
	Limits Limits
	Logger *zap.Logger
}

// NewDefaultNotificationService wires the service and fills unset limits.
func NewDefaultNotificationService(
	notifications notificationRepo.NotificationRepository,
	users userRepo.UserRepository,
	depts departmentRepo.DepartmentRepository,
	log dispatchLogRepo.DispatchLogRepository,
	limits Limits,
	logger *zap.Logger,
) *DefaultNotificationService {
	if limits.Default <= 0 {
		limits.Default = 50
	}
	if limits.Max < limits.Default {
		limits.Max = limits.Default
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DefaultNotificationService{
		Notifications: notifications,
		Users:         users,
		Departments:   depts,
		Log:           log,
		Limits:        limits,
		Logger:        logger,
	}
}
