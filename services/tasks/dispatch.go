package tasks

import (
	"context"
	"encoding/json"
	"fmt"

	"civicdesk/models"
	"civicdesk/services/notification"
	"civicdesk/utils"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

const TypeNotificationDispatch = "notification:dispatch"

// NewDispatchTask wraps a dispatch payload into a queued task.
func NewDispatchTask(payload models.DispatchPayload) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeNotificationDispatch, b)
	opts := []asynq.Option{
		asynq.MaxRetry(3),
		asynq.Timeout(utils.DispatchTimeout),
	}
	return task, opts, nil
}

// ParseDispatchTask decodes a queued payload back into a dispatch request.
func ParseDispatchTask(task *asynq.Task) (notification.DispatchRequest, error) {
	var p models.DispatchPayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		return notification.DispatchRequest{}, fmt.Errorf("invalid dispatch payload: %w", err)
	}
	return RequestFromPayload(p), nil
}

// RequestFromPayload converts a queued payload into a dispatch request.
func RequestFromPayload(p models.DispatchPayload) notification.DispatchRequest {
	data := map[string]any{}
	for k, v := range p.Data {
		data[k] = v
	}
	if p.ProblemID != "" {
		data["problemId"] = p.ProblemID
	}
	return notification.DispatchRequest{
		Department: p.Department,
		Message:    p.Message,
		Title:      p.Title,
		Type:       p.Type,
		Data:       data,
	}
}

// Notifier schedules a best-effort dispatch. Implementations never block the caller
// on the fan-out itself.
type Notifier interface {
	Notify(ctx context.Context, payload models.DispatchPayload) error
}

// QueueNotifier enqueues dispatches on the asynq queue. When the queue is unreachable
// and Fallback is set, the dispatch runs inline instead of being dropped.
type QueueNotifier struct {
	Client   *asynq.Client
	Fallback *InlineNotifier
}

func (q *QueueNotifier) Notify(ctx context.Context, payload models.DispatchPayload) error {
	task, opts, err := NewDispatchTask(payload)
	if err != nil {
		return err
	}
	info, err := q.Client.EnqueueContext(ctx, task, opts...)
	if err != nil {
		if q.Fallback == nil {
			return fmt.Errorf("failed to enqueue dispatch: %w", err)
		}
		utils.GetLogger().Warn("enqueue failed, dispatching inline",
			zap.String("department", payload.Department), zap.Error(err))
		return q.Fallback.Notify(ctx, payload)
	}
	utils.GetLogger().Debug("dispatch enqueued", zap.String("taskID", info.ID), zap.String("department", payload.Department))
	return nil
}

// InlineNotifier runs the dispatcher in its own goroutine with a bounded timeout.
type InlineNotifier struct {
	Dispatcher notification.Dispatcher
	Logger     *zap.Logger
}

func (n *InlineNotifier) Notify(_ context.Context, payload models.DispatchPayload) error {
	req := RequestFromPayload(payload)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), utils.DispatchTimeout)
		defer cancel()
		if _, err := n.Dispatcher.Dispatch(ctx, req); err != nil && n.Logger != nil {
			n.Logger.Warn("inline dispatch failed", zap.String("department", req.Department), zap.Error(err))
		}
	}()
	return nil
}
