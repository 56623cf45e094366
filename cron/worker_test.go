package cron

import (
	"context"
	"errors"
	"testing"

	"civicdesk/models"
	"civicdesk/services/notification"
	"civicdesk/services/tasks"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubDispatcher struct {
	got notification.DispatchRequest
	err error
}

func (s *stubDispatcher) Dispatch(_ context.Context, req notification.DispatchRequest) (*notification.DispatchResult, error) {
	s.got = req
	if s.err != nil {
		return nil, s.err
	}
	return &notification.DispatchResult{CreatedCount: 2}, nil
}

func TestHandleDispatchTask(t *testing.T) {
	stub := &stubDispatcher{}
	handler := handleDispatchTask(stub, zap.NewNop())

	task, _, err := tasks.NewDispatchTask(models.DispatchPayload{Department: "Health Department", Message: "m"})
	require.NoError(t, err)

	require.NoError(t, handler(context.Background(), task))
	assert.Equal(t, "Health Department", stub.got.Department)
}

func TestHandleDispatchTaskErrors(t *testing.T) {
	stub := &stubDispatcher{err: errors.New("store down")}
	handler := handleDispatchTask(stub, zap.NewNop())

	task, _, err := tasks.NewDispatchTask(models.DispatchPayload{Department: "Health Department", Message: "m"})
	require.NoError(t, err)
	assert.EqualError(t, handler(context.Background(), task), "store down")

	bad := asynq.NewTask(tasks.TypeNotificationDispatch, []byte("{"))
	assert.ErrorIs(t, handler(context.Background(), bad), asynq.SkipRetry)
}
