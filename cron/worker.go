package cron

import (
	"context"
	"time"

	"civicdesk/services/notification"
	"civicdesk/services/tasks"
	"civicdesk/utils"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// InitDispatchWorker runs the notification dispatch worker in background and returns
// the server so the caller can shut it down.
func InitDispatchWorker(dispatcher notification.Dispatcher) *asynq.Server {
	logger := utils.GetLogger()

	srv := asynq.NewServer(
		utils.QueueRedisOpt(),
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeNotificationDispatch, handleDispatchTask(dispatcher, logger))

	// Start async worker with retry logic
	go func() {
		logger.Info("[DispatchWorker] starting async worker")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				logger.Warn("[DispatchWorker] failed to start worker",
					zap.Int("attempt", attempts),
					zap.Int("maxAttempts", maxAttempts),
					zap.Error(err))

				if attempts == maxAttempts {
					logger.Error("[DispatchWorker] max retry attempts reached, queued dispatches will not run")
					return
				}
				time.Sleep(time.Duration(attempts*2) * time.Second)
			} else {
				break
			}
		}
	}()

	return srv
}

func handleDispatchTask(dispatcher notification.Dispatcher, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		req, err := tasks.ParseDispatchTask(task)
		if err != nil {
			logger.Error("[DispatchHandler] invalid payload", zap.Error(err))
			// A malformed payload will never succeed; skip retries.
			return asynq.SkipRetry
		}

		res, err := dispatcher.Dispatch(ctx, req)
		if err != nil {
			logger.Warn("[DispatchHandler] dispatch failed", zap.String("department", req.Department), zap.Error(err))
			return err
		}
		logger.Debug("[DispatchHandler] dispatch done",
			zap.String("department", req.Department),
			zap.Int("created", res.CreatedCount))
		return nil
	}
}
