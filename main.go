// File: civicdesk/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"civicdesk/config"
	"civicdesk/cron"
	"civicdesk/database"
	departmentRepo "civicdesk/database/repository/department"
	dispatchLogRepo "civicdesk/database/repository/dispatchlog"
	notificationRepo "civicdesk/database/repository/notification"
	problemRepo "civicdesk/database/repository/problem"
	userRepoPkg "civicdesk/database/repository/user"
	"civicdesk/departments"
	"civicdesk/handlers"
	"civicdesk/middleware"
	"civicdesk/routes"
	"civicdesk/services/notification"
	"civicdesk/services/problem"
	"civicdesk/services/tasks"
	"civicdesk/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()
	defer logger.Sync() //nolint:errcheck
	if err := utils.CheckJWTSecret(); err != nil {
		logger.Fatal("main: refusing to start", zap.Error(err))
	}

	database.InitDB()
	utils.InitRedis()

	rootCtx, stop := context.WithCancel(context.Background())
	defer stop()
	utils.StartHealthMonitor(rootCtx, utils.GetCacheClient(), database.MongoClient)

	// Create the Gin router.
	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	if err := router.SetTrustedProxies(config.AppConfig.TrustedProxies); err != nil {
		logger.Fatal("main: invalid TRUSTED_PROXIES", zap.Error(err))
	}
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware(config.AppConfig.MaxRequestsPerMin))

	// repositories.
	userRepo := userRepoPkg.NewMongoUserRepo()
	deptRepo := departmentRepo.NewMongoDepartmentRepo()
	notifRepo := notificationRepo.NewMongoNotificationRepo()
	probRepo := problemRepo.NewMongoProblemRepo()
	logRepo := dispatchLogRepo.NewMongoDispatchLogRepo()

	seedCtx, cancelSeed := context.WithTimeout(rootCtx, 10*time.Second)
	if err := deptRepo.Seed(seedCtx, departments.Names()); err != nil {
		logger.Warn("main: failed to seed departments", zap.Error(err))
	}
	cancelSeed()

	// services.
	limits := notification.Limits{
		Default: config.AppConfig.NotificationDefaultLimit,
		Max:     config.AppConfig.NotificationMaxLimit,
	}
	notificationService := notification.NewDefaultNotificationService(notifRepo, userRepo, deptRepo, logRepo, limits, logger)

	inline := &tasks.InlineNotifier{Dispatcher: notificationService, Logger: logger}
	var notifier tasks.Notifier = inline
	if config.AppConfig.DispatchAsync {
		worker := cron.InitDispatchWorker(notificationService)
		defer worker.Shutdown()
		queue := utils.GetQueueClient()
		defer queue.Close()
		notifier = &tasks.QueueNotifier{Client: queue, Fallback: inline}
	}

	problemService := &problem.DefaultProblemService{
		Repo:     probRepo,
		Notifier: notifier,
		Logger:   logger,
	}

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		UserRepo:      userRepo,
		Notifications: handlers.NewNotificationHandler(notificationService, notificationService.Limits),
		Problems:      handlers.NewProblemHandler(problemService),
		Departments:   handlers.NewDepartmentHandler(deptRepo),
	}

	// Register routes with the assembled handler bundle.
	routes.RegisterRoutes(router, handlerBundle)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Errorf("main: server forced to shutdown: %v", err)
	}
	if err := database.Disconnect(ctx); err != nil {
		logger.Sugar().Warnf("main: mongo disconnect: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
