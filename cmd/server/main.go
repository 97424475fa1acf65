package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"arqueria/archery-app/internal/api"
	"arqueria/archery-app/internal/config"
	"arqueria/archery-app/internal/logging"
	"arqueria/archery-app/internal/repository/mongo"
	"arqueria/archery-app/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		logging.L().Fatal("could not load config", zap.Error(err))
	}
	logging.Init(cfg.Server.Production)
	logger := logging.L()
	defer logger.Sync() //nolint:errcheck

	if cfg.JWT.Secret == "" {
		logger.Fatal("jwt.secret must be set")
	}

	dbClient, err := mongo.ConnectDB(cfg.Database.URI)
	if err != nil {
		logger.Fatal("could not connect to MongoDB", zap.Error(err))
	}
	defer func() {
		if err := mongo.DisconnectDB(dbClient); err != nil {
			logger.Error("failed to disconnect MongoDB", zap.Error(err))
		}
	}()
	appDB := dbClient.Database(cfg.Database.Name)
	logger.Info("database connection established", zap.String("database", cfg.Database.Name))

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
		defer cancel()
		mongo.EnsureUserIndexes(ctx, appDB.Collection("users"))
		mongo.EnsureExerciseIndexes(ctx, appDB.Collection("exercises"))
		mongo.EnsureStudentIndexes(ctx, appDB.Collection("students"))
		mongo.EnsureRoutineIndexes(ctx, appDB.Collection("routines"))
		mongo.EnsureAssignmentIndexes(ctx, appDB.Collection("assignments"))
		logger.Info("index creation completed")
	}()

	userRepo := mongo.NewMongoUserRepository(appDB)
	exerciseRepo := mongo.NewMongoExerciseRepository(appDB)
	studentRepo := mongo.NewMongoStudentRepository(appDB)
	routineRepo := mongo.NewMongoRoutineRepository(appDB)
	assignmentRepo := mongo.NewMongoAssignmentRepository(appDB)

	authService := service.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.Expiration)
	exerciseService := service.NewExerciseService(exerciseRepo, routineRepo)
	studentService := service.NewStudentService(studentRepo)
	routineService := service.NewRoutineService(routineRepo, exerciseRepo, assignmentRepo)
	assignmentService := service.NewAssignmentService(assignmentRepo, studentRepo, routineRepo)
	retentionService := service.NewRetentionService(
		studentRepo, routineRepo, assignmentRepo,
		cfg.Retention.InactiveStudentAge, cfg.Retention.StaleRoutineAge,
		logger,
	)

	scheduler := cron.New()
	if _, err := scheduler.AddFunc(cfg.Retention.Schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		if _, err := retentionService.PurgeInactiveStudents(ctx); err != nil {
			logger.Error("purging inactive students failed", zap.Error(err))
		}
		if _, err := retentionService.PurgeStaleRoutines(ctx); err != nil {
			logger.Error("purging stale routines failed", zap.Error(err))
		}
	}); err != nil {
		logger.Fatal("invalid retention schedule", zap.String("schedule", cfg.Retention.Schedule), zap.Error(err))
	}
	scheduler.Start()
	defer scheduler.Stop()

	if cfg.Server.Production {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	api.SetupRoutes(router, cfg.JWT.Secret, authService, exerciseService, studentService, routineService, assignmentService, retentionService)

	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("server starting", zap.String("address", cfg.Server.Address))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("listen and serve failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := server.Shutdown(ctxShutdown); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}
	logger.Info("server exited")
}
