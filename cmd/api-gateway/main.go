package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	_ "github.com/gymops/gym-ops-api/api/swagger"
	"github.com/gymops/gym-ops-api/internal/handler"
	"github.com/gymops/gym-ops-api/internal/middleware"
	"github.com/gymops/gym-ops-api/internal/repository"
	"github.com/gymops/gym-ops-api/internal/router"
	"github.com/gymops/gym-ops-api/internal/service"
	"github.com/gymops/gym-ops-api/pkg/cache"
	"github.com/gymops/gym-ops-api/pkg/config"
	"github.com/gymops/gym-ops-api/pkg/database"
	"github.com/gymops/gym-ops-api/pkg/lock"
	"github.com/gymops/gym-ops-api/pkg/logger"
	corsmiddleware "github.com/gymops/gym-ops-api/pkg/middleware/cors"
	reqidmiddleware "github.com/gymops/gym-ops-api/pkg/middleware/requestid"
)

// @title Gym Ops API
// @version 1.0.0
// @description Scheduling and membership state engine for the gym back office
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	var locker lock.Locker = lock.NoopLocker{}
	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, scheduling locks disabled", "error", err)
	} else {
		defer redisClient.Close()
		locker = lock.NewRedisLocker(redisClient)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	validate := validator.New()

	notifications := service.NewNotificationService(cfg.Notifications, logr)
	notifications.Start(ctx)
	defer notifications.Stop()

	metrics := service.NewMetricsService()
	auth := service.NewAuthService(cfg.JWT)

	slotRepo := repository.NewSlotRepository(db)
	classRepo := repository.NewClassRepository(db)
	trainerRepo := repository.NewTrainerRepository(db)
	memberRepo := repository.NewMemberRepository(db)
	membershipRepo := repository.NewMembershipRepository(db)
	planRepo := repository.NewPlanRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	occurrenceRepo := repository.NewOccurrenceRepository(db)
	reservationRepo := repository.NewReservationRepository(db)
	exchangeRepo := repository.NewExchangeRepository(db)

	schedules := service.NewClassScheduleService(slotRepo, classRepo, locker, cfg.Booking, notifications, validate, logr)
	shifts := service.NewShiftService(slotRepo, trainerRepo, locker, cfg.Booking, notifications, validate, logr)
	sessions := service.NewSessionService(sessionRepo, slotRepo, trainerRepo, memberRepo, locker, cfg.Booking, notifications, validate, logr)
	memberships := service.NewMembershipService(membershipRepo, planRepo, paymentRepo, memberRepo, notifications, validate, logr)
	reservations := service.NewReservationService(occurrenceRepo, reservationRepo, slotRepo, classRepo, membershipRepo, locker, cfg.Booking, notifications, validate, logr)
	exchanges := service.NewShiftExchangeService(exchangeRepo, slotRepo, notifications, validate, logr)
	reconciliation := service.NewReconciliationService(membershipRepo, memberRepo, reservationRepo, sessionRepo, metrics, cfg.Reconciliation, logr)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	router.Register(r, cfg, auth, router.Handlers{
		Metrics:        handler.NewMetricsHandler(metrics),
		Schedules:      handler.NewScheduleHandler(schedules),
		Shifts:         handler.NewShiftHandler(shifts, exchanges),
		Sessions:       handler.NewSessionHandler(sessions),
		Memberships:    handler.NewMembershipHandler(memberships),
		Reservations:   handler.NewReservationHandler(reservations),
		Reconciliation: handler.NewReconciliationHandler(reconciliation),
	})

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: r,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Sugar().Infow("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("server shutdown failed", "error", err)
	}
}
