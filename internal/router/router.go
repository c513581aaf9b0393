package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gymops/gym-ops-api/internal/handler"
	"github.com/gymops/gym-ops-api/internal/middleware"
	"github.com/gymops/gym-ops-api/internal/service"
	"github.com/gymops/gym-ops-api/pkg/config"
)

// Handlers bundles every HTTP handler wired into the engine.
type Handlers struct {
	Metrics        *handler.MetricsHandler
	Schedules      *handler.ScheduleHandler
	Shifts         *handler.ShiftHandler
	Sessions       *handler.SessionHandler
	Memberships    *handler.MembershipHandler
	Reservations   *handler.ReservationHandler
	Reconciliation *handler.ReconciliationHandler
}

// Register mounts all routes. Operational endpoints stay outside the API
// prefix and outside authentication; everything else requires a valid token
// plus the role listed on the route.
func Register(r *gin.Engine, cfg *config.Config, auth *service.AuthService, h Handlers) {
	r.GET("/health", h.Metrics.Health)
	r.GET("/ready", h.Metrics.Health)
	r.GET("/metrics", h.Metrics.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.Use(middleware.JWT(auth))

	staff := []string{"ADMIN", "RECEPTION"}

	classes := api.Group("/classes")
	{
		classes.POST("/:id/schedule", middleware.RBAC("ADMIN"), h.Schedules.CreateRule)
		classes.PUT("/:id/schedule", middleware.RBAC("ADMIN"), h.Schedules.ReplaceRule)
		classes.GET("/:id/schedule", middleware.RBAC("ADMIN", "RECEPTION", "TRAINER"), h.Schedules.GetRule)
		classes.DELETE("/:id/schedule", middleware.RBAC("ADMIN"), h.Schedules.RemoveRule)
		classes.GET("/:id/occupancy", middleware.RBAC("ADMIN", "RECEPTION", "TRAINER"), h.Reservations.WeekOccupancy)
	}

	trainers := api.Group("/trainers")
	{
		trainers.GET("/:trainerId/week", middleware.RBAC("ADMIN", "RECEPTION", "SELF"), h.Schedules.TrainerWeek)
		trainers.POST("/:trainerId/shifts", middleware.RBAC("ADMIN"), h.Shifts.Assign)
		trainers.GET("/:trainerId/shifts", middleware.RBAC("ADMIN", "RECEPTION", "SELF"), h.Shifts.List)
		trainers.GET("/:trainerId/shift-exchanges", middleware.RBAC("ADMIN", "SELF"), h.Shifts.Exchanges)
	}

	api.DELETE("/shifts/:id", middleware.RBAC("ADMIN"), h.Shifts.Remove)

	exchanges := api.Group("/shift-exchanges", middleware.RBAC("TRAINER"))
	{
		exchanges.POST("", h.Shifts.Propose)
		exchanges.PUT("/:id/accept", h.Shifts.Accept)
		exchanges.PUT("/:id/reject", h.Shifts.Reject)
	}

	sessions := api.Group("/sessions")
	{
		sessions.POST("", middleware.RBAC(staff...), h.Sessions.Book)
		sessions.PUT("/:id/complete", middleware.RBAC("ADMIN", "RECEPTION", "TRAINER"), h.Sessions.Complete)
		sessions.PUT("/:id/cancel", middleware.RBAC(staff...), h.Sessions.Cancel)
		sessions.PUT("/:id/no-show", middleware.RBAC("ADMIN", "RECEPTION", "TRAINER"), h.Sessions.NoShow)
	}

	members := api.Group("/members")
	{
		members.POST("/:memberId/membership", middleware.RBAC(staff...), h.Memberships.Assign)
		members.GET("/:memberId/membership", middleware.RBAC("ADMIN", "RECEPTION", "SELF"), h.Memberships.Current)
		members.GET("/:memberId/memberships", middleware.RBAC("ADMIN", "RECEPTION", "SELF"), h.Memberships.History)
		members.GET("/:memberId/sessions", middleware.RBAC("ADMIN", "RECEPTION", "SELF"), h.Sessions.ListForMember)
	}

	memberships := api.Group("/memberships", middleware.RBAC(staff...))
	{
		memberships.PUT("/:id/pause", h.Memberships.Pause)
		memberships.PUT("/:id/resume", h.Memberships.Resume)
		memberships.PUT("/:id/cancel", h.Memberships.Cancel)
	}

	reservations := api.Group("/reservations")
	{
		reservations.POST("", middleware.RBAC("ADMIN", "RECEPTION", "MEMBER"), h.Reservations.Reserve)
		reservations.PUT("/:id/cancel", middleware.RBAC(staff...), h.Reservations.Cancel)
		reservations.PUT("/:id/attend", middleware.RBAC(staff...), h.Reservations.Attend)
	}

	api.POST("/reconciliation/run", middleware.RBAC("ADMIN"), h.Reconciliation.Run)
}
