package httpapi

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/KevinMitsi/MotorX-backend-sub001/internal/config"
	"github.com/KevinMitsi/MotorX-backend-sub001/internal/db"
	"github.com/KevinMitsi/MotorX-backend-sub001/internal/http/handlers"
	"github.com/KevinMitsi/MotorX-backend-sub001/internal/http/middleware"
	"github.com/KevinMitsi/MotorX-backend-sub001/internal/service"

	_ "github.com/KevinMitsi/MotorX-backend-sub001/docs"
)

func Router(cfg config.Config, store *db.Store, scheduler *service.Scheduler, logger zerolog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Admin-Key", "X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if cfg.CORSAllowed == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = []string{cfg.CORSAllowed}
	}
	r.Use(cors.New(corsCfg))

	h := &handlers.Handler{
		Store:     store,
		Scheduler: scheduler,
		Validator: validator.New(),
		Logger:    logger,
		AdminKey:  cfg.AdminKey,
	}

	r.GET("/healthz", h.Healthz)

	api := r.Group("/api")
	{
		api.GET("/slots", h.SlotsList)
		api.GET("/plate-restriction", h.PlateRestriction)
		api.POST("/appointments", h.ScheduleAppointment)
		api.GET("/appointments/:id", h.AppointmentDetails)
	}

	admin := api.Group("")
	admin.Use(middleware.AdminKey(cfg.AdminKey))
	{
		admin.GET("/appointments", h.AppointmentsList)
		admin.POST("/appointments/unplanned", h.ScheduleUnplanned)
		admin.POST("/appointments/:id/cancel", h.CancelAppointment)
		admin.POST("/appointments/:id/reassign", h.ReassignTechnician)
		admin.GET("/technicians", h.TechniciansList)
		admin.PUT("/technicians/:id/state", h.SetTechnicianState)
	}

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}
