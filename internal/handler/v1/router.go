package v1

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/citaflow/citaflow/internal/config"
	"github.com/citaflow/citaflow/pkg/auth"
	"github.com/citaflow/citaflow/pkg/metrics"
)

type Handlers struct {
	Auth         *AuthHandler
	Availability *AvailabilityHandler
	Appointment  *AppointmentHandler
	Patient      *PatientHandler
	Doctor       *DoctorHandler
	History      *HistoryHandler
}

func NewRouter(
	cfg *config.Config,
	handlers Handlers,
	jwtManager *auth.JWTManager,
	collector *metrics.Collector,
	log *zap.Logger,
) *gin.Engine {
	if cfg.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestID())
	r.Use(RequestLogger(log))
	r.Use(Metrics(collector))
	r.Use(Tracing(cfg.Tracing.ServiceName))
	r.Use(RateLimit(cfg.RateLimit))
	r.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORS.AllowedOrigins,
		AllowMethods: cfg.CORS.AllowedMethods,
		AllowHeaders: cfg.CORS.AllowedHeaders,
		MaxAge:       cfg.CORS.MaxAge,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "version": cfg.App.Version})
	})
	r.GET("/metrics", gin.WrapH(metrics.MetricsHandler()))

	authGroup := r.Group("/api/v1/auth")
	{
		authGroup.POST("/login", handlers.Auth.Login)
		authGroup.POST("/refresh", handlers.Auth.Refresh)
	}

	// Legacy clinic paths; kept verbatim so existing clients keep working.
	citas := r.Group("/citas")
	{
		citas.GET("/disponibilidad/", handlers.Availability.Get)
		citas.POST("/agendar/", handlers.Appointment.Schedule)

		citas.GET("/gestionarcita/", handlers.Appointment.Find)
		citas.PATCH("/gestionarcita/", handlers.Appointment.Reschedule)
		citas.DELETE("/gestionarcita/", handlers.Appointment.Cancel)

		citas.GET("/paciente/", handlers.Patient.List)
		citas.POST("/paciente/", handlers.Patient.Create)
		citas.GET("/paciente/:id", handlers.Patient.Get)
		citas.PUT("/paciente/:id", handlers.Patient.Update)
		citas.DELETE("/paciente/:id", handlers.Patient.Delete)

		citas.GET("/medico/", handlers.Doctor.List)
		citas.POST("/medico/", RequireAdmin(jwtManager), handlers.Doctor.Create)

		citas.GET("/historial/:id_paciente", handlers.History.List)
		citas.POST("/historial/", handlers.History.Append)
	}

	return r
}
