package v1

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/eliahealth/elia/internal/config"
	"github.com/eliahealth/elia/internal/service"
	"github.com/eliahealth/elia/pkg/metrics"
)

type RouterDeps struct {
	Config       *config.Config
	Patients     *service.PatientService
	Appointments *service.AppointmentService
	Audio        *service.AudioService
	Collector    *metrics.Collector
	Logger       *zap.Logger
}

func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.Config.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(Recovery(deps.Logger))
	r.Use(RequestLogger(deps.Logger))
	r.Use(Metrics(deps.Collector))
	r.Use(cors.New(cors.Config{
		AllowOrigins:  deps.Config.CORS.AllowedOrigins,
		AllowMethods:  deps.Config.CORS.AllowedMethods,
		AllowHeaders:  deps.Config.CORS.AllowedHeaders,
		MaxAge:        deps.Config.CORS.MaxAge,
		AllowWildcard: true,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"app":     deps.Config.App.Name,
			"version": deps.Config.App.Version,
		})
	})
	r.GET("/metrics", gin.WrapH(metrics.MetricsHandler()))

	patients := NewPatientHandler(deps.Patients)
	appointments := NewAppointmentHandler(deps.Appointments)
	audio := NewAudioHandler(deps.Audio)

	api := r.Group("/api")
	{
		pg := api.Group("/patients")
		{
			pg.GET("", patients.List)
			pg.GET("/:id", patients.Get)
			pg.GET("/:id/digital-portrait", patients.DigitalPortrait)
			pg.POST("/:id/blood-pressure", patients.UpdateBloodPressure)
			pg.POST("/:id/blood-pressure/recognize", patients.RecognizeBloodPressure)
		}

		ag := api.Group("/appointments")
		{
			ag.GET("", appointments.List)
			ag.GET("/:id", appointments.Get)
			ag.GET("/:id/report", appointments.GetReport)
			ag.POST("/:id/report", appointments.SaveReport)
			ag.POST("/:id/extract-anamnesis", appointments.ExtractAnamnesis)
			ag.POST("/:id/submit-to-mis", appointments.SubmitToMIS)
			ag.GET("/:id/download-pdf", appointments.DownloadPDF)
		}

		aug := api.Group("/audio")
		{
			aug.POST("/upload", audio.Upload)
			aug.GET("/:id", audio.Get)
			aug.POST("/:id/transcribe", audio.Transcribe)
			aug.GET("/:id/download", audio.Download)
		}
	}

	return r
}
