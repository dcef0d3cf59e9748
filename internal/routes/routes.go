package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	"github.com/BruksfildServices01/clinic-scheduler/internal/config"
	"github.com/BruksfildServices01/clinic-scheduler/internal/handlers"
	"github.com/BruksfildServices01/clinic-scheduler/internal/infra/lock"
	infraRepo "github.com/BruksfildServices01/clinic-scheduler/internal/infra/repository"
	"github.com/BruksfildServices01/clinic-scheduler/internal/infra/storage"
	"github.com/BruksfildServices01/clinic-scheduler/internal/logging"
	"github.com/BruksfildServices01/clinic-scheduler/internal/metrics"
	"github.com/BruksfildServices01/clinic-scheduler/internal/middleware"
	ucAppointment "github.com/BruksfildServices01/clinic-scheduler/internal/usecase/appointment"
	ucInvoice "github.com/BruksfildServices01/clinic-scheduler/internal/usecase/invoice"
)

// Deps carries the process-wide singletons built by main. Redis and Archive
// may be nil; booking then runs without the distributed lock and invoices
// are not archived.
type Deps struct {
	Logger  zerolog.Logger
	Audit   *audit.Dispatcher
	Metrics *metrics.ClinicMetrics
	Redis   *redis.Client
	Archive *storage.InvoiceArchive
}

func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config, deps Deps) {

	// ======================================================
	// MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(middleware.CORSMiddleware())

	// ======================================================
	// INFRA (SINGLETONS)
	// ======================================================
	appointmentRepo := infraRepo.NewAppointmentGormRepository(db)
	invoiceRepo := infraRepo.NewInvoiceGormRepository(db)

	var locker lock.BookingLocker = lock.NoopLocker{}
	if deps.Redis != nil {
		locker = lock.NewRedisLocker(deps.Redis, cfg.BookingLockTTL, logging.Component(deps.Logger, "booking_lock"))
	}

	var archiver ucInvoice.Archiver
	if deps.Archive.Enabled() {
		archiver = deps.Archive
	}

	// ======================================================
	// USE CASES: APPOINTMENTS
	// ======================================================
	appointmentLog := logging.Component(deps.Logger, "appointments")

	createAppointmentUC := ucAppointment.NewCreateAppointment(
		appointmentRepo,
		locker,
		deps.Audit,
		deps.Metrics,
		appointmentLog,
	)

	transitionAppointmentUC := ucAppointment.NewTransitionAppointment(
		appointmentRepo,
		deps.Audit,
		deps.Metrics,
		appointmentLog,
	)

	getAppointmentUC := ucAppointment.NewGetAppointment(appointmentRepo)
	listAppointmentsByDateUC := ucAppointment.NewListAppointmentsByDate(appointmentRepo)
	listAppointmentsByMonthUC := ucAppointment.NewListAppointmentsByMonth(appointmentRepo)
	availabilityUC := ucAppointment.NewGetAvailability(appointmentRepo)
	followUpsUC := ucAppointment.NewListFollowUps(appointmentRepo)

	// ======================================================
	// USE CASES: INVOICES
	// ======================================================
	previewInvoiceUC := ucInvoice.NewPreviewInvoice(invoiceRepo)

	createInvoiceUC := ucInvoice.NewCreateInvoice(
		invoiceRepo,
		archiver,
		deps.Audit,
		deps.Metrics,
		logging.Component(deps.Logger, "invoices"),
	)

	getInvoiceUC := ucInvoice.NewGetInvoice(invoiceRepo)
	listInvoicesUC := ucInvoice.NewListInvoicesByPatient(invoiceRepo)
	updatePaymentUC := ucInvoice.NewUpdatePayment(invoiceRepo, deps.Audit)

	// ======================================================
	// HANDLERS
	// ======================================================
	clinicHandler := handlers.NewClinicHandler(db)
	doctorHandler := handlers.NewDoctorHandler(db)
	patientHandler := handlers.NewPatientHandler(db)
	catalogItemHandler := handlers.NewCatalogItemHandler(db)
	workingHoursHandler := handlers.NewWorkingHoursHandler(db)
	auditLogsHandler := handlers.NewAuditLogsHandler(db)

	appointmentHandler := handlers.NewAppointmentHandler(
		createAppointmentUC,
		transitionAppointmentUC,
		getAppointmentUC,
		listAppointmentsByDateUC,
		listAppointmentsByMonthUC,
		availabilityUC,
		followUpsUC,
	)

	invoiceHandler := handlers.NewInvoiceHandler(
		previewInvoiceUC,
		createInvoiceUC,
		getInvoiceUC,
		listInvoicesUC,
		updatePaymentUC,
	)

	// ======================================================
	// OPERATIONAL
	// ======================================================
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// onboarding happens before a clinic id exists
		api.POST("/clinics", clinicHandler.Create)

		scoped := api.Group("/")
		scoped.Use(middleware.ClinicScope())
		{
			scoped.GET("/clinic", clinicHandler.Get)
			scoped.PATCH("/clinic", clinicHandler.UpdateConfig)

			// ------------------------------
			// DOCTORS
			// ------------------------------
			scoped.GET("/doctors", doctorHandler.List)
			scoped.POST("/doctors", doctorHandler.Create)
			scoped.PATCH("/doctors/:id", doctorHandler.Update)
			scoped.GET("/doctors/:id/working-hours", workingHoursHandler.Get)
			scoped.PUT("/doctors/:id/working-hours", workingHoursHandler.Update)
			scoped.GET("/doctors/:id/availability", appointmentHandler.Availability)

			// ------------------------------
			// PATIENTS / CATALOG
			// ------------------------------
			scoped.GET("/patients", patientHandler.List)
			scoped.POST("/patients", patientHandler.Create)
			scoped.GET("/patients/:id", patientHandler.Get)
			scoped.GET("/patients/:id/invoices", invoiceHandler.ListByPatient)

			scoped.GET("/catalog-items", catalogItemHandler.List)
			scoped.POST("/catalog-items", catalogItemHandler.Create)
			scoped.PATCH("/catalog-items/:id", catalogItemHandler.Update)

			// ------------------------------
			// APPOINTMENTS
			// ------------------------------
			scoped.POST("/appointments", appointmentHandler.Create)
			scoped.GET("/appointments", appointmentHandler.ListByDate)
			scoped.GET("/appointments/month", appointmentHandler.ListByMonth)
			scoped.GET("/appointments/follow-ups", appointmentHandler.FollowUps)
			scoped.GET("/appointments/:id", appointmentHandler.Get)
			scoped.GET("/appointments/:id/actions", appointmentHandler.AllowedActions)
			scoped.POST("/appointments/:id/transitions", appointmentHandler.Transition)

			// ------------------------------
			// INVOICES
			// ------------------------------
			scoped.POST("/invoices/preview", invoiceHandler.Preview)
			scoped.POST("/invoices", invoiceHandler.Create)
			scoped.GET("/invoices/:id", invoiceHandler.Get)
			scoped.PATCH("/invoices/:id/payment", invoiceHandler.UpdatePayment)

			scoped.GET("/audit-logs", auditLogsHandler.List)
		}
	}
}
