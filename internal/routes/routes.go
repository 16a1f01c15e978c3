package routes

import (
	"context"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/luminance-studio/studio-scheduler/internal/audit"
	"github.com/luminance-studio/studio-scheduler/internal/config"
	domain "github.com/luminance-studio/studio-scheduler/internal/domain/booking"
	"github.com/luminance-studio/studio-scheduler/internal/handlers"
	"github.com/luminance-studio/studio-scheduler/internal/infra/gateway"
	"github.com/luminance-studio/studio-scheduler/internal/infra/repository"
	"github.com/luminance-studio/studio-scheduler/internal/infra/storage"
	"github.com/luminance-studio/studio-scheduler/internal/middleware"
	"github.com/luminance-studio/studio-scheduler/internal/notify"
	"github.com/luminance-studio/studio-scheduler/internal/redisclient"
	ucbooking "github.com/luminance-studio/studio-scheduler/internal/usecase/booking"
	ucpayment "github.com/luminance-studio/studio-scheduler/internal/usecase/payment"
	"github.com/luminance-studio/studio-scheduler/internal/worker"
)

// ======================================================
// Composición: acá se arman los singletons de infra,
// los usecases y las rutas. cmd/api solo llama Setup.
// ======================================================

func Setup(r *gin.Engine, db *gorm.DB, cfg *config.Config) *worker.Scheduler {

	// ----- infra -----
	repo := repository.NewBookingGormRepository(db)

	var locker redisclient.Locker
	if rdb := redisclient.New(cfg); rdb != nil {
		locker = redisclient.NewSlotLocker(rdb, 10*time.Second)
	}

	auditD := audit.NewDispatcher(audit.New(db))
	notifyD := notify.NewDispatcher(
		notify.NewEmailSender(cfg),
		notify.NewWhatsAppSender(cfg),
	)

	var gw ucpayment.Gateway
	if cfg.MPAccessToken != "" {
		mp, err := gateway.NewMercadoPago(cfg)
		if err != nil {
			log.Printf("mercadopago disabled: %v", err)
		} else {
			gw = mp
		}
	}

	store := storage.NewImageStore(cfg)

	// ----- usecases -----
	pol := domain.SlotPolicy{
		Step:       time.Duration(cfg.SlotStepMinutes) * time.Minute,
		MinAdvance: time.Duration(cfg.MinAdvanceHours) * time.Hour,
		MaxAdvance: time.Duration(cfg.MaxAdvanceDays) * 24 * time.Hour,
	}

	getAvailability := ucbooking.NewGetAvailability(repo, pol)
	reserve := ucbooking.NewReserve(repo, locker, auditD, pol)
	confirm := ucbooking.NewConfirm(repo, auditD, notifyD)
	cancel := ucbooking.NewCancel(
		repo, auditD, notifyD,
		time.Duration(cfg.CancelCutoffHours)*time.Hour,
	)
	list := ucbooking.NewListAppointments(repo)
	sweep := ucbooking.NewLifecycleSweep(
		repo, auditD, notifyD,
		time.Duration(cfg.PendingTimeoutMinutes)*time.Minute,
		time.Duration(cfg.ReminderHoursBefore)*time.Hour,
	)

	var checkout *ucpayment.CreateCheckout
	var webhook *ucpayment.ProcessWebhook
	var refund *ucpayment.RefundPayment
	if gw != nil {
		checkout = ucpayment.NewCreateCheckout(repo, gw, auditD)

		// pago aprobado → confirmación del turno, sin admin de por medio
		confirmFn := func(ctx context.Context, appointmentID uint, now time.Time) error {
			_, err := confirm.Execute(ctx, appointmentID, nil, now)
			return err
		}
		webhook = ucpayment.NewProcessWebhook(repo, gw, auditD, confirmFn)
		refund = ucpayment.NewRefundPayment(repo, gw, auditD)
	}

	// ----- handlers -----
	authH := handlers.NewAuthHandler(db, cfg)
	availabilityH := handlers.NewAvailabilityHandler(cfg, repo, getAvailability)
	appointmentH := handlers.NewAppointmentHandler(cfg, reserve, cancel, confirm, list)
	paymentH := handlers.NewPaymentHandler(cfg, checkout, webhook, refund)
	serviceH := handlers.NewServiceHandler(db, store)
	calendarH := handlers.NewCalendarHandler(db, cfg)
	auditH := handlers.NewAuditLogsHandler(db)

	// ----- rutas -----
	public := r.Group("/")
	{
		public.POST("/auth/register", authH.Register)
		public.POST("/auth/login", authH.Login)

		public.GET("/services", availabilityH.ListServices)
		public.GET("/availability", availabilityH.GetAvailability)

		public.POST("/webhooks/mercadopago", paymentH.Webhook)
	}

	customer := r.Group("/", middleware.AuthMiddleware(cfg))
	{
		customer.POST("/appointments", appointmentH.Reserve)
		customer.GET("/appointments/me", appointmentH.ListMine)
		customer.PATCH("/appointments/:id/cancel", appointmentH.CancelMine)
		customer.POST("/appointments/:id/checkout", paymentH.CreateCheckout)
	}

	admin := r.Group("/admin", middleware.AuthMiddleware(cfg), middleware.RequireAdmin())
	{
		admin.GET("/appointments", appointmentH.AdminAgenda)
		admin.PATCH("/appointments/:id/confirm", appointmentH.AdminConfirm)
		admin.PATCH("/appointments/:id/cancel", appointmentH.AdminCancel)

		admin.POST("/payments/:id/refund", paymentH.AdminRefund)

		admin.GET("/services", serviceH.List)
		admin.POST("/services", serviceH.Create)
		admin.PUT("/services/:id", serviceH.Update)
		admin.DELETE("/services/:id", serviceH.Deactivate)
		admin.POST("/services/:id/image", serviceH.UploadImage)

		admin.GET("/calendar/weekly", calendarH.ListWeekly)
		admin.PUT("/calendar/weekly", calendarH.UpsertWeekly)
		admin.GET("/calendar/overrides", calendarH.ListOverrides)
		admin.POST("/calendar/overrides", calendarH.CreateOverride)
		admin.DELETE("/calendar/overrides/:date", calendarH.DeleteOverride)

		admin.GET("/audit-logs", auditH.List)
	}

	return worker.NewScheduler(sweep, cfg)
}
