package payment

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/luminance-studio/studio-scheduler/internal/audit"
	domain "github.com/luminance-studio/studio-scheduler/internal/domain/booking"
	"github.com/luminance-studio/studio-scheduler/internal/httperr"
	"github.com/luminance-studio/studio-scheduler/internal/models"
)

// ======================================================
// CHECKOUT
// ======================================================

type CreateCheckout struct {
	repo  Repository
	gw    Gateway
	audit *audit.Dispatcher
}

func NewCreateCheckout(
	repo Repository,
	gw Gateway,
	auditD *audit.Dispatcher,
) *CreateCheckout {
	return &CreateCheckout{
		repo:  repo,
		gw:    gw,
		audit: auditD,
	}
}

type CheckoutResult struct {
	Payment          *models.Payment `json:"payment"`
	InitPoint        string          `json:"init_point"`
	SandboxInitPoint string          `json:"sandbox_init_point"`
}

// Execute crea la preferencia de pago de un turno pending. Un fallo del
// gateway acá se devuelve al caller: sin pago no hay confirmación.
func (uc *CreateCheckout) Execute(
	ctx context.Context,
	appointmentID uint,
	userID uint,
	now time.Time,
) (*CheckoutResult, error) {

	ap, err := uc.repo.GetAppointmentForUser(ctx, appointmentID, userID)
	if err != nil || ap == nil {
		return nil, httperr.ErrNotFound("appointment_not_found")
	}

	if domain.Status(ap.Status) != domain.StatusPending {
		return nil, httperr.ErrInvalid("invalid_state")
	}

	service, err := uc.repo.GetService(ctx, ap.ServiceID)
	if err != nil || service == nil {
		return nil, httperr.ErrNotFound("service_not_found")
	}

	// one-to-one: si ya hay un pago vivo para este turno, no se crea otro.
	// Un pago rechazado se reutiliza para el reintento.
	existing, err := uc.repo.GetPaymentByAppointment(ctx, ap.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil && domain.PaymentStatus(existing.Status) != domain.PaymentRejected {
		return nil, httperr.ErrInvalid("payment_already_exists")
	}

	pref, err := uc.gw.CreatePreference(ctx, PreferenceInput{
		AppointmentID: ap.ID,
		Title:         service.Name,
		Description:   service.Description,
		Amount:        service.Price,
		Currency:      "ARS",
	})
	if err != nil {
		return nil, httperr.ErrDependency("payment_gateway_error")
	}

	var p *models.Payment
	if existing != nil {
		existing.Status = string(domain.PaymentInitiated)
		existing.GatewayPreferenceID = pref.ID
		existing.ErrorMessage = ""
		if err := uc.repo.UpdatePayment(ctx, existing); err != nil {
			return nil, err
		}
		p = existing
	} else {
		p = &models.Payment{
			AppointmentID:       ap.ID,
			UserID:              userID,
			Amount:              service.Price,
			Currency:            "ARS",
			Status:              string(domain.PaymentInitiated),
			GatewayPreferenceID: pref.ID,
			TransactionID:       uuid.NewString(),
		}
		if err := uc.repo.CreatePayment(ctx, p); err != nil {
			return nil, err
		}
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &userID,
		Action:   "payment_checkout_created",
		Entity:   "payment",
		EntityID: &p.ID,
	})

	return &CheckoutResult{
		Payment:          p,
		InitPoint:        pref.InitPoint,
		SandboxInitPoint: pref.SandboxInitPoint,
	}, nil
}
