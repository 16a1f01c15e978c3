package payment

import (
	"context"
	"strconv"
	"time"

	"github.com/luminance-studio/studio-scheduler/internal/audit"
	domain "github.com/luminance-studio/studio-scheduler/internal/domain/booking"
	"github.com/luminance-studio/studio-scheduler/internal/httperr"
	"github.com/luminance-studio/studio-scheduler/internal/models"
)

// ======================================================
// WEBHOOK
// ======================================================

// ConfirmFn desacopla la transición del turno: el webhook solo decide el
// estado del pago y delega la confirmación (con su notificación) al usecase
// de booking.
type ConfirmFn func(ctx context.Context, appointmentID uint, now time.Time) error

type ProcessWebhook struct {
	repo    Repository
	gw      Gateway
	audit   *audit.Dispatcher
	confirm ConfirmFn
}

func NewProcessWebhook(
	repo Repository,
	gw Gateway,
	auditD *audit.Dispatcher,
	confirm ConfirmFn,
) *ProcessWebhook {
	return &ProcessWebhook{
		repo:    repo,
		gw:      gw,
		audit:   auditD,
		confirm: confirm,
	}
}

// Execute procesa la notificación del gateway para un pago. La firma del
// webhook ya viene verificada por el transporte. Reprocesar la misma
// notificación es un no-op.
func (uc *ProcessWebhook) Execute(
	ctx context.Context,
	gatewayPaymentID string,
	now time.Time,
) error {

	info, err := uc.gw.GetPayment(ctx, gatewayPaymentID)
	if err != nil {
		return httperr.ErrDependency("payment_gateway_error")
	}

	appointmentID, err := strconv.ParseUint(info.ExternalReference, 10, 32)
	if err != nil {
		return httperr.ErrInvalid("invalid_external_reference")
	}

	p, err := uc.repo.GetPaymentByAppointment(ctx, uint(appointmentID))
	if err != nil {
		return err
	}
	if p == nil {
		return httperr.ErrNotFound("payment_not_found")
	}

	switch info.Status {
	case "approved":
		return uc.applyApproved(ctx, p, info, now)

	case "rejected", "cancelled":
		if domain.PaymentStatus(p.Status) == domain.PaymentApproved {
			// un approved no retrocede por una notificación vieja
			return nil
		}
		p.Status = string(domain.PaymentRejected)
		p.GatewayPaymentID = info.ID
		p.ErrorMessage = info.StatusDetail
		return uc.repo.UpdatePayment(ctx, p)

	case "refunded":
		p.Status = string(domain.PaymentRefunded)
		p.GatewayPaymentID = info.ID
		p.RefundedAt = &now
		return uc.repo.UpdatePayment(ctx, p)

	default:
		// in_process / pending: nada que hacer todavía
		return nil
	}
}

func (uc *ProcessWebhook) applyApproved(
	ctx context.Context,
	p *models.Payment,
	info *GatewayPayment,
	now time.Time,
) error {

	if domain.PaymentStatus(p.Status) == domain.PaymentApproved {
		return nil // webhook repetido
	}

	p.Status = string(domain.PaymentApproved)
	p.GatewayPaymentID = info.ID
	p.ApprovedAt = &now

	if err := uc.repo.UpdatePayment(ctx, p); err != nil {
		return err
	}

	uc.audit.Dispatch(audit.Event{
		Action:   "payment_approved",
		Entity:   "payment",
		EntityID: &p.ID,
	})

	// pago aprobado → pending pasa a confirmed. Si el turno ya venció y el
	// barrido lo canceló, la transición falla como invalid y queda para
	// resolución manual (reembolso admin).
	if err := uc.confirm(ctx, p.AppointmentID, now); err != nil {
		if httperr.IsKind(err, httperr.KindInvalid) {
			uc.audit.Dispatch(audit.Event{
				Action:   "payment_approved_after_expiry",
				Entity:   "payment",
				EntityID: &p.ID,
			})
			return nil
		}
		return err
	}

	return nil
}
