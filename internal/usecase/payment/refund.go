package payment

import (
	"context"
	"time"

	"github.com/luminance-studio/studio-scheduler/internal/audit"
	domain "github.com/luminance-studio/studio-scheduler/internal/domain/booking"
	"github.com/luminance-studio/studio-scheduler/internal/httperr"
	"github.com/luminance-studio/studio-scheduler/internal/models"
)

// RefundPayment es acción administrativa: solo un pago approved se reembolsa.
type RefundPayment struct {
	repo  Repository
	gw    Gateway
	audit *audit.Dispatcher
}

func NewRefundPayment(
	repo Repository,
	gw Gateway,
	auditD *audit.Dispatcher,
) *RefundPayment {
	return &RefundPayment{
		repo:  repo,
		gw:    gw,
		audit: auditD,
	}
}

func (uc *RefundPayment) Execute(
	ctx context.Context,
	paymentID uint,
	adminID uint,
	now time.Time,
) (*models.Payment, error) {

	p, err := uc.repo.GetPayment(ctx, paymentID)
	if err != nil || p == nil {
		return nil, httperr.ErrNotFound("payment_not_found")
	}

	if domain.PaymentStatus(p.Status) != domain.PaymentApproved {
		return nil, httperr.ErrInvalid("invalid_state")
	}

	if err := uc.gw.Refund(ctx, p.GatewayPaymentID); err != nil {
		return nil, httperr.ErrDependency("payment_gateway_error")
	}

	p.Status = string(domain.PaymentRefunded)
	p.RefundedAt = &now

	if err := uc.repo.UpdatePayment(ctx, p); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &adminID,
		Action:   "payment_refunded",
		Entity:   "payment",
		EntityID: &p.ID,
	})

	return p, nil
}
