package booking

import (
	"context"
	"time"

	"github.com/luminance-studio/studio-scheduler/internal/audit"
	domain "github.com/luminance-studio/studio-scheduler/internal/domain/booking"
	"github.com/luminance-studio/studio-scheduler/internal/httperr"
	"github.com/luminance-studio/studio-scheduler/internal/models"
	"github.com/luminance-studio/studio-scheduler/internal/notify"
)

// Confirm pasa un turno pending a confirmed. Lo dispara el webhook de pago
// aprobado o un admin para pagos offline (efectivo en el local).
type Confirm struct {
	repo   domain.Repository
	audit  *audit.Dispatcher
	notify *notify.Dispatcher
}

func NewConfirm(
	repo domain.Repository,
	auditD *audit.Dispatcher,
	notifyD *notify.Dispatcher,
) *Confirm {
	return &Confirm{
		repo:   repo,
		audit:  auditD,
		notify: notifyD,
	}
}

func (uc *Confirm) Execute(
	ctx context.Context,
	appointmentID uint,
	adminID *uint,
	now time.Time,
) (*models.Appointment, error) {

	ap, err := uc.repo.GetAppointment(ctx, appointmentID)
	if err != nil || ap == nil {
		return nil, httperr.ErrNotFound("appointment_not_found")
	}

	if err := domain.Confirm(ap, now); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   adminID,
		Action:   "appointment_confirmed",
		Entity:   "appointment",
		EntityID: &ap.ID,
	})

	if user, err := uc.repo.GetUser(ctx, ap.UserID); err == nil && user != nil {
		serviceName := ""
		if service, _ := uc.repo.GetService(ctx, ap.ServiceID); service != nil {
			serviceName = service.Name
		}
		uc.notify.Dispatch(notify.Event{
			Template:    notify.TemplateConfirmed,
			Name:        user.Name,
			Email:       user.Email,
			Phone:       user.Phone,
			ServiceName: serviceName,
			StartTime:   ap.StartTime,
		})
	}

	return ap, nil
}
