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

type CancelInput struct {
	AppointmentID uint

	// UserID != nil: cancela el cliente dueño del turno, con política de
	// cutoff. nil: cancela un admin, sin cutoff.
	UserID *uint
	Reason string
}

type Cancel struct {
	repo   domain.Repository
	audit  *audit.Dispatcher
	notify *notify.Dispatcher
	cutoff time.Duration
}

func NewCancel(
	repo domain.Repository,
	auditD *audit.Dispatcher,
	notifyD *notify.Dispatcher,
	cutoff time.Duration,
) *Cancel {
	return &Cancel{
		repo:   repo,
		audit:  auditD,
		notify: notifyD,
		cutoff: cutoff,
	}
}

func (uc *Cancel) Execute(
	ctx context.Context,
	in CancelInput,
	now time.Time,
) (*models.Appointment, error) {

	var ap *models.Appointment
	var err error

	if in.UserID != nil {
		ap, err = uc.repo.GetAppointmentForUser(ctx, in.AppointmentID, *in.UserID)
	} else {
		ap, err = uc.repo.GetAppointment(ctx, in.AppointmentID)
	}
	if err != nil || ap == nil {
		return nil, httperr.ErrNotFound("appointment_not_found")
	}

	if !now.Before(ap.StartTime) {
		return nil, httperr.ErrInvalid("already_started")
	}

	// cutoff de cancelación: regla, no constraint — aplica al cliente sobre
	// turnos confirmados; el admin puede pasar por encima
	if in.UserID != nil &&
		domain.Status(ap.Status) == domain.StatusConfirmed &&
		now.After(ap.StartTime.Add(-uc.cutoff)) {
		return nil, httperr.ErrPolicy("cancellation_cutoff")
	}

	if err := domain.Cancel(ap, now, in.Reason); err != nil {
		return nil, err
	}

	// al quedar cancelled el turno sale solo de las queries de overlap;
	// no hay paso extra de liberación del slot
	if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   in.UserID,
		Action:   "appointment_cancelled",
		Entity:   "appointment",
		EntityID: &ap.ID,
	})

	uc.dispatchNotification(ctx, ap)

	return ap, nil
}

func (uc *Cancel) dispatchNotification(ctx context.Context, ap *models.Appointment) {
	user, err := uc.repo.GetUser(ctx, ap.UserID)
	if err != nil || user == nil {
		return
	}

	service, _ := uc.repo.GetService(ctx, ap.ServiceID)
	serviceName := ""
	if service != nil {
		serviceName = service.Name
	}

	uc.notify.Dispatch(notify.Event{
		Template:    notify.TemplateCancelled,
		Name:        user.Name,
		Email:       user.Email,
		Phone:       user.Phone,
		ServiceName: serviceName,
		StartTime:   ap.StartTime,
	})
}
