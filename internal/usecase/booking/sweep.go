package booking

import (
	"context"
	"time"

	"github.com/luminance-studio/studio-scheduler/internal/audit"
	domain "github.com/luminance-studio/studio-scheduler/internal/domain/booking"
	"github.com/luminance-studio/studio-scheduler/internal/notify"
)

// LifecycleSweep agrupa las transiciones programadas que corre el worker:
// timeout de pago pendiente, auto-complete de confirmados pasados y
// recordatorios. Todas son idempotentes: correrlas dos veces da lo mismo.
type LifecycleSweep struct {
	repo           domain.Repository
	audit          *audit.Dispatcher
	notify         *notify.Dispatcher
	pendingTimeout time.Duration
	reminderBefore time.Duration
}

func NewLifecycleSweep(
	repo domain.Repository,
	auditD *audit.Dispatcher,
	notifyD *notify.Dispatcher,
	pendingTimeout time.Duration,
	reminderBefore time.Duration,
) *LifecycleSweep {
	return &LifecycleSweep{
		repo:           repo,
		audit:          auditD,
		notify:         notifyD,
		pendingTimeout: pendingTimeout,
		reminderBefore: reminderBefore,
	}
}

// ExpirePending cancela los pending sin pago confirmado: los creados hace más
// de pendingTimeout y los que ya arrancaron. El slot vuelve a quedar libre
// porque cancelled sale de las queries de overlap.
func (uc *LifecycleSweep) ExpirePending(ctx context.Context, now time.Time) (int, error) {
	expired, err := uc.repo.ListExpiredPending(
		ctx,
		now.Add(-uc.pendingTimeout),
		now,
	)
	if err != nil {
		return 0, err
	}

	count := 0
	for i := range expired {
		ap := &expired[i]

		if !domain.Expire(ap, now) {
			continue
		}
		if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
			return count, err
		}

		count++
		uc.audit.Dispatch(audit.Event{
			Action:   "appointment_expired",
			Entity:   "appointment",
			EntityID: &ap.ID,
		})
	}

	return count, nil
}

// CompleteFinished pasa a completed los confirmados cuyo fin ya pasó.
func (uc *LifecycleSweep) CompleteFinished(ctx context.Context, now time.Time) (int, error) {
	finished, err := uc.repo.ListFinishedConfirmed(ctx, now)
	if err != nil {
		return 0, err
	}

	count := 0
	for i := range finished {
		ap := &finished[i]

		if err := domain.Complete(ap, now); err != nil {
			continue
		}
		if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
			return count, err
		}
		count++
	}

	return count, nil
}

// SendReminders manda el recordatorio previo a los turnos que caen dentro de
// la ventana [now, now+reminderBefore] y todavía no lo recibieron.
func (uc *LifecycleSweep) SendReminders(ctx context.Context, now time.Time) (int, error) {
	due, err := uc.repo.ListReminderDue(ctx, now, now.Add(uc.reminderBefore))
	if err != nil {
		return 0, err
	}

	sent := 0
	for i := range due {
		ap := &due[i]

		uc.notify.Dispatch(notify.Event{
			Template:    notify.TemplateReminder,
			Name:        ap.User.Name,
			Email:       ap.User.Email,
			Phone:       ap.User.Phone,
			ServiceName: ap.Service.Name,
			StartTime:   ap.StartTime,
		})

		ap.ReminderSent = true
		if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
			return sent, err
		}
		sent++
	}

	return sent, nil
}
