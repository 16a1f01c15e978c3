package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/luminance-studio/studio-scheduler/internal/audit"
	domain "github.com/luminance-studio/studio-scheduler/internal/domain/booking"
	"github.com/luminance-studio/studio-scheduler/internal/httperr"
	"github.com/luminance-studio/studio-scheduler/internal/models"
	"github.com/luminance-studio/studio-scheduler/internal/redisclient"
)

// ======================================================
// INPUT
// ======================================================

type ReserveInput struct {
	UserID    uint
	ServiceID uint
	StartAt   time.Time // ya en el timezone del negocio
	Notes     string
}

// ======================================================
// USE CASE
// ======================================================

// Reserve es el coordinador de reservas. La llamada previa a disponibilidad
// es consultiva; acá se recalcula todo adentro de una transacción
// serializable, y la exclusion constraint de Postgres es la garantía final.
// El lock de redis por slot es solo la primera barrera: ocupado → Conflict.
type Reserve struct {
	repo   domain.Repository
	locker redisclient.Locker
	audit  *audit.Dispatcher
	pol    domain.SlotPolicy
}

func NewReserve(
	repo domain.Repository,
	locker redisclient.Locker,
	auditD *audit.Dispatcher,
	pol domain.SlotPolicy,
) *Reserve {
	return &Reserve{
		repo:   repo,
		locker: locker,
		audit:  auditD,
		pol:    pol,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *Reserve) Execute(
	ctx context.Context,
	in ReserveInput,
	now time.Time,
) (*models.Appointment, error) {

	var created *models.Appointment

	reserve := func(ctx context.Context) error {
		return uc.repo.InTx(ctx, func(tx domain.Repository) error {
			ap, err := uc.reserveInTx(ctx, tx, in, now)
			if err != nil {
				return err
			}
			created = ap
			return nil
		})
	}

	var err error
	if uc.locker != nil {
		err = uc.locker.WithSlotLock(ctx, slotKey(in.StartAt), reserve)
		if errors.Is(err, redisclient.ErrLockNotAcquired) {
			err = httperr.ErrConflict("slot_locked")
		}
	} else {
		err = reserve(ctx)
	}

	if err != nil {
		// la constraint o un serialization failure pisándose con otra
		// reserva equivalen a un conflicto reintentable
		if httperr.IsExclusionConflict(err) || httperr.IsRetryableTxFailure(err) {
			err = httperr.ErrConflict("time_conflict")
		}

		if httperr.IsKind(err, httperr.KindConflict) {
			uc.audit.Dispatch(audit.Event{
				UserID: &in.UserID,
				Action: "appointment_conflict",
				Entity: "appointment",
				Metadata: map[string]any{
					"service_id": in.ServiceID,
					"start":      in.StartAt,
				},
			})
		}
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &in.UserID,
		Action:   "appointment_created",
		Entity:   "appointment",
		EntityID: &created.ID,
	})

	return created, nil
}

// reserveInTx corre los dos chequeos del coordinador con el ledger vivo:
//
//  1. el start pedido tiene que ser exactamente un slot que el cálculo de
//     disponibilidad produciría ahora (servicio activo, ventana, alineación,
//     límites de anticipación) → InvalidRequest
//  2. re-chequeo de overlap semiabierto contra los turnos no cancelados,
//     con FOR UPDATE → Conflict
func (uc *Reserve) reserveInTx(
	ctx context.Context,
	tx domain.Repository,
	in ReserveInput,
	now time.Time,
) (*models.Appointment, error) {

	service, err := tx.GetService(ctx, in.ServiceID)
	if err != nil {
		return nil, err
	}
	if service == nil {
		return nil, httperr.ErrNotFound("service_not_found")
	}
	if !service.Active {
		return nil, httperr.ErrInvalid("service_inactive")
	}

	rule, err := tx.GetWeeklyRule(ctx, int(in.StartAt.Weekday()))
	if err != nil {
		return nil, err
	}

	override, err := tx.GetOverride(ctx, in.StartAt)
	if err != nil {
		return nil, err
	}

	window, open := domain.EffectiveWindow(in.StartAt, rule, override)
	if !open {
		return nil, httperr.ErrInvalid("outside_business_hours")
	}

	busy, err := tx.ListBusyIntervalsForUpdate(ctx, window.Open, window.Close)
	if err != nil {
		return nil, err
	}

	duration := time.Duration(service.DurationMin) * time.Minute
	slots := domain.GenerateSlots(window, duration, uc.pol, now, busy)

	if !domain.ContainsStart(slots, in.StartAt) {
		// distinguir "slot ocupado" de "slot que nunca fue válido"
		free := domain.GenerateSlots(window, duration, uc.pol, now, nil)
		if domain.ContainsStart(free, in.StartAt) {
			return nil, httperr.ErrConflict("time_conflict")
		}
		return nil, httperr.ErrInvalid("invalid_slot")
	}

	ap := &models.Appointment{
		UserID:    in.UserID,
		ServiceID: service.ID,
		StartTime: in.StartAt,
		EndTime:   in.StartAt.Add(duration),
		Status:    string(domain.InitialStatus()),
		Notes:     in.Notes,
	}

	if err := tx.CreateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	return ap, nil
}

func slotKey(start time.Time) string {
	return fmt.Sprintf("slot:%d", start.UTC().Unix())
}
