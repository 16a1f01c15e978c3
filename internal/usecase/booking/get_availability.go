package booking

import (
	"context"
	"time"

	domain "github.com/luminance-studio/studio-scheduler/internal/domain/booking"
	"github.com/luminance-studio/studio-scheduler/internal/httperr"
)

type GetAvailability struct {
	repo domain.Repository
	pol  domain.SlotPolicy
}

func NewGetAvailability(repo domain.Repository, pol domain.SlotPolicy) *GetAvailability {
	return &GetAvailability{repo: repo, pol: pol}
}

// Execute calcula los slots reservables de un servicio para una fecha.
// Es consultivo: la única garantía contra double-booking vive en Reserve.
// now viene explícito para que los tests usen relojes fijos.
func (uc *GetAvailability) Execute(
	ctx context.Context,
	in domain.AvailabilityInput,
	now time.Time,
) ([]domain.TimeSlot, error) {

	service, err := uc.repo.GetService(ctx, in.ServiceID)
	if err != nil {
		return nil, err
	}
	if service == nil {
		return nil, httperr.ErrNotFound("service_not_found")
	}
	if !service.Active {
		return []domain.TimeSlot{}, nil
	}

	rule, err := uc.repo.GetWeeklyRule(ctx, int(in.Date.Weekday()))
	if err != nil {
		return nil, err
	}

	override, err := uc.repo.GetOverride(ctx, in.Date)
	if err != nil {
		return nil, err
	}

	window, open := domain.EffectiveWindow(in.Date, rule, override)
	if !open {
		return []domain.TimeSlot{}, nil
	}

	busy, err := uc.repo.ListBusyIntervals(ctx, window.Open, window.Close)
	if err != nil {
		return nil, err
	}

	duration := time.Duration(service.DurationMin) * time.Minute
	intervals := domain.GenerateSlots(window, duration, uc.pol, now, busy)

	slots := make([]domain.TimeSlot, 0, len(intervals))
	for _, iv := range intervals {
		slots = append(slots, domain.TimeSlot{
			Start:   iv.Start.Format("15:04"),
			End:     iv.End.Format("15:04"),
			StartAt: iv.Start,
		})
	}

	return slots, nil
}
