package booking

import (
	"context"
	"time"

	domain "github.com/luminance-studio/studio-scheduler/internal/domain/booking"
	"github.com/luminance-studio/studio-scheduler/internal/models"
)

type ListAppointments struct {
	repo domain.Repository
}

func NewListAppointments(repo domain.Repository) *ListAppointments {
	return &ListAppointments{repo: repo}
}

// ByDate lista la agenda de un día (admin).
func (uc *ListAppointments) ByDate(
	ctx context.Context,
	date time.Time,
) ([]models.Appointment, error) {

	start := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	end := start.Add(24 * time.Hour)

	return uc.repo.ListAppointmentsForDay(ctx, start, end)
}

// ForUser lista los turnos del cliente: próximos o historial.
func (uc *ListAppointments) ForUser(
	ctx context.Context,
	userID uint,
	now time.Time,
	upcoming bool,
	limit int,
) ([]models.Appointment, error) {

	if limit <= 0 || limit > 50 {
		limit = 10
	}

	return uc.repo.ListUserAppointments(ctx, userID, now, upcoming, limit)
}
