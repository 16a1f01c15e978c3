package booking

import (
	"context"
	"sync"
	"time"

	domain "github.com/luminance-studio/studio-scheduler/internal/domain/booking"
	"github.com/luminance-studio/studio-scheduler/internal/models"
)

// fakeRepo es un repositorio en memoria. InTx serializa con un mutex, que es
// exactamente la semántica que las transacciones serializables + FOR UPDATE
// le dan al repositorio real: de N reservas concurrentes al mismo slot, una
// sola ve el ledger sin el turno nuevo.
type fakeRepo struct {
	mu sync.Mutex

	users     map[uint]*models.User
	services  map[uint]*models.Service
	rules     map[int]*models.WeeklyAvailability
	overrides map[string]*models.AvailabilityOverride

	appointments []*models.Appointment
	payments     []*models.Payment

	nextID uint
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		users:     map[uint]*models.User{},
		services:  map[uint]*models.Service{},
		rules:     map[int]*models.WeeklyAvailability{},
		overrides: map[string]*models.AvailabilityOverride{},
		nextID:    1,
	}
}

var _ domain.Repository = (*fakeRepo)(nil)

func (r *fakeRepo) InTx(ctx context.Context, fn func(domain.Repository) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return fn(&fakeTxRepo{r})
}

func (r *fakeRepo) GetUser(ctx context.Context, id uint) (*models.User, error) {
	return r.users[id], nil
}

func (r *fakeRepo) GetService(ctx context.Context, id uint) (*models.Service, error) {
	return r.services[id], nil
}

func (r *fakeRepo) ListActiveServices(ctx context.Context) ([]models.Service, error) {
	var out []models.Service
	for _, s := range r.services {
		if s.Active {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r *fakeRepo) GetWeeklyRule(ctx context.Context, weekday int) (*models.WeeklyAvailability, error) {
	return r.rules[weekday], nil
}

func (r *fakeRepo) GetOverride(ctx context.Context, date time.Time) (*models.AvailabilityOverride, error) {
	return r.overrides[date.Format("2006-01-02")], nil
}

func (r *fakeRepo) ListBusyIntervals(ctx context.Context, from, to time.Time) ([]domain.Interval, error) {
	var out []domain.Interval
	for _, ap := range r.appointments {
		if ap.Status == "cancelled" {
			continue
		}
		if ap.StartTime.Before(to) && ap.EndTime.After(from) {
			out = append(out, domain.Interval{Start: ap.StartTime, End: ap.EndTime})
		}
	}
	return out, nil
}

func (r *fakeRepo) ListBusyIntervalsForUpdate(ctx context.Context, from, to time.Time) ([]domain.Interval, error) {
	return r.ListBusyIntervals(ctx, from, to)
}

func (r *fakeRepo) CreateAppointment(ctx context.Context, ap *models.Appointment) error {
	ap.ID = r.nextID
	r.nextID++
	r.appointments = append(r.appointments, ap)
	return nil
}

func (r *fakeRepo) GetAppointment(ctx context.Context, id uint) (*models.Appointment, error) {
	for _, ap := range r.appointments {
		if ap.ID == id {
			return ap, nil
		}
	}
	return nil, nil
}

func (r *fakeRepo) GetAppointmentForUser(ctx context.Context, id, userID uint) (*models.Appointment, error) {
	ap, _ := r.GetAppointment(ctx, id)
	if ap == nil || ap.UserID != userID {
		return nil, nil
	}
	return ap, nil
}

func (r *fakeRepo) UpdateAppointment(ctx context.Context, ap *models.Appointment) error {
	for _, cur := range r.appointments {
		if cur.ID == ap.ID {
			*cur = *ap
			return nil
		}
	}
	return nil
}

func (r *fakeRepo) ListAppointmentsForDay(ctx context.Context, start, end time.Time) ([]models.Appointment, error) {
	var out []models.Appointment
	for _, ap := range r.appointments {
		if !ap.StartTime.Before(start) && ap.StartTime.Before(end) {
			out = append(out, *ap)
		}
	}
	return out, nil
}

func (r *fakeRepo) ListUserAppointments(ctx context.Context, userID uint, from time.Time, upcoming bool, limit int) ([]models.Appointment, error) {
	var out []models.Appointment
	for _, ap := range r.appointments {
		if ap.UserID != userID {
			continue
		}
		if upcoming == ap.StartTime.After(from) {
			out = append(out, *ap)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *fakeRepo) ListExpiredPending(ctx context.Context, createdBefore, startedBefore time.Time) ([]models.Appointment, error) {
	var out []models.Appointment
	for _, ap := range r.appointments {
		if ap.Status != "pending" {
			continue
		}
		if ap.CreatedAt.Before(createdBefore) || ap.StartTime.Before(startedBefore) {
			out = append(out, *ap)
		}
	}
	return out, nil
}

func (r *fakeRepo) ListFinishedConfirmed(ctx context.Context, endedBefore time.Time) ([]models.Appointment, error) {
	var out []models.Appointment
	for _, ap := range r.appointments {
		if ap.Status == "confirmed" && ap.EndTime.Before(endedBefore) {
			out = append(out, *ap)
		}
	}
	return out, nil
}

func (r *fakeRepo) ListReminderDue(ctx context.Context, from, to time.Time) ([]models.Appointment, error) {
	var out []models.Appointment
	for _, ap := range r.appointments {
		if ap.Status != "confirmed" || ap.ReminderSent {
			continue
		}
		if ap.StartTime.After(from) && ap.StartTime.Before(to) {
			out = append(out, *ap)
		}
	}
	return out, nil
}

func (r *fakeRepo) CreatePayment(ctx context.Context, p *models.Payment) error {
	p.ID = r.nextID
	r.nextID++
	r.payments = append(r.payments, p)
	return nil
}

func (r *fakeRepo) GetPayment(ctx context.Context, id uint) (*models.Payment, error) {
	for _, p := range r.payments {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, nil
}

func (r *fakeRepo) GetPaymentByAppointment(ctx context.Context, appointmentID uint) (*models.Payment, error) {
	for _, p := range r.payments {
		if p.AppointmentID == appointmentID {
			return p, nil
		}
	}
	return nil, nil
}

func (r *fakeRepo) UpdatePayment(ctx context.Context, p *models.Payment) error {
	for _, cur := range r.payments {
		if cur.ID == p.ID {
			*cur = *p
			return nil
		}
	}
	return nil
}

// fakeTxRepo es la vista transaccional: mismas operaciones, sin re-lockear.
type fakeTxRepo struct {
	*fakeRepo
}

func (r *fakeTxRepo) InTx(ctx context.Context, fn func(domain.Repository) error) error {
	return fn(r)
}

// mutador de estado sincronizado para armar fixtures desde los tests
func (r *fakeRepo) seed(fn func(*fakeRepo)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fn(r)
}
