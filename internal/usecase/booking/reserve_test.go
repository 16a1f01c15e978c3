package booking

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/luminance-studio/studio-scheduler/internal/domain/booking"
	"github.com/luminance-studio/studio-scheduler/internal/httperr"
	"github.com/luminance-studio/studio-scheduler/internal/models"
)

var testLoc = func() *time.Location {
	loc, err := time.LoadLocation("America/Argentina/Buenos_Aires")
	if err != nil {
		panic(err)
	}
	return loc
}()

// lunes 2026-03-02
func monday(hour, min int) time.Time {
	return time.Date(2026, 3, 2, hour, min, 0, 0, testLoc)
}

func testPolicy() domain.SlotPolicy {
	return domain.SlotPolicy{
		Step:       30 * time.Minute,
		MinAdvance: 2 * time.Hour,
		MaxAdvance: 30 * 24 * time.Hour,
	}
}

// repo con un servicio de 60 min, horario de lunes 09:00-17:00 y un cliente
func seededRepo() *fakeRepo {
	repo := newFakeRepo()
	repo.seed(func(r *fakeRepo) {
		r.users[1] = &models.User{ID: 1, Name: "Sofía", Email: "sofia@example.com"}
		r.services[1] = &models.Service{ID: 1, Name: "Limpieza facial", DurationMin: 60, Price: 25000, Active: true}
		r.services[2] = &models.Service{ID: 2, Name: "Peeling (discontinuado)", DurationMin: 45, Price: 30000, Active: false}
		r.rules[1] = &models.WeeklyAvailability{Weekday: 1, StartTime: "09:00", EndTime: "17:00", Active: true}
	})
	return repo
}

func TestReserve_CreatesPendingAppointment(t *testing.T) {
	repo := seededRepo()
	uc := NewReserve(repo, nil, nil, testPolicy())

	ap, err := uc.Execute(context.Background(), ReserveInput{
		UserID:    1,
		ServiceID: 1,
		StartAt:   monday(10, 0),
		Notes:     "primera visita",
	}, monday(7, 0))

	require.NoError(t, err)
	require.NotNil(t, ap)
	assert.Equal(t, "pending", ap.Status)
	assert.True(t, ap.StartTime.Equal(monday(10, 0)))
	assert.True(t, ap.EndTime.Equal(monday(11, 0)))
	assert.NotZero(t, ap.ID)
}

func TestReserve_ConcurrentSameSlot_OneWinner(t *testing.T) {
	repo := seededRepo()
	uc := NewReserve(repo, nil, nil, testPolicy())

	const n = 20

	var wg sync.WaitGroup
	errs := make([]error, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = uc.Execute(context.Background(), ReserveInput{
				UserID:    1,
				ServiceID: 1,
				StartAt:   monday(10, 0),
			}, monday(7, 0))
		}(i)
	}
	wg.Wait()

	winners, conflicts := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			winners++
		case httperr.IsKind(err, httperr.KindConflict):
			conflicts++
		default:
			t.Fatalf("error inesperado: %v", err)
		}
	}

	assert.Equal(t, 1, winners)
	assert.Equal(t, n-1, conflicts)
}

func TestReserve_OccupiedSlotIsConflict(t *testing.T) {
	repo := seededRepo()
	uc := NewReserve(repo, nil, nil, testPolicy())

	_, err := uc.Execute(context.Background(), ReserveInput{
		UserID: 1, ServiceID: 1, StartAt: monday(10, 0),
	}, monday(7, 0))
	require.NoError(t, err)

	// mismo horario de nuevo, y también uno que solo se superpone parcialmente
	for _, start := range []time.Time{monday(10, 0), monday(10, 30), monday(9, 30)} {
		_, err := uc.Execute(context.Background(), ReserveInput{
			UserID: 1, ServiceID: 1, StartAt: start,
		}, monday(7, 0))
		assert.True(t, httperr.IsKind(err, httperr.KindConflict), "start %v", start)
	}
}

func TestReserve_TooSoonIsInvalid(t *testing.T) {
	repo := seededRepo()
	uc := NewReserve(repo, nil, nil, testPolicy())

	// a las 09:00 con 2h de anticipación mínima, las 10:00 ya no se puede
	_, err := uc.Execute(context.Background(), ReserveInput{
		UserID: 1, ServiceID: 1, StartAt: monday(10, 0),
	}, monday(9, 0))

	assert.True(t, httperr.IsKind(err, httperr.KindInvalid))
}

func TestReserve_MisalignedStartIsInvalid(t *testing.T) {
	repo := seededRepo()
	uc := NewReserve(repo, nil, nil, testPolicy())

	_, err := uc.Execute(context.Background(), ReserveInput{
		UserID: 1, ServiceID: 1, StartAt: monday(10, 15),
	}, monday(7, 0))

	assert.True(t, httperr.IsKind(err, httperr.KindInvalid))
}

func TestReserve_OutsideBusinessHours(t *testing.T) {
	repo := seededRepo()
	uc := NewReserve(repo, nil, nil, testPolicy())

	// martes no tiene regla semanal
	tuesday := monday(10, 0).AddDate(0, 0, 1)
	_, err := uc.Execute(context.Background(), ReserveInput{
		UserID: 1, ServiceID: 1, StartAt: tuesday,
	}, monday(7, 0))

	assert.True(t, httperr.IsKind(err, httperr.KindInvalid))
}

func TestReserve_BlockedDate(t *testing.T) {
	repo := seededRepo()
	repo.seed(func(r *fakeRepo) {
		r.overrides[monday(0, 0).Format("2006-01-02")] = &models.AvailabilityOverride{
			Date: monday(0, 0), Blocked: true, Reason: "feriado",
		}
	})
	uc := NewReserve(repo, nil, nil, testPolicy())

	_, err := uc.Execute(context.Background(), ReserveInput{
		UserID: 1, ServiceID: 1, StartAt: monday(10, 0),
	}, monday(7, 0))

	assert.True(t, httperr.IsKind(err, httperr.KindInvalid))
}

func TestReserve_InactiveService(t *testing.T) {
	repo := seededRepo()
	uc := NewReserve(repo, nil, nil, testPolicy())

	_, err := uc.Execute(context.Background(), ReserveInput{
		UserID: 1, ServiceID: 2, StartAt: monday(10, 0),
	}, monday(7, 0))

	assert.True(t, httperr.IsKind(err, httperr.KindInvalid))
}

func TestReserve_UnknownService(t *testing.T) {
	repo := seededRepo()
	uc := NewReserve(repo, nil, nil, testPolicy())

	_, err := uc.Execute(context.Background(), ReserveInput{
		UserID: 1, ServiceID: 99, StartAt: monday(10, 0),
	}, monday(7, 0))

	assert.True(t, httperr.IsKind(err, httperr.KindNotFound))
}

// round-trip reserva → disponibilidad: el slot tomado desaparece y el resto
// queda igual
func TestReserve_RemovesSlotFromAvailability(t *testing.T) {
	repo := seededRepo()
	reserve := NewReserve(repo, nil, nil, testPolicy())
	availability := NewGetAvailability(repo, testPolicy())

	in := domain.AvailabilityInput{ServiceID: 1, Date: monday(0, 0)}
	now := monday(7, 0)

	before, err := availability.Execute(context.Background(), in, now)
	require.NoError(t, err)

	_, err = reserve.Execute(context.Background(), ReserveInput{
		UserID: 1, ServiceID: 1, StartAt: monday(10, 0),
	}, now)
	require.NoError(t, err)

	after, err := availability.Execute(context.Background(), in, now)
	require.NoError(t, err)

	// caen los inicios que pisan 10:00-11:00: 09:30, 10:00 y 10:30
	assert.Len(t, after, len(before)-3)
	for _, s := range after {
		assert.False(t, s.StartAt.Equal(monday(10, 0)))
	}
}
