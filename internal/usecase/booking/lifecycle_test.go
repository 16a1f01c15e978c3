package booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luminance-studio/studio-scheduler/internal/httperr"
	"github.com/luminance-studio/studio-scheduler/internal/models"
)

func seedAppointment(repo *fakeRepo, status string, start, end time.Time) *models.Appointment {
	ap := &models.Appointment{
		UserID:    1,
		ServiceID: 1,
		StartTime: start,
		EndTime:   end,
		Status:    status,
		CreatedAt: start.Add(-24 * time.Hour),
	}
	repo.seed(func(r *fakeRepo) {
		ap.ID = r.nextID
		r.nextID++
		r.appointments = append(r.appointments, ap)
	})
	return ap
}

// --------- Confirm ---------

func TestConfirm_PendingToConfirmed(t *testing.T) {
	repo := seededRepo()
	ap := seedAppointment(repo, "pending", monday(10, 0), monday(11, 0))
	uc := NewConfirm(repo, nil, nil)

	got, err := uc.Execute(context.Background(), ap.ID, nil, monday(8, 0))

	require.NoError(t, err)
	assert.Equal(t, "confirmed", got.Status)
	require.NotNil(t, got.ConfirmedAt)
}

func TestConfirm_AlreadyConfirmed(t *testing.T) {
	repo := seededRepo()
	ap := seedAppointment(repo, "confirmed", monday(10, 0), monday(11, 0))
	uc := NewConfirm(repo, nil, nil)

	_, err := uc.Execute(context.Background(), ap.ID, nil, monday(8, 0))

	assert.True(t, httperr.IsKind(err, httperr.KindInvalid))
}

func TestConfirm_NotFound(t *testing.T) {
	repo := seededRepo()
	uc := NewConfirm(repo, nil, nil)

	_, err := uc.Execute(context.Background(), 99, nil, monday(8, 0))

	assert.True(t, httperr.IsKind(err, httperr.KindNotFound))
}

// --------- Cancel ---------

func cancelUC(repo *fakeRepo) *Cancel {
	return NewCancel(repo, nil, nil, 24*time.Hour)
}

func TestCancel_CustomerCancelsPending(t *testing.T) {
	repo := seededRepo()
	ap := seedAppointment(repo, "pending", monday(10, 0), monday(11, 0))
	userID := uint(1)

	got, err := cancelUC(repo).Execute(context.Background(), CancelInput{
		AppointmentID: ap.ID,
		UserID:        &userID,
		Reason:        "no llego",
	}, monday(8, 0))

	require.NoError(t, err)
	assert.Equal(t, "cancelled", got.Status)
	assert.Equal(t, "no llego", got.CancellationReason)
}

func TestCancel_CutoffBlocksCustomerOnConfirmed(t *testing.T) {
	repo := seededRepo()
	ap := seedAppointment(repo, "confirmed", monday(10, 0), monday(11, 0))
	userID := uint(1)

	// faltan 2 horas y el cutoff es 24: el cliente ya no puede
	_, err := cancelUC(repo).Execute(context.Background(), CancelInput{
		AppointmentID: ap.ID,
		UserID:        &userID,
	}, monday(8, 0))

	assert.True(t, httperr.IsKind(err, httperr.KindPolicy))
}

func TestCancel_AdminBypassesCutoff(t *testing.T) {
	repo := seededRepo()
	ap := seedAppointment(repo, "confirmed", monday(10, 0), monday(11, 0))

	got, err := cancelUC(repo).Execute(context.Background(), CancelInput{
		AppointmentID: ap.ID,
		UserID:        nil,
		Reason:        "profesional enferma",
	}, monday(8, 0))

	require.NoError(t, err)
	assert.Equal(t, "cancelled", got.Status)
}

func TestCancel_CustomerConfirmedOutsideCutoff(t *testing.T) {
	repo := seededRepo()
	nextWeek := monday(10, 0).AddDate(0, 0, 7)
	ap := seedAppointment(repo, "confirmed", nextWeek, nextWeek.Add(time.Hour))
	userID := uint(1)

	got, err := cancelUC(repo).Execute(context.Background(), CancelInput{
		AppointmentID: ap.ID,
		UserID:        &userID,
	}, monday(8, 0))

	require.NoError(t, err)
	assert.Equal(t, "cancelled", got.Status)
}

func TestCancel_AlreadyStarted(t *testing.T) {
	repo := seededRepo()
	ap := seedAppointment(repo, "confirmed", monday(10, 0), monday(11, 0))

	_, err := cancelUC(repo).Execute(context.Background(), CancelInput{
		AppointmentID: ap.ID,
	}, monday(10, 30))

	assert.True(t, httperr.IsKind(err, httperr.KindInvalid))
}

func TestCancel_WrongUserIsNotFound(t *testing.T) {
	repo := seededRepo()
	ap := seedAppointment(repo, "pending", monday(10, 0), monday(11, 0))
	otherUser := uint(42)

	_, err := cancelUC(repo).Execute(context.Background(), CancelInput{
		AppointmentID: ap.ID,
		UserID:        &otherUser,
	}, monday(8, 0))

	assert.True(t, httperr.IsKind(err, httperr.KindNotFound))
}

// --------- Sweeps ---------

func sweepUC(repo *fakeRepo) *LifecycleSweep {
	return NewLifecycleSweep(repo, nil, nil, 30*time.Minute, 24*time.Hour)
}

func TestSweep_ExpirePending(t *testing.T) {
	repo := seededRepo()

	stale := seedAppointment(repo, "pending", monday(15, 0), monday(16, 0))
	stale.CreatedAt = monday(8, 0) // creado hace más del timeout

	fresh := seedAppointment(repo, "pending", monday(16, 0), monday(17, 0))
	fresh.CreatedAt = monday(11, 50)

	confirmed := seedAppointment(repo, "confirmed", monday(14, 0), monday(15, 0))

	n, err := sweepUC(repo).ExpirePending(context.Background(), monday(12, 0))

	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, "cancelled", stale.Status)
	assert.Equal(t, "payment_timeout", stale.CancellationReason)
	assert.Equal(t, "pending", fresh.Status)
	assert.Equal(t, "confirmed", confirmed.Status)

	// segunda pasada: idempotente
	n, err = sweepUC(repo).ExpirePending(context.Background(), monday(12, 0))
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestSweep_ExpirePendingPastStart(t *testing.T) {
	repo := seededRepo()

	// recién creado pero el turno ya arrancó sin pago: también expira
	ap := seedAppointment(repo, "pending", monday(9, 0), monday(10, 0))
	ap.CreatedAt = monday(8, 55)

	n, err := sweepUC(repo).ExpirePending(context.Background(), monday(9, 10))

	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, "cancelled", ap.Status)
}

func TestSweep_CompleteFinished(t *testing.T) {
	repo := seededRepo()

	done := seedAppointment(repo, "confirmed", monday(9, 0), monday(10, 0))
	ongoing := seedAppointment(repo, "confirmed", monday(11, 30), monday(12, 30))

	n, err := sweepUC(repo).CompleteFinished(context.Background(), monday(12, 0))

	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, "completed", done.Status)
	assert.Equal(t, "confirmed", ongoing.Status)
}

func TestSweep_SendReminders(t *testing.T) {
	repo := seededRepo()

	soon := seedAppointment(repo, "confirmed", monday(18, 0), monday(19, 0))
	nextWeek := monday(10, 0).AddDate(0, 0, 7)
	far := seedAppointment(repo, "confirmed", nextWeek, nextWeek.Add(time.Hour))
	pending := seedAppointment(repo, "pending", monday(19, 0), monday(20, 0))

	n, err := sweepUC(repo).SendReminders(context.Background(), monday(12, 0))

	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.True(t, soon.ReminderSent)
	assert.False(t, far.ReminderSent)
	assert.False(t, pending.ReminderSent)

	// segunda pasada: ya marcado, no se repite
	n, err = sweepUC(repo).SendReminders(context.Background(), monday(12, 0))
	require.NoError(t, err)
	assert.Zero(t, n)
}
