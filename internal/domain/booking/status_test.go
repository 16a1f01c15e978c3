package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luminance-studio/studio-scheduler/internal/httperr"
	"github.com/luminance-studio/studio-scheduler/internal/models"
)

func TestConfirm_Transitions(t *testing.T) {
	now := monday(12, 0)

	ap := &models.Appointment{Status: string(StatusPending)}
	require.NoError(t, Confirm(ap, now))
	assert.Equal(t, string(StatusConfirmed), ap.Status)
	require.NotNil(t, ap.ConfirmedAt)
	assert.True(t, ap.ConfirmedAt.Equal(now))

	// confirmado dos veces es invalid, no idempotente
	err := Confirm(ap, now)
	assert.True(t, httperr.IsKind(err, httperr.KindInvalid))

	for _, status := range []Status{StatusCompleted, StatusCancelled} {
		ap := &models.Appointment{Status: string(status)}
		err := Confirm(ap, now)
		assert.True(t, httperr.IsKind(err, httperr.KindInvalid), "confirm desde %s", status)
	}
}

func TestCancel_Transitions(t *testing.T) {
	now := monday(12, 0)

	for _, status := range []Status{StatusPending, StatusConfirmed} {
		ap := &models.Appointment{Status: string(status)}
		require.NoError(t, Cancel(ap, now, "me surgió algo"))
		assert.Equal(t, string(StatusCancelled), ap.Status)
		assert.Equal(t, "me surgió algo", ap.CancellationReason)
		require.NotNil(t, ap.CancelledAt)
	}

	for _, status := range []Status{StatusCompleted, StatusCancelled} {
		ap := &models.Appointment{Status: string(status)}
		err := Cancel(ap, now, "")
		assert.True(t, httperr.IsKind(err, httperr.KindInvalid), "cancel desde %s", status)
	}
}

func TestComplete_Transitions(t *testing.T) {
	now := monday(12, 0)

	ap := &models.Appointment{Status: string(StatusConfirmed)}
	require.NoError(t, Complete(ap, now))
	assert.Equal(t, string(StatusCompleted), ap.Status)
	require.NotNil(t, ap.CompletedAt)

	for _, status := range []Status{StatusPending, StatusCompleted, StatusCancelled} {
		ap := &models.Appointment{Status: string(status)}
		err := Complete(ap, now)
		assert.True(t, httperr.IsKind(err, httperr.KindInvalid), "complete desde %s", status)
	}
}

func TestExpire_OnlyPending(t *testing.T) {
	now := monday(12, 0)

	ap := &models.Appointment{Status: string(StatusPending)}
	assert.True(t, Expire(ap, now))
	assert.Equal(t, string(StatusCancelled), ap.Status)
	assert.Equal(t, "payment_timeout", ap.CancellationReason)

	// segunda pasada: no-op
	assert.False(t, Expire(ap, now))
	assert.Equal(t, string(StatusCancelled), ap.Status)

	confirmed := &models.Appointment{Status: string(StatusConfirmed)}
	assert.False(t, Expire(confirmed, now))
	assert.Equal(t, string(StatusConfirmed), confirmed.Status)
}
