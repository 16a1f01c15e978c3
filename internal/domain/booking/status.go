package booking

import (
	"time"

	"github.com/luminance-studio/studio-scheduler/internal/httperr"
	"github.com/luminance-studio/studio-scheduler/internal/models"
)

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// ===============================
// Payment Status
// ===============================

type PaymentStatus string

const (
	PaymentInitiated PaymentStatus = "initiated"
	PaymentApproved  PaymentStatus = "approved"
	PaymentRejected  PaymentStatus = "rejected"
	PaymentRefunded  PaymentStatus = "refunded"
)

// ===============================
// Validations
// ===============================

// CanConfirm: solo pending → confirmed (pago aprobado o confirmación manual)
func CanConfirm(current Status) error {
	if current != StatusPending {
		return httperr.ErrInvalid("invalid_state")
	}
	return nil
}

// CanCancel: pending y confirmed se pueden cancelar; los estados terminales no
func CanCancel(current Status) error {
	if current != StatusPending && current != StatusConfirmed {
		return httperr.ErrInvalid("invalid_state")
	}
	return nil
}

// CanComplete: solo confirmed → completed
func CanComplete(current Status) error {
	if current != StatusConfirmed {
		return httperr.ErrInvalid("invalid_state")
	}
	return nil
}

func InitialStatus() Status {
	return StatusPending
}

// ===============================
// Domain Actions
// ===============================

func Confirm(ap *models.Appointment, now time.Time) error {
	if err := CanConfirm(Status(ap.Status)); err != nil {
		return err
	}

	ap.Status = string(StatusConfirmed)
	ap.ConfirmedAt = &now
	return nil
}

func Cancel(ap *models.Appointment, now time.Time, reason string) error {
	if err := CanCancel(Status(ap.Status)); err != nil {
		return err
	}

	ap.Status = string(StatusCancelled)
	ap.CancelledAt = &now
	ap.CancellationReason = reason
	return nil
}

func Complete(ap *models.Appointment, now time.Time) error {
	if err := CanComplete(Status(ap.Status)); err != nil {
		return err
	}

	ap.Status = string(StatusCompleted)
	ap.CompletedAt = &now
	return nil
}

// Expire aplica el timeout de pago pendiente. Idempotente: sobre un turno que
// ya no está pending no hace nada y devuelve false.
func Expire(ap *models.Appointment, now time.Time) bool {
	if Status(ap.Status) != StatusPending {
		return false
	}

	ap.Status = string(StatusCancelled)
	ap.CancelledAt = &now
	ap.CancellationReason = "payment_timeout"
	return true
}
