package booking

import (
	"context"
	"time"

	"github.com/luminance-studio/studio-scheduler/internal/models"
)

type Repository interface {
	// -------- Transacción --------
	// InTx ejecuta fn con un Repository atado a una transacción serializable.
	// Es la unidad atómica de la reserva.
	InTx(ctx context.Context, fn func(Repository) error) error

	// -------- User --------
	GetUser(
		ctx context.Context,
		id uint,
	) (*models.User, error)

	// -------- Service --------
	GetService(
		ctx context.Context,
		id uint,
	) (*models.Service, error)

	ListActiveServices(
		ctx context.Context,
	) ([]models.Service, error)

	// -------- Calendario --------
	// Devuelven (nil, nil) cuando no existe fila.
	GetWeeklyRule(
		ctx context.Context,
		weekday int,
	) (*models.WeeklyAvailability, error)

	GetOverride(
		ctx context.Context,
		date time.Time,
	) (*models.AvailabilityOverride, error)

	// -------- Booking Ledger --------
	ListBusyIntervals(
		ctx context.Context,
		from time.Time,
		to time.Time,
	) ([]Interval, error)

	// Igual que ListBusyIntervals pero con FOR UPDATE; solo tiene sentido
	// adentro de InTx.
	ListBusyIntervalsForUpdate(
		ctx context.Context,
		from time.Time,
		to time.Time,
	) ([]Interval, error)

	CreateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	// -------- Appointment --------
	GetAppointment(
		ctx context.Context,
		id uint,
	) (*models.Appointment, error)

	GetAppointmentForUser(
		ctx context.Context,
		id uint,
		userID uint,
	) (*models.Appointment, error)

	UpdateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	ListAppointmentsForDay(
		ctx context.Context,
		start time.Time,
		end time.Time,
	) ([]models.Appointment, error)

	ListUserAppointments(
		ctx context.Context,
		userID uint,
		from time.Time,
		upcoming bool,
		limit int,
	) ([]models.Appointment, error)

	// -------- Barridos del worker --------
	ListExpiredPending(
		ctx context.Context,
		createdBefore time.Time,
		startedBefore time.Time,
	) ([]models.Appointment, error)

	ListFinishedConfirmed(
		ctx context.Context,
		endedBefore time.Time,
	) ([]models.Appointment, error)

	ListReminderDue(
		ctx context.Context,
		from time.Time,
		to time.Time,
	) ([]models.Appointment, error)

	// -------- Payment --------
	CreatePayment(
		ctx context.Context,
		p *models.Payment,
	) error

	GetPayment(
		ctx context.Context,
		id uint,
	) (*models.Payment, error)

	GetPaymentByAppointment(
		ctx context.Context,
		appointmentID uint,
	) (*models.Payment, error)

	UpdatePayment(
		ctx context.Context,
		p *models.Payment,
	) error
}
