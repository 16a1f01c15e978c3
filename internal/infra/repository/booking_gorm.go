package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/luminance-studio/studio-scheduler/internal/domain/booking"
	"github.com/luminance-studio/studio-scheduler/internal/models"
)

type BookingGormRepository struct {
	db *gorm.DB
}

func NewBookingGormRepository(db *gorm.DB) *BookingGormRepository {
	return &BookingGormRepository{db: db}
}

// --------------------------------------------------
// Transacción
// --------------------------------------------------

// InTx corre fn con un repositorio atado a una transacción serializable.
// Dos reservas superpuestas concurrentes no pueden commitear las dos: una
// termina en serialization failure o en la exclusion constraint.
func (r *BookingGormRepository) InTx(
	ctx context.Context,
	fn func(domain.Repository) error,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&BookingGormRepository{db: tx})
	}, &sql.TxOptions{Isolation: sql.LevelSerializable})
}

// --------------------------------------------------
// User
// --------------------------------------------------

func (r *BookingGormRepository) GetUser(
	ctx context.Context,
	id uint,
) (*models.User, error) {

	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// --------------------------------------------------
// Service
// --------------------------------------------------

func (r *BookingGormRepository) GetService(
	ctx context.Context,
	id uint,
) (*models.Service, error) {

	var service models.Service
	if err := r.db.WithContext(ctx).First(&service, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &service, nil
}

func (r *BookingGormRepository) ListActiveServices(
	ctx context.Context,
) ([]models.Service, error) {

	var services []models.Service
	if err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Order("category ASC, name ASC").
		Find(&services).Error; err != nil {
		return nil, err
	}
	return services, nil
}

// --------------------------------------------------
// Calendario
// --------------------------------------------------

func (r *BookingGormRepository) GetWeeklyRule(
	ctx context.Context,
	weekday int,
) (*models.WeeklyAvailability, error) {

	var rule models.WeeklyAvailability
	if err := r.db.WithContext(ctx).
		Where("weekday = ?", weekday).
		First(&rule).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rule, nil
}

func (r *BookingGormRepository) GetOverride(
	ctx context.Context,
	date time.Time,
) (*models.AvailabilityOverride, error) {

	var ov models.AvailabilityOverride
	if err := r.db.WithContext(ctx).
		Where("date = ?", date.Format("2006-01-02")).
		First(&ov).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &ov, nil
}

// --------------------------------------------------
// Booking Ledger
// --------------------------------------------------

func (r *BookingGormRepository) ListBusyIntervals(
	ctx context.Context,
	from time.Time,
	to time.Time,
) ([]domain.Interval, error) {
	return r.listBusy(ctx, from, to, false)
}

func (r *BookingGormRepository) ListBusyIntervalsForUpdate(
	ctx context.Context,
	from time.Time,
	to time.Time,
) ([]domain.Interval, error) {
	return r.listBusy(ctx, from, to, true)
}

func (r *BookingGormRepository) listBusy(
	ctx context.Context,
	from time.Time,
	to time.Time,
	forUpdate bool,
) ([]domain.Interval, error) {

	q := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Select("start_time", "end_time").
		Where(
			"status <> 'cancelled' AND start_time < ? AND end_time > ?",
			to, from,
		).
		Order("start_time ASC")

	if forUpdate {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var rows []models.Appointment
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}

	intervals := make([]domain.Interval, 0, len(rows))
	for _, ap := range rows {
		intervals = append(intervals, domain.Interval{
			Start: ap.StartTime,
			End:   ap.EndTime,
		})
	}
	return intervals, nil
}

func (r *BookingGormRepository) CreateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return r.db.WithContext(ctx).Create(ap).Error
}

// --------------------------------------------------
// Appointment
// --------------------------------------------------

func (r *BookingGormRepository) GetAppointment(
	ctx context.Context,
	id uint,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).First(&ap, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &ap, nil
}

func (r *BookingGormRepository) GetAppointmentForUser(
	ctx context.Context,
	id uint,
	userID uint,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&ap).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &ap, nil
}

func (r *BookingGormRepository) UpdateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return r.db.WithContext(ctx).Save(ap).Error
}

func (r *BookingGormRepository) ListAppointmentsForDay(
	ctx context.Context,
	start time.Time,
	end time.Time,
) ([]models.Appointment, error) {

	var aps []models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Service").
		Where(
			"start_time >= ? AND start_time < ?",
			start, end,
		).
		Order("start_time ASC").
		Find(&aps).Error; err != nil {
		return nil, err
	}
	return aps, nil
}

func (r *BookingGormRepository) ListUserAppointments(
	ctx context.Context,
	userID uint,
	from time.Time,
	upcoming bool,
	limit int,
) ([]models.Appointment, error) {

	q := r.db.WithContext(ctx).
		Preload("Service").
		Where("user_id = ?", userID).
		Limit(limit)

	if upcoming {
		q = q.
			Where("start_time >= ? AND status IN ('pending', 'confirmed')", from).
			Order("start_time ASC")
	} else {
		q = q.
			Where("start_time < ? OR status IN ('completed', 'cancelled')", from).
			Order("start_time DESC")
	}

	var aps []models.Appointment
	if err := q.Find(&aps).Error; err != nil {
		return nil, err
	}
	return aps, nil
}

// --------------------------------------------------
// Barridos del worker
// --------------------------------------------------

func (r *BookingGormRepository) ListExpiredPending(
	ctx context.Context,
	createdBefore time.Time,
	startedBefore time.Time,
) ([]models.Appointment, error) {

	var aps []models.Appointment
	if err := r.db.WithContext(ctx).
		Where(
			"status = 'pending' AND (created_at < ? OR start_time < ?)",
			createdBefore, startedBefore,
		).
		Find(&aps).Error; err != nil {
		return nil, err
	}
	return aps, nil
}

func (r *BookingGormRepository) ListFinishedConfirmed(
	ctx context.Context,
	endedBefore time.Time,
) ([]models.Appointment, error) {

	var aps []models.Appointment
	if err := r.db.WithContext(ctx).
		Where("status = 'confirmed' AND end_time <= ?", endedBefore).
		Find(&aps).Error; err != nil {
		return nil, err
	}
	return aps, nil
}

func (r *BookingGormRepository) ListReminderDue(
	ctx context.Context,
	from time.Time,
	to time.Time,
) ([]models.Appointment, error) {

	var aps []models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Service").
		Where(
			"status = 'confirmed' AND reminder_sent = ? AND start_time >= ? AND start_time <= ?",
			false, from, to,
		).
		Find(&aps).Error; err != nil {
		return nil, err
	}
	return aps, nil
}

// --------------------------------------------------
// Payment
// --------------------------------------------------

func (r *BookingGormRepository) CreatePayment(
	ctx context.Context,
	p *models.Payment,
) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *BookingGormRepository) GetPayment(
	ctx context.Context,
	id uint,
) (*models.Payment, error) {

	var p models.Payment
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *BookingGormRepository) GetPaymentByAppointment(
	ctx context.Context,
	appointmentID uint,
) (*models.Payment, error) {

	var p models.Payment
	if err := r.db.WithContext(ctx).
		Where("appointment_id = ?", appointmentID).
		First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *BookingGormRepository) UpdatePayment(
	ctx context.Context,
	p *models.Payment,
) error {
	return r.db.WithContext(ctx).Save(p).Error
}

// Compile-time check
var _ domain.Repository = (*BookingGormRepository)(nil)
