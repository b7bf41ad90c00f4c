package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/citaflow/citaflow/internal/domain/appointment"
)

type AppointmentRepository struct {
	db *gorm.DB

	// doctorExclusive selects the conflict scope: one booking per
	// (doctor, date, time) when true, per (patient, doctor, date, time)
	// when false. Must match the unique index installed at migration.
	doctorExclusive bool
}

var _ appointment.Repository = (*AppointmentRepository)(nil)

func NewAppointmentRepository(db *gorm.DB, doctorExclusive bool) *AppointmentRepository {
	return &AppointmentRepository{db: db, doctorExclusive: doctorExclusive}
}

func (r *AppointmentRepository) Create(ctx context.Context, a *appointment.Appointment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64

		q := tx.Model(&appointment.Appointment{}).
			Where("doctor_id = ? AND date = ? AND start_time = ?", a.DoctorID, a.Date, a.Time)
		if !r.doctorExclusive {
			q = q.Where("patient_id = ?", a.PatientID)
		}
		if err := q.Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			if r.doctorExclusive {
				return appointment.ErrSlotTaken
			}
			return appointment.ErrDuplicateAppointment
		}

		// The pre-check above is advisory; the unique index is what closes
		// the race between two concurrent bookings of the same slot.
		if err := tx.Create(a).Error; err != nil {
			return translateUniqueViolation(err)
		}
		return nil
	})
}

func (r *AppointmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*appointment.Appointment, error) {
	var a appointment.Appointment
	err := r.db.WithContext(ctx).First(&a, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, appointment.ErrAppointmentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AppointmentRepository) Find(ctx context.Context, q *appointment.FindQuery) ([]*appointment.Appointment, error) {
	db := r.db.WithContext(ctx).Model(&appointment.Appointment{})
	if q.ID != nil {
		db = db.Where("id = ?", *q.ID)
	}
	if q.PatientID != nil {
		db = db.Where("patient_id = ?", *q.PatientID)
	}
	if q.DoctorID != nil {
		db = db.Where("doctor_id = ?", *q.DoctorID)
	}

	var out []*appointment.Appointment
	if err := db.Order("created_at ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *AppointmentRepository) Reschedule(ctx context.Context, id uuid.UUID, date time.Time, t appointment.TimeOfDay) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current appointment.Appointment
		if err := tx.First(&current, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return appointment.ErrAppointmentNotFound
			}
			return err
		}

		// Occupancy is checked across all doctors: the clinic treats a slot
		// as a single reception resource when moving bookings around.
		var count int64
		if err := tx.Model(&appointment.Appointment{}).
			Where("date = ? AND start_time = ? AND id <> ?", date, t, id).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return appointment.ErrSlotTaken
		}

		err := tx.Model(&current).Updates(map[string]any{
			"date":       date,
			"start_time": t,
		}).Error
		if err != nil {
			return translateUniqueViolation(err)
		}
		return nil
	})
}

func (r *AppointmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&appointment.Appointment{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return appointment.ErrAppointmentNotFound
	}
	return nil
}

func (r *AppointmentRepository) OccupiedTimes(ctx context.Context, specialty string, date time.Time) ([]appointment.TimeOfDay, error) {
	var times []appointment.TimeOfDay
	err := r.db.WithContext(ctx).
		Model(&appointment.Appointment{}).
		Joins("JOIN clinical.doctors ON clinical.doctors.id = clinical.appointments.doctor_id").
		Where("clinical.doctors.specialty = ? AND clinical.appointments.date = ?", specialty, date).
		Pluck("clinical.appointments.start_time", &times).Error
	if err != nil {
		return nil, err
	}
	return times, nil
}

// translateUniqueViolation maps Postgres unique-index violations onto the
// scheduling sentinels so racing writers surface as booking conflicts.
func translateUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		switch pgErr.ConstraintName {
		case "uq_appointments_ref_code":
			return appointment.ErrRefCodeTaken
		case "uq_appointments_doctor_slot":
			return appointment.ErrSlotTaken
		case "uq_appointments_patient_slot":
			return appointment.ErrDuplicateAppointment
		}
	}
	return err
}
