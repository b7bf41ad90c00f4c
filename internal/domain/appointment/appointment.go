package appointment

import (
	"time"

	"github.com/google/uuid"
)

// Status mirrors the legacy clinic database values.
type Status string

const StatusConfirmed Status = "confirmada"

// RefCodeLength is the length of the human-shareable booking reference.
const RefCodeLength = 12

type Appointment struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CreatedAt time.Time `gorm:"autoCreateTime;index"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	PatientID uuid.UUID `gorm:"column:patient_id;type:uuid;not null;index"`
	DoctorID  uuid.UUID `gorm:"column:doctor_id;type:uuid;not null;index"`

	Date time.Time `gorm:"column:date;type:date;not null;index"`
	Time TimeOfDay `gorm:"column:start_time;type:varchar(8);not null"`

	// Specialty snapshot at booking time; the doctor record stays authoritative.
	Specialty string `gorm:"column:specialty;type:varchar(100)"`
	Status    Status `gorm:"column:status;type:varchar(20);not null;default:'confirmada'"`

	// RefCode is assigned once at creation and never reassigned.
	RefCode string `gorm:"column:ref_code;type:varchar(12);uniqueIndex:uq_appointments_ref_code;not null"`
}

func (Appointment) TableName() string {
	return "clinical.appointments"
}

// SameSlot reports whether the appointment already occupies the given date and time.
func (a *Appointment) SameSlot(date time.Time, t TimeOfDay) bool {
	return a.Date.Equal(date) && a.Time == t
}

type ScheduleCommand struct {
	PatientID uuid.UUID
	DoctorID  uuid.UUID
	Date      time.Time
	Time      TimeOfDay
	Specialty string
}

type RescheduleCommand struct {
	ID   uuid.UUID
	Date time.Time
	Time TimeOfDay
}

// FindQuery filters appointments; at least one field must be set.
type FindQuery struct {
	ID        *uuid.UUID
	PatientID *uuid.UUID
	DoctorID  *uuid.UUID
}

func (q *FindQuery) Empty() bool {
	return q.ID == nil && q.PatientID == nil && q.DoctorID == nil
}
