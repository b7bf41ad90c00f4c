package appointment

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Repository interface {
	// Create persists a new appointment. The conflict check and the insert run
	// in a single transaction; the storage layer additionally enforces
	// (doctor_id, date, start_time) uniqueness so two racing bookings cannot
	// both land. Returns ErrSlotTaken or ErrDuplicateAppointment on conflict
	// and ErrRefCodeTaken on a reference-code collision.
	Create(ctx context.Context, a *Appointment) error

	GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error)

	// Find returns appointments matching the query, ordered by creation time.
	Find(ctx context.Context, q *FindQuery) ([]*Appointment, error)

	// Reschedule moves an appointment to a new slot in place, atomically with
	// its occupancy check. The occupancy check spans all doctors, matching the
	// clinic's single-reception desk model. Returns ErrSlotTaken if the target
	// slot is held by any other appointment.
	Reschedule(ctx context.Context, id uuid.UUID, date time.Time, t TimeOfDay) error

	// Delete removes the appointment. Dependent notifications are cascaded by
	// the database.
	Delete(ctx context.Context, id uuid.UUID) error

	// OccupiedTimes lists booked start times for doctors of the given
	// specialty on the given date.
	OccupiedTimes(ctx context.Context, specialty string, date time.Time) ([]TimeOfDay, error)
}
