package history

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Entry is a free-text medical history note for a patient.
type Entry struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime;index"`

	PatientID uuid.UUID `gorm:"column:patient_id;type:uuid;not null;index"`
	Notes     string    `gorm:"column:notes;type:text"`
}

func (Entry) TableName() string {
	return "clinical.history_entries"
}

type Repository interface {
	Create(ctx context.Context, e *Entry) error

	// ListByPatient returns a patient's history, most recently updated first.
	ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*Entry, error)
}

var ErrEntryNotFound = errors.New("history entry not found")
