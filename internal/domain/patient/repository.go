package patient

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	// Create persists a new patient. Returns ErrPatientAlreadyExists on a
	// duplicate national ID or email.
	Create(ctx context.Context, p *Patient) error

	GetByID(ctx context.Context, id uuid.UUID) (*Patient, error)

	// Exists checks for the patient without fetching the full record.
	Exists(ctx context.Context, id uuid.UUID) (bool, error)

	// Update applies partial updates to an existing patient record.
	Update(ctx context.Context, id uuid.UUID, cmd *UpdatePatientCommand) (*Patient, error)

	// Delete removes the patient; appointments and history entries are
	// cascaded by the database.
	Delete(ctx context.Context, id uuid.UUID) error

	List(ctx context.Context) ([]*Patient, error)
}
