package doctor

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	// Create persists a new doctor. Returns ErrDoctorAlreadyExists on a
	// duplicate license number or email.
	Create(ctx context.Context, d *Doctor) error

	GetByID(ctx context.Context, id uuid.UUID) (*Doctor, error)

	Exists(ctx context.Context, id uuid.UUID) (bool, error)

	List(ctx context.Context) ([]*Doctor, error)
}
