package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/citaflow/citaflow/internal/domain"
	"github.com/citaflow/citaflow/internal/service"
)

var errAdminNotFound = errors.New("administrator not found")

type AdminRepository struct {
	db *gorm.DB
}

var _ service.AdminRepository = (*AdminRepository)(nil)

func NewAdminRepository(db *gorm.DB) *AdminRepository {
	return &AdminRepository{db: db}
}

func (r *AdminRepository) GetByEmail(ctx context.Context, email string) (*domain.Administrator, error) {
	var a domain.Administrator
	err := r.db.WithContext(ctx).First(&a, "email = ?", email).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errAdminNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AdminRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Administrator, error) {
	var a domain.Administrator
	err := r.db.WithContext(ctx).First(&a, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errAdminNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// RoleOf resolves the administrator's single role assignment.
func (r *AdminRepository) RoleOf(ctx context.Context, adminID uuid.UUID) (string, error) {
	var name string
	err := r.db.WithContext(ctx).
		Model(&domain.RoleAssignment{}).
		Joins("JOIN auth.roles ON auth.roles.id = auth.role_assignments.role_id").
		Where("auth.role_assignments.administrator_id = ?", adminID).
		Pluck("auth.roles.name", &name).Error
	if err != nil {
		return "", err
	}
	return name, nil
}

func (r *AdminRepository) TouchLogin(ctx context.Context, id uuid.UUID) error {
	now := time.Now()
	return r.db.WithContext(ctx).
		Model(&domain.Administrator{}).
		Where("id = ?", id).
		Update("last_login_at", &now).Error
}
