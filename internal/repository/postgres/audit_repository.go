package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/citaflow/citaflow/internal/domain"
	"github.com/citaflow/citaflow/internal/service"
)

type AuditRepository struct {
	db *gorm.DB
}

var _ service.AuditRepository = (*AuditRepository)(nil)

func NewAuditRepository(db *gorm.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

func (r *AuditRepository) Create(ctx context.Context, entry *domain.AuditLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}
