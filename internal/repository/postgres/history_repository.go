package postgres

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/citaflow/citaflow/internal/domain/history"
)

type HistoryRepository struct {
	db *gorm.DB
}

var _ history.Repository = (*HistoryRepository)(nil)

func NewHistoryRepository(db *gorm.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

func (r *HistoryRepository) Create(ctx context.Context, e *history.Entry) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *HistoryRepository) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*history.Entry, error) {
	var out []*history.Entry
	err := r.db.WithContext(ctx).
		Where("patient_id = ?", patientID).
		Order("updated_at DESC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}
