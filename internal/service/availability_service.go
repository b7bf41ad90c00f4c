package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/citaflow/citaflow/internal/domain/appointment"
)

// AvailabilityService answers "which slots remain free for this specialty on
// this date". Read-only.
type AvailabilityService struct {
	repo appointment.Repository
	log  *zap.Logger
}

func NewAvailabilityService(repo appointment.Repository, log *zap.Logger) *AvailabilityService {
	return &AvailabilityService{repo: repo, log: log}
}

// AvailableSlots returns the fixed daily catalog minus the times already
// booked for doctors of the given specialty on the given date, in catalog order.
func (s *AvailabilityService) AvailableSlots(ctx context.Context, specialty string, date time.Time) ([]appointment.TimeOfDay, error) {
	var fields []string
	if specialty == "" {
		fields = append(fields, "especialidad is required")
	}
	if date.IsZero() {
		fields = append(fields, "fecha is required")
	}
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	occupied, err := s.repo.OccupiedTimes(ctx, specialty, date)
	if err != nil {
		s.log.Error("failed to load occupied times",
			zap.String("specialty", specialty),
			zap.Error(err),
		)
		return nil, fmt.Errorf("loading occupied times: %w", err)
	}

	return appointment.AvailableSlots(occupied), nil
}
