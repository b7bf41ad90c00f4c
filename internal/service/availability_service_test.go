package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/citaflow/citaflow/internal/domain/appointment"
)

func TestAvailableSlots_FullCatalogWhenNothingBooked(t *testing.T) {
	svc := NewAvailabilityService(&MockAppointmentRepository{}, zap.NewNop())

	got, err := svc.AvailableSlots(context.Background(), "Cardiology", futureDate())
	require.NoError(t, err)
	assert.Equal(t, appointment.DailySlots(), got)
}

func TestAvailableSlots_SubtractsOccupied(t *testing.T) {
	repo := &MockAppointmentRepository{
		OccupiedTimesFunc: func(ctx context.Context, specialty string, date time.Time) ([]appointment.TimeOfDay, error) {
			return []appointment.TimeOfDay{"09:00:00", "13:00:00"}, nil
		},
	}
	svc := NewAvailabilityService(repo, zap.NewNop())

	got, err := svc.AvailableSlots(context.Background(), "Cardiology", futureDate())
	require.NoError(t, err)
	assert.Equal(t, []appointment.TimeOfDay{"10:00:00", "11:00:00", "14:00:00", "15:00:00"}, got)
}

func TestAvailableSlots_MissingInputs(t *testing.T) {
	svc := NewAvailabilityService(&MockAppointmentRepository{}, zap.NewNop())

	_, err := svc.AvailableSlots(context.Background(), "", time.Time{})
	var validErr *ValidationError
	require.ErrorAs(t, err, &validErr)
	assert.Len(t, validErr.Fields, 2)
}

func TestAvailableSlots_RepositoryFailure(t *testing.T) {
	boom := errors.New("connection reset")
	repo := &MockAppointmentRepository{
		OccupiedTimesFunc: func(ctx context.Context, specialty string, date time.Time) ([]appointment.TimeOfDay, error) {
			return nil, boom
		},
	}
	svc := NewAvailabilityService(repo, zap.NewNop())

	_, err := svc.AvailableSlots(context.Background(), "Cardiology", futureDate())
	assert.ErrorIs(t, err, boom)
}
