package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/citaflow/citaflow/internal/domain/history"
	"github.com/citaflow/citaflow/internal/domain/patient"
)

type HistoryService struct {
	repo        history.Repository
	patientRepo patient.Repository
	log         *zap.Logger
}

func NewHistoryService(repo history.Repository, patientRepo patient.Repository, log *zap.Logger) *HistoryService {
	return &HistoryService{repo: repo, patientRepo: patientRepo, log: log}
}

// AppendEntry adds a history note for an existing patient.
func (s *HistoryService) AppendEntry(ctx context.Context, patientID uuid.UUID, notes string) (*history.Entry, error) {
	if strings.TrimSpace(notes) == "" {
		return nil, &ValidationError{Fields: []string{"notas is required"}}
	}

	exists, err := s.patientRepo.Exists(ctx, patientID)
	if err != nil {
		return nil, fmt.Errorf("verifying patient: %w", err)
	}
	if !exists {
		return nil, patient.ErrPatientNotFound
	}

	e := &history.Entry{
		PatientID: patientID,
		Notes:     notes,
	}
	if err := s.repo.Create(ctx, e); err != nil {
		s.log.Error("failed to append history entry", zap.Error(err))
		return nil, fmt.Errorf("appending history entry: %w", err)
	}
	return e, nil
}

func (s *HistoryService) PatientHistory(ctx context.Context, patientID uuid.UUID) ([]*history.Entry, error) {
	exists, err := s.patientRepo.Exists(ctx, patientID)
	if err != nil {
		return nil, fmt.Errorf("verifying patient: %w", err)
	}
	if !exists {
		return nil, patient.ErrPatientNotFound
	}
	return s.repo.ListByPatient(ctx, patientID)
}
