package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/citaflow/citaflow/internal/domain/patient"
)

type PatientService struct {
	repo     patient.Repository
	auditSvc *AuditService
	log      *zap.Logger
}

func NewPatientService(repo patient.Repository, auditSvc *AuditService, log *zap.Logger) *PatientService {
	return &PatientService{repo: repo, auditSvc: auditSvc, log: log}
}

func (s *PatientService) CreatePatient(ctx context.Context, cmd *patient.CreatePatientCommand, ip string) (*patient.Patient, error) {
	if err := validateCreatePatient(cmd); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cmd.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	p := &patient.Patient{
		NationalID:   strings.TrimSpace(cmd.NationalID),
		FirstName:    strings.TrimSpace(cmd.FirstName),
		LastName:     strings.TrimSpace(cmd.LastName),
		Email:        strings.ToLower(strings.TrimSpace(cmd.Email)),
		Phone:        strings.TrimSpace(cmd.Phone),
		PasswordHash: string(hash),
	}

	if err := s.repo.Create(ctx, p); err != nil {
		if err != patient.ErrPatientAlreadyExists {
			s.log.Error("failed to create patient", zap.Error(err))
		}
		return nil, err
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		Action:       "create",
		ResourceType: "patient",
		ResourceID:   p.ID.String(),
		IPAddress:    ip,
	})

	s.log.Info("patient created", zap.String("patient_id", p.ID.String()))
	return p, nil
}

// BulkResult carries per-item outcomes of a bulk registration.
type BulkResult struct {
	Created []*patient.Patient
	Errors  []string
}

// CreatePatients registers a batch; items fail or succeed independently,
// matching the legacy multi-status behaviour.
func (s *PatientService) CreatePatients(ctx context.Context, cmds []*patient.CreatePatientCommand, ip string) *BulkResult {
	res := &BulkResult{}
	for i, cmd := range cmds {
		p, err := s.CreatePatient(ctx, cmd, ip)
		if err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("item %d: %v", i, err))
			continue
		}
		res.Created = append(res.Created, p)
	}
	return res
}

func (s *PatientService) GetPatient(ctx context.Context, id uuid.UUID) (*patient.Patient, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *PatientService) UpdatePatient(ctx context.Context, id uuid.UUID, cmd *patient.UpdatePatientCommand, ip string) (*patient.Patient, error) {
	p, err := s.repo.Update(ctx, id, cmd)
	if err != nil {
		return nil, err
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		Action:       "update",
		ResourceType: "patient",
		ResourceID:   id.String(),
		IPAddress:    ip,
	})

	return p, nil
}

func (s *PatientService) DeletePatient(ctx context.Context, id uuid.UUID, ip string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		Action:       "delete",
		ResourceType: "patient",
		ResourceID:   id.String(),
		IPAddress:    ip,
	})

	return nil
}

func (s *PatientService) ListPatients(ctx context.Context) ([]*patient.Patient, error) {
	return s.repo.List(ctx)
}

func validateCreatePatient(cmd *patient.CreatePatientCommand) error {
	var errs []string

	if strings.TrimSpace(cmd.NationalID) == "" {
		errs = append(errs, "dni is required")
	}
	if strings.TrimSpace(cmd.FirstName) == "" {
		errs = append(errs, "nombre is required")
	}
	if strings.TrimSpace(cmd.LastName) == "" {
		errs = append(errs, "apellido is required")
	}
	if strings.TrimSpace(cmd.Email) == "" || !strings.Contains(cmd.Email, "@") {
		errs = append(errs, "email is invalid")
	}
	if cmd.Password == "" {
		errs = append(errs, "contrasena is required")
	}

	if len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}
	return nil
}
