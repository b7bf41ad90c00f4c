package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/citaflow/citaflow/internal/domain/doctor"
)

type DoctorService struct {
	repo     doctor.Repository
	auditSvc *AuditService
	log      *zap.Logger
}

func NewDoctorService(repo doctor.Repository, auditSvc *AuditService, log *zap.Logger) *DoctorService {
	return &DoctorService{repo: repo, auditSvc: auditSvc, log: log}
}

func (s *DoctorService) CreateDoctor(ctx context.Context, cmd *doctor.CreateDoctorCommand, actorID string, ip string) (*doctor.Doctor, error) {
	var errs []string
	if strings.TrimSpace(cmd.LicenseNumber) == "" {
		errs = append(errs, "ncolegiado is required")
	}
	if strings.TrimSpace(cmd.Name) == "" {
		errs = append(errs, "nombre is required")
	}
	if strings.TrimSpace(cmd.Specialty) == "" {
		errs = append(errs, "especialidad is required")
	}
	if strings.TrimSpace(cmd.Email) == "" || !strings.Contains(cmd.Email, "@") {
		errs = append(errs, "email is invalid")
	}
	if len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}

	d := &doctor.Doctor{
		LicenseNumber: strings.TrimSpace(cmd.LicenseNumber),
		Name:          strings.TrimSpace(cmd.Name),
		Specialty:     strings.TrimSpace(cmd.Specialty),
		Email:         strings.ToLower(strings.TrimSpace(cmd.Email)),
	}

	if err := s.repo.Create(ctx, d); err != nil {
		if err != doctor.ErrDoctorAlreadyExists {
			s.log.Error("failed to create doctor", zap.Error(err))
		}
		return nil, err
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		ActorID:      actorID,
		Action:       "create",
		ResourceType: "doctor",
		ResourceID:   d.ID.String(),
		IPAddress:    ip,
	})

	s.log.Info("doctor created",
		zap.String("doctor_id", d.ID.String()),
		zap.String("specialty", d.Specialty),
	)

	return d, nil
}

func (s *DoctorService) GetDoctor(ctx context.Context, id uuid.UUID) (*doctor.Doctor, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *DoctorService) ListDoctors(ctx context.Context) ([]*doctor.Doctor, error) {
	return s.repo.List(ctx)
}
