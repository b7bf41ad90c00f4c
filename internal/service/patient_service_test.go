package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/citaflow/citaflow/internal/domain/patient"
)

func newPatientService(repo *MockPatientRepository) (*PatientService, *AuditService) {
	auditSvc := NewAuditService(&MockAuditRepository{}, zap.NewNop())
	return NewPatientService(repo, auditSvc, zap.NewNop()), auditSvc
}

func validPatientCommand() *patient.CreatePatientCommand {
	return &patient.CreatePatientCommand{
		NationalID: "12345678A",
		FirstName:  "Maria",
		LastName:   "Lopez",
		Email:      "Maria.Lopez@Example.com",
		Phone:      "600123456",
		Password:   "s3cret-pass",
	}
}

func TestCreatePatient_NormalizesAndHashes(t *testing.T) {
	var stored *patient.Patient
	repo := &MockPatientRepository{
		CreateFunc: func(ctx context.Context, p *patient.Patient) error {
			p.ID = uuid.New()
			stored = p
			return nil
		},
	}
	svc, auditSvc := newPatientService(repo)
	defer auditSvc.Shutdown()

	got, err := svc.CreatePatient(context.Background(), validPatientCommand(), "127.0.0.1")
	require.NoError(t, err)
	require.NotNil(t, stored)

	assert.Equal(t, "maria.lopez@example.com", got.Email)
	assert.NotEqual(t, "s3cret-pass", got.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(got.PasswordHash), []byte("s3cret-pass")))
}

func TestCreatePatient_ValidationCollectsAllFields(t *testing.T) {
	repo := &MockPatientRepository{}
	svc, auditSvc := newPatientService(repo)
	defer auditSvc.Shutdown()

	_, err := svc.CreatePatient(context.Background(), &patient.CreatePatientCommand{Email: "no-at-sign"}, "127.0.0.1")
	var validErr *ValidationError
	require.ErrorAs(t, err, &validErr)
	assert.Len(t, validErr.Fields, 5)
}

func TestCreatePatient_DuplicatePassesThrough(t *testing.T) {
	repo := &MockPatientRepository{
		CreateFunc: func(ctx context.Context, p *patient.Patient) error {
			return patient.ErrPatientAlreadyExists
		},
	}
	svc, auditSvc := newPatientService(repo)
	defer auditSvc.Shutdown()

	_, err := svc.CreatePatient(context.Background(), validPatientCommand(), "127.0.0.1")
	assert.ErrorIs(t, err, patient.ErrPatientAlreadyExists)
}

func TestCreatePatients_ItemsAreIndependent(t *testing.T) {
	repo := &MockPatientRepository{
		CreateFunc: func(ctx context.Context, p *patient.Patient) error {
			if p.NationalID == "DUPLICATE" {
				return patient.ErrPatientAlreadyExists
			}
			p.ID = uuid.New()
			return nil
		},
	}
	svc, auditSvc := newPatientService(repo)
	defer auditSvc.Shutdown()

	dup := validPatientCommand()
	dup.NationalID = "DUPLICATE"
	invalid := &patient.CreatePatientCommand{}

	res := svc.CreatePatients(context.Background(), []*patient.CreatePatientCommand{
		validPatientCommand(), dup, invalid, validPatientCommand(),
	}, "127.0.0.1")

	assert.Len(t, res.Created, 2)
	require.Len(t, res.Errors, 2)
	assert.Contains(t, res.Errors[0], "item 1")
	assert.Contains(t, res.Errors[1], "item 2")
}
