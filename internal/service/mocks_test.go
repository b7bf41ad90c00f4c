package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/citaflow/citaflow/internal/domain"
	"github.com/citaflow/citaflow/internal/domain/appointment"
	"github.com/citaflow/citaflow/internal/domain/doctor"
	"github.com/citaflow/citaflow/internal/domain/history"
	"github.com/citaflow/citaflow/internal/domain/notification"
	"github.com/citaflow/citaflow/internal/domain/patient"
)

// Function-field mocks: each test sets only the behaviour it cares about.

var _ appointment.Repository = (*MockAppointmentRepository)(nil)

type MockAppointmentRepository struct {
	CreateFunc        func(ctx context.Context, a *appointment.Appointment) error
	GetByIDFunc       func(ctx context.Context, id uuid.UUID) (*appointment.Appointment, error)
	FindFunc          func(ctx context.Context, q *appointment.FindQuery) ([]*appointment.Appointment, error)
	RescheduleFunc    func(ctx context.Context, id uuid.UUID, date time.Time, t appointment.TimeOfDay) error
	DeleteFunc        func(ctx context.Context, id uuid.UUID) error
	OccupiedTimesFunc func(ctx context.Context, specialty string, date time.Time) ([]appointment.TimeOfDay, error)

	CreateCalls int
}

func (m *MockAppointmentRepository) Create(ctx context.Context, a *appointment.Appointment) error {
	m.CreateCalls++
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, a)
	}
	return nil
}

func (m *MockAppointmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*appointment.Appointment, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, errors.New("GetByIDFunc not set")
}

func (m *MockAppointmentRepository) Find(ctx context.Context, q *appointment.FindQuery) ([]*appointment.Appointment, error) {
	if m.FindFunc != nil {
		return m.FindFunc(ctx, q)
	}
	return nil, nil
}

func (m *MockAppointmentRepository) Reschedule(ctx context.Context, id uuid.UUID, date time.Time, t appointment.TimeOfDay) error {
	if m.RescheduleFunc != nil {
		return m.RescheduleFunc(ctx, id, date, t)
	}
	return nil
}

func (m *MockAppointmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func (m *MockAppointmentRepository) OccupiedTimes(ctx context.Context, specialty string, date time.Time) ([]appointment.TimeOfDay, error) {
	if m.OccupiedTimesFunc != nil {
		return m.OccupiedTimesFunc(ctx, specialty, date)
	}
	return nil, nil
}

var _ patient.Repository = (*MockPatientRepository)(nil)

type MockPatientRepository struct {
	CreateFunc  func(ctx context.Context, p *patient.Patient) error
	GetByIDFunc func(ctx context.Context, id uuid.UUID) (*patient.Patient, error)
	ExistsFunc  func(ctx context.Context, id uuid.UUID) (bool, error)
	UpdateFunc  func(ctx context.Context, id uuid.UUID, cmd *patient.UpdatePatientCommand) (*patient.Patient, error)
	DeleteFunc  func(ctx context.Context, id uuid.UUID) error
	ListFunc    func(ctx context.Context) ([]*patient.Patient, error)
}

func (m *MockPatientRepository) Create(ctx context.Context, p *patient.Patient) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, p)
	}
	return nil
}

func (m *MockPatientRepository) GetByID(ctx context.Context, id uuid.UUID) (*patient.Patient, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, patient.ErrPatientNotFound
}

func (m *MockPatientRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	if m.ExistsFunc != nil {
		return m.ExistsFunc(ctx, id)
	}
	return false, nil
}

func (m *MockPatientRepository) Update(ctx context.Context, id uuid.UUID, cmd *patient.UpdatePatientCommand) (*patient.Patient, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, cmd)
	}
	return nil, patient.ErrPatientNotFound
}

func (m *MockPatientRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func (m *MockPatientRepository) List(ctx context.Context) ([]*patient.Patient, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return nil, nil
}

var _ doctor.Repository = (*MockDoctorRepository)(nil)

type MockDoctorRepository struct {
	CreateFunc  func(ctx context.Context, d *doctor.Doctor) error
	GetByIDFunc func(ctx context.Context, id uuid.UUID) (*doctor.Doctor, error)
	ExistsFunc  func(ctx context.Context, id uuid.UUID) (bool, error)
	ListFunc    func(ctx context.Context) ([]*doctor.Doctor, error)
}

func (m *MockDoctorRepository) Create(ctx context.Context, d *doctor.Doctor) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, d)
	}
	return nil
}

func (m *MockDoctorRepository) GetByID(ctx context.Context, id uuid.UUID) (*doctor.Doctor, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, doctor.ErrDoctorNotFound
}

func (m *MockDoctorRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	if m.ExistsFunc != nil {
		return m.ExistsFunc(ctx, id)
	}
	return false, nil
}

func (m *MockDoctorRepository) List(ctx context.Context) ([]*doctor.Doctor, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return nil, nil
}

var _ history.Repository = (*MockHistoryRepository)(nil)

type MockHistoryRepository struct {
	CreateFunc        func(ctx context.Context, e *history.Entry) error
	ListByPatientFunc func(ctx context.Context, patientID uuid.UUID) ([]*history.Entry, error)
}

func (m *MockHistoryRepository) Create(ctx context.Context, e *history.Entry) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, e)
	}
	return nil
}

func (m *MockHistoryRepository) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*history.Entry, error) {
	if m.ListByPatientFunc != nil {
		return m.ListByPatientFunc(ctx, patientID)
	}
	return nil, nil
}

// MockNotificationRepository records created notifications so tests can
// assert on them after draining the worker with Shutdown.
var _ notification.Repository = (*MockNotificationRepository)(nil)

type MockNotificationRepository struct {
	mu      sync.Mutex
	Created []*notification.Notification
}

func (m *MockNotificationRepository) Create(ctx context.Context, n *notification.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Created = append(m.Created, n)
	return nil
}

func (m *MockNotificationRepository) ListByAppointment(ctx context.Context, appointmentID uuid.UUID) ([]*notification.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*notification.Notification
	for _, n := range m.Created {
		if n.AppointmentID == appointmentID {
			out = append(out, n)
		}
	}
	return out, nil
}

var _ AuditRepository = (*MockAuditRepository)(nil)

type MockAuditRepository struct {
	mu      sync.Mutex
	Entries []*domain.AuditLog
}

func (m *MockAuditRepository) Create(ctx context.Context, entry *domain.AuditLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Entries = append(m.Entries, entry)
	return nil
}
