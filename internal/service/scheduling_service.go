package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/citaflow/citaflow/internal/domain/appointment"
	"github.com/citaflow/citaflow/internal/domain/doctor"
	"github.com/citaflow/citaflow/internal/domain/notification"
	"github.com/citaflow/citaflow/internal/domain/patient"
	"github.com/citaflow/citaflow/pkg/refcode"
)

// refCodeAttempts bounds regeneration when a booking reference collides.
const refCodeAttempts = 3

// SchedulingService owns the appointment lifecycle: booking, rescheduling,
// cancelling and querying.
type SchedulingService struct {
	repo        appointment.Repository
	patientRepo patient.Repository
	doctorRepo  doctor.Repository
	notifier    *NotificationService
	auditSvc    *AuditService
	log         *zap.Logger
}

func NewSchedulingService(
	repo appointment.Repository,
	patientRepo patient.Repository,
	doctorRepo doctor.Repository,
	notifier *NotificationService,
	auditSvc *AuditService,
	log *zap.Logger,
) *SchedulingService {
	return &SchedulingService{
		repo:        repo,
		patientRepo: patientRepo,
		doctorRepo:  doctorRepo,
		notifier:    notifier,
		auditSvc:    auditSvc,
		log:         log,
	}
}

// Schedule books a new appointment. Checks run in a fixed order and the
// first violation wins: past date, business hours, patient existence, doctor
// existence, slot conflict.
func (s *SchedulingService) Schedule(ctx context.Context, cmd *appointment.ScheduleCommand, ip string) (*appointment.Appointment, error) {
	if cmd.Date.Before(appointment.Today()) {
		return nil, appointment.ErrScheduledInPast
	}
	if !cmd.Time.WithinBusinessHours() {
		return nil, appointment.ErrOutsideBusinessHours
	}

	exists, err := s.patientRepo.Exists(ctx, cmd.PatientID)
	if err != nil {
		return nil, fmt.Errorf("verifying patient: %w", err)
	}
	if !exists {
		return nil, patient.ErrPatientNotFound
	}

	exists, err = s.doctorRepo.Exists(ctx, cmd.DoctorID)
	if err != nil {
		return nil, fmt.Errorf("verifying doctor: %w", err)
	}
	if !exists {
		return nil, doctor.ErrDoctorNotFound
	}

	a := &appointment.Appointment{
		PatientID: cmd.PatientID,
		DoctorID:  cmd.DoctorID,
		Date:      cmd.Date,
		Time:      cmd.Time,
		Specialty: cmd.Specialty,
		Status:    appointment.StatusConfirmed,
	}

	for attempt := 0; ; attempt++ {
		a.RefCode = refcode.New()
		err = s.repo.Create(ctx, a)
		if err == nil {
			break
		}
		if errors.Is(err, appointment.ErrRefCodeTaken) && attempt < refCodeAttempts-1 {
			s.log.Warn("booking reference collision, regenerating",
				zap.String("ref_code", a.RefCode),
			)
			continue
		}
		if errors.Is(err, appointment.ErrSlotTaken) || errors.Is(err, appointment.ErrDuplicateAppointment) {
			return nil, err
		}
		s.log.Error("failed to create appointment", zap.Error(err))
		return nil, fmt.Errorf("creating appointment: %w", err)
	}

	s.notifier.QueueForAppointment(a.ID, notification.TypeConfirmation,
		fmt.Sprintf("Su cita ha sido confirmada para el %s a las %s. Referencia: %s",
			a.Date.Format("2006-01-02"), a.Time, a.RefCode))

	s.auditSvc.LogAsync(ctx, AuditEntry{
		Action:       "create",
		ResourceType: "appointment",
		ResourceID:   a.ID.String(),
		IPAddress:    ip,
	})

	s.log.Info("appointment booked",
		zap.String("appointment_id", a.ID.String()),
		zap.String("doctor_id", a.DoctorID.String()),
		zap.String("date", a.Date.Format("2006-01-02")),
		zap.String("time", a.Time.String()),
	)

	return a, nil
}

// Reschedule moves an existing appointment to a new date and time. Identity
// and booking reference are preserved.
func (s *SchedulingService) Reschedule(ctx context.Context, cmd *appointment.RescheduleCommand, ip string) (*appointment.Appointment, error) {
	a, err := s.repo.GetByID(ctx, cmd.ID)
	if err != nil {
		return nil, err
	}

	var fields []string
	if cmd.Date.IsZero() {
		fields = append(fields, "fecha is required")
	}
	if cmd.Time == "" {
		fields = append(fields, "hora is required")
	}
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	if a.SameSlot(cmd.Date, cmd.Time) {
		return nil, appointment.ErrScheduleUnchanged
	}

	if err := s.repo.Reschedule(ctx, cmd.ID, cmd.Date, cmd.Time); err != nil {
		if errors.Is(err, appointment.ErrSlotTaken) || errors.Is(err, appointment.ErrAppointmentNotFound) {
			return nil, err
		}
		s.log.Error("failed to reschedule appointment", zap.Error(err))
		return nil, fmt.Errorf("rescheduling appointment: %w", err)
	}
	a.Date = cmd.Date
	a.Time = cmd.Time

	s.notifier.QueueForAppointment(a.ID, notification.TypeReschedule,
		fmt.Sprintf("Su cita %s ha sido reprogramada para el %s a las %s.",
			a.RefCode, a.Date.Format("2006-01-02"), a.Time))

	s.auditSvc.LogAsync(ctx, AuditEntry{
		Action:       "update",
		ResourceType: "appointment",
		ResourceID:   a.ID.String(),
		IPAddress:    ip,
		Changes:      fmt.Sprintf(`{"date":"%s","time":"%s"}`, a.Date.Format("2006-01-02"), a.Time),
	})

	return a, nil
}

// Cancel deletes an appointment. Cancelling twice fails the second time with
// ErrAppointmentNotFound.
func (s *SchedulingService) Cancel(ctx context.Context, id uuid.UUID, ip string) error {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, appointment.ErrAppointmentNotFound) {
			return err
		}
		s.log.Error("failed to cancel appointment", zap.Error(err))
		return fmt.Errorf("cancelling appointment: %w", err)
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		Action:       "delete",
		ResourceType: "appointment",
		ResourceID:   id.String(),
		IPAddress:    ip,
		Changes:      fmt.Sprintf(`{"ref_code":"%s"}`, a.RefCode),
	})

	s.log.Info("appointment cancelled", zap.String("appointment_id", id.String()))
	return nil
}

// Find lists appointments by any combination of appointment, patient and
// doctor identifiers. At least one filter is required.
func (s *SchedulingService) Find(ctx context.Context, q *appointment.FindQuery) ([]*appointment.Appointment, error) {
	if q.Empty() {
		return nil, &ValidationError{Fields: []string{"at least one of id_cita, id_paciente, id_medico is required"}}
	}
	return s.repo.Find(ctx, q)
}
