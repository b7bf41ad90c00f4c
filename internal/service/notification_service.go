package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/citaflow/citaflow/internal/domain/notification"
)

const notificationBufferSize = 4_096

// NotificationService persists appointment notifications off the request
// path through a bounded buffer and a single worker.
type NotificationService struct {
	repo    notification.Repository
	log     *zap.Logger
	entries chan *notification.Notification
	done    chan struct{}
}

func NewNotificationService(repo notification.Repository, log *zap.Logger) *NotificationService {
	svc := &NotificationService{
		repo:    repo,
		log:     log,
		entries: make(chan *notification.Notification, notificationBufferSize),
		done:    make(chan struct{}),
	}
	go svc.worker()
	return svc
}

// QueueForAppointment enqueues a notification record. If the buffer is full
// the record is dropped and a warning is emitted; notifications are advisory
// and must never block a booking.
func (s *NotificationService) QueueForAppointment(appointmentID uuid.UUID, typ notification.Type, message string) {
	n := &notification.Notification{
		AppointmentID: appointmentID,
		Type:          typ,
		Message:       message,
	}

	select {
	case s.entries <- n:
	default:
		s.log.Warn("notification buffer full, dropping entry",
			zap.String("appointment_id", appointmentID.String()),
			zap.String("type", string(typ)),
		)
	}
}

// ListForAppointment returns the stored notifications of one appointment.
func (s *NotificationService) ListForAppointment(ctx context.Context, appointmentID uuid.UUID) ([]*notification.Notification, error) {
	return s.repo.ListByAppointment(ctx, appointmentID)
}

func (s *NotificationService) Shutdown() {
	close(s.entries)
	select {
	case <-s.done:
	case <-time.After(10 * time.Second):
		s.log.Warn("notification service shutdown timed out; some entries may be lost")
	}
}

func (s *NotificationService) worker() {
	defer close(s.done)
	for n := range s.entries {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := s.repo.Create(ctx, n); err != nil {
			// The appointment may already be cancelled; its notifications
			// cascade away with it, so a failed insert here is not fatal.
			s.log.Error("failed to persist notification", zap.Error(err))
		}
		cancel()
	}
}
