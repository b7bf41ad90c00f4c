package notification

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	TypeConfirmation Type = "confirmacion"
	TypeReschedule   Type = "reprogramacion"
	TypeCancellation Type = "cancelacion"
)

// Notification is a per-appointment message record. Delivery is out of
// scope; SentAt stays nil until a delivery channel marks it sent.
type Notification struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CreatedAt time.Time `gorm:"autoCreateTime;index"`

	AppointmentID uuid.UUID  `gorm:"column:appointment_id;type:uuid;not null;index"`
	Type          Type       `gorm:"column:type;type:varchar(50);not null"`
	Message       string     `gorm:"column:message;type:text;not null"`
	SentAt        *time.Time `gorm:"column:sent_at"`
}

func (Notification) TableName() string {
	return "clinical.notifications"
}

type Repository interface {
	Create(ctx context.Context, n *Notification) error
	ListByAppointment(ctx context.Context, appointmentID uuid.UUID) ([]*Notification, error)
}
