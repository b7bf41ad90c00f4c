package domain

import (
	"time"

	"github.com/google/uuid"
)

// Administrator is a back-office user able to manage doctors and review the
// audit trail. Each administrator holds exactly one role assignment.
type Administrator struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	Name         string `gorm:"column:name;type:varchar(100);not null"`
	Email        string `gorm:"column:email;type:varchar(255);uniqueIndex;not null"`
	PasswordHash string `gorm:"column:password_hash;type:varchar(255);not null"`

	LastLoginAt *time.Time `gorm:"column:last_login_at"`
}

func (Administrator) TableName() string {
	return "auth.administrators"
}

type Role struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name string    `gorm:"column:name;type:varchar(50);uniqueIndex;not null"`
}

func (Role) TableName() string {
	return "auth.roles"
}

// RoleAssignment links an administrator to their single role.
type RoleAssignment struct {
	AdministratorID uuid.UUID `gorm:"column:administrator_id;type:uuid;primaryKey"`
	RoleID          uuid.UUID `gorm:"column:role_id;type:uuid;not null;index"`
}

func (RoleAssignment) TableName() string {
	return "auth.role_assignments"
}

type AuditAction string

const (
	ActionCreate AuditAction = "create"
	ActionUpdate AuditAction = "update"
	ActionDelete AuditAction = "delete"
	ActionLogin  AuditAction = "login"
)

type AuditLog struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OccurredAt time.Time `gorm:"autoCreateTime;index"`

	ActorID   *uuid.UUID `gorm:"column:actor_id;type:uuid;index"`
	IPAddress string     `gorm:"column:ip_address;type:varchar(45)"` // Supports IPv6

	Action       AuditAction `gorm:"column:action;type:varchar(20);not null;index"`
	ResourceType string      `gorm:"column:resource_type;type:varchar(50);not null;index"`
	ResourceID   string      `gorm:"column:resource_id;type:varchar(50);index"`

	RequestID string `gorm:"column:request_id;type:varchar(50);index"`
	Changes   string `gorm:"column:changes;type:jsonb"`
}

func (AuditLog) TableName() string {
	return "audit.logs"
}

type TokenPair struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
	TokenType    string    `json:"token_type"` // Always "Bearer"
}

type Claims struct {
	AdminID uuid.UUID `json:"sub"`
	Email   string    `json:"email"`
	Role    string    `json:"role"`
}
