package patient

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Patient struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CreatedAt time.Time `gorm:"autoCreateTime;index"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	NationalID string `gorm:"column:national_id;type:varchar(20);uniqueIndex;not null"`
	FirstName  string `gorm:"column:first_name;type:varchar(100);not null"`
	LastName   string `gorm:"column:last_name;type:varchar(100);not null"`
	Email      string `gorm:"column:email;type:varchar(255);uniqueIndex;not null"`
	Phone      string `gorm:"column:phone;type:varchar(20)"`

	PasswordHash string `gorm:"column:password_hash;type:varchar(255);not null"`
}

func (Patient) TableName() string {
	return "clinical.patients"
}

func (p *Patient) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

type CreatePatientCommand struct {
	NationalID string
	FirstName  string
	LastName   string
	Email      string
	Phone      string
	Password   string
}

type UpdatePatientCommand struct {
	FirstName *string
	LastName  *string
	Email     *string
	Phone     *string
}
