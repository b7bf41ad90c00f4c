package doctor

import (
	"time"

	"github.com/google/uuid"
)

type Doctor struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	LicenseNumber string `gorm:"column:license_number;type:varchar(20);uniqueIndex;not null"`
	Name          string `gorm:"column:name;type:varchar(100);not null"`

	// Specialty is free text and acts as the matching key for availability
	// queries; it is not a foreign key.
	Specialty string `gorm:"column:specialty;type:varchar(100);not null;index"`
	Email     string `gorm:"column:email;type:varchar(255);uniqueIndex;not null"`
}

func (Doctor) TableName() string {
	return "clinical.doctors"
}

type CreateDoctorCommand struct {
	LicenseNumber string
	Name          string
	Specialty     string
	Email         string
}
