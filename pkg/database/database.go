package database

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/citaflow/citaflow/internal/config"
	"github.com/citaflow/citaflow/internal/domain"
	"github.com/citaflow/citaflow/internal/domain/appointment"
	"github.com/citaflow/citaflow/internal/domain/doctor"
	"github.com/citaflow/citaflow/internal/domain/history"
	"github.com/citaflow/citaflow/internal/domain/notification"
	"github.com/citaflow/citaflow/internal/domain/patient"
)

func Connect(cfg config.DatabaseConfig) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		Logger:      gormlogger.Default.LogMode(gormlogger.Silent),
		PrepareStmt: true,
	}

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN: cfg.DSN(),
	}), gormCfg)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("getting underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return db, nil
}

func Migrate(db *gorm.DB, scheduling config.SchedulingConfig, log *zap.Logger) error {
	log.Info("running database migrations")
	start := time.Now()

	schemas := []string{"clinical", "auth", "audit"} // logical namespace
	for _, schema := range schemas {
		if err := db.Exec(fmt.Sprintf("CREATE SCHEMA IF NOT EXISTS %s", schema)).Error; err != nil {
			return fmt.Errorf("creating schema %s: %w", schema, err)
		}
	}

	models := []any{
		&domain.Administrator{},
		&domain.Role{},
		&domain.RoleAssignment{},
		&domain.AuditLog{},
		&patient.Patient{},
		&doctor.Doctor{},
		&appointment.Appointment{},
		&history.Entry{},
		&notification.Notification{},
	}

	if err := db.AutoMigrate(models...); err != nil {
		return fmt.Errorf("auto-migrating models: %w", err)
	}

	if err := createSlotConstraint(db, scheduling); err != nil {
		return fmt.Errorf("creating slot uniqueness constraint: %w", err)
	}

	createCascades(db)

	log.Info("migrations completed", zap.Duration("duration", time.Since(start)))
	return nil
}

// createSlotConstraint installs the uniqueness constraint the scheduler's
// conflict check depends on. The application-level pre-check alone leaves a
// check-then-act window between two concurrent bookings; the index closes it.
func createSlotConstraint(db *gorm.DB, scheduling config.SchedulingConfig) error {
	// Drop whichever variant is not in force so a policy flip takes effect.
	if scheduling.DoctorExclusive {
		_ = db.Exec(`DROP INDEX IF EXISTS clinical.uq_appointments_patient_slot`).Error
		return db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS uq_appointments_doctor_slot
			ON clinical.appointments (doctor_id, date, start_time)`).Error
	}

	_ = db.Exec(`DROP INDEX IF EXISTS clinical.uq_appointments_doctor_slot`).Error
	return db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS uq_appointments_patient_slot
		ON clinical.appointments (patient_id, doctor_id, date, start_time)`).Error
}

// createCascades wires referential actions: deleting a patient removes their
// appointments and history; deleting an appointment removes its notifications.
func createCascades(db *gorm.DB) {
	constraints := []string{
		`ALTER TABLE clinical.appointments
			ADD CONSTRAINT fk_appointments_patient FOREIGN KEY (patient_id)
			REFERENCES clinical.patients (id) ON DELETE CASCADE`,
		`ALTER TABLE clinical.appointments
			ADD CONSTRAINT fk_appointments_doctor FOREIGN KEY (doctor_id)
			REFERENCES clinical.doctors (id) ON DELETE CASCADE`,
		`ALTER TABLE clinical.history_entries
			ADD CONSTRAINT fk_history_patient FOREIGN KEY (patient_id)
			REFERENCES clinical.patients (id) ON DELETE CASCADE`,
		`ALTER TABLE clinical.notifications
			ADD CONSTRAINT fk_notifications_appointment FOREIGN KEY (appointment_id)
			REFERENCES clinical.appointments (id) ON DELETE CASCADE`,
	}

	for _, c := range constraints {
		// Postgres has no ADD CONSTRAINT IF NOT EXISTS; duplicate errors are expected on re-run.
		_ = db.Exec(c).Error
	}
}
