package db

import (
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/luminance-studio/studio-scheduler/internal/config"
	"github.com/luminance-studio/studio-scheduler/internal/models"
)

func NewDB(cfg *config.Config) *gorm.DB {
	db, err := gorm.Open(postgres.Open(cfg.DBUrl), &gorm.Config{
		PrepareStmt: true,
	})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("failed to get sql.DB: %v", err)
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := db.AutoMigrate(
		&models.User{},
		&models.Service{},
		&models.WeeklyAvailability{},
		&models.AvailabilityOverride{},
		&models.Appointment{},
		&models.Payment{},
		&models.AuditLog{},
	); err != nil {
		log.Fatalf("failed to migrate: %v", err)
	}

	// La garantía real contra double-booking: ningún par de turnos no
	// cancelados puede tener intervalos [start, end) superpuestos, aunque
	// dos transacciones concurrentes pasen el chequeo de la aplicación.
	db.Exec(`CREATE EXTENSION IF NOT EXISTS btree_gist`)
	db.Exec(`
        DO $$ BEGIN
            ALTER TABLE appointments
                ADD CONSTRAINT appointments_no_overlap
                EXCLUDE USING gist (
                    tstzrange(start_time, end_time) WITH &&
                )
                WHERE (status IN ('pending', 'confirmed'));
        EXCEPTION
            WHEN duplicate_object THEN NULL;
            WHEN duplicate_table THEN NULL;
        END $$;
    `)

	// lock_timeout acotado: una reserva que espera un lock no se cuelga,
	// falla y el caller la reintenta como conflicto
	db.Exec(`SET lock_timeout = '5s'`)

	return db
}
