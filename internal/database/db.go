package database

import (
	"fmt"
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"mess-admin-go/internal/config"
	"mess-admin-go/internal/models"
)

var DB *gorm.DB

// Connect opens the configured database, migrates it and stores it in DB.
func Connect(cfg *config.Config) error {
	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case "sqlite":
		dialector = sqlite.Open(cfg.SQLitePath)
	case "postgres", "":
		dialector = postgres.Open(cfg.PostgresDSN())
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}

	db, err := Open(dialector)
	if err != nil {
		return fmt.Errorf("connect %s: %w", cfg.DBDriver, err)
	}
	if err := Migrate(db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	log.Printf("connected to %s", cfg.DBDriver)
	DB = db
	return nil
}

// Open records reference members by id only, so no foreign keys are created.
func Open(dialector gorm.Dialector) (*gorm.DB, error) {
	return gorm.Open(dialector, &gorm.Config{
		TranslateError:                           true,
		DisableForeignKeyConstraintWhenMigrating: true,
	})
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Member{},
		&models.Attendance{},
		&models.Payment{},
		&models.ActivityLog{},
	)
}
