package database

import (
	"fmt"

	"otledger/models"

	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects to PostgreSQL and runs migrations.
func Open(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

// Migrate creates or updates the schema. Exported separately so tests can
// migrate an in-memory database.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Group{},
		&models.User{},
		&models.AdminGroup{},
		&models.Overtime{},
	); err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}
	return nil
}

// Seed creates a default group and admin account when the users table is
// empty, so a fresh install is reachable.
func Seed(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.User{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	group := models.Group{Name: "Default"}
	if err := db.Where("name = ?", group.Name).FirstOrCreate(&group).Error; err != nil {
		return err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := models.User{
		Username:     "admin",
		PasswordHash: string(hashedPassword),
		UserType:     models.UserTypeAdmin,
		GroupID:      group.ID,
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}

	edge := models.AdminGroup{AdminID: admin.ID, GroupID: group.ID}
	if err := db.Create(&edge).Error; err != nil {
		return err
	}

	log.Info("default admin user created (username: admin, password: admin123)")
	return nil
}
