package database

import (
	"errors"
	"fmt"

	config "github.com/tutorcenter/scheduler/configs"
	"github.com/tutorcenter/scheduler/models"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Open applies the shared GORM settings to any dialector. TranslateError is
// on so unique violations surface as gorm.ErrDuplicatedKey on every driver.
func Open(dialector gorm.Dialector) (*gorm.DB, error) {
	return gorm.Open(dialector, &gorm.Config{
		PrepareStmt:            false,
		SkipDefaultTransaction: true,
		TranslateError:         true,
		Logger:                 logger.Default.LogMode(logger.Warn),
	})
}

func ConnectDB(dsn string) error {
	db, err := Open(postgres.Open(dsn))
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	DB = db
	zap.S().Info("database connected")
	return nil
}

func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.Group{},
		&models.User{},
		&models.Course{},
		&models.Department{},
		&models.Student{},
		&models.Tutor{},
		&models.Availability{},
		&models.SemesterDates{},
	)
	if err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}
	return SeedGroups(db)
}

func SeedGroups(db *gorm.DB) error {
	for _, name := range []string{models.GroupStudent, models.GroupTutor} {
		g := models.Group{Name: name}
		if err := db.Where(models.Group{Name: name}).FirstOrCreate(&g).Error; err != nil {
			return fmt.Errorf("seed group %s: %w", name, err)
		}
	}
	return nil
}

func SeedAdmin(db *gorm.DB, s *config.AppSettings) error {
	if s.AdminPassword == "" {
		zap.S().Warn("ADMIN_PASSWORD not set, skipping admin seed")
		return nil
	}

	var existing models.User
	err := db.Where("username = ?", s.AdminUsername).First(&existing).Error
	if err == nil {
		zap.S().Debugw("admin user already exists", "username", s.AdminUsername)
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("check admin user: %w", err)
	}

	admin := models.User{
		Username:    s.AdminUsername,
		Email:       s.AdminEmail,
		IsActive:    true,
		IsSuperuser: true,
	}
	if err := admin.SetPassword(s.AdminPassword); err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	if err := db.Create(&admin).Error; err != nil {
		return fmt.Errorf("seed admin user: %w", err)
	}
	zap.S().Infow("admin user seeded", "username", admin.Username)
	return nil
}
