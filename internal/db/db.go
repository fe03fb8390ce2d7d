package db

import (
	"fmt"

	"campusconnect/internal/logger"
	"campusconnect/internal/models"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

// Init connects to Postgres, migrates the schema and seeds the default
// communities.
func Init(dsn string) error {
	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	logger.Log.Info("Database connection established")

	if err := Migrate(DB); err != nil {
		return err
	}
	logger.Log.Info("Database migration completed")

	SeedCommunities(DB)
	return nil
}

// Migrate creates or updates every table the service owns.
func Migrate(tx *gorm.DB) error {
	err := tx.AutoMigrate(
		&models.User{},
		&models.Community{},
		&models.Post{},
		&models.Comment{},
		&models.Message{},
		&models.FlaggedContent{},
	)
	if err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}
	return nil
}

var defaultCommunities = []models.Community{
	{Slug: "general", Name: "General", Description: "Campus-wide discussion"},
	{Slug: "academics", Name: "Academics", Description: "Courses, study groups and research"},
	{Slug: "events", Name: "Events", Description: "What is happening on campus"},
	{Slug: "marketplace", Name: "Marketplace", Description: "Buy, sell and swap"},
}

// SeedCommunities inserts the default communities into an empty table.
func SeedCommunities(tx *gorm.DB) {
	var count int64
	tx.Model(&models.Community{}).Count(&count)
	if count > 0 {
		logger.Log.Debug("Communities already seeded, skipping")
		return
	}

	for _, community := range defaultCommunities {
		c := community
		if err := tx.Create(&c).Error; err != nil {
			logger.Log.Error("Failed to create community", zap.String("slug", c.Slug), zap.Error(err))
		}
	}
	logger.Log.Info("Initial communities created", zap.Int("count", len(defaultCommunities)))
}
