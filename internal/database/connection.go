package database

import (
	"fmt"
	"time"

	"github.com/wisdomlc/quiz_bot/internal/config"
	"github.com/wisdomlc/quiz_bot/internal/models"
	"github.com/wisdomlc/quiz_bot/pkg/logger"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func Connect(cfg *config.Config) (*gorm.DB, error) {
	dsn := cfg.GetDSN()

	var logLevel gormlogger.LogLevel
	if cfg.AppEnv == "development" {
		logLevel = gormlogger.Info
	} else {
		logLevel = gormlogger.Error
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(logLevel),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
		SkipDefaultTransaction: true,
		PrepareStmt:            true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	logger.Info("Database connected successfully")
	return db, nil
}

func AutoMigrate(db *gorm.DB) error {
	logger.Info("Running database migrations...")

	err := db.AutoMigrate(
		&models.User{},
		&models.Battle{},
		&models.Question{},
		&models.QuizRoom{},
		&models.QuizResult{},
	)

	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	logger.Info("Database migrations completed successfully")
	return nil
}

// SeedBattles inserts a starter battle tree with a handful of vocabulary
// questions so a fresh install is usable before any Excel import.
func SeedBattles(db *gorm.DB) error {
	var count int64
	db.Model(&models.Battle{}).Count(&count)
	if count > 0 {
		return nil
	}

	logger.Info("Seeding starter battles...")

	root := models.Battle{NameUz: "Inglizcha lug'at", NameRu: "Английский словарь", NameEn: "English vocabulary"}
	if err := db.Create(&root).Error; err != nil {
		return fmt.Errorf("failed to seed root battle: %w", err)
	}

	beginner := models.Battle{NameUz: "Boshlang'ich", NameRu: "Начальный", NameEn: "Beginner", ParentID: &root.ID}
	if err := db.Create(&beginner).Error; err != nil {
		return fmt.Errorf("failed to seed child battle: %w", err)
	}

	questions := []models.Question{
		{BattleID: beginner.ID, Prompt: "apple", CorrectAnswer: "olma"},
		{BattleID: beginner.ID, Prompt: "book", CorrectAnswer: "kitob"},
		{BattleID: beginner.ID, Prompt: "water", CorrectAnswer: "suv"},
		{BattleID: beginner.ID, Prompt: "bread", CorrectAnswer: "non"},
		{BattleID: beginner.ID, Prompt: "house", CorrectAnswer: "uy"},
		{BattleID: beginner.ID, Prompt: "sun", CorrectAnswer: "quyosh"},
		{BattleID: beginner.ID, Prompt: "teacher", CorrectAnswer: "ustoz"},
		{BattleID: beginner.ID, Prompt: "friend", CorrectAnswer: "do'st"},
	}
	if err := db.Create(&questions).Error; err != nil {
		return fmt.Errorf("failed to seed questions: %w", err)
	}

	logger.Info("Starter battles seeded", "questions", len(questions))
	return nil
}
