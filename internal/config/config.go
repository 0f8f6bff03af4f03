package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// Telegram
	BotToken    string
	BotUsername string

	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Application
	AppEnv   string
	LogLevel string

	// Admins allowed to use the broadcast / stats tools
	AdminTelegramIDs []int64

	// Rate Limiting
	RateLimitPerUser int

	// Quiz rooms
	RoomTTLMinutes    int
	JoinWindowMinutes int
}

func LoadConfig() (*Config, error) {
	cfg := &Config{
		BotToken:    getEnv("BOT_TOKEN", ""),
		BotUsername: getEnv("BOT_USERNAME", "wisdom_lc_vocab_bot"),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "quizbot"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "quizbot_db"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		AppEnv:   getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		RateLimitPerUser: getEnvInt("RATE_LIMIT_PER_USER", 20),

		RoomTTLMinutes:    getEnvInt("ROOM_TTL_MINUTES", 60),
		JoinWindowMinutes: getEnvInt("JOIN_WINDOW_MINUTES", 30),
	}

	// Parse admin telegram IDs (comma separated)
	adminsStr := getEnv("ADMIN_TELEGRAM_IDS", "")
	if adminsStr != "" {
		for _, part := range strings.Split(adminsStr, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := strconv.ParseInt(part, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid ADMIN_TELEGRAM_IDS entry %q: %w", part, err)
			}
			cfg.AdminTelegramIDs = append(cfg.AdminTelegramIDs, id)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.BotToken == "" {
		return fmt.Errorf("BOT_TOKEN is required")
	}
	if c.DBPassword == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.RoomTTLMinutes <= 0 {
		return fmt.Errorf("ROOM_TTL_MINUTES must be positive")
	}
	if c.JoinWindowMinutes <= 0 {
		return fmt.Errorf("JOIN_WINDOW_MINUTES must be positive")
	}
	return nil
}

func (c *Config) ValidateProductionSecurity() error {
	if c.AppEnv != "production" {
		return nil
	}

	if c.DBSSLMode != "require" {
		return fmt.Errorf("DB_SSLMODE must be 'require' in production")
	}
	if len(c.AdminTelegramIDs) == 0 {
		return fmt.Errorf("ADMIN_TELEGRAM_IDS must be set in production")
	}

	return nil
}

// IsAdmin is the single authorization check for admin-only operations.
func (c *Config) IsAdmin(telegramID int64) bool {
	for _, id := range c.AdminTelegramIDs {
		if id == telegramID {
			return true
		}
	}
	return false
}

func (c *Config) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode,
	)
}

func (c *Config) GetRoomTTL() time.Duration {
	return time.Duration(c.RoomTTLMinutes) * time.Minute
}

func (c *Config) GetJoinWindow() time.Duration {
	return time.Duration(c.JoinWindowMinutes) * time.Minute
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
