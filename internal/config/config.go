package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config содержит все настройки приложения
type Config struct {
	// Server
	Port string
	Host string

	// Database: путь к файлу SQLite либо DSN PostgreSQL
	DatabaseDSN string

	// Security
	JWTSecret     string
	JWTExpiration time.Duration

	// Notifications
	ReminderLead     time.Duration
	TelegramBotToken string
	SendgridAPIKey   string
	EmailFrom        string

	// Logging
	LogLevel string
}

// Load загружает конфигурацию из переменных окружения
func Load() (*Config, error) {
	// Загружаем .env файл если он существует
	_ = godotenv.Load()

	config := &Config{
		Port:             getEnv("PORT", "8000"),
		Host:             getEnv("HOST", "0.0.0.0"),
		DatabaseDSN:      getEnv("DATABASE_DSN", "/tmp/tutortoolkit.db"),
		JWTSecret:        getEnv("JWT_SECRET", "tutortoolkit_secret_key"),
		JWTExpiration:    24 * time.Hour,
		TelegramBotToken: getEnv("TELEGRAM_BOT_TOKEN", ""),
		SendgridAPIKey:   getEnv("SENDGRID_API_KEY", ""),
		EmailFrom:        getEnv("EMAIL_FROM", "noreply@tutortoolkit.ru"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
	}

	// За сколько часов до начала урока отправлять напоминание
	if hours, err := strconv.Atoi(getEnv("REMINDER_LEAD_HOURS", "3")); err == nil && hours > 0 {
		config.ReminderLead = time.Duration(hours) * time.Hour
	} else {
		config.ReminderLead = 3 * time.Hour
	}

	return config, nil
}

// getEnv получает переменную окружения или возвращает значение по умолчанию
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
