package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserRole определяет роли пользователей
type UserRole string

const (
	RoleTutor   UserRole = "tutor"
	RoleStudent UserRole = "student"
)

// User представляет пользователя системы (репетитора или ученика)
type User struct {
	ID           uuid.UUID      `json:"id" gorm:"type:text;primaryKey"`
	Email        string         `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash string         `json:"-" gorm:"not null"`
	Role         UserRole       `json:"role" gorm:"type:varchar(15);not null"`
	FirstName    string         `json:"first_name"`
	LastName     string         `json:"last_name"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `json:"-" gorm:"index"`

	// Настройки каналов доставки уведомлений
	TelegramID                int64  `json:"telegram_id"`
	DeviceID                  string `json:"device_id"`
	ReceiveEmailNotifications bool   `json:"receive_email_notifications" gorm:"default:true"`
}
