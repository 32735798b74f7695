package models

import (
	"time"

	"github.com/google/uuid"
)

// NotificationType определяет типы уведомлений
type NotificationType string

const (
	NotificationTypeInvite             NotificationType = "invite"
	NotificationTypeLessonReminder     NotificationType = "lesson_reminder"
	NotificationTypeRepetitionReminder NotificationType = "repetition_reminder"
	NotificationTypeCanceling          NotificationType = "canceling"
	NotificationTypeRescheduling       NotificationType = "rescheduling"
	NotificationTypeHomeworkInfo       NotificationType = "homework_info"
)

// IsReminder сообщает, является ли тип отложенным напоминанием.
// Напоминания создаются скрытыми и становятся видимыми только после
// фактической доставки.
func (t NotificationType) IsReminder() bool {
	return t == NotificationTypeLessonReminder || t == NotificationTypeRepetitionReminder
}

// Notification представляет уведомление получателю.
// "Удаление" пользователем мягкое: is_active сбрасывается, строка остается.
type Notification struct {
	ID          uuid.UUID        `json:"id" gorm:"type:text;primaryKey"`
	Type        NotificationType `json:"type" gorm:"type:varchar(20);not null"`
	Text        string           `json:"text" gorm:"type:varchar(200)"`
	Content     string           `json:"content" gorm:"type:varchar(200)"`
	RecipientID uuid.UUID        `json:"recipient_id" gorm:"type:text;not null;index"`
	PlanID      *uuid.UUID       `json:"plan_id,omitempty" gorm:"type:text"`
	LessonID    *uuid.UUID       `json:"lesson_id,omitempty" gorm:"type:text;index"`
	// Напоминания создаются с is_active=false и включаются доставкой,
	// поэтому у колонки нет default: gorm не записал бы явный false
	IsActive    bool             `json:"is_active"`
	CreatedAt   time.Time        `json:"created_at"`

	// Связи
	Recipient User           `json:"-" gorm:"foreignKey:RecipientID"`
	Plan      *EducationPlan `json:"-" gorm:"foreignKey:PlanID"`
	Lesson    *Lesson        `json:"-" gorm:"foreignKey:LessonID"`
}
