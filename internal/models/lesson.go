package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Lesson представляет занятие по учебному плану.
// Удаление занятия мягкое: выставляется флаг IsCanceled, строка сохраняется.
type Lesson struct {
	ID         uuid.UUID  `json:"id" gorm:"type:text;primaryKey"`
	PlanID     uuid.UUID  `json:"plan_id" gorm:"type:text;not null;index"`
	CardID     *uuid.UUID `json:"card_id,omitempty" gorm:"type:text"`
	DateStart  time.Time  `json:"date_start" gorm:"not null"`
	DateEnd    time.Time  `json:"date_end"`
	IsCanceled bool       `json:"is_canceled" gorm:"default:false"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Связи
	Plan EducationPlan `json:"-" gorm:"foreignKey:PlanID"`
	Card *Card         `json:"card,omitempty" gorm:"foreignKey:CardID"`
}
