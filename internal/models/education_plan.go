package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PlanStatus определяет статусы учебного плана
type PlanStatus string

const (
	PlanStatusInactive PlanStatus = "inactive"
	PlanStatusActive   PlanStatus = "active"
)

// CardStatus определяет статусы карточки
type CardStatus string

const (
	CardStatusNotStarted CardStatus = "not_started"
	CardStatusInProgress CardStatus = "in_progress"
	CardStatusDone       CardStatus = "done"
	CardStatusToRepeat   CardStatus = "to_repeat"
)

// EducationPlan представляет учебный план: связку репетитора и ученика
// с модулями и карточками. Ученик подключается один раз по коду приглашения.
type EducationPlan struct {
	ID         uuid.UUID  `json:"id" gorm:"type:text;primaryKey"`
	Title      string     `json:"title"`
	Discipline string     `json:"discipline"`
	TutorID    uuid.UUID  `json:"tutor_id" gorm:"type:text;not null"`
	StudentID  *uuid.UUID `json:"student_id,omitempty" gorm:"type:text"`
	InviteCode string     `json:"invite_code" gorm:"type:varchar(8);uniqueIndex;not null"`
	Status     PlanStatus `json:"status" gorm:"type:varchar(10);default:'inactive'"`

	// Данные ученика, заполненные репетитором до подключения
	StudentFirstName string `json:"student_first_name"`
	StudentLastName  string `json:"student_last_name"`
	StudentEmail     string `json:"student_email"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Связи
	Tutor   User     `json:"tutor" gorm:"foreignKey:TutorID"`
	Student *User    `json:"student,omitempty" gorm:"foreignKey:StudentID"`
	Modules []Module `json:"modules,omitempty" gorm:"foreignKey:PlanID;constraint:OnDelete:CASCADE"`
}

// Module представляет колонку (доску) карточек внутри учебного плана.
// Index — плотная нумерация 0..N-1 в рамках плана.
type Module struct {
	ID        uuid.UUID      `json:"id" gorm:"type:text;primaryKey"`
	PlanID    uuid.UUID      `json:"plan_id" gorm:"type:text;not null;index"`
	Title     string         `json:"title" gorm:"not null"`
	Index     int            `json:"index" gorm:"not null"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Связи
	Plan  EducationPlan `json:"-" gorm:"foreignKey:PlanID"`
	Cards []Card        `json:"cards,omitempty" gorm:"foreignKey:ModuleID;constraint:OnDelete:CASCADE"`
}

// Card представляет карточку (тему/задачу) внутри модуля.
// У карточки-шаблона нет модуля и индекса, она служит только источником
// контента для клонирования.
type Card struct {
	ID             uuid.UUID  `json:"id" gorm:"type:text;primaryKey"`
	ModuleID       *uuid.UUID `json:"module_id,omitempty" gorm:"type:text;index"`
	Index          *int       `json:"index,omitempty"`
	Title          string     `json:"title" gorm:"not null"`
	Status         CardStatus `json:"status" gorm:"type:varchar(15);default:'not_started'"`
	Difficulty     int        `json:"difficulty"`
	RepetitionDate *time.Time `json:"repetition_date,omitempty"`
	IsTemplate     bool       `json:"is_template" gorm:"default:false"`
	TutorID        uuid.UUID  `json:"tutor_id" gorm:"type:text;not null"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Связи
	Module   *Module       `json:"-" gorm:"foreignKey:ModuleID"`
	Sections []CardSection `json:"sections,omitempty" gorm:"foreignKey:CardID;constraint:OnDelete:CASCADE"`
	Labels   []Label       `json:"labels,omitempty" gorm:"many2many:card_labels"`
}

// CardSection представляет раздел контента карточки
type CardSection struct {
	ID        uuid.UUID `json:"id" gorm:"type:text;primaryKey"`
	CardID    uuid.UUID `json:"card_id" gorm:"type:text;not null;index"`
	Title     string    `json:"title"`
	Content   string    `json:"content" gorm:"type:text"`
	Position  int       `json:"position"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Label представляет метку репетитора для карточек
type Label struct {
	ID        uuid.UUID      `json:"id" gorm:"type:text;primaryKey"`
	TutorID   uuid.UUID      `json:"tutor_id" gorm:"type:text;not null;index"`
	Title     string         `json:"title" gorm:"not null"`
	Color     string         `json:"color" gorm:"type:varchar(7)"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}
