package repository

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/enrudae/TutorToolkit/internal/models"
)

type LessonRepository interface {
	Create(lesson *models.Lesson) error
	GetByID(id uuid.UUID) (*models.Lesson, error)
	ListByPlan(planID uuid.UUID) ([]*models.Lesson, error)
	ListByTutor(tutorID uuid.UUID) ([]*models.Lesson, error)
	ListByStudent(studentID uuid.UUID) ([]*models.Lesson, error)
	Update(lesson *models.Lesson) error
	MarkCanceled(id uuid.UUID) error
}

type lessonRepository struct {
	db *gorm.DB
}

func NewLessonRepository(db *gorm.DB) LessonRepository {
	return &lessonRepository{db: db}
}

func (r *lessonRepository) Create(lesson *models.Lesson) error {
	if lesson.ID == uuid.Nil {
		lesson.ID = uuid.New()
	}
	return r.db.Create(lesson).Error
}

func (r *lessonRepository) GetByID(id uuid.UUID) (*models.Lesson, error) {
	var lesson models.Lesson
	err := r.db.First(&lesson, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &lesson, nil
}

func (r *lessonRepository) ListByPlan(planID uuid.UUID) ([]*models.Lesson, error) {
	var lessons []*models.Lesson
	err := r.db.Where("plan_id = ?", planID).Order("date_start").Find(&lessons).Error
	return lessons, err
}

func (r *lessonRepository) ListByTutor(tutorID uuid.UUID) ([]*models.Lesson, error) {
	var lessons []*models.Lesson
	err := r.db.
		Joins("JOIN education_plans ON education_plans.id = lessons.plan_id").
		Where("education_plans.tutor_id = ?", tutorID).
		Order("date_start").
		Find(&lessons).Error
	return lessons, err
}

func (r *lessonRepository) ListByStudent(studentID uuid.UUID) ([]*models.Lesson, error) {
	var lessons []*models.Lesson
	err := r.db.
		Joins("JOIN education_plans ON education_plans.id = lessons.plan_id").
		Where("education_plans.student_id = ?", studentID).
		Order("date_start").
		Find(&lessons).Error
	return lessons, err
}

func (r *lessonRepository) Update(lesson *models.Lesson) error {
	return r.db.Save(lesson).Error
}

func (r *lessonRepository) MarkCanceled(id uuid.UUID) error {
	return r.db.Model(&models.Lesson{}).Where("id = ?", id).
		UpdateColumn("is_canceled", true).Error
}
