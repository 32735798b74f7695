package repository

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/enrudae/TutorToolkit/internal/models"
)

type EducationPlanRepository interface {
	Create(plan *models.EducationPlan) error
	GetByID(id uuid.UUID) (*models.EducationPlan, error)
	GetByInviteCode(code string) (*models.EducationPlan, error)
	GetTree(id uuid.UUID) (*models.EducationPlan, error)
	ListByTutor(tutorID uuid.UUID) ([]*models.EducationPlan, error)
	ListByStudent(studentID uuid.UUID) ([]*models.EducationPlan, error)
	InviteCodeExists(code string) (bool, error)
	Update(plan *models.EducationPlan) error
	Delete(id uuid.UUID) error

	// Claim привязывает ученика к плану по коду приглашения одним
	// условным обновлением: срабатывает только пока student_id пуст,
	// поэтому два конкурирующих ученика не перезапишут друг друга.
	// Возвращает число затронутых строк.
	Claim(code string, studentID uuid.UUID) (int64, error)
}

type educationPlanRepository struct {
	db *gorm.DB
}

func NewEducationPlanRepository(db *gorm.DB) EducationPlanRepository {
	return &educationPlanRepository{db: db}
}

func (r *educationPlanRepository) Create(plan *models.EducationPlan) error {
	if plan.ID == uuid.Nil {
		plan.ID = uuid.New()
	}
	return r.db.Create(plan).Error
}

func (r *educationPlanRepository) GetByID(id uuid.UUID) (*models.EducationPlan, error) {
	var plan models.EducationPlan
	err := r.db.Preload("Tutor").Preload("Student").First(&plan, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *educationPlanRepository) GetByInviteCode(code string) (*models.EducationPlan, error) {
	var plan models.EducationPlan
	err := r.db.Preload("Tutor").First(&plan, "invite_code = ?", code).Error
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *educationPlanRepository) GetTree(id uuid.UUID) (*models.EducationPlan, error) {
	var plan models.EducationPlan
	err := r.db.
		Preload("Modules", func(db *gorm.DB) *gorm.DB { return db.Order(`"index"`) }).
		Preload("Modules.Cards", func(db *gorm.DB) *gorm.DB { return db.Order(`"index"`) }).
		Preload("Modules.Cards.Sections", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		Preload("Modules.Cards.Labels").
		First(&plan, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *educationPlanRepository) ListByTutor(tutorID uuid.UUID) ([]*models.EducationPlan, error) {
	var plans []*models.EducationPlan
	err := r.db.Where("tutor_id = ?", tutorID).Order("created_at DESC").Find(&plans).Error
	return plans, err
}

func (r *educationPlanRepository) ListByStudent(studentID uuid.UUID) ([]*models.EducationPlan, error) {
	var plans []*models.EducationPlan
	err := r.db.Where("student_id = ?", studentID).Order("created_at DESC").Find(&plans).Error
	return plans, err
}

func (r *educationPlanRepository) InviteCodeExists(code string) (bool, error) {
	var count int64
	err := r.db.Model(&models.EducationPlan{}).Where("invite_code = ?", code).Count(&count).Error
	return count > 0, err
}

func (r *educationPlanRepository) Update(plan *models.EducationPlan) error {
	return r.db.Save(plan).Error
}

func (r *educationPlanRepository) Delete(id uuid.UUID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var moduleIDs []uuid.UUID
		if err := tx.Model(&models.Module{}).Where("plan_id = ?", id).Pluck("id", &moduleIDs).Error; err != nil {
			return err
		}
		if len(moduleIDs) > 0 {
			if err := tx.Where("module_id IN ?", moduleIDs).Delete(&models.Card{}).Error; err != nil {
				return err
			}
			if err := tx.Where("plan_id = ?", id).Delete(&models.Module{}).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&models.EducationPlan{}, "id = ?", id).Error
	})
}

func (r *educationPlanRepository) Claim(code string, studentID uuid.UUID) (int64, error) {
	res := r.db.Model(&models.EducationPlan{}).
		Where("invite_code = ? AND student_id IS NULL", code).
		Updates(map[string]interface{}{
			"student_id": studentID,
			"status":     models.PlanStatusActive,
		})
	return res.RowsAffected, res.Error
}
