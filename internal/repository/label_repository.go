package repository

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/enrudae/TutorToolkit/internal/models"
)

type LabelRepository interface {
	Create(label *models.Label) error
	GetByID(id uuid.UUID) (*models.Label, error)
	ListByTutor(tutorID uuid.UUID) ([]*models.Label, error)
	ListByIDs(ids []uuid.UUID) ([]models.Label, error)
	Update(label *models.Label) error
	Delete(id uuid.UUID) error
}

type labelRepository struct {
	db *gorm.DB
}

func NewLabelRepository(db *gorm.DB) LabelRepository {
	return &labelRepository{db: db}
}

func (r *labelRepository) Create(label *models.Label) error {
	if label.ID == uuid.Nil {
		label.ID = uuid.New()
	}
	return r.db.Create(label).Error
}

func (r *labelRepository) GetByID(id uuid.UUID) (*models.Label, error) {
	var label models.Label
	err := r.db.First(&label, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &label, nil
}

func (r *labelRepository) ListByTutor(tutorID uuid.UUID) ([]*models.Label, error) {
	var labels []*models.Label
	err := r.db.Where("tutor_id = ?", tutorID).Order("created_at").Find(&labels).Error
	return labels, err
}

func (r *labelRepository) ListByIDs(ids []uuid.UUID) ([]models.Label, error) {
	var labels []models.Label
	err := r.db.Where("id IN ?", ids).Find(&labels).Error
	return labels, err
}

func (r *labelRepository) Update(label *models.Label) error {
	return r.db.Save(label).Error
}

func (r *labelRepository) Delete(id uuid.UUID) error {
	return r.db.Delete(&models.Label{}, "id = ?", id).Error
}
