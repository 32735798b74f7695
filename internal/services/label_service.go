package services

import (
	"github.com/google/uuid"

	"github.com/enrudae/TutorToolkit/internal/apperrors"
	"github.com/enrudae/TutorToolkit/internal/models"
	"github.com/enrudae/TutorToolkit/internal/repository"
)

type LabelService interface {
	CreateLabel(tutorID uuid.UUID, title, color string) (*models.Label, error)
	ListLabels(tutorID uuid.UUID) ([]*models.Label, error)
	DeleteLabel(tutorID, labelID uuid.UUID) error
}

type labelService struct {
	labels repository.LabelRepository
}

func NewLabelService(labels repository.LabelRepository) LabelService {
	return &labelService{labels: labels}
}

func (s *labelService) CreateLabel(tutorID uuid.UUID, title, color string) (*models.Label, error) {
	if title == "" {
		return nil, apperrors.ErrValidation
	}
	label := &models.Label{
		ID:      uuid.New(),
		TutorID: tutorID,
		Title:   title,
		Color:   color,
	}
	if err := s.labels.Create(label); err != nil {
		return nil, err
	}
	return label, nil
}

func (s *labelService) ListLabels(tutorID uuid.UUID) ([]*models.Label, error) {
	return s.labels.ListByTutor(tutorID)
}

func (s *labelService) DeleteLabel(tutorID, labelID uuid.UUID) error {
	label, err := s.labels.GetByID(labelID)
	if err != nil {
		return asNotFound(err)
	}
	if label.TutorID != tutorID {
		return apperrors.ErrPermissionDenied
	}
	return s.labels.Delete(labelID)
}
