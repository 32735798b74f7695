package services

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/enrudae/TutorToolkit/internal/apperrors"
	"github.com/enrudae/TutorToolkit/internal/models"
	"github.com/enrudae/TutorToolkit/internal/repository"
)

// BoardService поддерживает плотную нумерацию 0..N-1 модулей внутри
// плана и карточек внутри модуля при добавлении, переносе и удалении.
// После любой последовательности операций множество индексов внутри
// родителя — ровно {0..count-1}, без дыр и дублей.
type BoardService interface {
	CreateModule(tutorID, planID uuid.UUID, title string) (*models.Module, error)
	RenameModule(tutorID, moduleID uuid.UUID, title string) (*models.Module, error)
	MoveModule(tutorID, moduleID uuid.UUID, destIndex int) (*models.Module, error)
	RemoveModule(tutorID, moduleID uuid.UUID) error
	MoveCard(tutorID, cardID uuid.UUID, destIndex int, destModuleID *uuid.UUID) (*models.Card, error)
}

type boardService struct {
	plans   repository.EducationPlanRepository
	modules repository.ModuleRepository
	cards   repository.CardRepository
}

func NewBoardService(
	plans repository.EducationPlanRepository,
	modules repository.ModuleRepository,
	cards repository.CardRepository,
) BoardService {
	return &boardService{plans: plans, modules: modules, cards: cards}
}

// CreateModule добавляет модуль в конец плана: индекс равен числу
// уже существующих модулей
func (s *boardService) CreateModule(tutorID, planID uuid.UUID, title string) (*models.Module, error) {
	if title == "" {
		return nil, apperrors.ErrValidation
	}
	if err := s.checkPlanOwner(tutorID, planID); err != nil {
		return nil, err
	}

	count, err := s.modules.CountByPlan(planID)
	if err != nil {
		return nil, err
	}

	module := &models.Module{
		ID:     uuid.New(),
		PlanID: planID,
		Title:  title,
		Index:  int(count),
	}
	if err := s.modules.Create(module); err != nil {
		return nil, err
	}
	return module, nil
}

func (s *boardService) RenameModule(tutorID, moduleID uuid.UUID, title string) (*models.Module, error) {
	if title == "" {
		return nil, apperrors.ErrValidation
	}

	module, err := s.modules.GetByID(moduleID)
	if err != nil {
		return nil, asNotFound(err)
	}
	if err := s.checkPlanOwner(tutorID, module.PlanID); err != nil {
		return nil, err
	}

	module.Title = title
	if err := s.modules.Update(module); err != nil {
		return nil, err
	}
	return module, nil
}

func (s *boardService) MoveModule(tutorID, moduleID uuid.UUID, destIndex int) (*models.Module, error) {
	if destIndex < 0 {
		return nil, apperrors.ErrValidation
	}

	module, err := s.modules.GetByID(moduleID)
	if err != nil {
		return nil, asNotFound(err)
	}
	if err := s.checkPlanOwner(tutorID, module.PlanID); err != nil {
		return nil, err
	}

	if err := s.modules.Move(moduleID, destIndex); err != nil {
		return nil, err
	}
	return s.modules.GetByID(moduleID)
}

func (s *boardService) RemoveModule(tutorID, moduleID uuid.UUID) error {
	module, err := s.modules.GetByID(moduleID)
	if err != nil {
		return asNotFound(err)
	}
	if err := s.checkPlanOwner(tutorID, module.PlanID); err != nil {
		return err
	}
	return s.modules.Remove(moduleID)
}

// MoveCard переносит карточку на destIndex внутри ее модуля либо, при
// заданном destModuleID, в другой модуль того же плана
func (s *boardService) MoveCard(tutorID, cardID uuid.UUID, destIndex int, destModuleID *uuid.UUID) (*models.Card, error) {
	if destIndex < 0 {
		return nil, apperrors.ErrValidation
	}

	card, err := s.cards.GetByID(cardID)
	if err != nil {
		return nil, asNotFound(err)
	}
	if card.IsTemplate || card.ModuleID == nil {
		return nil, apperrors.ErrValidation
	}

	srcModule, err := s.modules.GetByID(*card.ModuleID)
	if err != nil {
		return nil, asNotFound(err)
	}
	if err := s.checkPlanOwner(tutorID, srcModule.PlanID); err != nil {
		return nil, err
	}

	target := *card.ModuleID
	if destModuleID != nil && *destModuleID != *card.ModuleID {
		destModule, err := s.modules.GetByID(*destModuleID)
		if err != nil {
			return nil, asNotFound(err)
		}
		if destModule.PlanID != srcModule.PlanID {
			return nil, apperrors.ErrNotFound
		}
		target = destModule.ID
	}

	if err := s.cards.Move(cardID, target, destIndex); err != nil {
		return nil, err
	}
	return s.cards.GetByID(cardID)
}

func (s *boardService) checkPlanOwner(tutorID, planID uuid.UUID) error {
	plan, err := s.plans.GetByID(planID)
	if err != nil {
		return asNotFound(err)
	}
	if plan.TutorID != tutorID {
		return apperrors.ErrPermissionDenied
	}
	return nil
}

func asNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.ErrNotFound
	}
	return err
}
