package services

import (
	"time"

	"github.com/google/uuid"

	"github.com/enrudae/TutorToolkit/internal/apperrors"
	"github.com/enrudae/TutorToolkit/internal/models"
	"github.com/enrudae/TutorToolkit/internal/repository"
)

// CardInput содержит данные карточки от клиента
type CardInput struct {
	Title          string         `json:"title"`
	Difficulty     int            `json:"difficulty"`
	Status         string         `json:"status"`
	RepetitionDate *time.Time     `json:"repetition_date"`
	Sections       []SectionInput `json:"sections"`
}

// SectionInput содержит данные раздела контента карточки
type SectionInput struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type CardService interface {
	CreateCard(tutorID, moduleID uuid.UUID, input CardInput) (*models.Card, error)
	GetCard(userID uuid.UUID, cardID uuid.UUID) (*models.Card, error)
	UpdateCard(tutorID, cardID uuid.UUID, input CardInput) (*models.Card, error)
	DeleteCard(tutorID, cardID uuid.UUID) error

	// Шаблоны: карточка без модуля и индекса, источник контента
	// для клонирования
	CreateTemplate(tutorID uuid.UUID, input CardInput) (*models.Card, error)
	ListTemplates(tutorID uuid.UUID) ([]*models.Card, error)
	CreateCardFromTemplate(tutorID, templateID, moduleID uuid.UUID) (*models.Card, error)

	SetLabels(tutorID, cardID uuid.UUID, labelIDs []uuid.UUID) (*models.Card, error)
}

type cardService struct {
	cards         repository.CardRepository
	modules       repository.ModuleRepository
	plans         repository.EducationPlanRepository
	labels        repository.LabelRepository
	notifications NotificationService
}

func NewCardService(
	cards repository.CardRepository,
	modules repository.ModuleRepository,
	plans repository.EducationPlanRepository,
	labels repository.LabelRepository,
	notifications NotificationService,
) CardService {
	return &cardService{
		cards:         cards,
		modules:       modules,
		plans:         plans,
		labels:        labels,
		notifications: notifications,
	}
}

// CreateCard добавляет карточку в конец модуля
func (s *cardService) CreateCard(tutorID, moduleID uuid.UUID, input CardInput) (*models.Card, error) {
	if input.Title == "" {
		return nil, apperrors.ErrValidation
	}

	module, err := s.modules.GetByID(moduleID)
	if err != nil {
		return nil, asNotFound(err)
	}
	if err := s.checkPlanOwner(tutorID, module.PlanID); err != nil {
		return nil, err
	}

	count, err := s.cards.CountByModule(moduleID)
	if err != nil {
		return nil, err
	}

	index := int(count)
	card := &models.Card{
		ID:             uuid.New(),
		ModuleID:       &moduleID,
		Index:          &index,
		Title:          input.Title,
		Status:         models.CardStatusNotStarted,
		Difficulty:     input.Difficulty,
		RepetitionDate: input.RepetitionDate,
		TutorID:        tutorID,
		Sections:       buildSections(input.Sections),
	}
	if err := s.cards.Create(card); err != nil {
		return nil, err
	}

	if card.RepetitionDate != nil {
		if err := s.notifications.ScheduleCardRepetition(card); err != nil {
			return nil, err
		}
	}
	return card, nil
}

func (s *cardService) GetCard(userID uuid.UUID, cardID uuid.UUID) (*models.Card, error) {
	card, err := s.cards.GetByID(cardID)
	if err != nil {
		return nil, asNotFound(err)
	}

	if card.IsTemplate {
		if card.TutorID != userID {
			return nil, apperrors.ErrPermissionDenied
		}
		return card, nil
	}

	if card.ModuleID == nil {
		return nil, apperrors.ErrValidation
	}
	module, err := s.modules.GetByID(*card.ModuleID)
	if err != nil {
		return nil, asNotFound(err)
	}
	plan, err := s.plans.GetByID(module.PlanID)
	if err != nil {
		return nil, asNotFound(err)
	}
	if plan.TutorID != userID && (plan.StudentID == nil || *plan.StudentID != userID) {
		return nil, apperrors.ErrPermissionDenied
	}
	return card, nil
}

// UpdateCard обновляет карточку; смена даты повторения перепланирует
// задачу смены статуса под тем же ключом
func (s *cardService) UpdateCard(tutorID, cardID uuid.UUID, input CardInput) (*models.Card, error) {
	card, err := s.cards.GetByID(cardID)
	if err != nil {
		return nil, asNotFound(err)
	}
	if err := s.checkCardOwner(tutorID, card); err != nil {
		return nil, err
	}

	repetitionChanged := !equalTimePtr(card.RepetitionDate, input.RepetitionDate)

	if input.Title != "" {
		card.Title = input.Title
	}
	if input.Difficulty != 0 {
		card.Difficulty = input.Difficulty
	}
	if input.Status != "" {
		switch status := models.CardStatus(input.Status); status {
		case models.CardStatusNotStarted, models.CardStatusInProgress, models.CardStatusDone, models.CardStatusToRepeat:
			card.Status = status
		default:
			return nil, apperrors.ErrValidation
		}
	}
	card.RepetitionDate = input.RepetitionDate

	if err := s.cards.Update(card); err != nil {
		return nil, err
	}

	if repetitionChanged {
		if err := s.notifications.ScheduleCardRepetition(card); err != nil {
			return nil, err
		}
	}
	return card, nil
}

func (s *cardService) DeleteCard(tutorID, cardID uuid.UUID) error {
	card, err := s.cards.GetByID(cardID)
	if err != nil {
		return asNotFound(err)
	}
	if err := s.checkCardOwner(tutorID, card); err != nil {
		return err
	}
	return s.cards.Remove(cardID)
}

func (s *cardService) CreateTemplate(tutorID uuid.UUID, input CardInput) (*models.Card, error) {
	if input.Title == "" {
		return nil, apperrors.ErrValidation
	}

	card := &models.Card{
		ID:         uuid.New(),
		Title:      input.Title,
		Status:     models.CardStatusNotStarted,
		Difficulty: input.Difficulty,
		IsTemplate: true,
		TutorID:    tutorID,
		Sections:   buildSections(input.Sections),
	}
	if err := s.cards.Create(card); err != nil {
		return nil, err
	}
	return card, nil
}

func (s *cardService) ListTemplates(tutorID uuid.UUID) ([]*models.Card, error) {
	return s.cards.ListTemplatesByTutor(tutorID)
}

// CreateCardFromTemplate клонирует шаблон в модуль: карточка получает
// индекс в конце модуля, разделы контента копируются глубоко
func (s *cardService) CreateCardFromTemplate(tutorID, templateID, moduleID uuid.UUID) (*models.Card, error) {
	template, err := s.cards.GetByID(templateID)
	if err != nil {
		return nil, asNotFound(err)
	}
	if !template.IsTemplate {
		return nil, apperrors.ErrValidation
	}
	if template.TutorID != tutorID {
		return nil, apperrors.ErrPermissionDenied
	}

	module, err := s.modules.GetByID(moduleID)
	if err != nil {
		return nil, asNotFound(err)
	}
	if err := s.checkPlanOwner(tutorID, module.PlanID); err != nil {
		return nil, err
	}

	count, err := s.cards.CountByModule(moduleID)
	if err != nil {
		return nil, err
	}

	index := int(count)
	card := &models.Card{
		ID:         uuid.New(),
		ModuleID:   &moduleID,
		Index:      &index,
		Title:      template.Title,
		Status:     models.CardStatusNotStarted,
		Difficulty: template.Difficulty,
		TutorID:    tutorID,
	}
	for _, section := range template.Sections {
		card.Sections = append(card.Sections, models.CardSection{
			ID:       uuid.New(),
			Title:    section.Title,
			Content:  section.Content,
			Position: section.Position,
		})
	}

	if err := s.cards.Create(card); err != nil {
		return nil, err
	}
	return card, nil
}

func (s *cardService) SetLabels(tutorID, cardID uuid.UUID, labelIDs []uuid.UUID) (*models.Card, error) {
	card, err := s.cards.GetByID(cardID)
	if err != nil {
		return nil, asNotFound(err)
	}
	if err := s.checkCardOwner(tutorID, card); err != nil {
		return nil, err
	}

	labels, err := s.labels.ListByIDs(labelIDs)
	if err != nil {
		return nil, err
	}
	for _, label := range labels {
		if label.TutorID != tutorID {
			return nil, apperrors.ErrPermissionDenied
		}
	}

	if err := s.cards.ReplaceLabels(card, labels); err != nil {
		return nil, err
	}
	return s.cards.GetByID(cardID)
}

func (s *cardService) checkCardOwner(tutorID uuid.UUID, card *models.Card) error {
	if card.TutorID != tutorID {
		return apperrors.ErrPermissionDenied
	}
	return nil
}

func (s *cardService) checkPlanOwner(tutorID, planID uuid.UUID) error {
	plan, err := s.plans.GetByID(planID)
	if err != nil {
		return asNotFound(err)
	}
	if plan.TutorID != tutorID {
		return apperrors.ErrPermissionDenied
	}
	return nil
}

func buildSections(inputs []SectionInput) []models.CardSection {
	sections := make([]models.CardSection, 0, len(inputs))
	for i, input := range inputs {
		sections = append(sections, models.CardSection{
			ID:       uuid.New(),
			Title:    input.Title,
			Content:  input.Content,
			Position: i,
		})
	}
	return sections
}

func equalTimePtr(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}
