package services

import (
	"github.com/google/uuid"

	"github.com/enrudae/TutorToolkit/internal/apperrors"
	"github.com/enrudae/TutorToolkit/internal/models"
	"github.com/enrudae/TutorToolkit/internal/repository"
)

// PlanInput содержит данные учебного плана от репетитора
type PlanInput struct {
	Title            string `json:"title"`
	Discipline       string `json:"discipline"`
	StudentFirstName string `json:"student_first_name"`
	StudentLastName  string `json:"student_last_name"`
	StudentEmail     string `json:"student_email"`
}

type EducationPlanService interface {
	// CreatePlan создает план с уникальным кодом приглашения. Если
	// указан email уже зарегистрированного ученика, ему уходит
	// уведомление-приглашение с кодом.
	CreatePlan(tutorID uuid.UUID, input PlanInput) (*models.EducationPlan, error)

	GetPlanTree(userID uuid.UUID, planID uuid.UUID) (*models.EducationPlan, error)
	ListPlans(userID uuid.UUID, role models.UserRole) ([]*models.EducationPlan, error)
	UpdatePlan(tutorID, planID uuid.UUID, input PlanInput) (*models.EducationPlan, error)
	DeletePlan(tutorID, planID uuid.UUID) error
}

type educationPlanService struct {
	plans         repository.EducationPlanRepository
	invitations   StudentInvitationService
	notifications NotificationService
}

func NewEducationPlanService(
	plans repository.EducationPlanRepository,
	invitations StudentInvitationService,
	notifications NotificationService,
) EducationPlanService {
	return &educationPlanService{
		plans:         plans,
		invitations:   invitations,
		notifications: notifications,
	}
}

func (s *educationPlanService) CreatePlan(tutorID uuid.UUID, input PlanInput) (*models.EducationPlan, error) {
	if input.Discipline == "" {
		return nil, apperrors.ErrValidation
	}

	code, err := s.invitations.GenerateInviteCode()
	if err != nil {
		return nil, err
	}

	plan := &models.EducationPlan{
		ID:               uuid.New(),
		Title:            input.Title,
		Discipline:       input.Discipline,
		TutorID:          tutorID,
		InviteCode:       code,
		Status:           models.PlanStatusInactive,
		StudentFirstName: input.StudentFirstName,
		StudentLastName:  input.StudentLastName,
		StudentEmail:     input.StudentEmail,
	}
	if err := s.plans.Create(plan); err != nil {
		return nil, err
	}

	if plan.StudentEmail != "" {
		created, err := s.plans.GetByID(plan.ID)
		if err != nil {
			return nil, err
		}
		if err := s.notifications.HandleInvite(created, plan.StudentEmail); err != nil {
			return nil, err
		}
	}
	return plan, nil
}

func (s *educationPlanService) GetPlanTree(userID uuid.UUID, planID uuid.UUID) (*models.EducationPlan, error) {
	plan, err := s.plans.GetByID(planID)
	if err != nil {
		return nil, asNotFound(err)
	}
	if plan.TutorID != userID && (plan.StudentID == nil || *plan.StudentID != userID) {
		return nil, apperrors.ErrNotFound
	}
	return s.plans.GetTree(planID)
}

func (s *educationPlanService) ListPlans(userID uuid.UUID, role models.UserRole) ([]*models.EducationPlan, error) {
	if role == models.RoleTutor {
		return s.plans.ListByTutor(userID)
	}
	return s.plans.ListByStudent(userID)
}

func (s *educationPlanService) UpdatePlan(tutorID, planID uuid.UUID, input PlanInput) (*models.EducationPlan, error) {
	plan, err := s.plans.GetByID(planID)
	if err != nil {
		return nil, asNotFound(err)
	}
	if plan.TutorID != tutorID {
		return nil, apperrors.ErrPermissionDenied
	}

	if input.Title != "" {
		plan.Title = input.Title
	}
	if input.Discipline != "" {
		plan.Discipline = input.Discipline
	}
	if input.StudentFirstName != "" {
		plan.StudentFirstName = input.StudentFirstName
	}
	if input.StudentLastName != "" {
		plan.StudentLastName = input.StudentLastName
	}

	if err := s.plans.Update(plan); err != nil {
		return nil, err
	}
	return plan, nil
}

func (s *educationPlanService) DeletePlan(tutorID, planID uuid.UUID) error {
	plan, err := s.plans.GetByID(planID)
	if err != nil {
		return asNotFound(err)
	}
	if plan.TutorID != tutorID {
		return apperrors.ErrPermissionDenied
	}
	return s.plans.Delete(planID)
}
