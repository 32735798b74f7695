package services

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/enrudae/TutorToolkit/internal/apperrors"
	"github.com/enrudae/TutorToolkit/internal/models"
	"github.com/enrudae/TutorToolkit/internal/repository"
)

const (
	inviteCodeLength  = 8
	inviteCodeLetters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// StudentInvitationService подключает ученика к плану репетитора
// по одноразовому коду приглашения.
type StudentInvitationService interface {
	// GenerateInviteCode выдает 8-символьный код, гарантированно
	// не совпадающий с уже существующими
	GenerateInviteCode() (string, error)

	// CheckInviteCode возвращает план по коду: apperrors.ErrNotFound,
	// если кода нет, apperrors.ErrAlreadyClaimed, если план уже занят
	CheckInviteCode(code string) (*models.EducationPlan, error)

	// AddStudentToEducationPlan атомарно привязывает ученика к плану.
	// Второй вызов с тем же кодом завершается ErrAlreadyClaimed и
	// никогда не перезаписывает первого ученика.
	AddStudentToEducationPlan(code string, studentID uuid.UUID) (*models.EducationPlan, error)
}

type studentInvitationService struct {
	plans repository.EducationPlanRepository
}

func NewStudentInvitationService(plans repository.EducationPlanRepository) StudentInvitationService {
	return &studentInvitationService{plans: plans}
}

func (s *studentInvitationService) GenerateInviteCode() (string, error) {
	// Вероятность коллизии ничтожна, но проверка обязательна:
	// invite_code уникален на всю таблицу планов
	for {
		code := randomInviteCode()
		exists, err := s.plans.InviteCodeExists(code)
		if err != nil {
			return "", fmt.Errorf("failed to check invite code: %w", err)
		}
		if !exists {
			return code, nil
		}
	}
}

func (s *studentInvitationService) CheckInviteCode(code string) (*models.EducationPlan, error) {
	plan, err := s.plans.GetByInviteCode(code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	if plan.StudentID != nil {
		return nil, apperrors.ErrAlreadyClaimed
	}
	return plan, nil
}

func (s *studentInvitationService) AddStudentToEducationPlan(code string, studentID uuid.UUID) (*models.EducationPlan, error) {
	if _, err := s.CheckInviteCode(code); err != nil {
		return nil, err
	}

	// Условное обновление закрывает гонку между проверкой и записью:
	// проигравший из двух конкурентов получит 0 затронутых строк
	rows, err := s.plans.Claim(code, studentID)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, apperrors.ErrAlreadyClaimed
	}

	plan, err := s.plans.GetByInviteCode(code)
	if err != nil {
		return nil, err
	}
	return plan, nil
}

func randomInviteCode() string {
	code := make([]byte, inviteCodeLength)
	for i := range code {
		code[i] = inviteCodeLetters[rand.Intn(len(inviteCodeLetters))]
	}
	return string(code)
}
