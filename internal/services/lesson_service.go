package services

import (
	"time"

	"github.com/google/uuid"

	"github.com/enrudae/TutorToolkit/internal/apperrors"
	"github.com/enrudae/TutorToolkit/internal/models"
	"github.com/enrudae/TutorToolkit/internal/repository"
)

// LessonService управляет занятиями плана. Каждое событие жизненного
// цикла (создание, отмена, перенос даты) дает ровно один побочный
// эффект в планировщике уведомлений.
type LessonService interface {
	CreateLesson(tutorID, planID uuid.UUID, cardID *uuid.UUID, dateStart, dateEnd time.Time) (*models.Lesson, error)
	UpdateLesson(tutorID, lessonID uuid.UUID, dateStart, dateEnd time.Time) (*models.Lesson, error)

	// CancelLesson выполняет мягкую отмену: урок остается в базе
	// с флагом is_canceled
	CancelLesson(tutorID, lessonID uuid.UUID) error

	ListLessons(userID uuid.UUID, role models.UserRole) ([]*models.Lesson, error)
}

type lessonService struct {
	lessons       repository.LessonRepository
	plans         repository.EducationPlanRepository
	cards         repository.CardRepository
	notifications NotificationService
}

func NewLessonService(
	lessons repository.LessonRepository,
	plans repository.EducationPlanRepository,
	cards repository.CardRepository,
	notifications NotificationService,
) LessonService {
	return &lessonService{
		lessons:       lessons,
		plans:         plans,
		cards:         cards,
		notifications: notifications,
	}
}

func (s *lessonService) CreateLesson(tutorID, planID uuid.UUID, cardID *uuid.UUID, dateStart, dateEnd time.Time) (*models.Lesson, error) {
	if dateStart.IsZero() {
		return nil, apperrors.ErrValidation
	}
	if !dateEnd.IsZero() && dateEnd.Before(dateStart) {
		return nil, apperrors.ErrValidation
	}

	plan, err := s.plans.GetByID(planID)
	if err != nil {
		return nil, asNotFound(err)
	}
	if plan.TutorID != tutorID {
		return nil, apperrors.ErrPermissionDenied
	}

	lesson := &models.Lesson{
		ID:        uuid.New(),
		PlanID:    planID,
		CardID:    cardID,
		DateStart: dateStart,
		DateEnd:   dateEnd,
	}
	if err := s.lessons.Create(lesson); err != nil {
		return nil, err
	}

	if err := s.notifications.HandleLessonReminder(plan, lesson); err != nil {
		return nil, err
	}
	if cardID != nil {
		card, err := s.cards.GetByID(*cardID)
		if err != nil {
			return nil, asNotFound(err)
		}
		if err := s.notifications.HandleHomeworkInfo(plan, lesson, card); err != nil {
			return nil, err
		}
	}
	return lesson, nil
}

func (s *lessonService) UpdateLesson(tutorID, lessonID uuid.UUID, dateStart, dateEnd time.Time) (*models.Lesson, error) {
	lesson, plan, err := s.getOwnedLesson(tutorID, lessonID)
	if err != nil {
		return nil, err
	}
	if lesson.IsCanceled {
		return nil, apperrors.ErrValidation
	}
	if dateStart.IsZero() {
		return nil, apperrors.ErrValidation
	}
	if !dateEnd.IsZero() && dateEnd.Before(dateStart) {
		return nil, apperrors.ErrValidation
	}

	dateChanged := !lesson.DateStart.Equal(dateStart)
	lesson.DateStart = dateStart
	lesson.DateEnd = dateEnd
	if err := s.lessons.Update(lesson); err != nil {
		return nil, err
	}

	if dateChanged {
		if err := s.notifications.HandleRescheduling(plan, lesson); err != nil {
			return nil, err
		}
	}
	return lesson, nil
}

func (s *lessonService) CancelLesson(tutorID, lessonID uuid.UUID) error {
	lesson, plan, err := s.getOwnedLesson(tutorID, lessonID)
	if err != nil {
		return err
	}
	if lesson.IsCanceled {
		return nil
	}

	if err := s.lessons.MarkCanceled(lessonID); err != nil {
		return err
	}
	lesson.IsCanceled = true
	return s.notifications.HandleCanceling(plan, lesson)
}

func (s *lessonService) ListLessons(userID uuid.UUID, role models.UserRole) ([]*models.Lesson, error) {
	if role == models.RoleTutor {
		return s.lessons.ListByTutor(userID)
	}
	return s.lessons.ListByStudent(userID)
}

func (s *lessonService) getOwnedLesson(tutorID, lessonID uuid.UUID) (*models.Lesson, *models.EducationPlan, error) {
	lesson, err := s.lessons.GetByID(lessonID)
	if err != nil {
		return nil, nil, asNotFound(err)
	}
	plan, err := s.plans.GetByID(lesson.PlanID)
	if err != nil {
		return nil, nil, asNotFound(err)
	}
	if plan.TutorID != tutorID {
		return nil, nil, apperrors.ErrPermissionDenied
	}
	return lesson, plan, nil
}
