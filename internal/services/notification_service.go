package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/enrudae/TutorToolkit/internal/models"
	"github.com/enrudae/TutorToolkit/internal/repository"
	"github.com/enrudae/TutorToolkit/pkg/logger"
	"github.com/enrudae/TutorToolkit/pkg/scheduler"
	"github.com/enrudae/TutorToolkit/pkg/sender"
)

const lessonTimeLayout = "02.01 15:04"

// NotificationService решает, когда уведомление создается, когда его
// доставка откладывается, и как отменить или заместить уже
// запланированную доставку.
//
// Напоминания (lesson_reminder, repetition_reminder) создаются скрытыми
// и становятся видимыми только когда отложенная задача реально
// сработала. Остальные типы доставляются сразу.
type NotificationService interface {
	HandleInvite(plan *models.EducationPlan, email string) error
	HandleLessonReminder(plan *models.EducationPlan, lesson *models.Lesson) error
	CancelLessonReminder(lesson *models.Lesson)
	HandleCanceling(plan *models.EducationPlan, lesson *models.Lesson) error
	HandleRescheduling(plan *models.EducationPlan, lesson *models.Lesson) error
	HandleHomeworkInfo(plan *models.EducationPlan, lesson *models.Lesson, card *models.Card) error

	// ScheduleCardRepetition планирует перевод карточки в to_repeat на
	// дату повторения. Повторное сохранение карточки с новой датой
	// замещает прежнюю задачу, а не дублирует ее.
	ScheduleCardRepetition(card *models.Card) error

	ListActiveByUser(userID uuid.UUID) ([]*models.Notification, error)
	Deactivate(userID, notificationID uuid.UUID) error
}

type notificationService struct {
	notifications repository.NotificationRepository
	lessons       repository.LessonRepository
	cards         repository.CardRepository
	modules       repository.ModuleRepository
	plans         repository.EducationPlanRepository
	users         repository.UserRepository
	tasks         scheduler.Scheduler
	sender        sender.Sender
	reminderLead  time.Duration
}

func NewNotificationService(
	notifications repository.NotificationRepository,
	lessons repository.LessonRepository,
	cards repository.CardRepository,
	modules repository.ModuleRepository,
	plans repository.EducationPlanRepository,
	users repository.UserRepository,
	tasks scheduler.Scheduler,
	snd sender.Sender,
	reminderLead time.Duration,
) NotificationService {
	return &notificationService{
		notifications: notifications,
		lessons:       lessons,
		cards:         cards,
		modules:       modules,
		plans:         plans,
		users:         users,
		tasks:         tasks,
		sender:        snd,
		reminderLead:  reminderLead,
	}
}

func (s *notificationService) HandleInvite(plan *models.EducationPlan, email string) error {
	recipient, err := s.users.GetByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Ученик еще не зарегистрирован — уведомлять некого
			return nil
		}
		return err
	}

	text := fmt.Sprintf("Преподаватель %s %s приглашает Вас подключиться к дисциплине %s",
		plan.Tutor.LastName, plan.Tutor.FirstName, plan.Discipline)
	_, err = s.createNotification(recipient.ID, plan, models.NotificationTypeInvite, text, plan.InviteCode, nil)
	return err
}

func (s *notificationService) HandleLessonReminder(plan *models.EducationPlan, lesson *models.Lesson) error {
	if plan.StudentID == nil {
		return nil
	}
	text := fmt.Sprintf("Урок по предмету %s будет через %d ч.", plan.Discipline, int(s.reminderLead.Hours()))
	_, err := s.createNotification(*plan.StudentID, plan, models.NotificationTypeLessonReminder, text, "", lesson)
	return err
}

// CancelLessonReminder отзывает отложенную задачу еще не доставленного
// напоминания об уроке. Отзыв уже сработавшей или несуществующей
// задачи — не ошибка.
func (s *notificationService) CancelLessonReminder(lesson *models.Lesson) {
	notification, err := s.notifications.FindPendingLessonReminder(lesson.ID)
	if err != nil {
		return
	}
	s.tasks.Cancel(taskKey(notification.ID))
}

func (s *notificationService) HandleCanceling(plan *models.EducationPlan, lesson *models.Lesson) error {
	s.CancelLessonReminder(lesson)

	if plan.StudentID == nil {
		return nil
	}
	text := fmt.Sprintf("Урок по предмету %s %s отменен",
		plan.Discipline, lesson.DateStart.Format(lessonTimeLayout))
	_, err := s.createNotification(*plan.StudentID, plan, models.NotificationTypeCanceling, text, "", lesson)
	return err
}

// HandleRescheduling отменяет прежнее напоминание до планирования
// нового: обратный порядок при совпадении ключей оставил бы две живые
// задачи на один урок.
func (s *notificationService) HandleRescheduling(plan *models.EducationPlan, lesson *models.Lesson) error {
	s.CancelLessonReminder(lesson)

	if plan.StudentID == nil {
		return nil
	}
	text := fmt.Sprintf("Урок по предмету %s перенесен на %s",
		plan.Discipline, lesson.DateStart.Format(lessonTimeLayout))
	if _, err := s.createNotification(*plan.StudentID, plan, models.NotificationTypeRescheduling, text, "", lesson); err != nil {
		return err
	}

	return s.HandleLessonReminder(plan, lesson)
}

func (s *notificationService) HandleHomeworkInfo(plan *models.EducationPlan, lesson *models.Lesson, card *models.Card) error {
	if plan.StudentID == nil {
		return nil
	}
	text := fmt.Sprintf("К уроку %s прикреплено домашнее задание: %s",
		lesson.DateStart.Format(lessonTimeLayout), card.Title)
	_, err := s.createNotification(*plan.StudentID, plan, models.NotificationTypeHomeworkInfo, text, card.ID.String(), lesson)
	return err
}

func (s *notificationService) ScheduleCardRepetition(card *models.Card) error {
	key := repetitionKey(card.ID)
	if card.RepetitionDate == nil {
		s.tasks.Cancel(key)
		return nil
	}

	cardID := card.ID
	s.tasks.Schedule(key, *card.RepetitionDate, func() {
		s.fireRepetition(cardID)
	})
	return nil
}

func (s *notificationService) ListActiveByUser(userID uuid.UUID) ([]*models.Notification, error) {
	return s.notifications.ListActiveByRecipient(userID)
}

func (s *notificationService) Deactivate(userID, notificationID uuid.UUID) error {
	return s.notifications.Deactivate(notificationID, userID)
}

// createNotification сохраняет уведомление и ставит задачу доставки:
// отложенную для напоминания об уроке, немедленную для остальных типов
func (s *notificationService) createNotification(
	recipientID uuid.UUID,
	plan *models.EducationPlan,
	notificationType models.NotificationType,
	text, content string,
	lesson *models.Lesson,
) (*models.Notification, error) {
	notification := &models.Notification{
		ID:          uuid.New(),
		Type:        notificationType,
		Text:        text,
		Content:     content,
		RecipientID: recipientID,
		IsActive:    !notificationType.IsReminder(),
		CreatedAt:   time.Now(),
	}
	if plan != nil {
		planID := plan.ID
		notification.PlanID = &planID
	}
	if lesson != nil {
		lessonID := lesson.ID
		notification.LessonID = &lessonID
	}

	if err := s.notifications.Create(notification); err != nil {
		return nil, err
	}

	notificationID := notification.ID
	key := taskKey(notificationID)
	if notificationType == models.NotificationTypeLessonReminder && lesson != nil {
		s.tasks.Schedule(key, lesson.DateStart.Add(-s.reminderLead), func() {
			s.deliver(notificationID)
		})
	} else {
		s.tasks.RunNow(key, func() {
			s.deliver(notificationID)
		})
	}

	return notification, nil
}

// deliver выполняется задачей доставки: перепроверяет, что урок не
// отменили, рассылает текст по каналам получателя и делает
// уведомление видимым. Сбои доставки логируются и не всплывают к
// вызвавшему запросу.
func (s *notificationService) deliver(notificationID uuid.UUID) {
	notification, err := s.notifications.GetByID(notificationID)
	if err != nil {
		logger.Error("failed to load notification for delivery", "id", notificationID, "error", err)
		return
	}

	if notification.Type == models.NotificationTypeLessonReminder && notification.LessonID != nil {
		lesson, err := s.lessons.GetByID(*notification.LessonID)
		if err == nil && lesson.IsCanceled {
			// Отмененный урок гасит напоминание: уведомление так и
			// не становится видимым
			return
		}
	}

	recipient, err := s.users.GetByID(notification.RecipientID)
	if err != nil {
		logger.Error("failed to load notification recipient", "id", notificationID, "error", err)
		return
	}

	prefs := sender.Prefs{
		Email:        recipient.Email,
		ReceiveEmail: recipient.ReceiveEmailNotifications,
		DeviceID:     recipient.DeviceID,
		TelegramID:   recipient.TelegramID,
	}
	if err := s.sender.Send(prefs, notification.Text); err != nil {
		logger.Error("failed to deliver notification", "id", notificationID, "error", err)
	}

	if err := s.notifications.MarkDelivered(notificationID); err != nil {
		logger.Error("failed to mark notification delivered", "id", notificationID, "error", err)
	}
}

// fireRepetition выполняется задачей повторения: переводит карточку в
// to_repeat и создает напоминание о повторении
func (s *notificationService) fireRepetition(cardID uuid.UUID) {
	card, err := s.cards.GetByID(cardID)
	if err != nil {
		return
	}

	if err := s.cards.UpdateStatus(cardID, models.CardStatusToRepeat); err != nil {
		logger.Error("failed to set card status to_repeat", "card_id", cardID, "error", err)
		return
	}

	if card.ModuleID == nil {
		return
	}
	module, err := s.modules.GetByID(*card.ModuleID)
	if err != nil {
		return
	}
	plan, err := s.plans.GetByID(module.PlanID)
	if err != nil || plan.StudentID == nil {
		return
	}

	text := "Необходимо повторить тему " + card.Title
	if _, err := s.createNotification(*plan.StudentID, plan, models.NotificationTypeRepetitionReminder, text, card.ID.String(), nil); err != nil {
		logger.Error("failed to create repetition notification", "card_id", cardID, "error", err)
	}
}

func taskKey(notificationID uuid.UUID) string {
	return "notification-" + notificationID.String()
}

func repetitionKey(cardID uuid.UUID) string {
	return "repetition-" + cardID.String()
}
