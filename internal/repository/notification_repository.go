package repository

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/enrudae/TutorToolkit/internal/models"
)

type NotificationRepository interface {
	Create(notification *models.Notification) error
	GetByID(id uuid.UUID) (*models.Notification, error)
	ListActiveByRecipient(recipientID uuid.UUID) ([]*models.Notification, error)
	FindPendingLessonReminder(lessonID uuid.UUID) (*models.Notification, error)

	// MarkDelivered делает уведомление видимым получателю
	MarkDelivered(id uuid.UUID) error

	// Deactivate выполняет мягкое "удаление" уведомления получателем.
	// Повторный вызов безвреден.
	Deactivate(id, recipientID uuid.UUID) error
}

type notificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(notification *models.Notification) error {
	if notification.ID == uuid.Nil {
		notification.ID = uuid.New()
	}
	return r.db.Create(notification).Error
}

func (r *notificationRepository) GetByID(id uuid.UUID) (*models.Notification, error) {
	var notification models.Notification
	err := r.db.First(&notification, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &notification, nil
}

func (r *notificationRepository) ListActiveByRecipient(recipientID uuid.UUID) ([]*models.Notification, error) {
	var notifications []*models.Notification
	err := r.db.
		Where("recipient_id = ? AND is_active = ?", recipientID, true).
		Order("created_at DESC").
		Find(&notifications).Error
	return notifications, err
}

func (r *notificationRepository) FindPendingLessonReminder(lessonID uuid.UUID) (*models.Notification, error) {
	var notification models.Notification
	err := r.db.
		Where("lesson_id = ? AND type = ? AND is_active = ?", lessonID, models.NotificationTypeLessonReminder, false).
		First(&notification).Error
	if err != nil {
		return nil, err
	}
	return &notification, nil
}

func (r *notificationRepository) MarkDelivered(id uuid.UUID) error {
	return r.db.Model(&models.Notification{}).Where("id = ?", id).
		UpdateColumn("is_active", true).Error
}

func (r *notificationRepository) Deactivate(id, recipientID uuid.UUID) error {
	return r.db.Model(&models.Notification{}).
		Where("id = ? AND recipient_id = ?", id, recipientID).
		UpdateColumn("is_active", false).Error
}
