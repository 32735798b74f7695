package sender

import (
	"errors"

	"github.com/enrudae/TutorToolkit/pkg/logger"
)

// Prefs описывает каналы доставки, привязанные к профилю получателя.
// Ядро уведомлений не знает деталей транспорта — только какие каналы
// у получателя подключены.
type Prefs struct {
	Email        string
	ReceiveEmail bool
	DeviceID     string
	TelegramID   int64
}

// Sender доставляет сообщение по всем подключенным каналам получателя
type Sender interface {
	Send(prefs Prefs, message string) error
}

// EmailSender отправляет сообщение на email
type EmailSender interface {
	SendEmail(to, message string) error
}

// PushSender отправляет push-уведомление на устройство
type PushSender interface {
	SendPush(deviceID, message string) error
}

// TelegramSender отправляет сообщение через бота
type TelegramSender interface {
	SendTelegram(chatID int64, message string) error
}

// Dispatcher рассылает сообщение по настройкам профиля: push при
// зарегистрированном устройстве, email при подписке, telegram при привязке.
// Недоступный канал не блокирует остальные.
type Dispatcher struct {
	email    EmailSender
	push     PushSender
	telegram TelegramSender
}

func NewDispatcher(email EmailSender, push PushSender, telegram TelegramSender) *Dispatcher {
	return &Dispatcher{email: email, push: push, telegram: telegram}
}

func (d *Dispatcher) Send(prefs Prefs, message string) error {
	var errs []error

	if prefs.DeviceID != "" && d.push != nil {
		if err := d.push.SendPush(prefs.DeviceID, message); err != nil {
			errs = append(errs, err)
		}
	}
	if prefs.ReceiveEmail && prefs.Email != "" && d.email != nil {
		if err := d.email.SendEmail(prefs.Email, message); err != nil {
			errs = append(errs, err)
		}
	}
	if prefs.TelegramID != 0 && d.telegram != nil {
		if err := d.telegram.SendTelegram(prefs.TelegramID, message); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// LogPushSender пишет push-уведомления в лог. Мобильного SDK у проекта
// пока нет, интерфейс канала сохранен.
type LogPushSender struct{}

func (LogPushSender) SendPush(deviceID, message string) error {
	logger.Info("push notification", "device_id", deviceID, "message", message)
	return nil
}
