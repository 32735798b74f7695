package sender

import "github.com/enrudae/TutorToolkit/pkg/telegram"

// BotTelegramSender доставляет сообщения через Telegram бота
type BotTelegramSender struct {
	bot *telegram.Bot
}

func NewBotTelegramSender(bot *telegram.Bot) *BotTelegramSender {
	return &BotTelegramSender{bot: bot}
}

func (s *BotTelegramSender) SendTelegram(chatID int64, message string) error {
	return s.bot.SendMessage(chatID, message)
}
