package sender

import (
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

const emailSubject = "Уведомление от TutorToolkit"

// SendgridEmailSender отправляет письма через Sendgrid
type SendgridEmailSender struct {
	client *sendgrid.Client
	from   *sgmail.Email
}

func NewSendgridEmailSender(apiKey, fromEmail string) *SendgridEmailSender {
	return &SendgridEmailSender{
		client: sendgrid.NewSendClient(apiKey),
		from:   sgmail.NewEmail("TutorToolkit", fromEmail),
	}
}

func (s *SendgridEmailSender) SendEmail(to, message string) error {
	m := sgmail.NewSingleEmail(s.from, emailSubject, sgmail.NewEmail("", to), message, "")
	resp, err := s.client.Send(m)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid returned status %d", resp.StatusCode)
	}
	return nil
}
