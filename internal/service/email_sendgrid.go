package service

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

type sendGridEmailService struct {
	apiKey   string
	from     string
	fromName string
}

// NewSendGridEmailService returns an EmailService that sends through the
// SendGrid API instead of SMTP.
func NewSendGridEmailService(apiKey, from, fromName string) EmailService {
	return &sendGridEmailService{
		apiKey:   apiKey,
		from:     from,
		fromName: fromName,
	}
}

func (s *sendGridEmailService) SendInvitation(ctx context.Context, email, groupName, inviteLink string) error {
	subject := fmt.Sprintf("You're invited to join %s on TinyTribe", groupName)
	body := fmt.Sprintf("Hello,\n\nYou have been invited to join the babysitting group: %s.\n\nOpen this link on your phone to join:\n\n%s\n\nBest regards,\nThe TinyTribe Team", groupName, inviteLink)
	return s.send(email, subject, body)
}

func (s *sendGridEmailService) SendRequestReminder(ctx context.Context, email, requesterName, date string, urgent bool) error {
	subject := fmt.Sprintf("Childcare request for %s", date)
	if urgent {
		subject = "Urgent: " + subject
	}
	body := fmt.Sprintf("Hello,\n\n%s needs childcare on %s. Open TinyTribe to respond.\n\nBest regards,\nThe TinyTribe Team", requesterName, date)
	return s.send(email, subject, body)
}

func (s *sendGridEmailService) send(to, subject, plainText string) error {
	from := mail.NewEmail(s.fromName, s.from)
	recipient := mail.NewEmail("", to)

	message := mail.NewSingleEmail(from, subject, recipient, plainText, "")

	client := sendgrid.NewSendClient(s.apiKey)
	response, err := client.Send(message)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
	}

	return nil
}
