package service

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"
)

type emailService struct {
	host     string
	port     int
	username string
	password string
	from     string
}

// NewEmailService returns an SMTP-backed EmailService.
func NewEmailService(host string, port int, username, password, from string) EmailService {
	return &emailService{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
	}
}

func (s *emailService) SendInvitation(ctx context.Context, email, groupName, inviteLink string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", email)
	m.SetHeader("Subject", fmt.Sprintf("You're invited to join %s on TinyTribe", groupName))

	body := fmt.Sprintf("Hello,\n\nYou have been invited to join the babysitting group: %s.\n\nOpen this link on your phone to join:\n\n%s\n\nBest regards,\nThe TinyTribe Team", groupName, inviteLink)
	m.SetBody("text/plain", body)

	d := gomail.NewDialer(s.host, s.port, s.username, s.password)

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send invitation email: %w", err)
	}

	return nil
}

func (s *emailService) SendRequestReminder(ctx context.Context, email, requesterName, date string, urgent bool) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", email)

	subject := fmt.Sprintf("Childcare request for %s", date)
	if urgent {
		subject = "Urgent: " + subject
	}
	m.SetHeader("Subject", subject)

	body := fmt.Sprintf("Hello,\n\n%s needs childcare on %s. Open TinyTribe to respond.\n\nBest regards,\nThe TinyTribe Team", requesterName, date)
	m.SetBody("text/plain", body)

	d := gomail.NewDialer(s.host, s.port, s.username, s.password)

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send reminder email: %w", err)
	}

	return nil
}
