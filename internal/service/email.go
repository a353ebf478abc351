package service

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

type sendGridEmailService struct {
	apiKey    string
	fromEmail string
	fromName  string
}

func NewEmailService(apiKey, fromEmail, fromName string) EmailService {
	return &sendGridEmailService{
		apiKey:    apiKey,
		fromEmail: fromEmail,
		fromName:  fromName,
	}
}

func (s *sendGridEmailService) send(_ context.Context, to, toName, subject, plainText, htmlContent string) error {
	from := mail.NewEmail(s.fromName, s.fromEmail)
	recipient := mail.NewEmail(toName, to)

	message := mail.NewSingleEmail(from, subject, recipient, plainText, htmlContent)

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

func (s *sendGridEmailService) SendRegistrationConfirmed(ctx context.Context, email, name, outingTitle, outingDate string) error {
	subject := fmt.Sprintf("Registration confirmed: %s", outingTitle)
	plain := fmt.Sprintf("Hello %s,\n\nYour spot for \"%s\" on %s is confirmed. See you there!\n\nThe club team", name, outingTitle, outingDate)
	html := fmt.Sprintf(`<p>Hello %s,</p><p>Your spot for <strong>%s</strong> on %s is <strong>confirmed</strong>. See you there!</p>`, name, outingTitle, outingDate)
	return s.send(ctx, email, name, subject, plain, html)
}

func (s *sendGridEmailService) SendWaitlisted(ctx context.Context, email, name, outingTitle, outingDate string) error {
	subject := fmt.Sprintf("You're on the waitlist: %s", outingTitle)
	plain := fmt.Sprintf("Hello %s,\n\n\"%s\" on %s is full. You've been added to the waitlist and will be confirmed automatically if a spot frees up.\n\nThe club team", name, outingTitle, outingDate)
	html := fmt.Sprintf(`<p>Hello %s,</p><p><strong>%s</strong> on %s is full. You've been added to the waitlist and will be confirmed automatically if a spot frees up.</p>`, name, outingTitle, outingDate)
	return s.send(ctx, email, name, subject, plain, html)
}

func (s *sendGridEmailService) SendWaitlistPromotion(ctx context.Context, email, name, outingTitle, outingDate string) error {
	subject := fmt.Sprintf("A spot opened up: %s", outingTitle)
	plain := fmt.Sprintf("Hello %s,\n\nGood news: a spot freed up for \"%s\" on %s and your registration is now confirmed.\n\nThe club team", name, outingTitle, outingDate)
	html := fmt.Sprintf(`<p>Hello %s,</p><p>Good news: a spot freed up for <strong>%s</strong> on %s and your registration is now <strong>confirmed</strong>.</p>`, name, outingTitle, outingDate)
	return s.send(ctx, email, name, subject, plain, html)
}

func (s *sendGridEmailService) SendCancellationConfirmation(ctx context.Context, email, name, outingTitle string) error {
	subject := fmt.Sprintf("Registration cancelled: %s", outingTitle)
	plain := fmt.Sprintf("Hello %s,\n\nYour registration for \"%s\" has been cancelled.\n\nThe club team", name, outingTitle)
	html := fmt.Sprintf(`<p>Hello %s,</p><p>Your registration for <strong>%s</strong> has been cancelled.</p>`, name, outingTitle)
	return s.send(ctx, email, name, subject, plain, html)
}

func (s *sendGridEmailService) SendCarpoolSeatLost(ctx context.Context, email, name, outingTitle, departureTime string) error {
	subject := fmt.Sprintf("Carpool cancelled for %s", outingTitle)
	plain := fmt.Sprintf("Hello %s,\n\nThe carpool you had booked for \"%s\" (departing %s) was cancelled by the driver. Your outing registration is unchanged; please arrange another ride.\n\nThe club team", name, outingTitle, departureTime)
	html := fmt.Sprintf(`<p>Hello %s,</p><p>The carpool you had booked for <strong>%s</strong> (departing %s) was cancelled by the driver. Your outing registration is unchanged; please arrange another ride.</p>`, name, outingTitle, departureTime)
	return s.send(ctx, email, name, subject, plain, html)
}

func (s *sendGridEmailService) SendOutingCancelledNotice(ctx context.Context, email, name, outingTitle, reason string) error {
	subject := fmt.Sprintf("Outing cancelled: %s", outingTitle)
	plain := fmt.Sprintf("Hello %s,\n\n\"%s\" has been cancelled.", name, outingTitle)
	if reason != "" {
		plain += fmt.Sprintf("\n\nReason: %s", reason)
	}
	plain += "\n\nThe club team"
	html := fmt.Sprintf(`<p>Hello %s,</p><p><strong>%s</strong> has been cancelled.</p>`, name, outingTitle)
	if reason != "" {
		html += fmt.Sprintf("<p>Reason: %s</p>", reason)
	}
	return s.send(ctx, email, name, subject, plain, html)
}

func (s *sendGridEmailService) SendOutingReminder(ctx context.Context, email, name, outingTitle, outingDate, location string) error {
	subject := fmt.Sprintf("Reminder: %s tomorrow", outingTitle)
	plain := fmt.Sprintf("Hello %s,\n\nA reminder that \"%s\" starts %s at %s.\n\nThe club team", name, outingTitle, outingDate, location)
	html := fmt.Sprintf(`<p>Hello %s,</p><p>A reminder that <strong>%s</strong> starts %s at %s.</p>`, name, outingTitle, outingDate, location)
	return s.send(ctx, email, name, subject, plain, html)
}

func (s *sendGridEmailService) SendGearOverdueNotice(ctx context.Context, email, name, itemKind, tag, dueOn string) error {
	subject := "Club equipment overdue"
	plain := fmt.Sprintf("Hello %s,\n\nThe %s (tag %s) you borrowed was due back on %s. Please return it at the next session.\n\nThe club team", name, itemKind, tag, dueOn)
	html := fmt.Sprintf(`<p>Hello %s,</p><p>The %s (tag <code>%s</code>) you borrowed was due back on %s. Please return it at the next session.</p>`, name, itemKind, tag, dueOn)
	return s.send(ctx, email, name, subject, plain, html)
}
