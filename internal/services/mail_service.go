package services

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// Mailer is the mail transport collaborator. Implementations send a single
// structured message; failures surface to the caller with no retry.
type Mailer interface {
	Send(ctx context.Context, toEmail, subject, plainText, htmlContent string) error
}

type SendGridMailer struct {
	apiKey     string
	senderName string
	senderAddr string
}

func NewSendGridMailer(apiKey, senderName, senderAddr string) *SendGridMailer {
	return &SendGridMailer{
		apiKey:     apiKey,
		senderName: senderName,
		senderAddr: senderAddr,
	}
}

func (m *SendGridMailer) Send(ctx context.Context, toEmail, subject, plainText, htmlContent string) error {
	from := mail.NewEmail(m.senderName, m.senderAddr)
	to := mail.NewEmail("", toEmail)
	message := mail.NewSingleEmail(from, subject, to, plainText, htmlContent)

	client := sendgrid.NewSendClient(m.apiKey)
	response, err := client.Send(message)
	if err != nil {
		return fmt.Errorf("failed to send email: %v", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("mail relay rejected message: status=%d body=%s", response.StatusCode, response.Body)
	}

	return nil
}

func verificationEmail(frontendURL, rawToken string) (subject, plain, html string) {
	link := fmt.Sprintf("%s/verify-account/%s", frontendURL, rawToken)
	subject = "Verify your account"
	plain = fmt.Sprintf("Verify your account within 10 minutes: %s", link)
	html = fmt.Sprintf(`Verify your account within 10 minutes: <a href=%q>%s</a>`, link, link)
	return subject, plain, html
}

func passwordResetEmail(frontendURL, rawToken string) (subject, plain, html string) {
	link := fmt.Sprintf("%s/reset-password/%s", frontendURL, rawToken)
	subject = "Reset your password"
	plain = fmt.Sprintf("Reset your password within 10 minutes: %s", link)
	html = fmt.Sprintf(`Reset your password within 10 minutes: <a href=%q>%s</a>`, link, link)
	return subject, plain, html
}
