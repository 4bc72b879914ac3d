package services

import (
	"context"
	"fmt"
	"time"

	"github.com/inkpost/server/internal/models"
	"github.com/inkpost/server/internal/profanity"
)

// EmailService handles the contact-email route: screen, relay, record.
type EmailService struct {
	emailRepo models.EmailRepo
	mailer    Mailer
	screen    *profanity.Screen
}

func NewEmailService(emailRepo models.EmailRepo, mailer Mailer, screen *profanity.Screen) *EmailService {
	return &EmailService{
		emailRepo: emailRepo,
		mailer:    mailer,
		screen:    screen,
	}
}

// SendContactEmail relays a message on behalf of the sender and records it.
// Profane subject or body rejects the message; unlike post creation the
// sender is not blocked.
func (es *EmailService) SendContactEmail(ctx context.Context, sender *models.User, req *models.SendEmailRequest) (*models.EmailMessage, error) {
	if es.screen.IsProfane(req.Subject, req.Message) {
		return nil, fmt.Errorf("%w: email not sent", models.ErrContentRejected)
	}

	if err := es.mailer.Send(ctx, req.To, req.Subject, req.Message, req.Message); err != nil {
		return nil, err
	}

	msg := &models.EmailMessage{
		SentBy:    sender.ID,
		FromEmail: sender.Email,
		ToEmail:   req.To,
		Subject:   req.Subject,
		Message:   req.Message,
		SentAt:    time.Now(),
	}

	return es.emailRepo.SaveEmailMessage(ctx, msg)
}
