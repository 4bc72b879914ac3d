package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	EmailsColName = "emails"
)

// EmailMessage is the audit record of a contact email sent through the API.
type EmailMessage struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SentBy    primitive.ObjectID `bson:"sent_by" json:"sent_by"`
	FromEmail string             `bson:"from_email" json:"from_email"`
	ToEmail   string             `bson:"to_email" json:"to_email"`
	Subject   string             `bson:"subject" json:"subject"`
	Message   string             `bson:"message" json:"message"`
	SentAt    time.Time          `bson:"sent_at" json:"sent_at"`
}

func (e *EmailMessage) BeforeCreate() error {
	if e.ID.IsZero() {
		e.ID = primitive.NewObjectID()
	}
	return nil
}

type SendEmailRequest struct {
	To      string `json:"to" binding:"required,email"`
	Subject string `json:"subject" binding:"required"`
	Message string `json:"message" binding:"required"`
}
