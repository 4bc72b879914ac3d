package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	CommentsColName = "comments"
)

// Comment references exactly one post and one user. Its lifecycle is
// independent of both: deleting a post does not cascade to its comments.
type Comment struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	PostID      primitive.ObjectID `bson:"post_id" json:"post_id" validate:"required"`
	UserID      primitive.ObjectID `bson:"user_id" json:"user_id" validate:"required"`
	Description string             `bson:"description" json:"description" validate:"required"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updated_at"`
}

func (c *Comment) BeforeCreate() error {
	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	return nil
}

type CreateCommentRequest struct {
	PostID      string `json:"post_id" binding:"required"`
	Description string `json:"description" binding:"required"`
}

type UpdateCommentRequest struct {
	Description string `json:"description" binding:"required"`
}
