package services

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/inkpost/server/internal/guard"
	"github.com/inkpost/server/internal/models"
)

type CommentService struct {
	commentRepo models.CommentRepo
	postRepo    models.PostRepo
	userRepo    models.UserRepo
}

func NewCommentService(commentRepo models.CommentRepo, postRepo models.PostRepo, userRepo models.UserRepo) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
		userRepo:    userRepo,
	}
}

// CreateComment requires an unblocked author and an existing post. Comments
// are not profanity-screened; a profane post already blocks its author,
// which locks them out of commenting too.
func (cs *CommentService) CreateComment(ctx context.Context, authorId, postId primitive.ObjectID, description string) (*models.Comment, error) {
	author, err := cs.userRepo.GetUserByID(ctx, authorId)
	if err != nil {
		return nil, err
	}
	if err := guard.CheckNotBlocked(author); err != nil {
		return nil, err
	}

	if _, err := cs.postRepo.GetPostByID(ctx, postId); err != nil {
		return nil, err
	}

	now := time.Now()
	comment := &models.Comment{
		PostID:      postId,
		UserID:      authorId,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := models.Validate.Struct(comment); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrValidation, err)
	}

	return cs.commentRepo.CreateComment(ctx, comment)
}

func (cs *CommentService) GetComment(ctx context.Context, id primitive.ObjectID) (*models.Comment, error) {
	return cs.commentRepo.GetCommentByID(ctx, id)
}

func (cs *CommentService) ListComments(ctx context.Context) ([]*models.Comment, error) {
	return cs.commentRepo.ListComments(ctx)
}

func (cs *CommentService) UpdateComment(ctx context.Context, id primitive.ObjectID, description string) (*models.Comment, error) {
	if description == "" {
		return nil, fmt.Errorf("%w: description cannot be empty", models.ErrValidation)
	}
	return cs.commentRepo.UpdateComment(ctx, id, description)
}

func (cs *CommentService) DeleteComment(ctx context.Context, id primitive.ObjectID) error {
	return cs.commentRepo.DeleteComment(ctx, id)
}
