package services

import (
	"context"
	"fmt"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/inkpost/server/internal/guard"
	"github.com/inkpost/server/internal/helpers"
	"github.com/inkpost/server/internal/models"
	"github.com/inkpost/server/internal/profanity"
)

// ImageUploader is the media storage collaborator: upload by local path,
// get back a public URL.
type ImageUploader interface {
	Upload(ctx context.Context, localPath, folder string) (string, error)
}

type CloudinaryUploader struct {
	cld *cloudinary.Cloudinary
}

func NewCloudinaryUploader(cld *cloudinary.Cloudinary) *CloudinaryUploader {
	return &CloudinaryUploader{cld: cld}
}

func (cu *CloudinaryUploader) Upload(ctx context.Context, localPath, folder string) (string, error) {
	return helpers.UploadImage(ctx, cu.cld, localPath, folder)
}

type PostService struct {
	postRepo models.PostRepo
	userRepo models.UserRepo
	screen   *profanity.Screen
	uploader ImageUploader
}

func NewPostService(postRepo models.PostRepo, userRepo models.UserRepo, screen *profanity.Screen, uploader ImageUploader) *PostService {
	return &PostService{
		postRepo: postRepo,
		userRepo: userRepo,
		screen:   screen,
		uploader: uploader,
	}
}

// CreatePost screens the title and description for profanity before
// anything is stored. A profane submission blocks the author and fails;
// the block write lands even though the post is rejected.
func (ps *PostService) CreatePost(ctx context.Context, authorId primitive.ObjectID, title, description, localImagePath string) (*models.Post, error) {
	author, err := ps.userRepo.GetUserByID(ctx, authorId)
	if err != nil {
		return nil, err
	}
	if err := guard.CheckNotBlocked(author); err != nil {
		return nil, err
	}
	if err := guard.CheckVerified(author); err != nil {
		return nil, err
	}

	if ps.screen.IsProfane(title, description) {
		if err := ps.userRepo.SetBlocked(ctx, authorId, true); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%w: you have been blocked", models.ErrContentRejected)
	}

	var imageURL string
	if localImagePath != "" {
		imageURL, err = ps.uploadWithTimeout(ctx, localImagePath)
		if err != nil {
			return nil, err
		}
	}

	now := time.Now()
	post := &models.Post{
		UserID:      authorId,
		Title:       title,
		Description: description,
		Image:       imageURL,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := models.Validate.Struct(post); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrValidation, err)
	}

	return ps.postRepo.CreatePost(ctx, post)
}

func (ps *PostService) uploadWithTimeout(ctx context.Context, localPath string) (string, error) {
	urlChan := make(chan string, 1)
	errChan := make(chan error, 1)

	go func() {
		url, err := ps.uploader.Upload(ctx, localPath, helpers.PostsFolder)
		if err != nil {
			errChan <- err
			return
		}
		urlChan <- url
	}()

	select {
	case url := <-urlChan:
		return url, nil
	case err := <-errChan:
		return "", fmt.Errorf("failed to upload image: %v", err)
	case <-time.After(30 * time.Second):
		return "", fmt.Errorf("image upload timeout")
	}
}

func (ps *PostService) GetPost(ctx context.Context, id primitive.ObjectID) (*models.Post, error) {
	return ps.postRepo.GetPostByID(ctx, id)
}

func (ps *PostService) ListPosts(ctx context.Context, offset, limit int) ([]*models.Post, error) {
	if offset < 0 || limit <= 0 {
		return nil, fmt.Errorf("%w: invalid offset or limit", models.ErrValidation)
	}
	return ps.postRepo.ListPosts(ctx, offset, limit)
}

func (ps *PostService) UpdatePost(ctx context.Context, id primitive.ObjectID, req *models.UpdatePostRequest) (*models.Post, error) {
	update := map[string]interface{}{}
	if req.Title != nil {
		update["title"] = *req.Title
	}
	if req.Description != nil {
		update["description"] = *req.Description
	}
	if len(update) == 0 {
		return nil, fmt.Errorf("%w: no fields to update", models.ErrValidation)
	}

	return ps.postRepo.UpdatePost(ctx, id, update)
}

func (ps *PostService) DeletePost(ctx context.Context, id primitive.ObjectID) error {
	return ps.postRepo.DeletePost(ctx, id)
}
