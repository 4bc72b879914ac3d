package container

import (
	"log/slog"

	"github.com/cloudinary/cloudinary-go/v2"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/inkpost/server/internal/config"
	"github.com/inkpost/server/internal/helpers"
	"github.com/inkpost/server/internal/models"
	"github.com/inkpost/server/internal/profanity"
	"github.com/inkpost/server/internal/services"
)

// Container holds all application dependencies
type Container struct {
	Logger         *slog.Logger
	Config         *config.Config
	Cloudinary     *cloudinary.Cloudinary
	MongoDBClient  *mongo.Client
	UserService    *services.UserService
	PostService    *services.PostService
	CommentService *services.CommentService
	EmailService   *services.EmailService
}

// NewContainer creates a new dependency injection container
func NewContainer(
	logger *slog.Logger,
	cfg *config.Config,
	cld *cloudinary.Cloudinary,
	mongoDBClient *mongo.Client,
) *Container {
	repo := models.MongodbNewRepo(mongoDBClient)
	tokens := helpers.NewTokenSource()
	mailer := services.NewSendGridMailer(cfg.SendGridAPIKey, cfg.EmailSenderName, cfg.EmailSender)
	screen := profanity.NewScreen()
	uploader := services.NewCloudinaryUploader(cld)

	userService := services.NewUserService(repo, tokens, mailer, cfg.JWTSecret, cfg.FrontendURL)
	postService := services.NewPostService(repo, repo, screen, uploader)
	commentService := services.NewCommentService(repo, repo, repo)
	emailService := services.NewEmailService(repo, mailer, screen)

	return &Container{
		Logger:         logger,
		Config:         cfg,
		Cloudinary:     cld,
		MongoDBClient:  mongoDBClient,
		UserService:    userService,
		PostService:    postService,
		CommentService: commentService,
		EmailService:   emailService,
	}
}
