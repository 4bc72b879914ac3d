package routes

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/inkpost/server/internal/container"
	"github.com/inkpost/server/internal/handlers"
	"github.com/inkpost/server/internal/middleware"
)

// SetupRoutes configures all routes with the dependency container
func SetupRoutes(container *container.Container) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{container.Config.FrontendURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	// Add middleware
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(container.Logger))
	r.Use(middleware.ErrorHandler(container.Logger))
	r.Use(gin.Recovery())

	// API version 1
	v1 := r.Group("/api/v1")
	{
		// Health check
		v1.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{
				"status":  "OK",
				"service": "inkpost-api",
			})
		})

		// public routes
		v1.POST("/users/register", handlers.Register(container.UserService))
		v1.POST("/users/login", handlers.Login(container.UserService))
		v1.POST("/users/forget-password", handlers.ForgotPassword(container.UserService))
		v1.POST("/users/reset-password", handlers.ResetPassword(container.UserService))
		v1.PUT("/users/verify-account", handlers.VerifyAccount(container.UserService))
		v1.GET("/users/:id", handlers.GetUser(container.UserService))
		v1.GET("/posts", handlers.ListPosts(container.PostService))
		v1.GET("/posts/:id", handlers.GetPost(container.PostService))
		v1.GET("/comments", handlers.ListComments(container.CommentService))
	}

	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware(container.UserService, container.Config.JWTSecret, container.Logger))

	userRoutes := protected.Group("/users")
	{
		userRoutes.GET("", handlers.ListUsers(container.UserService))
		userRoutes.GET("/profile/:id", handlers.GetProfile(container.UserService))
		userRoutes.PUT("/follow", handlers.FollowUser(container.UserService))
		userRoutes.PUT("/unfollow", handlers.UnfollowUser(container.UserService))
		userRoutes.PUT("/block/:id", handlers.BlockUser(container.UserService, true))
		userRoutes.PUT("/unblock/:id", handlers.BlockUser(container.UserService, false))
		userRoutes.POST("/verify-token", handlers.RequestVerification(container.UserService))
		userRoutes.PUT("/:id", handlers.UpdateUser(container.UserService))
		userRoutes.DELETE("/:id", handlers.DeleteUser(container.UserService))
	}

	postRoutes := protected.Group("/posts")
	{
		postRoutes.POST("", handlers.CreatePost(container.PostService))
		postRoutes.PUT("/:id", handlers.UpdatePost(container.PostService))
		postRoutes.DELETE("/:id", handlers.DeletePost(container.PostService))
	}

	commentRoutes := protected.Group("/comments")
	{
		commentRoutes.POST("", handlers.CreateComment(container.CommentService))
		commentRoutes.GET("/:id", handlers.GetComment(container.CommentService))
		commentRoutes.PUT("/:id", handlers.UpdateComment(container.CommentService))
		commentRoutes.DELETE("/:id", handlers.DeleteComment(container.CommentService))
	}

	protected.POST("/email", handlers.SendEmail(container.EmailService))

	return r
}
