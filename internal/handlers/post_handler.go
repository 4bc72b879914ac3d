package handlers

import (
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/inkpost/server/internal/models"
	"github.com/inkpost/server/internal/services"
)

// CreatePost accepts a multipart form with title, description and an
// optional image. The image is written to a temp file so the media
// collaborator can upload it by local path.
func CreatePost(p *services.PostService) gin.HandlerFunc {
	return func(c *gin.Context) {
		author, ok := currentUser(c)
		if !ok {
			return
		}

		title := c.PostForm("title")
		description := c.PostForm("description")
		if title == "" || description == "" {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("title and description are required"))
			return
		}

		var localPath string
		if file, err := c.FormFile("image"); err == nil {
			localPath = filepath.Join(os.TempDir(), uuid.New().String()+filepath.Ext(file.Filename))
			if err := c.SaveUploadedFile(file, localPath); err != nil {
				c.JSON(http.StatusInternalServerError, models.ErrorResponse("failed to store uploaded image"))
				return
			}
			defer os.Remove(localPath)
		}

		post, err := p.CreatePost(c.Request.Context(), author.ID, title, description, localPath)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusCreated, models.SuccessResponse(post, "post created"))
	}
}

func ListPosts(p *services.PostService) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
		if err != nil || page < 1 {
			page = 1
		}
		limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
		if err != nil || limit < 1 || limit > 100 {
			limit = 20
		}

		posts, err := p.ListPosts(c.Request.Context(), (page-1)*limit, limit)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, models.PaginatedResponse(posts, page, limit, len(posts)))
	}
}

func GetPost(p *services.PostService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("invalid post ID format"))
			return
		}

		post, err := p.GetPost(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, models.SuccessResponse(post, ""))
	}
}

func UpdatePost(p *services.PostService) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := currentUser(c)
		if !ok {
			return
		}

		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("invalid post ID format"))
			return
		}

		post, err := p.GetPost(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		if post.UserID != actor.ID && !actor.IsAdmin {
			c.JSON(http.StatusForbidden, models.ErrorResponse("access denied"))
			return
		}

		var req models.UpdatePostRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}

		updated, err := p.UpdatePost(c.Request.Context(), id, &req)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, models.SuccessResponse(updated, "post updated"))
	}
}

func DeletePost(p *services.PostService) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := currentUser(c)
		if !ok {
			return
		}

		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("invalid post ID format"))
			return
		}

		post, err := p.GetPost(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		if post.UserID != actor.ID && !actor.IsAdmin {
			c.JSON(http.StatusForbidden, models.ErrorResponse("access denied"))
			return
		}

		if err := p.DeletePost(c.Request.Context(), id); err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, models.SuccessResponse(nil, "post deleted"))
	}
}
