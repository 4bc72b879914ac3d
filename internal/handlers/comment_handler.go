package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/inkpost/server/internal/models"
	"github.com/inkpost/server/internal/services"
)

func CreateComment(cs *services.CommentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		author, ok := currentUser(c)
		if !ok {
			return
		}

		var req models.CreateCommentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}

		postId, err := primitive.ObjectIDFromHex(req.PostID)
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("invalid post ID format"))
			return
		}

		comment, err := cs.CreateComment(c.Request.Context(), author.ID, postId, req.Description)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusCreated, models.SuccessResponse(comment, "comment created"))
	}
}

func ListComments(cs *services.CommentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		comments, err := cs.ListComments(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, models.SuccessResponse(comments, ""))
	}
}

func GetComment(cs *services.CommentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("invalid comment ID format"))
			return
		}

		comment, err := cs.GetComment(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, models.SuccessResponse(comment, ""))
	}
}

func UpdateComment(cs *services.CommentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := currentUser(c)
		if !ok {
			return
		}

		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("invalid comment ID format"))
			return
		}

		comment, err := cs.GetComment(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		if comment.UserID != actor.ID && !actor.IsAdmin {
			c.JSON(http.StatusForbidden, models.ErrorResponse("access denied"))
			return
		}

		var req models.UpdateCommentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}

		updated, err := cs.UpdateComment(c.Request.Context(), id, req.Description)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, models.SuccessResponse(updated, "comment updated"))
	}
}

func DeleteComment(cs *services.CommentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := currentUser(c)
		if !ok {
			return
		}

		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("invalid comment ID format"))
			return
		}

		comment, err := cs.GetComment(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		if comment.UserID != actor.ID && !actor.IsAdmin {
			c.JSON(http.StatusForbidden, models.ErrorResponse("access denied"))
			return
		}

		if err := cs.DeleteComment(c.Request.Context(), id); err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, models.SuccessResponse(nil, "comment deleted"))
	}
}
