package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/inkpost/server/internal/models"
	"github.com/inkpost/server/internal/services"
)

// SendEmail relays a contact email on behalf of the authenticated user.
func SendEmail(es *services.EmailService) gin.HandlerFunc {
	return func(c *gin.Context) {
		sender, ok := currentUser(c)
		if !ok {
			return
		}

		var req models.SendEmailRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}

		msg, err := es.SendContactEmail(c.Request.Context(), sender, &req)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, models.SuccessResponse(msg, "email sent"))
	}
}
