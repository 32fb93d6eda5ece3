package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tourops-backend/services"
	"tourops-backend/utils"
)

// respondServiceError maps the service error taxonomy onto HTTP statuses:
// capacity and referential conflicts are 409, missing entities 404, anything
// else a 500.
func respondServiceError(c *gin.Context, err error) {
	if capErr := services.IsCapacityExceeded(err); capErr != nil {
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error":   capErr.Error(),
			"detail": gin.H{
				"unit":      capErr.Unit,
				"requested": capErr.Requested,
				"remaining": capErr.Remaining,
			},
		})
		return
	}
	if refErr := services.IsReferentialIntegrity(err); refErr != nil {
		utils.JSONError(c, http.StatusConflict, refErr.Error())
		return
	}
	if missErr := services.IsMissingEntity(err); missErr != nil {
		utils.JSONError(c, http.StatusNotFound, missErr.Error())
		return
	}
	utils.JSONError(c, http.StatusInternalServerError, err.Error())
}
