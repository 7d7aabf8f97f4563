package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/studyflow/studyflow-backend/internal/services"
	"github.com/studyflow/studyflow-backend/pkg/errors"
	"gorm.io/gorm"
)

type grantBadgeRequest struct {
	UserID  string `json:"userId" binding:"required"`
	BadgeID string `json:"badgeId" binding:"required"`
}

// AdminGrantBadge POST /admin/badges/grant
// Awards a badge directly, skipping condition evaluation. Granting an
// already-earned badge is a no-op.
func AdminGrantBadge(c *gin.Context) {
	var req grantBadgeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errors.BadRequest("userId and badgeId are required"))
		return
	}

	granted, err := services.GrantBadge(req.UserID, req.BadgeID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.Error(errors.NotFound("Badge not found"))
			return
		}
		c.Error(errors.Internal("Failed to grant badge"))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"granted":       granted,
		"alreadyEarned": !granted,
	})
}
