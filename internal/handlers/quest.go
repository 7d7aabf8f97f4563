package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/studyflow/studyflow-backend/internal/services"
	"github.com/studyflow/studyflow-backend/pkg/errors"
	"gorm.io/gorm"
)

// GetDailyQuests GET /quests/today
// Materializes today's quest set on first access.
func GetDailyQuests(c *gin.Context) {
	userID, exists := c.Get("userId")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	set, err := services.GetDailyQuests(userID.(string))
	if err != nil {
		c.Error(errors.Internal("Failed to load daily quests"))
		return
	}

	c.JSON(http.StatusOK, gin.H{"questSet": set})
}

type questProgressRequest struct {
	Increment int `json:"increment"`
}

// UpdateQuestProgress POST /quests/:id/progress
func UpdateQuestProgress(c *gin.Context) {
	userID, exists := c.Get("userId")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	questID := c.Param("id")

	var req questProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	result, err := services.UpdateQuestProgress(userID.(string), questID, req.Increment)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.Error(errors.NotFound("Quest not found in today's set"))
			return
		}
		c.Error(errors.Internal("Failed to update quest progress"))
		return
	}

	c.JSON(http.StatusOK, result)
}

// CompleteQuestBonus POST /quests/bonus
// Claims the all-quests-complete bonus. Idempotent; a repeat claim
// reports alreadyAwarded.
func CompleteQuestBonus(c *gin.Context) {
	userID, exists := c.Get("userId")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	result, err := services.CompleteQuestBonus(userID.(string))
	if err != nil {
		c.Error(errors.Internal("Failed to claim quest bonus"))
		return
	}

	c.JSON(http.StatusOK, result)
}
