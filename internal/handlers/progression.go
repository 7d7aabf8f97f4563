package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/studyflow/studyflow-backend/internal/services"
)

type awardRequest struct {
	Action   string `json:"action" binding:"required"`
	Metadata struct {
		Minutes int `json:"minutes"`
	} `json:"metadata"`
}

// AwardXP POST /progression/award
// Routes an authenticated action through the reward calculator. An
// unknown action is a valid zero award, not an error.
func AwardXP(c *gin.Context) {
	userID, exists := c.Get("userId")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req awardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	result, err := services.AwardXP(userID.(string), req.Action, services.Metadata{
		Minutes: req.Metadata.Minutes,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to award XP"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// UpdateStreak POST /progression/streak
func UpdateStreak(c *gin.Context) {
	userID, exists := c.Get("userId")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	result, err := services.UpdateStreak(userID.(string))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update streak"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// CheckBadges POST /progression/badges/check
func CheckBadges(c *gin.Context) {
	userID, exists := c.Get("userId")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	newBadges, err := services.CheckBadges(userID.(string))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check badges"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"newBadges": newBadges,
		"count":     len(newBadges),
	})
}

// GetProgression GET /progression
// Returns the caller's full progression record plus level progress for
// rendering.
func GetProgression(c *gin.Context) {
	userID, exists := c.Get("userId")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	rec, err := services.GetOrCreateProgression(userID.(string))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load progression"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"progression": rec,
		"levelInfo":   services.LevelInfoFromXP(rec.CurrentXP),
	})
}

// GetBadges GET /progression/badges
func GetBadges(c *gin.Context) {
	userID, exists := c.Get("userId")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	badges, err := services.ListUserBadges(userID.(string))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load badges"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"badges": badges})
}
