package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/studyflow/studyflow-backend/internal/services"
)

// GetLeaderboard GET /leaderboard?limit=&offset=
// Served entirely from the shared snapshot; a failed refresh degrades
// to stale data, never to an error response.
func GetLeaderboard(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	page, err := services.Leaderboard.GetLeaderboard(limit, offset)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Leaderboard unavailable"})
		return
	}

	c.JSON(http.StatusOK, page)
}

// GetMyRank GET /leaderboard/me
func GetMyRank(c *gin.Context) {
	userID, exists := c.Get("userId")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	rank, err := services.Leaderboard.GetUserRank(userID.(string))
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Leaderboard unavailable"})
		return
	}

	c.JSON(http.StatusOK, rank)
}
