package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/studyflow/studyflow-backend/internal/handlers"
	"github.com/studyflow/studyflow-backend/internal/middleware"
)

// RegisterProgressionRoutes wires the XP, streak, and badge endpoints.
func RegisterProgressionRoutes(rg *gin.RouterGroup) {
	progression := rg.Group("/progression")
	progression.Use(middleware.AuthMiddleware())

	progression.GET("", handlers.GetProgression)
	progression.POST("/award", middleware.AwardRateLimit(), handlers.AwardXP)
	progression.POST("/streak", handlers.UpdateStreak)
	progression.GET("/badges", handlers.GetBadges)
	progression.POST("/badges/check", handlers.CheckBadges)
}

// RegisterQuestRoutes wires the daily quest endpoints.
func RegisterQuestRoutes(rg *gin.RouterGroup) {
	quests := rg.Group("/quests")
	quests.Use(middleware.AuthMiddleware())

	quests.GET("/today", handlers.GetDailyQuests)
	quests.POST("/:id/progress", handlers.UpdateQuestProgress)
	quests.POST("/bonus", handlers.CompleteQuestBonus)
}

// RegisterLeaderboardRoutes wires the ranking endpoints. The global
// page is public; the personalized rank needs auth.
func RegisterLeaderboardRoutes(rg *gin.RouterGroup) {
	leaderboard := rg.Group("/leaderboard")

	leaderboard.GET("", handlers.GetLeaderboard)
	leaderboard.GET("/me", middleware.AuthMiddleware(), handlers.GetMyRank)
}

// RegisterNotificationRoutes wires the notification inbox.
func RegisterNotificationRoutes(rg *gin.RouterGroup) {
	notifications := rg.Group("/notifications")
	notifications.Use(middleware.AuthMiddleware())

	notifications.GET("", handlers.GetNotifications)
	notifications.GET("/unread-count", handlers.GetUnreadCount)
	notifications.PUT("/:id/read", handlers.MarkNotificationRead)
}

// RegisterAdminRoutes wires admin-only operations.
func RegisterAdminRoutes(rg *gin.RouterGroup) {
	admin := rg.Group("/admin")
	admin.Use(middleware.AuthMiddleware(), middleware.AdminOnly())

	admin.POST("/badges/grant", handlers.AdminGrantBadge)
}
