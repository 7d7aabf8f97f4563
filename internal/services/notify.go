package services

import (
	"fmt"

	"github.com/studyflow/studyflow-backend/internal/database"
	"github.com/studyflow/studyflow-backend/internal/models"
	"github.com/studyflow/studyflow-backend/pkg/logger"
)

// Notifications are fire-and-forget: a failed insert is logged and
// swallowed, it never fails the progression write that triggered it.

func notify(userID string, ntype models.NotificationType, badgeID *string, message string) {
	n := models.Notification{
		UserID:  userID,
		Type:    ntype,
		BadgeID: badgeID,
		Message: message,
	}
	if err := database.DB.Create(&n).Error; err != nil {
		logger.Error().Err(err).Str("userId", userID).Str("type", string(ntype)).Msg("Failed to create notification")
	}
}

func NotifyLevelUp(userID string, newLevel int) {
	notify(userID, models.NotificationTypeLevelUp, nil,
		fmt.Sprintf("You reached level %d!", newLevel))
}

func NotifyStreakMilestone(userID string, streak int) {
	notify(userID, models.NotificationTypeStreakMilestone, nil,
		fmt.Sprintf("%d-day study streak. Keep it going!", streak))
}

func NotifyBadgeUnlock(userID string, badge models.Badge) {
	notify(userID, models.NotificationTypeBadgeUnlock, &badge.ID,
		fmt.Sprintf("Badge unlocked: %s", badge.Name))
}
