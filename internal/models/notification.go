package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NotificationType string

const (
	NotificationTypeLevelUp         NotificationType = "LEVEL_UP"
	NotificationTypeStreakMilestone NotificationType = "STREAK_MILESTONE"
	NotificationTypeBadgeUnlock     NotificationType = "BADGE_UNLOCK"
	NotificationTypeSystem          NotificationType = "SYSTEM"
)

type Notification struct {
	ID        string           `gorm:"primaryKey;type:text" json:"id"`
	UserID    string           `gorm:"index;type:text;not null" json:"userId"`
	Type      NotificationType `gorm:"type:varchar(20);not null" json:"type"`
	BadgeID   *string          `gorm:"index;type:text" json:"badgeId,omitempty"`
	Message   string           `gorm:"type:text" json:"message"`
	IsRead    bool             `gorm:"default:false" json:"isRead"`
	CreatedAt time.Time        `json:"createdAt"`

	User  User   `gorm:"foreignKey:UserID" json:"-"`
	Badge *Badge `gorm:"foreignKey:BadgeID" json:"badge,omitempty"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) (err error) {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
	return
}
