package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DailyQuestSet is one user's quest list for one calendar day.
// QuestDate is the day key in YYYY-MM-DD form (day-boundary timezone),
// unique per user so materialization is idempotent.
type DailyQuestSet struct {
	ID        string    `gorm:"primaryKey;type:text" json:"id"`
	UserID    string    `gorm:"uniqueIndex:idx_quest_set_user_date;type:text;not null" json:"userId"`
	QuestDate string    `gorm:"uniqueIndex:idx_quest_set_user_date;type:text;not null" json:"questDate"`
	CreatedAt time.Time `json:"createdAt"`

	// BonusAwarded transitions false->true exactly once, and only when
	// every quest in the set is completed.
	BonusAwarded bool `gorm:"default:false" json:"bonusAwarded"`

	Quests []DailyQuest `gorm:"foreignKey:SetID" json:"quests"`
	User   User         `gorm:"foreignKey:UserID" json:"-"`
}

func (s *DailyQuestSet) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	return
}

// DailyQuest is a single quest instance inside a set.
type DailyQuest struct {
	ID    string `gorm:"primaryKey;type:text" json:"id"`
	SetID string `gorm:"index;type:text;not null" json:"setId"`

	QuestID     string `gorm:"type:text;not null" json:"questId"` // template ID, e.g. "complete_quizzes"
	Title       string `json:"title"`
	Description string `json:"description"`
	Target      int    `json:"target"`
	Progress    int    `gorm:"default:0" json:"progress"`
	Completed   bool   `gorm:"default:false" json:"completed"`
	XPReward    int    `json:"xpReward"`
	SortOrder   int    `json:"sortOrder"`
}

func (q *DailyQuest) BeforeCreate(tx *gorm.DB) (err error) {
	if q.ID == "" {
		q.ID = uuid.New().String()
	}
	return
}
