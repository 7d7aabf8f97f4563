package models

import "time"

type BadgeRarity string

const (
	BadgeRarityCommon    BadgeRarity = "COMMON"
	BadgeRarityRare      BadgeRarity = "RARE"
	BadgeRarityEpic      BadgeRarity = "EPIC"
	BadgeRarityLegendary BadgeRarity = "LEGENDARY"
)

// Badge condition keys evaluated against ProgressionRecord counters.
const (
	BadgeConditionStreak        = "streak_days"
	BadgeConditionQuizzes       = "total_quizzes"
	BadgeConditionPerfectScores = "perfect_scores"
	BadgeConditionCourses       = "completed_courses"
	BadgeConditionStudyMinutes  = "study_minutes"
	BadgeConditionLevel         = "level"
)

// Badge is a static catalog entry. Rows are seeded, never written by
// the progression paths.
type Badge struct {
	ID          string      `gorm:"primaryKey;type:text" json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Icon        string      `json:"icon"` // Name of the Lucide icon
	Rarity      BadgeRarity `gorm:"type:text;default:'COMMON'" json:"rarity"`
	Condition   string      `json:"condition"` // e.g. "streak_days"
	Threshold   int         `json:"threshold"`
}

// UserBadge tracks one user's progress toward one badge. Earned never
// reverts to false once set.
type UserBadge struct {
	UserID   string     `gorm:"primaryKey;type:text" json:"userId"`
	BadgeID  string     `gorm:"primaryKey;type:text" json:"badgeId"`
	Earned   bool       `gorm:"default:false" json:"earned"`
	EarnedAt *time.Time `json:"earnedAt"`
	Progress int        `gorm:"default:0" json:"progress"` // 0-100

	Badge Badge `gorm:"foreignKey:BadgeID" json:"badge"`
	User  User  `gorm:"foreignKey:UserID" json:"-"`
}
