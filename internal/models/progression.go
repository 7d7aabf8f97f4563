package models

import (
	"time"
)

// ProgressionRecord is the per-user gamification state. One row per
// user, created lazily on first activity. CurrentLevel is always kept
// consistent with CurrentXP via the level table after every write.
type ProgressionRecord struct {
	UserID    string    `gorm:"primaryKey;type:text" json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	CurrentXP    int `gorm:"default:0" json:"currentXP"`
	CurrentLevel int `gorm:"default:1" json:"currentLevel"`

	CurrentStreak int `gorm:"default:0" json:"currentStreak"`
	LongestStreak int `gorm:"default:0" json:"longestStreak"`
	// LastStudyDate holds the calendar day (midnight, day-boundary
	// timezone) of the last streak-qualifying activity. Nil until the
	// first activity.
	LastStudyDate *time.Time `json:"lastStudyDate"`

	// Counters feeding badge progress. Monotonically non-decreasing.
	TotalStudyMinutes int `gorm:"default:0" json:"totalStudyMinutes"`
	TotalQuizzes      int `gorm:"default:0" json:"totalQuizzes"`
	PerfectScores     int `gorm:"default:0" json:"perfectScores"`
	CompletedCourses  int `gorm:"default:0" json:"completedCourses"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (ProgressionRecord) TableName() string {
	return "progression_records"
}
