package services

import (
	"time"

	"github.com/studyflow/studyflow-backend/internal/database"
	"github.com/studyflow/studyflow-backend/internal/models"
)

// streakMilestoneEvery fires the milestone notification on every
// positive multiple of this many days.
const streakMilestoneEvery = 7

// StreakResult is the outcome of one UpdateStreak call.
type StreakResult struct {
	CurrentStreak int  `json:"currentStreak"`
	LongestStreak int  `json:"longestStreak"`
	IsNewStreak   bool `json:"isNewStreak"`
	XPAwarded     int  `json:"xpAwarded"`
	Milestone     int  `json:"milestone,omitempty"`
}

// UpdateStreak advances the user's daily streak for today.
func UpdateStreak(userID string) (StreakResult, error) {
	return UpdateStreakAt(userID, timeNow())
}

// UpdateStreakAt is UpdateStreak with an explicit clock, for tests and
// backfills. Transitions:
//   - no prior date: streak starts at 1, no bonus
//   - same day: idempotent no-op
//   - yesterday: streak += 1, streak XP awarded
//   - anything else (gap, future date, corrupt value): reset to 1, no bonus
func UpdateStreakAt(userID string, now time.Time) (StreakResult, error) {
	rec, err := GetOrCreateProgression(userID)
	if err != nil {
		return StreakResult{}, err
	}

	today := dateOnly(now)
	newStreak := 1
	advanced := false

	if rec.LastStudyDate != nil {
		switch daysBetween(*rec.LastStudyDate, today) {
		case 0:
			// Already counted today.
			return StreakResult{
				CurrentStreak: rec.CurrentStreak,
				LongestStreak: rec.LongestStreak,
			}, nil
		case 1:
			newStreak = rec.CurrentStreak + 1
			advanced = true
		}
	}

	longest := rec.LongestStreak
	if newStreak > longest {
		longest = newStreak
	}

	if err := database.DB.Model(&models.ProgressionRecord{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"current_streak":  newStreak,
			"longest_streak":  longest,
			"last_study_date": today,
		}).Error; err != nil {
		return StreakResult{}, err
	}

	res := StreakResult{
		CurrentStreak: newStreak,
		LongestStreak: longest,
		IsNewStreak:   true,
	}

	// Only the consecutive-day transition pays a bonus; starting or
	// restarting a streak does not.
	if advanced {
		award, err := AwardXP(userID, ActionDailyStreak, Metadata{StreakLength: newStreak})
		if err != nil {
			return StreakResult{}, err
		}
		res.XPAwarded = award.XPAwarded
	}

	if newStreak > 0 && newStreak%streakMilestoneEvery == 0 {
		res.Milestone = newStreak
		NotifyStreakMilestone(userID, newStreak)
	}

	return res, nil
}
