package services

import (
	"github.com/studyflow/studyflow-backend/internal/database"
	"github.com/studyflow/studyflow-backend/internal/models"
	"gorm.io/gorm"
)

// AwardResult is the outcome of routing one action through the XP
// award path.
type AwardResult struct {
	XPAwarded    int  `json:"xpAwarded"`
	CurrentXP    int  `json:"currentXP"`
	CurrentLevel int  `json:"currentLevel"`
	LeveledUp    bool `json:"leveledUp"`
	OldLevel     int  `json:"oldLevel"`
	NewLevel     int  `json:"newLevel"`
}

// GetOrCreateProgression lazily creates the zero record on first
// access. Progression rows are never deleted.
func GetOrCreateProgression(userID string) (models.ProgressionRecord, error) {
	var rec models.ProgressionRecord
	err := database.DB.
		Where(models.ProgressionRecord{UserID: userID}).
		Attrs(models.ProgressionRecord{CurrentLevel: 1}).
		FirstOrCreate(&rec).Error
	return rec, err
}

// AwardXP maps the action to an amount, applies it atomically, and
// recomputes the level from the post-add total. An unknown action
// awards 0 and succeeds; callers treat that as a valid no-op.
//
// The XP write is an in-database increment, never a read-modify-write
// of the whole record, so two concurrent awards for the same user both
// land.
func AwardXP(userID, action string, meta Metadata) (AwardResult, error) {
	rec, err := GetOrCreateProgression(userID)
	if err != nil {
		return AwardResult{}, err
	}

	amount := XPForAction(action, meta)
	oldXP := rec.CurrentXP

	if amount > 0 {
		updates := map[string]interface{}{
			"current_xp": gorm.Expr("current_xp + ?", amount),
		}
		for col, inc := range counterIncrements(action, meta) {
			updates[col] = gorm.Expr(col+" + ?", inc)
		}
		if err := database.DB.Model(&models.ProgressionRecord{}).
			Where("user_id = ?", userID).
			Updates(updates).Error; err != nil {
			return AwardResult{}, err
		}

		// Re-read the post-add total and pin the level to it.
		if err := database.DB.Take(&rec, "user_id = ?", userID).Error; err != nil {
			return AwardResult{}, err
		}
		level := LevelFromXP(rec.CurrentXP)
		if level > rec.CurrentLevel {
			// Levels only ever rise; the guard keeps a racing award
			// from writing back a stale lower level.
			if err := database.DB.Model(&models.ProgressionRecord{}).
				Where("user_id = ? AND current_level < ?", userID, level).
				Update("current_level", level).Error; err != nil {
				return AwardResult{}, err
			}
			rec.CurrentLevel = level
		}
	}

	levelUp := CheckLevelUp(oldXP, rec.CurrentXP)
	if levelUp.LeveledUp {
		NotifyLevelUp(userID, levelUp.NewLevel)
	}

	return AwardResult{
		XPAwarded:    amount,
		CurrentXP:    rec.CurrentXP,
		CurrentLevel: rec.CurrentLevel,
		LeveledUp:    levelUp.LeveledUp,
		OldLevel:     levelUp.OldLevel,
		NewLevel:     levelUp.NewLevel,
	}, nil
}

// counterIncrements returns the badge-progress counter bumps that ride
// along with an action, keyed by column name.
func counterIncrements(action string, meta Metadata) map[string]int {
	switch action {
	case ActionCompleteQuiz:
		return map[string]int{"total_quizzes": 1}
	case ActionPerfectQuiz:
		return map[string]int{"total_quizzes": 1, "perfect_scores": 1}
	case ActionStudySession:
		minutes := meta.Minutes
		if minutes <= 0 {
			return nil
		}
		if minutes > maxSessionMinutes {
			minutes = maxSessionMinutes
		}
		return map[string]int{"total_study_minutes": minutes}
	case ActionCompleteCourse:
		return map[string]int{"completed_courses": 1}
	}
	return nil
}
