package services

import "github.com/studyflow/studyflow-backend/internal/models"

// Action names accepted by the reward calculator. Anything else is
// worth 0 XP: an unknown action is a no-op, not an error.
const (
	ActionCompleteLesson = "complete_lesson"
	ActionCompleteQuiz   = "complete_quiz"
	ActionPerfectQuiz    = "perfect_quiz"
	ActionStudySession   = "study_session"
	ActionCompleteCourse = "complete_course"
	ActionDailyStreak    = "daily_streak"
	ActionEarnBadge      = "earn_badge"
	ActionCompleteQuest  = "complete_quest"
	ActionQuestBonus     = "quest_bonus"
)

// Caps on metadata-scaled awards, so adversarial metadata cannot mint
// unbounded XP.
const (
	maxStreakBonus    = 50
	maxQuestAward     = 500
	maxSessionMinutes = 1440
)

var baseXP = map[string]int{
	ActionCompleteLesson: 10,
	ActionCompleteQuiz:   20,
	ActionPerfectQuiz:    50,
	ActionStudySession:   15,
	ActionCompleteCourse: 100,
	ActionDailyStreak:    10,
	ActionEarnBadge:      25,
	ActionCompleteQuest:  0,
	ActionQuestBonus:     0,
}

// Metadata carries the per-action context that scales an award.
type Metadata struct {
	// StreakLength scales the daily_streak bonus.
	StreakLength int
	// BadgeRarity scales the earn_badge award.
	BadgeRarity models.BadgeRarity
	// Minutes is the study_session duration and counter increment.
	Minutes int
	// Amount is the quest-defined reward passed through for
	// complete_quest and quest_bonus.
	Amount int
}

// XPForAction maps an action name plus metadata to an XP amount.
// Pure; safe to call any number of times.
func XPForAction(action string, meta Metadata) int {
	base, ok := baseXP[action]
	if !ok {
		return 0
	}

	switch action {
	case ActionDailyStreak:
		bonus := 2 * meta.StreakLength
		if bonus > maxStreakBonus {
			bonus = maxStreakBonus
		}
		if bonus < 0 {
			bonus = 0
		}
		return base + bonus

	case ActionEarnBadge:
		return base * rarityMultiplier(meta.BadgeRarity)

	case ActionCompleteQuest, ActionQuestBonus:
		amount := meta.Amount
		if amount < 0 {
			return 0
		}
		if amount > maxQuestAward {
			amount = maxQuestAward
		}
		return amount
	}

	return base
}

func rarityMultiplier(r models.BadgeRarity) int {
	switch r {
	case models.BadgeRarityRare:
		return 2
	case models.BadgeRarityEpic:
		return 3
	case models.BadgeRarityLegendary:
		return 4
	default:
		return 1
	}
}
