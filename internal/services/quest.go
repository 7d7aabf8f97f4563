package services

import (
	"crypto/sha256"
	"encoding/binary"
	"time"

	"github.com/studyflow/studyflow-backend/internal/database"
	"github.com/studyflow/studyflow-backend/internal/models"
	"github.com/studyflow/studyflow-backend/pkg/logger"
	"gorm.io/gorm"
)

// questsPerDay is the fixed cardinality of a daily quest set.
const questsPerDay = 3

// questBonusPercent of the set's summed rewards is paid when every
// quest in the set is completed.
const questBonusPercent = 50

// QuestTemplate describes one entry in the daily quest pool.
type QuestTemplate struct {
	ID          string
	Title       string
	Description string
	Target      int
	XPReward    int
}

// questPool returns the full set of quest templates a day's set is
// drawn from.
func questPool() []QuestTemplate {
	return []QuestTemplate{
		{
			ID:          "complete_quizzes",
			Title:       "Quiz Whiz",
			Description: "Complete 3 quizzes today",
			Target:      3,
			XPReward:    30,
		},
		{
			ID:          "perfect_score",
			Title:       "Flawless",
			Description: "Get a perfect score on a quiz",
			Target:      1,
			XPReward:    50,
		},
		{
			ID:          "study_minutes",
			Title:       "Deep Focus",
			Description: "Study for 30 minutes",
			Target:      30,
			XPReward:    25,
		},
		{
			ID:          "complete_lessons",
			Title:       "Page Turner",
			Description: "Finish 5 lessons today",
			Target:      5,
			XPReward:    35,
		},
		{
			ID:          "review_flashcards",
			Title:       "Memory Lane",
			Description: "Review 20 flashcards",
			Target:      20,
			XPReward:    20,
		},
		{
			ID:          "study_sessions",
			Title:       "Back for More",
			Description: "Start 2 study sessions today",
			Target:      2,
			XPReward:    25,
		},
	}
}

// selectQuests picks questsPerDay templates for a day key,
// deterministically, so every call site materializes the same set.
func selectQuests(date string) []QuestTemplate {
	pool := questPool()
	n := len(pool)

	// Seed a deterministic ordering from the day key.
	h := sha256.Sum256([]byte(date))
	seed := binary.BigEndian.Uint64(h[:8])

	// Fisher-Yates with an LCG stepped from the seed.
	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}
	for i := n - 1; i > 0; i-- {
		seed = seed*6364136223846793005 + 1442695040888963407
		j := int(seed % uint64(i+1))
		indices[i], indices[j] = indices[j], indices[i]
	}

	count := questsPerDay
	if count > n {
		count = n
	}
	selected := make([]QuestTemplate, count)
	for i := 0; i < count; i++ {
		selected[i] = pool[indices[i]]
	}
	return selected
}

// GetDailyQuests returns today's quest set for the user, creating it
// on first access.
func GetDailyQuests(userID string) (models.DailyQuestSet, error) {
	return GetDailyQuestsAt(userID, timeNow())
}

// GetDailyQuestsAt materializes the set for the day containing now.
// Creation is idempotent on the (user, day) key; a concurrent creator
// losing the race re-reads the winner's set.
func GetDailyQuestsAt(userID string, now time.Time) (models.DailyQuestSet, error) {
	date := dayKey(now)

	var set models.DailyQuestSet
	err := database.DB.Preload("Quests", func(db *gorm.DB) *gorm.DB {
		return db.Order("sort_order asc")
	}).Where("user_id = ? AND quest_date = ?", userID, date).First(&set).Error
	if err == nil {
		return set, nil
	}
	if err != gorm.ErrRecordNotFound {
		return set, err
	}

	set = models.DailyQuestSet{UserID: userID, QuestDate: date}
	for i, tpl := range selectQuests(date) {
		set.Quests = append(set.Quests, models.DailyQuest{
			QuestID:     tpl.ID,
			Title:       tpl.Title,
			Description: tpl.Description,
			Target:      tpl.Target,
			XPReward:    tpl.XPReward,
			SortOrder:   i,
		})
	}

	if err := database.DB.Create(&set).Error; err != nil {
		// Unique (user, date) violation: someone else created it first.
		logger.Debug().Err(err).Str("userId", userID).Msg("Daily quest set already exists, re-reading")
		var existing models.DailyQuestSet
		if err2 := database.DB.Preload("Quests", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order asc")
		}).Where("user_id = ? AND quest_date = ?", userID, date).First(&existing).Error; err2 != nil {
			return existing, err
		}
		return existing, nil
	}
	return set, nil
}

// QuestProgressResult is the outcome of one progress update.
type QuestProgressResult struct {
	Quest          models.DailyQuest `json:"quest"`
	JustCompleted  bool              `json:"justCompleted"`
	XPAwarded      int               `json:"xpAwarded"`
	CompletedCount int               `json:"completedCount"`
	TotalQuests    int               `json:"totalQuests"`
}

// UpdateQuestProgress adds increment to the named quest in today's
// set. Completion flips exactly once and pays the quest's XP on that
// transition; increments on a completed quest are no-ops. A
// non-positive increment is treated as zero, never an error.
func UpdateQuestProgress(userID, questID string, increment int) (QuestProgressResult, error) {
	return UpdateQuestProgressAt(userID, questID, increment, timeNow())
}

func UpdateQuestProgressAt(userID, questID string, increment int, now time.Time) (QuestProgressResult, error) {
	set, err := GetDailyQuestsAt(userID, now)
	if err != nil {
		return QuestProgressResult{}, err
	}

	var quest *models.DailyQuest
	for i := range set.Quests {
		if set.Quests[i].QuestID == questID || set.Quests[i].ID == questID {
			quest = &set.Quests[i]
			break
		}
	}
	if quest == nil {
		return QuestProgressResult{}, gorm.ErrRecordNotFound
	}

	res := QuestProgressResult{TotalQuests: len(set.Quests)}

	if increment > 0 && !quest.Completed {
		// Progress accumulates in the database, clamped to the target
		// there, so concurrent increments cannot drop a delta.
		upd := database.DB.Model(&models.DailyQuest{}).
			Where("id = ? AND completed = ?", quest.ID, false).
			Update("progress", gorm.Expr(
				"CASE WHEN progress + ? >= ? THEN ? ELSE progress + ? END",
				increment, quest.Target, quest.Target, increment,
			))
		if upd.Error != nil {
			return QuestProgressResult{}, upd.Error
		}

		// The completed guard makes the flip exactly-once even when two
		// updates for the same quest race.
		flip := database.DB.Model(&models.DailyQuest{}).
			Where("id = ? AND completed = ? AND progress >= ?", quest.ID, false, quest.Target).
			Update("completed", true)
		if flip.Error != nil {
			return QuestProgressResult{}, flip.Error
		}

		if err := database.DB.First(quest, "id = ?", quest.ID).Error; err != nil {
			return QuestProgressResult{}, err
		}

		if flip.RowsAffected == 1 {
			res.JustCompleted = true
			award, err := AwardXP(userID, ActionCompleteQuest, Metadata{Amount: quest.XPReward})
			if err != nil {
				return QuestProgressResult{}, err
			}
			res.XPAwarded = award.XPAwarded
		}
	}

	res.Quest = *quest
	for _, q := range set.Quests {
		if q.Completed {
			res.CompletedCount++
		}
	}
	return res, nil
}

// QuestBonusResult is the outcome of a bonus claim.
type QuestBonusResult struct {
	BonusAwarded   bool `json:"bonusAwarded"`
	BonusXP        int  `json:"bonusXP"`
	AlreadyAwarded bool `json:"alreadyAwarded"`
}

// CompleteQuestBonus pays the all-quests-done bonus exactly once per
// day. A second call reports alreadyAwarded with zero XP.
func CompleteQuestBonus(userID string) (QuestBonusResult, error) {
	return CompleteQuestBonusAt(userID, timeNow())
}

func CompleteQuestBonusAt(userID string, now time.Time) (QuestBonusResult, error) {
	set, err := GetDailyQuestsAt(userID, now)
	if err != nil {
		return QuestBonusResult{}, err
	}

	if set.BonusAwarded {
		return QuestBonusResult{AlreadyAwarded: true}, nil
	}

	total := 0
	for _, q := range set.Quests {
		if !q.Completed {
			return QuestBonusResult{}, nil
		}
		total += q.XPReward
	}

	// The bonus_awarded guard is the exactly-once gate: only one caller
	// sees RowsAffected == 1.
	upd := database.DB.Model(&models.DailyQuestSet{}).
		Where("id = ? AND bonus_awarded = ?", set.ID, false).
		Update("bonus_awarded", true)
	if upd.Error != nil {
		return QuestBonusResult{}, upd.Error
	}
	if upd.RowsAffected == 0 {
		return QuestBonusResult{AlreadyAwarded: true}, nil
	}

	bonus := total * questBonusPercent / 100
	award, err := AwardXP(userID, ActionQuestBonus, Metadata{Amount: bonus})
	if err != nil {
		return QuestBonusResult{BonusAwarded: true}, err
	}
	return QuestBonusResult{BonusAwarded: true, BonusXP: award.XPAwarded}, nil
}
