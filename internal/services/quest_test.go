package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/studyflow/studyflow-backend/internal/database"
	"github.com/studyflow/studyflow-backend/internal/models"
	"gorm.io/gorm"
)

var questDay = time.Date(2025, 4, 2, 10, 0, 0, 0, time.UTC)

func TestSelectQuests_Deterministic(t *testing.T) {
	a := selectQuests("2025-04-02")
	b := selectQuests("2025-04-02")

	assert.Len(t, a, questsPerDay)
	for i := range a {
		assert.Equal(t, a[i].ID, b[i].ID)
	}

	// No duplicate templates within a set.
	seen := map[string]bool{}
	for _, q := range a {
		assert.False(t, seen[q.ID])
		seen[q.ID] = true
	}
}

func TestSelectQuests_VariesAcrossDays(t *testing.T) {
	ids := func(tpls []QuestTemplate) []string {
		out := make([]string, len(tpls))
		for i, q := range tpls {
			out[i] = q.ID
		}
		return out
	}

	// One week of day keys should not all pick the same ordering.
	distinct := map[string]bool{}
	for d := 1; d <= 7; d++ {
		key := time.Date(2025, 4, d, 0, 0, 0, 0, time.UTC).Format("2006-01-02")
		sel := ids(selectQuests(key))
		distinct[sel[0]+sel[1]+sel[2]] = true
	}
	assert.Greater(t, len(distinct), 1)
}

func TestGetDailyQuests_IdempotentMaterialization(t *testing.T) {
	setupTestDB()

	first, err := GetDailyQuestsAt("quest_idem", questDay)
	assert.NoError(t, err)
	assert.Len(t, first.Quests, questsPerDay)

	second, err := GetDailyQuestsAt("quest_idem", questDay.Add(5*time.Hour))
	assert.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	var count int64
	database.DB.Model(&models.DailyQuestSet{}).
		Where("user_id = ?", "quest_idem").Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestGetDailyQuests_NewSetNextDay(t *testing.T) {
	setupTestDB()

	today, err := GetDailyQuestsAt("quest_next", questDay)
	assert.NoError(t, err)
	tomorrow, err := GetDailyQuestsAt("quest_next", questDay.AddDate(0, 0, 1))
	assert.NoError(t, err)

	assert.NotEqual(t, today.ID, tomorrow.ID)
	assert.NotEqual(t, today.QuestDate, tomorrow.QuestDate)
}

func TestUpdateQuestProgress_CompletesOnce(t *testing.T) {
	setupTestDB()

	set, err := GetDailyQuestsAt("quest_once", questDay)
	assert.NoError(t, err)
	quest := set.Quests[0]

	res, err := UpdateQuestProgressAt("quest_once", quest.QuestID, quest.Target, questDay)
	assert.NoError(t, err)
	assert.True(t, res.JustCompleted)
	assert.Equal(t, quest.XPReward, res.XPAwarded)
	assert.Equal(t, quest.Target, res.Quest.Progress)

	// Further increments on a completed quest are no-ops.
	res, err = UpdateQuestProgressAt("quest_once", quest.QuestID, 10, questDay)
	assert.NoError(t, err)
	assert.False(t, res.JustCompleted)
	assert.Equal(t, 0, res.XPAwarded)
	assert.Equal(t, quest.Target, res.Quest.Progress)

	var rec models.ProgressionRecord
	database.DB.First(&rec, "user_id = ?", "quest_once")
	assert.Equal(t, quest.XPReward, rec.CurrentXP)
}

func TestUpdateQuestProgress_AccumulatesInStore(t *testing.T) {
	setupTestDB()

	set, err := GetDailyQuestsAt("quest_accum", questDay)
	assert.NoError(t, err)

	// Pick a quest that takes several increments to finish.
	var quest models.DailyQuest
	for _, q := range set.Quests {
		if q.Target > 2 {
			quest = q
			break
		}
	}
	assert.NotEmpty(t, quest.ID)

	// Progress already committed by another request must be built on,
	// not recomputed from a stale read.
	database.DB.Model(&models.DailyQuest{}).
		Where("id = ?", quest.ID).
		Update("progress", 1)

	res, err := UpdateQuestProgressAt("quest_accum", quest.QuestID, 1, questDay)
	assert.NoError(t, err)
	assert.Equal(t, 2, res.Quest.Progress)
	assert.False(t, res.JustCompleted)

	// One increment per unit until the target: completion fires on the
	// last one only, paying the quest XP exactly once.
	totalXP := 0
	for p := res.Quest.Progress; p < quest.Target; p++ {
		out, err := UpdateQuestProgressAt("quest_accum", quest.QuestID, 1, questDay)
		assert.NoError(t, err)
		assert.Equal(t, p+1, out.Quest.Progress)
		assert.Equal(t, out.Quest.Progress == quest.Target, out.JustCompleted)
		totalXP += out.XPAwarded
	}
	assert.Equal(t, quest.XPReward, totalXP)
}

func TestUpdateQuestProgress_ClampsToTarget(t *testing.T) {
	setupTestDB()

	set, err := GetDailyQuestsAt("quest_clamp", questDay)
	assert.NoError(t, err)
	quest := set.Quests[1]

	res, err := UpdateQuestProgressAt("quest_clamp", quest.QuestID, quest.Target+100, questDay)
	assert.NoError(t, err)
	assert.True(t, res.JustCompleted)
	assert.Equal(t, quest.Target, res.Quest.Progress)
}

func TestUpdateQuestProgress_NonPositiveIncrement(t *testing.T) {
	setupTestDB()

	set, err := GetDailyQuestsAt("quest_zero", questDay)
	assert.NoError(t, err)
	quest := set.Quests[0]

	for _, inc := range []int{0, -5} {
		res, err := UpdateQuestProgressAt("quest_zero", quest.QuestID, inc, questDay)
		assert.NoError(t, err)
		assert.False(t, res.JustCompleted)
		assert.Equal(t, 0, res.Quest.Progress)
	}
}

func TestUpdateQuestProgress_UnknownQuest(t *testing.T) {
	setupTestDB()

	_, err := UpdateQuestProgressAt("quest_unknown", "not-in-todays-set-xyz", 1, questDay)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestCompleteQuestBonus_ExactlyOnce(t *testing.T) {
	setupTestDB()

	set, err := GetDailyQuestsAt("quest_bonus", questDay)
	assert.NoError(t, err)

	// Bonus before completion pays nothing.
	res, err := CompleteQuestBonusAt("quest_bonus", questDay)
	assert.NoError(t, err)
	assert.False(t, res.BonusAwarded)
	assert.False(t, res.AlreadyAwarded)

	total := 0
	for _, q := range set.Quests {
		out, err := UpdateQuestProgressAt("quest_bonus", q.QuestID, q.Target, questDay)
		assert.NoError(t, err)
		assert.True(t, out.JustCompleted)
		total += q.XPReward
	}

	res, err = CompleteQuestBonusAt("quest_bonus", questDay)
	assert.NoError(t, err)
	assert.True(t, res.BonusAwarded)
	assert.Equal(t, total*questBonusPercent/100, res.BonusXP)

	// A second claim reports the prior award instead of paying again.
	res, err = CompleteQuestBonusAt("quest_bonus", questDay)
	assert.NoError(t, err)
	assert.False(t, res.BonusAwarded)
	assert.True(t, res.AlreadyAwarded)

	var rec models.ProgressionRecord
	database.DB.First(&rec, "user_id = ?", "quest_bonus")
	assert.Equal(t, total+total*questBonusPercent/100, rec.CurrentXP)
}

func TestQuestFlow_CompletedCountTracksSet(t *testing.T) {
	setupTestDB()

	set, err := GetDailyQuestsAt("quest_count", questDay)
	assert.NoError(t, err)

	for i, q := range set.Quests {
		res, err := UpdateQuestProgressAt("quest_count", q.QuestID, q.Target, questDay)
		assert.NoError(t, err)
		assert.Equal(t, i+1, res.CompletedCount)
		assert.Equal(t, questsPerDay, res.TotalQuests)
	}
}
