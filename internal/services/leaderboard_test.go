package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/studyflow/studyflow-backend/internal/database"
	"github.com/studyflow/studyflow-backend/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func seedRankedUsers(prefix string, xps []int) {
	for i, xp := range xps {
		seedProgression(models.ProgressionRecord{
			UserID:    fmt.Sprintf("%s_%02d", prefix, i),
			CurrentXP: xp,
		})
	}
}

func freshRankingDB() *gorm.DB {
	db, _ := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	db.AutoMigrate(&models.ProgressionRecord{})
	database.DB = db
	return db
}

func TestLeaderboardCache_DeterministicRanks(t *testing.T) {
	db := freshRankingDB()
	seedRankedUsers("lb_det", []int{50, 400, 150, 400, 900})

	cache := NewLeaderboardCache(db, time.Minute, 100, DefaultTierConfig)
	snap, err := cache.Snapshot()
	assert.NoError(t, err)
	assert.Len(t, snap.Entries, 5)
	assert.Equal(t, int64(5), snap.TotalUsers)

	assert.Equal(t, "lb_det_04", snap.Entries[0].UserID)
	assert.Equal(t, TierPlatinum, snap.Entries[0].Tier)
	// Equal XP resolves by user ID ascending.
	assert.Equal(t, "lb_det_01", snap.Entries[1].UserID)
	assert.Equal(t, "lb_det_03", snap.Entries[2].UserID)
	assert.Equal(t, "lb_det_00", snap.Entries[4].UserID)
	for i, e := range snap.Entries {
		assert.Equal(t, i+1, e.Rank)
	}
}

func TestLeaderboardCache_TTLRefresh(t *testing.T) {
	db := freshRankingDB()
	seedRankedUsers("lb_ttl", []int{100, 200})

	cache := NewLeaderboardCache(db, time.Minute, 100, DefaultTierConfig)
	clock := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return clock }

	snap, err := cache.Snapshot()
	assert.NoError(t, err)
	assert.Len(t, snap.Entries, 2)

	// New data inside the TTL stays invisible.
	seedProgression(models.ProgressionRecord{UserID: "lb_ttl_late", CurrentXP: 999})
	snap, err = cache.Snapshot()
	assert.NoError(t, err)
	assert.Len(t, snap.Entries, 2)

	// Past the TTL the snapshot is rebuilt.
	clock = clock.Add(2 * time.Minute)
	snap, err = cache.Snapshot()
	assert.NoError(t, err)
	assert.Len(t, snap.Entries, 3)
	assert.Equal(t, "lb_ttl_late", snap.Entries[0].UserID)
}

func TestLeaderboardCache_StaleFallbackOnStoreError(t *testing.T) {
	db := freshRankingDB()
	seedRankedUsers("lb_stale", []int{10, 20})

	cache := NewLeaderboardCache(db, time.Minute, 100, DefaultTierConfig)
	clock := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return clock }

	snap, err := cache.Snapshot()
	assert.NoError(t, err)
	captured := snap.CapturedAt

	// Break the store, expire the TTL: readers still get the old data.
	broken, _ := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	cache.db = broken
	clock = clock.Add(2 * time.Minute)

	snap, err = cache.Snapshot()
	assert.NoError(t, err)
	assert.Len(t, snap.Entries, 2)
	assert.Equal(t, captured, snap.CapturedAt)
}

func TestLeaderboardCache_ErrorWithNoSnapshot(t *testing.T) {
	broken, _ := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})

	cache := NewLeaderboardCache(broken, time.Minute, 100, DefaultTierConfig)
	_, err := cache.Snapshot()
	assert.Error(t, err)
}

func TestGetLeaderboard_Paging(t *testing.T) {
	db := freshRankingDB()
	xps := make([]int, 30)
	for i := range xps {
		xps[i] = (i + 1) * 10
	}
	seedRankedUsers("lb_page", xps)

	cache := NewLeaderboardCache(db, time.Minute, 100, DefaultTierConfig)

	page, err := cache.GetLeaderboard(10, 0)
	assert.NoError(t, err)
	assert.Len(t, page.Entries, 10)
	assert.Equal(t, 1, page.Entries[0].Rank)
	assert.Equal(t, int64(30), page.TotalUsers)

	page, err = cache.GetLeaderboard(10, 25)
	assert.NoError(t, err)
	assert.Len(t, page.Entries, 5)
	assert.Equal(t, 26, page.Entries[0].Rank)

	// Offset past the end yields an empty page, not an error.
	page, err = cache.GetLeaderboard(10, 500)
	assert.NoError(t, err)
	assert.Empty(t, page.Entries)

	// Tier counts cover the whole snapshot, not just the page.
	assert.Equal(t, 1, page.TierCounts[TierPlatinum])
	assert.Equal(t, 9, page.TierCounts[TierGold])
	assert.Equal(t, 20, page.TierCounts[TierSilver])
}

func TestGetUserRank_InSnapshot(t *testing.T) {
	db := freshRankingDB()
	xps := make([]int, 20)
	for i := range xps {
		xps[i] = 1000 - i*10
	}
	seedRankedUsers("lb_rank", xps)

	cache := NewLeaderboardCache(db, time.Minute, 100, DefaultTierConfig)

	// lb_rank_09 has the 10th highest XP.
	rank, err := cache.GetUserRank("lb_rank_09")
	assert.NoError(t, err)
	assert.Equal(t, 10, rank.Rank)
	assert.Equal(t, TierGold, rank.Tier)
	assert.Equal(t, int64(20), rank.Total)

	// Podium plus a two-row window on each side.
	ids := make([]string, len(rank.Surrounding))
	for i, e := range rank.Surrounding {
		ids[i] = e.UserID
	}
	assert.Equal(t, []string{
		"lb_rank_00", "lb_rank_01", "lb_rank_02",
		"lb_rank_07", "lb_rank_08", "lb_rank_09", "lb_rank_10", "lb_rank_11",
	}, ids)
}

func TestGetUserRank_BelowTopN(t *testing.T) {
	db := freshRankingDB()
	seedRankedUsers("lb_below", []int{500, 400, 300, 200, 100})
	seedProgression(models.ProgressionRecord{UserID: "lb_below_tail", CurrentXP: 5})

	// topN of 3 keeps the tail user out of the snapshot.
	cache := NewLeaderboardCache(db, time.Minute, 3, DefaultTierConfig)

	rank, err := cache.GetUserRank("lb_below_tail")
	assert.NoError(t, err)
	assert.Equal(t, 6, rank.Rank)
	assert.Equal(t, TierGold, rank.Tier)

	// Degraded surrounding view: podium plus the user's own row.
	assert.Len(t, rank.Surrounding, 4)
	assert.Equal(t, "lb_below_tail", rank.Surrounding[3].UserID)
	assert.Equal(t, 6, rank.Surrounding[3].Rank)
}

func TestGetUserRank_UnknownUserGetsRecord(t *testing.T) {
	db := freshRankingDB()
	seedRankedUsers("lb_new", []int{100})

	cache := NewLeaderboardCache(db, time.Minute, 100, DefaultTierConfig)

	rank, err := cache.GetUserRank("lb_new_fresh")
	assert.NoError(t, err)
	assert.Equal(t, 2, rank.Rank)

	var rec models.ProgressionRecord
	err = db.First(&rec, "user_id = ?", "lb_new_fresh").Error
	assert.NoError(t, err)
}
