package services

import (
	"sync"
	"time"

	"github.com/studyflow/studyflow-backend/internal/models"
	"github.com/studyflow/studyflow-backend/pkg/logger"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

// surroundingWindow is how many neighbors on each side of the
// requesting user the surrounding view includes.
const surroundingWindow = 2

// Snapshot is an immutable capture of the ranking-relevant fields for
// the top-N users. It is swapped wholesale on refresh, never patched,
// so in-flight readers keep a consistent view.
type Snapshot struct {
	Entries    []RankedEntry
	TotalUsers int64
	CapturedAt time.Time
}

// LeaderboardCache serves rank reads from a single shared snapshot,
// refreshed lazily at most once per TTL. Concurrent refreshes collapse
// into one store query via singleflight, and a failed refresh degrades
// to the last known snapshot instead of failing the read.
type LeaderboardCache struct {
	db    *gorm.DB
	ttl   time.Duration
	topN  int
	tiers TierConfig
	now   func() time.Time

	mu   sync.RWMutex
	snap *Snapshot
	sf   singleflight.Group
}

func NewLeaderboardCache(db *gorm.DB, ttl time.Duration, topN int, tiers TierConfig) *LeaderboardCache {
	if topN <= 0 {
		topN = 1000
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &LeaderboardCache{
		db:    db,
		ttl:   ttl,
		topN:  topN,
		tiers: tiers,
		now:   time.Now,
	}
}

// Leaderboard is the process-wide cache instance, set up in main.
var Leaderboard *LeaderboardCache

func InitLeaderboard(db *gorm.DB, ttl time.Duration, topN int, tiers TierConfig) {
	Leaderboard = NewLeaderboardCache(db, ttl, topN, tiers)
}

func (c *LeaderboardCache) current() *Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snap
}

// Snapshot returns a fresh-enough snapshot, refreshing if the TTL has
// lapsed. When the store is unavailable it serves the stale snapshot
// rather than erroring; leaderboard display is not safety-critical.
func (c *LeaderboardCache) Snapshot() (*Snapshot, error) {
	snap := c.current()
	if snap != nil && c.now().Sub(snap.CapturedAt) < c.ttl {
		return snap, nil
	}

	v, err, _ := c.sf.Do("leaderboard", func() (interface{}, error) {
		// Another waiter may have refreshed while we queued.
		if s := c.current(); s != nil && c.now().Sub(s.CapturedAt) < c.ttl {
			return s, nil
		}
		return c.refresh()
	})
	if err != nil {
		if snap != nil {
			logger.Warn().Err(err).Msg("Leaderboard refresh failed, serving stale snapshot")
			return snap, nil
		}
		return nil, err
	}
	return v.(*Snapshot), nil
}

// refresh recomputes the full top-N snapshot from the store and swaps
// it in atomically.
func (c *LeaderboardCache) refresh() (*Snapshot, error) {
	var records []models.ProgressionRecord
	if err := c.db.Model(&models.ProgressionRecord{}).
		Order("current_xp desc, total_quizzes desc, user_id asc").
		Limit(c.topN).
		Find(&records).Error; err != nil {
		return nil, err
	}

	var total int64
	if err := c.db.Model(&models.ProgressionRecord{}).Count(&total).Error; err != nil {
		return nil, err
	}

	entries := make([]RankedEntry, len(records))
	for i, rec := range records {
		entries[i] = RankedEntry{
			UserID:       rec.UserID,
			XP:           rec.CurrentXP,
			Level:        rec.CurrentLevel,
			TotalQuizzes: rec.TotalQuizzes,
		}
	}
	AssignRanks(entries, c.tiers)

	snap := &Snapshot{
		Entries:    entries,
		TotalUsers: total,
		CapturedAt: c.now(),
	}

	c.mu.Lock()
	c.snap = snap
	c.mu.Unlock()

	return snap, nil
}

// LeaderboardPage is one page of the global leaderboard.
type LeaderboardPage struct {
	Entries    []RankedEntry  `json:"entries"`
	TotalUsers int64          `json:"totalUsers"`
	TierCounts map[string]int `json:"tierCounts"`
}

// GetLeaderboard serves a page straight from the snapshot.
func (c *LeaderboardCache) GetLeaderboard(limit, offset int) (LeaderboardPage, error) {
	snap, err := c.Snapshot()
	if err != nil {
		return LeaderboardPage{}, err
	}

	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	entries := []RankedEntry{}
	if offset < len(snap.Entries) {
		end := offset + limit
		if end > len(snap.Entries) {
			end = len(snap.Entries)
		}
		entries = snap.Entries[offset:end]
	}

	return LeaderboardPage{
		Entries:    entries,
		TotalUsers: snap.TotalUsers,
		TierCounts: TierCounts(snap.Entries),
	}, nil
}

// UserRank is the personalized ranking view.
type UserRank struct {
	Rank        int           `json:"rank"`
	Tier        string        `json:"tier"`
	Total       int64         `json:"total"`
	Surrounding []RankedEntry `json:"surrounding"`
}

// GetUserRank finds the user in the snapshot, or falls back to a
// direct count query when they sit below the captured top-N. The
// fallback is deliberately uncached; caching per-user results would
// defeat the single shared snapshot.
func (c *LeaderboardCache) GetUserRank(userID string) (UserRank, error) {
	snap, err := c.Snapshot()
	if err != nil {
		return UserRank{}, err
	}

	for i, e := range snap.Entries {
		if e.UserID == userID {
			return UserRank{
				Rank:        e.Rank,
				Tier:        e.Tier,
				Total:       snap.TotalUsers,
				Surrounding: surrounding(snap.Entries, i),
			}, nil
		}
	}

	// Outside the snapshot: count users strictly ahead.
	rec, err := GetOrCreateProgression(userID)
	if err != nil {
		return UserRank{}, err
	}
	var ahead int64
	if err := c.db.Model(&models.ProgressionRecord{}).
		Where("current_xp > ?", rec.CurrentXP).
		Count(&ahead).Error; err != nil {
		return UserRank{}, err
	}
	rank := int(ahead) + 1

	// The user is below the captured entries, so the surrounding view
	// degrades to the podium plus their own row.
	self := RankedEntry{
		Rank:   rank,
		UserID: rec.UserID,
		XP:     rec.CurrentXP,
		Level:  rec.CurrentLevel,
		Tier:   TierForRank(rank, c.tiers),
	}
	surr := topOf(snap.Entries, 3)
	surr = append(surr, self)

	total := snap.TotalUsers
	if int64(rank) > total {
		total = int64(rank)
	}

	return UserRank{
		Rank:        rank,
		Tier:        self.Tier,
		Total:       total,
		Surrounding: surr,
	}, nil
}

// surrounding builds the podium plus a window around index i, purely
// from the already-sorted snapshot.
func surrounding(entries []RankedEntry, i int) []RankedEntry {
	out := topOf(entries, 3)

	lo := i - surroundingWindow
	if lo < 3 {
		lo = 3
	}
	hi := i + surroundingWindow + 1
	if hi > len(entries) {
		hi = len(entries)
	}
	if lo < hi {
		out = append(out, entries[lo:hi]...)
	}
	return out
}

func topOf(entries []RankedEntry, n int) []RankedEntry {
	if n > len(entries) {
		n = len(entries)
	}
	out := make([]RankedEntry, n)
	copy(out, entries[:n])
	return out
}
