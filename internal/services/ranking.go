package services

import "sort"

// Leaderboard tiers, derived from rank. Distinct from badge rarity.
const (
	TierPlatinum = "platinum"
	TierGold     = "gold"
	TierSilver   = "silver"
	TierBronze   = "bronze"
)

// TierConfig holds the rank cutoffs for tier assignment. Rank 1 is
// always platinum.
type TierConfig struct {
	GoldMaxRank   int
	SilverMaxRank int
}

// DefaultTierConfig mirrors the documented defaults: 1 platinum,
// 2-10 gold, 11-50 silver, below that bronze.
var DefaultTierConfig = TierConfig{GoldMaxRank: 10, SilverMaxRank: 50}

// RankedEntry is one row of a leaderboard snapshot.
type RankedEntry struct {
	Rank         int    `json:"rank"`
	UserID       string `json:"userId"`
	XP           int    `json:"xp"`
	Level        int    `json:"level"`
	TotalQuizzes int    `json:"-"`
	Tier         string `json:"tier"`
}

// SortEntries orders entries by XP descending, quiz count descending,
// then user ID ascending. The final key makes equal-XP ordering fully
// deterministic across repeated queries.
func SortEntries(entries []RankedEntry) {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].XP != entries[j].XP {
			return entries[i].XP > entries[j].XP
		}
		if entries[i].TotalQuizzes != entries[j].TotalQuizzes {
			return entries[i].TotalQuizzes > entries[j].TotalQuizzes
		}
		return entries[i].UserID < entries[j].UserID
	})
}

// TierForRank maps a 1-based rank to its tier.
func TierForRank(rank int, cfg TierConfig) string {
	switch {
	case rank == 1:
		return TierPlatinum
	case rank <= cfg.GoldMaxRank:
		return TierGold
	case rank <= cfg.SilverMaxRank:
		return TierSilver
	default:
		return TierBronze
	}
}

// AssignRanks sorts entries and stamps rank and tier onto each.
func AssignRanks(entries []RankedEntry, cfg TierConfig) {
	SortEntries(entries)
	for i := range entries {
		entries[i].Rank = i + 1
		entries[i].Tier = TierForRank(entries[i].Rank, cfg)
	}
}

// TierCounts tallies entries per tier.
func TierCounts(entries []RankedEntry) map[string]int {
	counts := map[string]int{
		TierPlatinum: 0,
		TierGold:     0,
		TierSilver:   0,
		TierBronze:   0,
	}
	for _, e := range entries {
		counts[e.Tier]++
	}
	return counts
}
