package migrations

import (
	"gorm.io/gorm"
)

// Migration001AddRankingIndexes adds the indexes backing the
// leaderboard refresh and the out-of-snapshot rank fallback:
// 1. Top-N scan: ORDER BY current_xp DESC, total_quizzes DESC, user_id
// 2. Fallback rank count: WHERE current_xp > ?
//
// All indexes are idempotent (IF NOT EXISTS) for safe re-runs.
func Migration001AddRankingIndexes() Migration {
	return Migration{
		ID:   "001_add_ranking_indexes",
		Name: "Add leaderboard ranking indexes",
		Up: func(db *gorm.DB) error {
			idx1 := `
				CREATE INDEX IF NOT EXISTS idx_progression_ranking
				ON progression_records (current_xp DESC, total_quizzes DESC, user_id ASC)
			`
			if err := db.Exec(idx1).Error; err != nil {
				return err
			}

			idx2 := `
				CREATE INDEX IF NOT EXISTS idx_progression_xp
				ON progression_records (current_xp)
			`
			return db.Exec(idx2).Error
		},
		Down: func(db *gorm.DB) error {
			if err := db.Exec(`DROP INDEX IF EXISTS idx_progression_ranking`).Error; err != nil {
				return err
			}
			return db.Exec(`DROP INDEX IF EXISTS idx_progression_xp`).Error
		},
	}
}
