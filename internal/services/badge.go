package services

import (
	"time"

	"github.com/studyflow/studyflow-backend/internal/database"
	"github.com/studyflow/studyflow-backend/internal/models"
	"github.com/studyflow/studyflow-backend/pkg/logger"
)

const badgeCatalogCacheKey = "badges:catalog"
const badgeCatalogCacheTTL = 10 * time.Minute

// badgeCatalog loads the static badge definitions, via Redis when
// available. The catalog is seeded and read-only, so a short TTL is
// plenty.
func badgeCatalog() ([]models.Badge, error) {
	var badges []models.Badge
	if database.Redis != nil {
		if err := database.CacheGet(badgeCatalogCacheKey, &badges); err == nil && len(badges) > 0 {
			return badges, nil
		}
	}
	if err := database.DB.Find(&badges).Error; err != nil {
		return nil, err
	}
	if database.Redis != nil {
		if err := database.CacheSet(badgeCatalogCacheKey, badges, badgeCatalogCacheTTL); err != nil {
			logger.Warn().Err(err).Msg("Failed to cache badge catalog")
		}
	}
	return badges, nil
}

// CheckBadges evaluates the catalog against the user's stats and
// returns the badges earned by this call. Earned badges transition
// exactly once; unearned badges get their progress percentage
// refreshed for display.
func CheckBadges(userID string) ([]models.Badge, error) {
	rec, err := GetOrCreateProgression(userID)
	if err != nil {
		return nil, err
	}

	badges, err := badgeCatalog()
	if err != nil {
		return nil, err
	}

	var userBadges []models.UserBadge
	if err := database.DB.Where("user_id = ?", userID).Find(&userBadges).Error; err != nil {
		return nil, err
	}
	existing := make(map[string]models.UserBadge, len(userBadges))
	for _, ub := range userBadges {
		existing[ub.BadgeID] = ub
	}

	stats := map[string]int{
		models.BadgeConditionStreak:        rec.CurrentStreak,
		models.BadgeConditionQuizzes:       rec.TotalQuizzes,
		models.BadgeConditionPerfectScores: rec.PerfectScores,
		models.BadgeConditionCourses:       rec.CompletedCourses,
		models.BadgeConditionStudyMinutes:  rec.TotalStudyMinutes,
		models.BadgeConditionLevel:         rec.CurrentLevel,
	}

	var newBadges []models.Badge
	for _, badge := range badges {
		ub, tracked := existing[badge.ID]
		if tracked && ub.Earned {
			continue
		}

		value, ok := stats[badge.Condition]
		if !ok {
			continue
		}

		if badge.Threshold > 0 && value >= badge.Threshold {
			earned, err := markBadgeEarned(userID, badge, tracked)
			if err != nil {
				return nil, err
			}
			if earned {
				newBadges = append(newBadges, badge)
				if _, err := AwardXP(userID, ActionEarnBadge, Metadata{BadgeRarity: badge.Rarity}); err != nil {
					return nil, err
				}
				NotifyBadgeUnlock(userID, badge)
			}
			continue
		}

		// Refresh display progress only. This branch never sets earned.
		progress := 0
		if badge.Threshold > 0 {
			progress = value * 100 / badge.Threshold
		}
		if err := upsertBadgeProgress(userID, badge.ID, progress, tracked); err != nil {
			return nil, err
		}
	}

	return newBadges, nil
}

// markBadgeEarned flips the UserBadge to earned. Returns true only for
// the caller that performed the transition, so repeated CheckBadges
// calls and concurrent requests award the badge XP exactly once.
func markBadgeEarned(userID string, badge models.Badge, tracked bool) (bool, error) {
	now := timeNow()
	if tracked {
		res := database.DB.Model(&models.UserBadge{}).
			Where("user_id = ? AND badge_id = ? AND earned = ?", userID, badge.ID, false).
			Updates(map[string]interface{}{
				"earned":    true,
				"earned_at": now,
				"progress":  100,
			})
		if res.Error != nil {
			return false, res.Error
		}
		return res.RowsAffected == 1, nil
	}

	ub := models.UserBadge{
		UserID:   userID,
		BadgeID:  badge.ID,
		Earned:   true,
		EarnedAt: &now,
		Progress: 100,
	}
	// A concurrent creator loses on the composite primary key; treat
	// that as "already earned elsewhere".
	if err := database.DB.Create(&ub).Error; err != nil {
		logger.Debug().Err(err).Str("badgeId", badge.ID).Msg("Badge row already created")
		return false, nil
	}
	return true, nil
}

func upsertBadgeProgress(userID, badgeID string, progress int, tracked bool) error {
	if tracked {
		return database.DB.Model(&models.UserBadge{}).
			Where("user_id = ? AND badge_id = ? AND earned = ?", userID, badgeID, false).
			Update("progress", progress).Error
	}
	if progress <= 0 {
		// No row until the user has made some progress.
		return nil
	}
	ub := models.UserBadge{UserID: userID, BadgeID: badgeID, Progress: progress}
	if err := database.DB.Create(&ub).Error; err != nil {
		logger.Debug().Err(err).Str("badgeId", badgeID).Msg("Badge progress row already created")
	}
	return nil
}

// GrantBadge awards a badge directly, bypassing condition evaluation.
// Used for admin grants. Idempotent: an already-earned badge returns
// granted=false with no duplicate XP.
func GrantBadge(userID, badgeID string) (bool, error) {
	var badge models.Badge
	if err := database.DB.First(&badge, "id = ?", badgeID).Error; err != nil {
		return false, err
	}

	var ub models.UserBadge
	tracked := true
	if err := database.DB.Where("user_id = ? AND badge_id = ?", userID, badgeID).First(&ub).Error; err != nil {
		tracked = false
	} else if ub.Earned {
		return false, nil
	}

	earned, err := markBadgeEarned(userID, badge, tracked)
	if err != nil || !earned {
		return false, err
	}

	if _, err := AwardXP(userID, ActionEarnBadge, Metadata{BadgeRarity: badge.Rarity}); err != nil {
		return true, err
	}
	NotifyBadgeUnlock(userID, badge)
	return true, nil
}

// ListUserBadges returns the catalog joined with the user's progress,
// earned first.
func ListUserBadges(userID string) ([]models.UserBadge, error) {
	var userBadges []models.UserBadge
	err := database.DB.Preload("Badge").
		Where("user_id = ?", userID).
		Order("earned desc, progress desc").
		Find(&userBadges).Error
	return userBadges, err
}
