package seeds

import (
	"log"

	"github.com/studyflow/studyflow-backend/internal/database"
	"github.com/studyflow/studyflow-backend/internal/models"
)

func SeedBadges() {
	log.Println("Seeding badge catalog...")

	badges := []models.Badge{
		{
			ID:          "streak-starter",
			Name:        "Streak Starter",
			Description: "Studied 3 days in a row.",
			Icon:        "flame",
			Rarity:      models.BadgeRarityCommon,
			Condition:   models.BadgeConditionStreak,
			Threshold:   3,
		},
		{
			ID:          "week-warrior",
			Name:        "Week Warrior",
			Description: "Kept a 7-day study streak alive.",
			Icon:        "calendar-check",
			Rarity:      models.BadgeRarityRare,
			Condition:   models.BadgeConditionStreak,
			Threshold:   7,
		},
		{
			ID:          "unstoppable",
			Name:        "Unstoppable",
			Description: "A full 30 days of studying, every single day.",
			Icon:        "trophy",
			Rarity:      models.BadgeRarityLegendary,
			Condition:   models.BadgeConditionStreak,
			Threshold:   30,
		},
		{
			ID:          "first-quiz",
			Name:        "First Steps",
			Description: "Completed your first quiz.",
			Icon:        "check-circle",
			Rarity:      models.BadgeRarityCommon,
			Condition:   models.BadgeConditionQuizzes,
			Threshold:   1,
		},
		{
			ID:          "quiz-adept",
			Name:        "Quiz Adept",
			Description: "Completed 25 quizzes.",
			Icon:        "zap",
			Rarity:      models.BadgeRarityRare,
			Condition:   models.BadgeConditionQuizzes,
			Threshold:   25,
		},
		{
			ID:          "quiz-centurion",
			Name:        "Quiz Centurion",
			Description: "Completed 100 quizzes.",
			Icon:        "crown",
			Rarity:      models.BadgeRarityEpic,
			Condition:   models.BadgeConditionQuizzes,
			Threshold:   100,
		},
		{
			ID:          "perfectionist",
			Name:        "Perfectionist",
			Description: "Scored 100% on a quiz.",
			Icon:        "star",
			Rarity:      models.BadgeRarityCommon,
			Condition:   models.BadgeConditionPerfectScores,
			Threshold:   1,
		},
		{
			ID:          "flawless-ten",
			Name:        "Flawless Ten",
			Description: "Ten perfect quiz scores.",
			Icon:        "sparkles",
			Rarity:      models.BadgeRarityEpic,
			Condition:   models.BadgeConditionPerfectScores,
			Threshold:   10,
		},
		{
			ID:          "course-finisher",
			Name:        "Course Finisher",
			Description: "Completed your first course.",
			Icon:        "graduation-cap",
			Rarity:      models.BadgeRarityCommon,
			Condition:   models.BadgeConditionCourses,
			Threshold:   1,
		},
		{
			ID:          "scholar",
			Name:        "Scholar",
			Description: "Completed 5 courses.",
			Icon:        "book-open",
			Rarity:      models.BadgeRarityEpic,
			Condition:   models.BadgeConditionCourses,
			Threshold:   5,
		},
		{
			ID:          "marathon-mind",
			Name:        "Marathon Mind",
			Description: "Logged 1000 minutes of study time.",
			Icon:        "clock",
			Rarity:      models.BadgeRarityRare,
			Condition:   models.BadgeConditionStudyMinutes,
			Threshold:   1000,
		},
		{
			ID:          "level-ten",
			Name:        "Double Digits",
			Description: "Reached level 10.",
			Icon:        "arrow-up-circle",
			Rarity:      models.BadgeRarityRare,
			Condition:   models.BadgeConditionLevel,
			Threshold:   10,
		},
	}

	seeded := 0
	for _, badge := range badges {
		var existing models.Badge
		if err := database.DB.First(&existing, "id = ?", badge.ID).Error; err == nil {
			continue
		}
		if err := database.DB.Create(&badge).Error; err != nil {
			log.Printf("Failed to seed badge %s: %v", badge.ID, err)
			continue
		}
		seeded++
	}

	// New definitions make any cached catalog stale.
	if seeded > 0 && database.Redis != nil {
		if err := database.CacheInvalidate("badges:catalog"); err != nil {
			log.Printf("Failed to invalidate badge catalog cache: %v", err)
		}
	}

	log.Printf("Badge catalog seeded (%d definitions, %d new)", len(badges), seeded)
}
