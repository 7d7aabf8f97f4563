package seeds

import (
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/studyflow/studyflow-backend/internal/database"
	"github.com/studyflow/studyflow-backend/internal/models"
	"github.com/studyflow/studyflow-backend/internal/services"
)

// SeedDemoUsers creates a handful of learners with progression at
// different stages, so a fresh environment has a populated
// leaderboard to look at.
func SeedDemoUsers() {
	log.Println("Seeding demo users...")

	yesterday := time.Now().UTC().AddDate(0, 0, -1).Truncate(24 * time.Hour)

	demos := []struct {
		username string
		name     string
		xp       int
		streak   int
		quizzes  int
	}{
		{"ada", "Ada L.", 5200, 14, 120},
		{"grace", "Grace H.", 3100, 6, 88},
		{"linus", "Linus T.", 3100, 2, 45},
		{"margaret", "Margaret H.", 900, 3, 22},
		{"edsger", "Edsger D.", 150, 1, 4},
	}

	for _, d := range demos {
		var user models.User
		if err := database.DB.Where("username = ?", d.username).First(&user).Error; err == nil {
			continue
		}

		user = models.User{
			ID:       uuid.New().String(),
			Username: d.username,
			Email:    d.username + "@demo.studyflow.app",
			Name:     d.name,
			Image:    "https://api.dicebear.com/7.x/identicon/svg?seed=" + d.username,
		}
		if err := database.DB.Create(&user).Error; err != nil {
			log.Printf("Failed to seed user %s: %v", d.username, err)
			continue
		}

		rec := models.ProgressionRecord{
			UserID:        user.ID,
			CurrentXP:     d.xp,
			CurrentStreak: d.streak,
			LongestStreak: d.streak,
			LastStudyDate: &yesterday,
			TotalQuizzes:  d.quizzes,
		}
		rec.CurrentLevel = services.LevelFromXP(d.xp)
		if err := database.DB.Create(&rec).Error; err != nil {
			log.Printf("Failed to seed progression for %s: %v", d.username, err)
		}
	}

	log.Println("Demo users seeded")
}
