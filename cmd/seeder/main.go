package main

import (
	"log"

	"github.com/studyflow/studyflow-backend/internal/config"
	"github.com/studyflow/studyflow-backend/internal/database"
	"github.com/studyflow/studyflow-backend/internal/models"
	"github.com/studyflow/studyflow-backend/internal/seeds"
)

func main() {
	config.LoadConfig()
	database.Connect()
	database.InitRedis()

	log.Println("Running migrations (just in case)...")
	if err := database.DB.AutoMigrate(
		&models.User{},
		&models.ProgressionRecord{},
		&models.Badge{},
		&models.UserBadge{},
		&models.DailyQuestSet{},
		&models.DailyQuest{},
		&models.Notification{},
	); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	seeds.SeedBadges()
	seeds.SeedDemoUsers()

	log.Println("Seeding complete")
}
