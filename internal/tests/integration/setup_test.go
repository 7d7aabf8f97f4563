package integration

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/studyflow/studyflow-backend/internal/config"
	"github.com/studyflow/studyflow-backend/internal/database"
	"github.com/studyflow/studyflow-backend/internal/middleware"
	"github.com/studyflow/studyflow-backend/internal/models"
	"github.com/studyflow/studyflow-backend/internal/routes"
	"github.com/studyflow/studyflow-backend/internal/seeds"
	"github.com/studyflow/studyflow-backend/internal/services"
	"github.com/studyflow/studyflow-backend/pkg/utils"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB builds a fresh in-memory DB with the full schema and the
// badge catalog, and resets the shared leaderboard cache.
func setupTestDB(t *testing.T) *gorm.DB {
	config.AppConfig = &config.Config{
		JWTSecret: "test_secret_key_12345",
	}

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to open test DB: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.ProgressionRecord{},
		&models.Badge{},
		&models.UserBadge{},
		&models.DailyQuestSet{},
		&models.DailyQuest{},
		&models.Notification{},
	)
	if err != nil {
		t.Fatalf("Failed to migrate test DB: %v", err)
	}

	// Handlers and services go through the global DB.
	database.DB = db
	seeds.SeedBadges()
	services.InitLeaderboard(db, time.Minute, 1000, services.DefaultTierConfig)

	return db
}

// setupRouter mirrors the route layout in main.go.
func setupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.ErrorHandlerMiddleware())

	api := r.Group("/api")
	{
		routes.RegisterProgressionRoutes(api)
		routes.RegisterQuestRoutes(api)
		routes.RegisterLeaderboardRoutes(api)
		routes.RegisterNotificationRoutes(api)
		routes.RegisterAdminRoutes(api)
	}

	return r
}

func createTestUser(t *testing.T, prefix string, role string) string {
	user := models.User{
		ID:       utils.GenerateID(),
		Username: prefix + "_user",
		Email:    prefix + "@test.com",
		Name:     prefix + " Test",
		Role:     models.Role(role),
	}
	if err := database.DB.Create(&user).Error; err != nil {
		t.Fatalf("Failed to create user %s: %v", prefix, err)
	}

	token, err := utils.GenerateToken(user.ID)
	if err != nil {
		t.Fatalf("Failed to generate token: %v", err)
	}
	return token
}

func userIDFromToken(t *testing.T, token string) string {
	claims, err := utils.ValidateToken(token)
	if err != nil {
		t.Fatalf("Failed to validate token: %v", err)
	}
	return claims.UserID
}

func performRequest(r *gin.Engine, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	var bodyReader *strings.Reader
	if body != nil {
		jsonBytes, _ := json.Marshal(body)
		bodyReader = strings.NewReader(string(jsonBytes))
	} else {
		bodyReader = strings.NewReader("")
	}

	req, _ := http.NewRequest(method, path, bodyReader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}
