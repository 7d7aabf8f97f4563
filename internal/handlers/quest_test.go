package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/studyflow/studyflow-backend/internal/middleware"
	"github.com/studyflow/studyflow-backend/internal/models"
)

func TestGetDailyQuestsHandler(t *testing.T) {
	SetupTestDB()
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest("GET", "/api/quests/today", nil)
	c.Set("userId", "h_quests")

	GetDailyQuests(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response struct {
		QuestSet models.DailyQuestSet `json:"questSet"`
	}
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Len(t, response.QuestSet.Quests, 3)
	assert.Equal(t, "h_quests", response.QuestSet.UserID)
}

func TestUpdateQuestProgressHandler(t *testing.T) {
	SetupTestDB()
	gin.SetMode(gin.TestMode)

	// Materialize today's set first so we know a real quest ID.
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest("GET", "/api/quests/today", nil)
	c.Set("userId", "h_quest_prog")
	GetDailyQuests(c)

	var setup struct {
		QuestSet models.DailyQuestSet `json:"questSet"`
	}
	json.Unmarshal(w.Body.Bytes(), &setup)
	quest := setup.QuestSet.Quests[0]

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	body := `{"increment": 1}`
	c.Request, _ = http.NewRequest("POST", "/api/quests/"+quest.QuestID+"/progress", jsonBody(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set("userId", "h_quest_prog")
	c.Params = gin.Params{{Key: "id", Value: quest.QuestID}}

	UpdateQuestProgress(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Quest models.DailyQuest `json:"quest"`
	}
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, 1, response.Quest.Progress)
}

// The not-found branch goes through c.Error, so the response is
// rendered by the error middleware rather than the handler itself.
func TestUpdateQuestProgressHandler_NotFound(t *testing.T) {
	SetupTestDB()
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(middleware.ErrorHandlerMiddleware())
	r.POST("/api/quests/:id/progress", func(c *gin.Context) {
		c.Set("userId", "h_quest_missing")
		UpdateQuestProgress(c)
	})

	req, _ := http.NewRequest("POST", "/api/quests/bogus/progress", jsonBody(`{"increment": 1}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)

	var resp struct {
		Error string `json:"error"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	assert.Equal(t, "Quest not found in today's set", resp.Error)
}

func TestCompleteQuestBonusHandler(t *testing.T) {
	SetupTestDB()
	gin.SetMode(gin.TestMode)

	// Claiming with incomplete quests pays nothing but succeeds.
	w := postJSON(CompleteQuestBonus, "h_quest_bonus", "/api/quests/bonus", nil)

	assert.Equal(t, http.StatusOK, w.Code)

	var response struct {
		BonusAwarded   bool `json:"bonusAwarded"`
		AlreadyAwarded bool `json:"alreadyAwarded"`
	}
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.False(t, response.BonusAwarded)
	assert.False(t, response.AlreadyAwarded)
}
