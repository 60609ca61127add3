package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/destinyOrji/Cademoh/models"
	"github.com/destinyOrji/Cademoh/services"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testWallet = "0x1a2b3c4d5e6f7a8b9c0d1e2f3a4b5c6d7e8f9a0b"

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	t.Setenv("ADMIN_JWT_SECRET", "handler-test-secret")
	dsn := filepath.Join(t.TempDir(), "economy.db") + "?_pragma=busy_timeout(5000)"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Player{}))

	ledger := services.NewLedgerService(db)
	sessions := services.NewSessionService(ledger)
	leaderboard := services.NewLeaderboardService(db)

	app := fiber.New()
	SetupGameRoutes(app, sessions, ledger)
	SetupLeaderboardRoutes(app, leaderboard)
	SetupUserRoutes(app, ledger)
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body interface{}) (int, map[string]interface{}) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return resp.StatusCode, decoded
}

func TestSessionLifecycleOverHTTP(t *testing.T) {
	app := newTestApp(t)

	status, body := doJSON(t, app, http.MethodPost, "/api/game/sessions/start", fiber.Map{
		"walletAddress": testWallet,
		"gameId":        "puzzle_quest",
	})
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, true, body["success"])
	data := body["data"].(map[string]interface{})
	sessionID := data["sessionId"].(string)
	require.NotEmpty(t, sessionID)
	assert.Equal(t, "puzzle_quest", data["gameId"])

	status, body = doJSON(t, app, http.MethodPost, "/api/game/sessions/end", fiber.Map{
		"sessionId":     sessionID,
		"walletAddress": testWallet,
		"score":         1000,
		"timePlayed":    200,
		"levelReached":  5,
	})
	require.Equal(t, http.StatusOK, status)
	data = body["data"].(map[string]interface{})
	rewards := data["rewards"].(map[string]interface{})
	assert.Equal(t, float64(32), rewards["tokens"])
	assert.Equal(t, float64(200), rewards["experience"])
	user := data["user"].(map[string]interface{})
	assert.Equal(t, float64(32), user["newBalance"])
	assert.Equal(t, false, user["leveledUp"])

	// ending the same session again is rejected and nothing is re-granted
	status, body = doJSON(t, app, http.MethodPost, "/api/game/sessions/end", fiber.Map{
		"sessionId":     sessionID,
		"walletAddress": testWallet,
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, false, body["success"])

	status, body = doJSON(t, app, http.MethodGet, "/api/users/"+testWallet, nil)
	require.Equal(t, http.StatusOK, status)
	data = body["data"].(map[string]interface{})
	assert.Equal(t, float64(32), data["currentCademBalance"])
}

func TestStartSessionValidation(t *testing.T) {
	app := newTestApp(t)

	status, body := doJSON(t, app, http.MethodPost, "/api/game/sessions/start", fiber.Map{
		"walletAddress": testWallet,
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, false, body["success"])
	assert.Contains(t, body["error"], "required")

	status, _ = doJSON(t, app, http.MethodPost, "/api/game/sessions/start", fiber.Map{
		"walletAddress": "0xnothex",
		"gameId":        "puzzle_quest",
	})
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestEndUnknownSessionIsNotFound(t *testing.T) {
	app := newTestApp(t)

	status, body := doJSON(t, app, http.MethodPost, "/api/game/sessions/end", fiber.Map{
		"sessionId":     "no-such-session",
		"walletAddress": testWallet,
	})
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, false, body["success"])
}

func TestLeaderboardOverHTTP(t *testing.T) {
	app := newTestApp(t)

	for i := 0; i < 3; i++ {
		wallet := fmt.Sprintf("0x%040d", i)
		_, body := doJSON(t, app, http.MethodPost, "/api/game/sessions/start", fiber.Map{
			"walletAddress": wallet,
			"gameId":        "puzzle_quest",
		})
		data := body["data"].(map[string]interface{})
		status, _ := doJSON(t, app, http.MethodPost, "/api/game/sessions/end", fiber.Map{
			"sessionId":     data["sessionId"],
			"walletAddress": wallet,
			"score":         100 * (i + 1),
		})
		require.Equal(t, http.StatusOK, status)
	}

	status, body := doJSON(t, app, http.MethodGet, "/api/leaderboard/tokens?limit=2", nil)
	require.Equal(t, http.StatusOK, status)
	data := body["data"].(map[string]interface{})
	users := data["users"].([]interface{})
	require.Len(t, users, 2)
	first := users[0].(map[string]interface{})
	assert.Equal(t, float64(1), first["rank"])
	pagination := data["pagination"].(map[string]interface{})
	assert.Equal(t, true, pagination["hasMore"])

	status, _ = doJSON(t, app, http.MethodGet, "/api/leaderboard/charisma", nil)
	assert.Equal(t, http.StatusBadRequest, status)

	status, body = doJSON(t, app, http.MethodGet, "/api/leaderboard/stats/overview", nil)
	require.Equal(t, http.StatusOK, status)
	data = body["data"].(map[string]interface{})
	assert.Equal(t, float64(3), data["totalUsers"])
}

func TestUpdateUsernameOverHTTP(t *testing.T) {
	app := newTestApp(t)

	// profile reads create the player lazily
	status, _ := doJSON(t, app, http.MethodGet, "/api/users/"+testWallet, nil)
	require.Equal(t, http.StatusOK, status)

	status, body := doJSON(t, app, http.MethodPut, "/api/users/"+testWallet, fiber.Map{
		"username": "Crypto Champ 99",
	})
	require.Equal(t, http.StatusOK, status)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "crypto-champ-99", data["username"])

	status, _ = doJSON(t, app, http.MethodPut, "/api/users/"+testWallet, fiber.Map{
		"username": "   ",
	})
	assert.Equal(t, http.StatusBadRequest, status)
}
