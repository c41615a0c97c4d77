package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"skillswap/internal/config"
	"skillswap/internal/database"
	"skillswap/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Exercises the full register → login → search → swap lifecycle against an
// in-memory database. The server is built once; fiberprometheus registers
// its collectors globally.
func TestServerEndToEnd(t *testing.T) {
	t.Setenv("APP_ENV", "test")

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	cfg := &config.Config{
		JWTSecret:      "e2e_test_secret",
		Env:            "test",
		AllowedOrigins: "*",
	}
	srv := NewServerWithDeps(cfg, db)
	app := srv.App

	post := func(path, token string, payload interface{}) *http.Response {
		body, err := json.Marshal(payload)
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		return resp
	}
	put := func(path, token string, payload interface{}) *http.Response {
		body, err := json.Marshal(payload)
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodPut, path, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+token)
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		return resp
	}
	get := func(path, token string) *http.Response {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		return resp
	}
	decode := func(resp *http.Response, dest interface{}) {
		defer func() { _ = resp.Body.Close() }()
		require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
	}

	var maria, jonas authResponse

	t.Run("register members", func(t *testing.T) {
		resp := post("/api/auth/register", "", map[string]interface{}{
			"name":          "Maria Gonzalez",
			"email":         "maria@example.com",
			"password":      "Password1",
			"location":      "Lisbon",
			"availability":  "Weekends Only",
			"skillsOffered": []string{"Guitar"},
			"skillsWanted":  []string{"Spanish"},
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		decode(resp, &maria)
		assert.NotEmpty(t, maria.Token)
		assert.Equal(t, []string{"Guitar"}, maria.User.SkillsOffered)

		resp = post("/api/auth/register", "", map[string]interface{}{
			"name":          "Jonas Berg",
			"email":         "jonas@example.com",
			"password":      "Password1",
			"location":      "Berlin",
			"skillsOffered": []string{"Spanish"},
			"skillsWanted":  []string{"Guitar"},
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		decode(resp, &jonas)
	})

	t.Run("duplicate registration rejected", func(t *testing.T) {
		resp := post("/api/auth/register", "", map[string]interface{}{
			"name":     "Maria Again",
			"email":    "maria@example.com",
			"password": "Password1",
		})
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("login", func(t *testing.T) {
		resp := post("/api/auth/login", "", map[string]string{
			"email":    "maria@example.com",
			"password": "Password1",
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var parsed authResponse
		decode(resp, &parsed)
		maria.Token = parsed.Token
	})

	t.Run("skill catalog", func(t *testing.T) {
		resp := get("/api/skills", "")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var skills []models.Skill
		decode(resp, &skills)
		require.Len(t, skills, 2)
		assert.Equal(t, "Guitar", skills[0].Name)
		assert.Equal(t, "Spanish", skills[1].Name)
	})

	t.Run("search by skill substring", func(t *testing.T) {
		resp := get("/api/search?q=span", maria.Token)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var results []profileResponse
		decode(resp, &results)
		// Jonas offers Spanish, Maria wants it; both match.
		assert.Len(t, results, 2)
	})

	t.Run("search with availability filter", func(t *testing.T) {
		resp := get("/api/search?availability=Weekends+Only", maria.Token)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var results []profileResponse
		decode(resp, &results)
		require.Len(t, results, 1)
		assert.Equal(t, "Maria Gonzalez", results[0].Name)
	})

	t.Run("search is public", func(t *testing.T) {
		resp := get("/api/search?q=span", "")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var results []profileResponse
		decode(resp, &results)
		assert.Len(t, results, 2)
	})

	var swapID uint

	t.Run("create swap request", func(t *testing.T) {
		resp := post("/api/swap-requests/", maria.Token, map[string]interface{}{
			"receiverId":     jonas.User.ID,
			"offeredSkill":   "Guitar",
			"requestedSkill": "Spanish",
			"message":        "guitar lessons for spanish lessons?",
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		var swap swapResponse
		decode(resp, &swap)
		assert.Equal(t, models.SwapStatusPending, swap.Status)
		assert.Equal(t, "Jonas Berg", swap.Receiver.Name)
		swapID = swap.ID
	})

	t.Run("create swap for unlisted skill fails precondition", func(t *testing.T) {
		resp := post("/api/swap-requests/", maria.Token, map[string]interface{}{
			"receiverId":     jonas.User.ID,
			"offeredSkill":   "Piano",
			"requestedSkill": "Spanish",
		})
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusPreconditionFailed, resp.StatusCode)
	})

	t.Run("receiver sees the request", func(t *testing.T) {
		resp := get("/api/swap-requests/?type=received", jonas.Token)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var swaps []swapResponse
		decode(resp, &swaps)
		require.Len(t, swaps, 1)
		assert.Equal(t, swapID, swaps[0].ID)
		assert.Equal(t, "Maria Gonzalez", swaps[0].Sender.Name)
	})

	t.Run("sender cannot accept", func(t *testing.T) {
		resp := put(fmt.Sprintf("/api/swap-requests/%d", swapID), maria.Token,
			map[string]string{"status": "accepted"})
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("receiver accepts", func(t *testing.T) {
		resp := put(fmt.Sprintf("/api/swap-requests/%d", swapID), jonas.Token,
			map[string]string{"status": "accepted"})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var swap swapResponse
		decode(resp, &swap)
		assert.Equal(t, models.SwapStatusAccepted, swap.Status)
	})

	t.Run("second decision conflicts", func(t *testing.T) {
		resp := put(fmt.Sprintf("/api/swap-requests/%d", swapID), jonas.Token,
			map[string]string{"status": "rejected"})
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
	})

	t.Run("profile update", func(t *testing.T) {
		resp := put("/api/users/me", maria.Token, map[string]interface{}{
			"location":     "Porto",
			"availability": "Flexible",
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var profile profileResponse
		decode(resp, &profile)
		assert.Equal(t, "Porto", profile.Location)
		assert.Equal(t, models.AvailabilityFlexible, profile.Availability)
	})

	t.Run("private profile hidden from search and stranger", func(t *testing.T) {
		resp := put("/api/users/me", jonas.Token, map[string]interface{}{"isPublic": false})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		_ = resp.Body.Close()

		resp = get("/api/search?q=jonas", maria.Token)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var results []profileResponse
		decode(resp, &results)
		assert.Empty(t, results)

		resp = get(fmt.Sprintf("/api/users/%d", jonas.User.ID), maria.Token)
		_ = resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)

		// Anonymous viewers get the same 404; the owner still sees it.
		resp = get(fmt.Sprintf("/api/users/%d", jonas.User.ID), "")
		_ = resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)

		resp = get(fmt.Sprintf("/api/users/%d", jonas.User.ID), jonas.Token)
		_ = resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		// Public profiles stay readable without a token.
		resp = get(fmt.Sprintf("/api/users/%d", maria.User.ID), "")
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("admin routes forbidden for regular users", func(t *testing.T) {
		resp := get("/api/admin/users", maria.Token)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("admin ban flow", func(t *testing.T) {
		// Promote Maria directly in the store; there is no bootstrap route.
		require.NoError(t, db.Model(&models.User{}).Where("id = ?", maria.User.ID).
			Update("is_admin", true).Error)

		resp := put(fmt.Sprintf("/api/admin/users/%d/ban", jonas.User.ID), maria.Token, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var banned profileResponse
		decode(resp, &banned)
		assert.True(t, banned.IsBanned)

		// Banned users cannot log in.
		resp = post("/api/auth/login", "", map[string]string{
			"email":    "jonas@example.com",
			"password": "Password1",
		})
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)

		// Tokens issued before the ban stop working too.
		resp = get("/api/users/me", jonas.Token)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)

		resp = put(fmt.Sprintf("/api/admin/users/%d/unban", jonas.User.ID), maria.Token, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var unbanned profileResponse
		decode(resp, &unbanned)
		assert.False(t, unbanned.IsBanned)
	})
}
