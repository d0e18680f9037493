package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"

	"ouk-server-go/internal/auth"
	"ouk-server-go/internal/middleware"
	"ouk-server-go/internal/repositories"
	"ouk-server-go/internal/services"
)

// HandlersSuite exercises the HTTP surface end to end over the memory store
type HandlersSuite struct {
	suite.Suite
	router *gin.Engine
}

func TestHandlersSuite(t *testing.T) {
	suite.Run(t, new(HandlersSuite))
}

func (s *HandlersSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	store := repositories.NewMemoryAccountStore()
	tokenMaker := auth.NewTokenMaker("handlers-suite-secret", time.Hour)

	authService := services.NewAuthService(store, tokenMaker)
	accountService := services.NewAccountService(store)
	ledgerService := services.NewLedgerService(store)
	leaderboardService := services.NewLeaderboardService(store, nil, zap.NewNop())

	authHandler := NewAuthHandler(authService)
	profileHandler := NewProfileHandler(accountService)
	gameHandler := NewGameHandler(ledgerService, leaderboardService)
	leaderboardHandler := NewLeaderboardHandler(leaderboardService)

	router := gin.New()
	api := router.Group("/api")
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.GET("/leaderboard", leaderboardHandler.Top)
	api.GET("/guilds", leaderboardHandler.Guilds)

	authed := api.Group("/")
	authed.Use(middleware.AuthMiddleware(tokenMaker))
	authed.GET("/profile", profileHandler.GetProfile)
	authed.PUT("/profile", profileHandler.UpdateProfile)
	authed.POST("/games/result", gameHandler.SubmitResult)

	s.router = router
}

func (s *HandlersSuite) do(method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		s.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *HandlersSuite) register(username, email string) {
	w := s.do(http.MethodPost, "/api/auth/register", "", gin.H{
		"username": username,
		"email":    email,
		"password": "password123",
	})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
}

func (s *HandlersSuite) login(usernameOrEmail string) string {
	w := s.do(http.MethodPost, "/api/auth/login", "", gin.H{
		"username_or_email": usernameOrEmail,
		"password":          "password123",
	})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Token string `json:"token"`
	}
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	s.Require().NotEmpty(resp.Token)
	return resp.Token
}

func (s *HandlersSuite) TestRegisterResponseNeverExposesHash() {
	w := s.do(http.MethodPost, "/api/auth/register", "", gin.H{
		"username": "sokha",
		"email":    "sokha@example.com",
		"password": "password123",
	})
	s.Require().Equal(http.StatusCreated, w.Code)
	s.NotContains(w.Body.String(), "password_hash")
	s.NotContains(w.Body.String(), "password123")
}

func (s *HandlersSuite) TestRegisterDuplicateConflict() {
	s.register("sokha", "sokha@example.com")

	w := s.do(http.MethodPost, "/api/auth/register", "", gin.H{
		"username": "sokha",
		"email":    "other@example.com",
		"password": "password123",
	})
	s.Equal(http.StatusConflict, w.Code)
}

func (s *HandlersSuite) TestRegisterRejectsShortPassword() {
	w := s.do(http.MethodPost, "/api/auth/register", "", gin.H{
		"username": "sokha",
		"email":    "sokha@example.com",
		"password": "short",
	})
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *HandlersSuite) TestLoginWrongPasswordUnauthorized() {
	s.register("sokha", "sokha@example.com")

	w := s.do(http.MethodPost, "/api/auth/login", "", gin.H{
		"username_or_email": "sokha",
		"password":          "not-the-password",
	})
	s.Equal(http.StatusUnauthorized, w.Code)
}

func (s *HandlersSuite) TestProfileRequiresToken() {
	w := s.do(http.MethodGet, "/api/profile", "", nil)
	s.Equal(http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodGet, "/api/profile", "garbage-token", nil)
	s.Equal(http.StatusUnauthorized, w.Code)
}

func (s *HandlersSuite) TestProfileRoundTrip() {
	s.register("sokha", "sokha@example.com")
	token := s.login("sokha")

	w := s.do(http.MethodPut, "/api/profile", token, gin.H{
		"display_name": "Sokha of Angkor",
		"country":      "KH",
		"guild_name":   "Angkor",
		// ignored: not part of the update contract
		"coins":         999999,
		"password_hash": "evil",
	})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	w = s.do(http.MethodGet, "/api/profile", token, nil)
	s.Require().Equal(http.StatusOK, w.Code)

	var resp struct {
		Account struct {
			DisplayName string `json:"display_name"`
			GuildName   string `json:"guild_name"`
			Coins       int    `json:"coins"`
		} `json:"account"`
	}
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	s.Equal("Sokha of Angkor", resp.Account.DisplayName)
	s.Equal("Angkor", resp.Account.GuildName)
	s.Equal(1000, resp.Account.Coins)
}

func (s *HandlersSuite) TestSubmitResultUpdatesProgression() {
	s.register("sokha", "sokha@example.com")
	token := s.login("sokha")

	w := s.do(http.MethodPost, "/api/games/result", token, gin.H{
		"outcome":         "win",
		"level_played":    1,
		"coins_earned":    50,
		"diamonds_earned": 1,
	})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Account struct {
			CurrentLevel     int `json:"current_level"`
			TotalWins        int `json:"total_wins"`
			Coins            int `json:"coins"`
			ExperiencePoints int `json:"experience_points"`
		} `json:"account"`
	}
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	s.Equal(2, resp.Account.CurrentLevel)
	s.Equal(1, resp.Account.TotalWins)
	s.Equal(1050, resp.Account.Coins)
	s.Equal(100, resp.Account.ExperiencePoints)
}

func (s *HandlersSuite) TestSubmitResultNegativeCoinsBadRequest() {
	s.register("sokha", "sokha@example.com")
	token := s.login("sokha")

	w := s.do(http.MethodPost, "/api/games/result", token, gin.H{
		"outcome":      "win",
		"level_played": 1,
		"coins_earned": -10,
	})
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *HandlersSuite) TestLeaderboardAndGuilds() {
	s.register("sokha", "sokha@example.com")
	s.register("veasna", "veasna@example.com")
	token := s.login("veasna")

	w := s.do(http.MethodPost, "/api/games/result", token, gin.H{
		"outcome":      "win",
		"level_played": 1,
	})
	s.Require().Equal(http.StatusOK, w.Code)

	w = s.do(http.MethodGet, "/api/leaderboard?limit=10", "", nil)
	s.Require().Equal(http.StatusOK, w.Code)

	var resp struct {
		Leaderboard []struct {
			Username string `json:"username"`
			Rank     int64  `json:"rank"`
		} `json:"leaderboard"`
	}
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	s.Require().Len(resp.Leaderboard, 2)
	s.Equal("veasna", resp.Leaderboard[0].Username)

	guild := "Angkor"
	w = s.do(http.MethodPut, "/api/profile", token, gin.H{"guild_name": guild})
	s.Require().Equal(http.StatusOK, w.Code)

	w = s.do(http.MethodGet, "/api/guilds", "", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), "Angkor")
}
