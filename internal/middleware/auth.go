package middleware

import (
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"ouk-server-go/internal/auth"
)

// RateLimiter for failed auth attempts
type AuthRateLimiter struct {
	visitors map[string]*rate.Limiter
	mu       sync.Mutex
	rate     rate.Limit
	burst    int
}

func NewAuthRateLimiter(r rate.Limit, b int) *AuthRateLimiter {
	return &AuthRateLimiter{
		visitors: make(map[string]*rate.Limiter),
		rate:     r,
		burst:    b,
	}
}

func (rl *AuthRateLimiter) getLimiter(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	limiter, exists := rl.visitors[ip]
	if !exists {
		limiter = rate.NewLimiter(rl.rate, rl.burst)
		rl.visitors[ip] = limiter
	}

	return limiter
}

// AuthMiddleware validates the bearer token and stores the account identity
// on the request context. The per-IP rate limiter is consumed only by failed
// authentications, so it slows token guessing without throttling clients
// holding a valid token.
func AuthMiddleware(tokenMaker *auth.TokenMaker) gin.HandlerFunc {
	rateLimiter := NewAuthRateLimiter(rate.Every(1*time.Minute), 5)

	reject := func(c *gin.Context, message string) {
		limiter := rateLimiter.getLimiter(c.ClientIP())
		if !limiter.Allow() {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error": "too many failed authentication attempts",
			})
			c.Abort()
			return
		}
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": message,
		})
		c.Abort()
	}

	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			reject(c, "no authorization token provided")
			return
		}

		claims, err := tokenMaker.VerifyToken(token)
		if err != nil {
			message := "invalid token"
			if errors.Is(err, auth.ErrExpiredToken) {
				message = "token has expired"
			}
			reject(c, message)
			return
		}

		// Store identity in context for later use
		c.Set("claims", claims)
		c.Set("account_id", claims.AccountID)
		c.Set("email", claims.Email)

		c.Next()
	}
}

// extractToken pulls the bearer token from the Authorization header
func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) == 2 && strings.ToLower(parts[0]) == "bearer" {
		return parts[1]
	}
	return ""
}
