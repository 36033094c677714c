package middleware

import (
	"net/http"
	"strconv"

	"github.com/Yug771/vishal-leadership-chatbot-backend-API/internal/redis"
	"github.com/Yug771/vishal-leadership-chatbot-backend-API/internal/services"
	"github.com/Yug771/vishal-leadership-chatbot-backend-API/internal/transport/httpdto"
	"github.com/Yug771/vishal-leadership-chatbot-backend-API/pkg/logger"

	"github.com/gin-gonic/gin"
)

// AuthRateLimitMiddleware limits signup/login/refresh attempts per client IP.
// A nil limiter disables the check entirely; a Redis failure fails open so an
// outage of the limiter never takes the API down with it.
func AuthRateLimitMiddleware(limiter *redis.RateLimiter, l *logger.Logger) gin.HandlerFunc {
	if limiter == nil {
		return passthrough
	}
	return func(c *gin.Context) {
		result, err := limiter.AllowAuth(c.Request.Context(), c.ClientIP())
		if err != nil {
			if l != nil {
				l.WarnfCtx(c.Request.Context(), "auth rate limit unavailable: %v", err)
			}
			c.Next()
			return
		}

		setRateLimitHeaders(c, result)

		if !result.Allowed {
			c.JSON(http.StatusTooManyRequests, httpdto.NewErrorResponse("Too many attempts, please try again later", "RATE_LIMITED"))
			c.Abort()
			return
		}

		c.Next()
	}
}

// QuestionRateLimitMiddleware limits questions per authenticated user.
// Must run after AuthMiddleware so the user id is on the context.
func QuestionRateLimitMiddleware(limiter *redis.RateLimiter, l *logger.Logger) gin.HandlerFunc {
	if limiter == nil {
		return passthrough
	}
	return func(c *gin.Context) {
		userID, ok := services.UserIDFromContext(c.Request.Context())
		if !ok {
			// No user context, skip rate limiting (auth middleware will handle)
			c.Next()
			return
		}

		result, err := limiter.AllowQuestion(c.Request.Context(), userID.String())
		if err != nil {
			if l != nil {
				l.WarnfCtx(c.Request.Context(), "question rate limit unavailable: %v", err)
			}
			c.Next()
			return
		}

		setRateLimitHeaders(c, result)

		if !result.Allowed {
			c.JSON(http.StatusTooManyRequests, httpdto.NewErrorResponse("Too many questions, please try again later", "RATE_LIMITED"))
			c.Abort()
			return
		}

		c.Next()
	}
}

func passthrough(c *gin.Context) {
	c.Next()
}

// setRateLimitHeaders sets standard rate limit response headers
func setRateLimitHeaders(c *gin.Context, result *redis.RateLimitResult) {
	c.Header("X-RateLimit-Limit", strconv.Itoa(result.Limit))
	c.Header("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
	c.Header("X-RateLimit-Reset", strconv.FormatInt(int64(result.ResetIn.Seconds()), 10))
}
