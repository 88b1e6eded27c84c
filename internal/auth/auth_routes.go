package auth

import (
	"time"

	"go-dayoff/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	authGroup := r.Group("/auth")
	{
		// Login is the one unauthenticated endpoint, so it gets a per-IP
		// rate limit to keep credential guessing slow.
		authGroup.POST("/login", middleware.RateLimitByIP(rate.Every(time.Second), 5), handler.Login)
		authGroup.GET("/me", middleware.AuthMiddleware(), middleware.ContextLogger(zap.L()), handler.GetMe)
		authGroup.PUT("/password", middleware.AuthMiddleware(), middleware.ContextLogger(zap.L()), handler.ChangeSecret)
	}
}
