package middleware

import (
	"go-dayoff/internal/shared/contextutil"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ContextLogger builds a request-scoped logger carrying the request id
// and the acting account, then propagates both to the standard context
// so services can log without knowing about gin. It must be installed
// after AuthMiddleware, which puts account_id into the gin context.
func ContextLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetString("request_id")
		accountID := c.GetString("account_id")

		reqLogger := logger.With(
			zap.String("request_id", rid),
			zap.String("account_id", accountID),
		)

		ctx := c.Request.Context()
		ctx = contextutil.WithAccountID(ctx, accountID)
		ctx = contextutil.WithLogger(ctx, reqLogger)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
