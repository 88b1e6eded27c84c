package directory

import (
	"go-dayoff/internal/middleware"
	"go-dayoff/internal/rbac"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
) {
	accounts := r.Group("/accounts")
	accounts.Use(middleware.AuthMiddleware(), middleware.ContextLogger(zap.L()))
	{
		accounts.GET("", middleware.Authorize(rbacService, "account", "read"), handler.GetAll)
		accounts.GET("/:id", middleware.Authorize(rbacService, "account", "read"), handler.GetByID)
		accounts.POST("", middleware.Authorize(rbacService, "account", "create"), handler.Create)
		accounts.DELETE("/:id", middleware.Authorize(rbacService, "account", "delete"), handler.Delete)
		accounts.PUT("/:id/secret", middleware.Authorize(rbacService, "account", "reset"), handler.ResetSecret)
		accounts.PUT("/:id/allowance", middleware.Authorize(rbacService, "account", "update"), handler.UpdateAllowance)
		// Display name is also self-service; ownership is enforced in the
		// service, the route only needs an authenticated caller.
		accounts.PUT("/:id/display-name", handler.UpdateDisplayName)
	}
}
