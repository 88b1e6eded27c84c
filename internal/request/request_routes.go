package request

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
	requests := r.Group("/requests")
	// ContextLogger runs after auth so the scoped logger carries the
	// acting account.
	requests.Use(middleware.AuthMiddleware(), middleware.ContextLogger(zap.L()))
	{
		requests.GET("", middleware.Authorize(rbacService, "request", "read"), handler.GetAll)
		requests.GET("/usage", middleware.Authorize(rbacService, "request", "read"), handler.Usage)
		requests.GET("/:id", middleware.Authorize(rbacService, "request", "read"), handler.GetByID)
		requests.POST("", middleware.Authorize(rbacService, "request", "create"), handler.Submit)
		requests.DELETE("/:id", middleware.Authorize(rbacService, "request", "withdraw"), handler.Withdraw)
		requests.POST("/:id/comments", middleware.Authorize(rbacService, "request", "comment"), handler.AddComment)
		requests.POST("/:id/approve", middleware.Authorize(rbacService, "request", "decide"), handler.Approve)
		requests.POST("/:id/reject", middleware.Authorize(rbacService, "request", "decide"), handler.Reject)
		requests.POST("/:id/revoke", middleware.Authorize(rbacService, "request", "decide"), handler.Revoke)
		requests.POST("/:id/reapprove", middleware.Authorize(rbacService, "request", "decide"), handler.ReApprove)
	}
}
