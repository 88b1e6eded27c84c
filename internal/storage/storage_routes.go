package storage

import (
	"go-dayoff/internal/middleware"
	"go-dayoff/internal/rbac"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService rbac.Service) {
	blobs := r.Group("/storage")
	blobs.Use(middleware.AuthMiddleware(), middleware.ContextLogger(zap.L()))
	{
		blobs.GET("/:key", middleware.Authorize(rbacService, "storage", "read"), handler.Get)
		blobs.POST("/:key", middleware.Authorize(rbacService, "storage", "write"), handler.Put)
	}
}
