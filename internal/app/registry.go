package app

import (
	"go-dayoff/internal/auth"
	"go-dayoff/internal/directory"
	"go-dayoff/internal/messaging/kafka"
	"go-dayoff/internal/middleware"
	"go-dayoff/internal/rbac"
	"go-dayoff/internal/request"
	"go-dayoff/internal/storage"
	"go-dayoff/internal/store"

	"github.com/gin-gonic/gin"
)

func registerModules(
	router *gin.Engine,
	blobStore store.Store,
	publisher *kafka.Publisher,
) error {
	router.Use(middleware.RequestID())

	// --- Repositories ---
	directoryRepo := directory.NewRepository(blobStore)
	requestRepo := request.NewRepository(blobStore)

	// --- RBAC Core ---
	rbacService, err := rbac.NewService()
	if err != nil {
		return err
	}

	// --- Services ---
	// A nil *Publisher must not end up inside the interface value, the
	// service only nil-checks the interface itself.
	var decisionPublisher request.DecisionPublisher
	if publisher != nil {
		decisionPublisher = publisher
	}
	requestService := request.NewService(requestRepo, directoryRepo, decisionPublisher)
	directoryService := directory.NewService(directoryRepo, requestService)
	authService := auth.NewService(directoryService)

	// --- Handlers ---
	authHandler := auth.NewHandler(authService)
	directoryHandler := directory.NewHandler(directoryService)
	requestHandler := request.NewHandler(requestService)
	storageHandler := storage.NewHandler(blobStore)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		auth.RegisterRoutes(api, authHandler)
		directory.RegisterRoutes(api, directoryHandler, rbacService)
		request.RegisterRoutes(api, requestHandler, rbacService)
	}

	// Legacy raw blob surface, kept on its own prefix.
	storage.RegisterRoutes(router.Group("/api"), storageHandler, rbacService)

	return nil
}
