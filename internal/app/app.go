package app

import (
	"fmt"
	"os"
	"strings"

	"go-dayoff/internal/messaging/kafka"
	"go-dayoff/internal/shared/connection"
	"go-dayoff/internal/store"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BuildApp picks the blob store backend, opens whatever connections it
// needs and registers every module's routes on the router.
//
// STORE_BACKEND selects the backend: "file" (default), "memory",
// "redis" or "postgres".
func BuildApp(router *gin.Engine) error {
	blobStore, err := buildStore()
	if err != nil {
		return err
	}

	var publisher *kafka.Publisher
	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		publisher = kafka.NewPublisher(strings.Split(brokers, ","))
		zap.L().Info("kafka publisher enabled", zap.String("brokers", brokers))
	}

	return registerModules(router, blobStore, publisher)
}

func buildStore() (store.Store, error) {
	backend := os.Getenv("STORE_BACKEND")
	if backend == "" {
		backend = "file"
	}

	switch backend {
	case "file":
		dataDir := os.Getenv("DATA_DIR")
		if dataDir == "" {
			dataDir = "data"
		}
		s, err := store.NewFileStore(dataDir)
		if err != nil {
			return nil, err
		}
		zap.L().Info("file store ready", zap.String("dir", dataDir))
		return s, nil

	case "memory":
		zap.L().Warn("memory store selected, data will not survive restarts")
		return store.NewMemoryStore(), nil

	case "redis":
		rdb, err := connection.ConnectRedisWithRetry(os.Getenv("REDIS_ADDR"), 5)
		if err != nil {
			return nil, err
		}
		return store.NewRedisStore(rdb), nil

	case "postgres":
		db, err := connection.ConnectGORMWithRetry(
			os.Getenv("DB_HOST"),
			os.Getenv("DB_USER"),
			os.Getenv("DB_PASSWORD"),
			os.Getenv("DB_NAME"),
			os.Getenv("DB_PORT"),
			os.Getenv("DB_SSLMODE"),
			5,
		)
		if err != nil {
			return nil, err
		}
		return store.NewGormStore(db)

	default:
		return nil, fmt.Errorf("unknown STORE_BACKEND %q", backend)
	}
}
