package storage

import (
	"net/http"

	"go-dayoff/internal/store"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler exposes the raw blob surface. Unlike the rest of the API it
// keeps the legacy shapes: the value field carries the serialized blob
// as a plain string, stored and returned verbatim. Clients do their own
// encode before POST and decode after GET; GET answers a null value for
// absent keys, POST answers {"success": true}.
type Handler struct {
	store  store.Store
	logger *zap.Logger
}

func NewHandler(s store.Store, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("storage.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("storage.handler")
	}
	return &Handler{store: s, logger: l}
}

type putRequest struct {
	Value string `json:"value" binding:"required"`
}

func (h *Handler) Get(c *gin.Context) {
	key := c.Param("key")

	value, ok, err := h.store.Get(c.Request.Context(), key)
	if err != nil {
		h.logger.Error("storage get failed", zap.String("key", key), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "storage read failed"})
		return
	}

	if !ok {
		c.JSON(http.StatusOK, gin.H{"value": nil})
		return
	}

	c.JSON(http.StatusOK, gin.H{"value": value})
}

func (h *Handler) Put(c *gin.Context) {
	key := c.Param("key")

	var req putRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "body must carry a value field"})
		return
	}

	if err := h.store.Put(c.Request.Context(), key, req.Value); err != nil {
		h.logger.Error("storage put failed", zap.String("key", key), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "storage write failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
