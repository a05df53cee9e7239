package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

type HealthHandler struct {
	rdb *redis.Client
}

func NewHealthHandler(rdb *redis.Client) *HealthHandler {
	return &HealthHandler{rdb: rdb}
}

// Check reports liveness plus the state of the job queue backend.
func (h *HealthHandler) Check(c *gin.Context) {
	estado := http.StatusOK
	redisEstado := "ok"
	if err := h.rdb.Ping(c.Request.Context()).Err(); err != nil {
		estado = http.StatusServiceUnavailable
		redisEstado = err.Error()
	}

	c.JSON(estado, gin.H{
		"status": http.StatusText(estado),
		"redis":  redisEstado,
	})
}
