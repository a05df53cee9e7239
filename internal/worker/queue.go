// Package worker runs import batches off a Redis-backed job queue so uploads
// return immediately and processing happens in a bounded pool.
package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// ColaImportaciones is the Redis list the pool consumes from.
const ColaImportaciones = "jobs:importacion"

// TrabajoImportacion is one queued batch: the job record to report progress
// on, plus everything the pipeline needs to run it.
type TrabajoImportacion struct {
	ImportacionID string `json:"importacion_id"`
	Ruta          string `json:"ruta"`
	Tipo          string `json:"tipo"`
	Proveedor     string `json:"proveedor,omitempty"`
}

// Encolador publishes import jobs for the pool to pick up.
type Encolador interface {
	Encolar(ctx context.Context, trabajo TrabajoImportacion) error
}

type colaRedis struct {
	rdb *redis.Client
}

func NewEncolador(rdb *redis.Client) Encolador {
	return &colaRedis{rdb: rdb}
}

func (c *colaRedis) Encolar(ctx context.Context, trabajo TrabajoImportacion) error {
	payload, err := json.Marshal(trabajo)
	if err != nil {
		return fmt.Errorf("encolar importacion: %w", err)
	}
	if err := c.rdb.LPush(ctx, ColaImportaciones, payload).Err(); err != nil {
		return fmt.Errorf("encolar importacion: %w", err)
	}
	return nil
}
