package worker

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"sync"
	"time"

	"pelotazo/internal/service"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const tiempoEspera = 5 * time.Second

// Pool consumes import jobs with a fixed number of workers. Each worker
// blocks on the queue, runs one batch at a time and deletes the uploaded
// file when the batch ends.
type Pool struct {
	rdb      *redis.Client
	servicio service.ImportacionService
	size     int
}

func NewPool(rdb *redis.Client, servicio service.ImportacionService, size int) *Pool {
	if size < 1 {
		size = 1
	}
	return &Pool{rdb: rdb, servicio: servicio, size: size}
}

// Run blocks until ctx is cancelled and every worker has drained its current
// job.
func (p *Pool) Run(ctx context.Context) {
	log.Info().Int("workers", p.size).Msg("pool de importaciones arrancado")

	var wg sync.WaitGroup
	for i := 0; i < p.size; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			p.trabajar(ctx, id)
		}(i)
	}
	wg.Wait()
	log.Info().Msg("pool de importaciones detenido")
}

func (p *Pool) trabajar(ctx context.Context, id int) {
	logger := log.With().Int("worker", id).Logger()
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		res, err := p.rdb.BRPop(ctx, tiempoEspera, ColaImportaciones).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) || errors.Is(err, context.Canceled) {
				continue
			}
			logger.Error().Err(err).Msg("lectura de cola fallida")
			time.Sleep(time.Second)
			continue
		}
		// BRPOP returns [key, value].
		if len(res) != 2 {
			continue
		}

		var trabajo TrabajoImportacion
		if err := json.Unmarshal([]byte(res[1]), &trabajo); err != nil {
			logger.Error().Err(err).Str("payload", res[1]).Msg("trabajo ilegible descartado")
			continue
		}

		p.procesar(ctx, &logger, trabajo)
	}
}

func (p *Pool) procesar(ctx context.Context, logger *zerolog.Logger, trabajo TrabajoImportacion) {
	logger.Info().
		Str("importacion", trabajo.ImportacionID).
		Str("archivo", trabajo.Ruta).
		Msg("procesando importacion")

	_, err := p.servicio.Procesar(ctx, trabajo.ImportacionID, trabajo.Ruta, trabajo.Tipo, trabajo.Proveedor)
	if err != nil {
		logger.Error().Err(err).Str("importacion", trabajo.ImportacionID).Msg("importacion fallida")
	}

	if err := os.Remove(trabajo.Ruta); err != nil && !os.IsNotExist(err) {
		logger.Warn().Err(err).Str("archivo", trabajo.Ruta).Msg("no se pudo borrar el archivo subido")
	}
}
