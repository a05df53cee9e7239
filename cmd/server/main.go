package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pelotazo/internal/config"
	"pelotazo/internal/handler"
	"pelotazo/internal/infra"
	"pelotazo/internal/repository"
	"pelotazo/internal/router"
	"pelotazo/internal/service"
	"pelotazo/internal/worker"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("configuracion invalida")
	}

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if cfg.Env == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("redis no disponible")
	}
	defer rdb.Close()

	store := infra.NewStoreClient(cfg.StoreURL, cfg.StoreAdminEmail, cfg.StoreAdminPassword)

	productos := repository.NewProductoRepository(store)
	categorias := repository.NewCategoriaRepository(store)
	proveedores := repository.NewProveedorRepository(store)
	devoluciones := repository.NewDevolucionRepository(store)
	importaciones := repository.NewImportacionRepository(store)

	resolver := service.NewResolver(categorias, proveedores)
	importacionService := service.NewImportacionService(productos, devoluciones, importaciones, resolver)

	cola := worker.NewEncolador(rdb)
	pool := worker.NewPool(rdb, importacionService, cfg.WorkerPoolSize)

	importacionHandler := handler.NewImportacionHandler(importacionService, cola, cfg.UploadDir)
	healthHandler := handler.NewHealthHandler(rdb)

	engine := router.New(cfg, importacionHandler, healthHandler)
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: engine,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	poolDone := make(chan struct{})
	go func() {
		pool.Run(ctx)
		close(poolDone)
	}()

	go func() {
		log.Info().Int("port", cfg.Port).Str("env", cfg.Env).Msg("servidor arrancado")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("servidor caido")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("apagando")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor fallido")
	}

	select {
	case <-poolDone:
	case <-shutdownCtx.Done():
		log.Warn().Msg("el pool no termino a tiempo")
	}
	log.Info().Msg("apagado completo")
}
