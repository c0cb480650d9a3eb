// Command shop-api serves the e-commerce catalog HTTP API.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Sternrassler/go-shop-catalog/pkg/api"
	"github.com/Sternrassler/go-shop-catalog/pkg/cache"
	"github.com/Sternrassler/go-shop-catalog/pkg/cart"
	"github.com/Sternrassler/go-shop-catalog/pkg/catalog"
	"github.com/Sternrassler/go-shop-catalog/pkg/config"
	"github.com/Sternrassler/go-shop-catalog/pkg/logging"
	"github.com/Sternrassler/go-shop-catalog/pkg/store"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("shop-api failed")
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logging.Setup(cfg.LoggingConfig())

	st, err := store.Open(cfg.DB)
	if err != nil {
		return err
	}
	defer func() {
		if err := st.Close(); err != nil {
			log.Warn().Err(err).Msg("store close failed")
		}
	}()
	if err := st.AutoMigrate(); err != nil {
		return err
	}

	cc, err := cache.New(cfg.Redis)
	if err != nil {
		return err
	}
	defer func() {
		if err := cc.Close(); err != nil {
			log.Warn().Err(err).Msg("cache close failed")
		}
	}()

	srv := api.NewServer(api.Deps{
		Categories: catalog.NewCategoryService(st, cc),
		Products:   catalog.NewProductService(st, st, cc),
		Cart:       cart.NewEngine(st, cc),
		DB:         st,
		Cache:      cc,
	}, cfg.Pagination)

	httpSrv := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           srv.Router(cfg.Server.CORSOrigins),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", httpSrv.Addr).Msg("shop-api listening")
		if err := httpSrv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpSrv.Shutdown(shutdownCtx)
}
