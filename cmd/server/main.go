package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/RoyceAzure/lab/pickup/internal/api"
	"github.com/RoyceAzure/lab/pickup/internal/api/handler"
	"github.com/RoyceAzure/lab/pickup/internal/api/router"
	"github.com/RoyceAzure/lab/pickup/internal/appcontext"
	"github.com/RoyceAzure/lab/pickup/internal/config"
	"golang.org/x/sync/errgroup"
)

func main() {
	app, err := appcontext.NewApplicationContext(config.GetConfig())
	if err != nil {
		log.Fatal(err)
	}
	logger := app.Logger

	// 初始化 handler
	server := api.NewServer(
		handler.NewMenuHandler(app.MenuService),
		handler.NewOrderHandler(app.OrderService),
		handler.NewAdminHandler(app.OrderService),
		handler.NewHealthHandler(app.Ping),
	)

	// 設置路由
	r := router.SetupRouter(server, router.Options{
		Logger:            logger,
		Limiter:           app.Limiter,
		AdminKey:          func() string { return config.GetConfig().AdminPassword },
		TrustProxyHeaders: app.Cf.TrustProxyHeaders,
	})

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", app.Cf.ServerPort),
		Handler: r,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info().Str("addr", srv.Addr).Msg("Server starting")
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info().Msg("Received shutdown signal")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), app.Cf.ShutdownTimeout)
		defer cancel()

		serverErr := srv.Shutdown(shutdownCtx)
		if serverErr != nil {
			logger.Error().Err(serverErr).Msg("Server shutdown error")
		}
		logger.Info().Msg("closed completed")
		return errors.Join(serverErr, app.Shutdown(shutdownCtx))
	})

	if err := g.Wait(); err != nil {
		log.Printf("server stopped with error: %v", err)
		os.Exit(1)
	}
}
