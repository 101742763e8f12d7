package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/nicolasmmb/go-cashi-payments/internal/app"
	"github.com/nicolasmmb/go-cashi-payments/internal/config/env"
	"github.com/nicolasmmb/go-cashi-payments/internal/router"
	"github.com/nicolasmmb/go-cashi-payments/internal/service"
	"github.com/nicolasmmb/go-cashi-payments/internal/worker"
	"github.com/nicolasmmb/go-cashi-payments/libs"
)

func main() {
	if err := env.Load(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	libs.SetupLogger(env.Values.LOG_LEVEL, env.Values.LOG_FORMAT)
	env.ShowEnvValues()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	appCtx, err := app.Bootstrap(ctx, app.ConfigFromEnv())
	if err != nil {
		slog.Error("[MAIN:Bootstrap] - Failed to initialize store", "error", err)
		os.Exit(1)
	}
	defer appCtx.Close()

	if !appCtx.HasStore() {
		slog.Error("[MAIN:Bootstrap] - The server needs a store, set STORE_DRIVER to redis or postgres")
		os.Exit(1)
	}

	// Store health worker
	w := worker.NewHealthCheckWorker(appCtx.Health, appCtx.Config.HealthCheckInterval)
	go w.Run(ctx)

	// Payment service and routes
	paymentSvc := service.NewPaymentService(appCtx.Store)
	paymentRoutes := router.Routes(router.NewPaymentHandler(paymentSvc, w))

	router.RegisterDebugRoutes(paymentRoutes)

	SERVER_HOST := env.Values.SERVER_ADDR + ":" + fmt.Sprint(env.Values.SERVER_PORT)
	server := &http.Server{
		Addr:           SERVER_HOST,
		Handler:        paymentRoutes,
		ReadTimeout:    5 * time.Second,
		WriteTimeout:   15 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 256 << 10, // 256 KB
	}

	if err := libs.GracefulShutdown(ctx, server, 10*time.Second); err != nil {
		cancel()
		appCtx.Close()
		os.Exit(1)
	}
}
