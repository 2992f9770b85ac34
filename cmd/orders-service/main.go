package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/iagoomes/btg-orders-challenge/internal/orders/adapters/rabbitmq"
	"github.com/iagoomes/btg-orders-challenge/internal/orders/adapters/sqlite"
	"github.com/iagoomes/btg-orders-challenge/internal/orders/infra/httpx"
	"github.com/iagoomes/btg-orders-challenge/internal/orders/usecase"
	"github.com/iagoomes/btg-orders-challenge/internal/pkg/cache"
	"github.com/iagoomes/btg-orders-challenge/internal/pkg/config"
	"github.com/iagoomes/btg-orders-challenge/internal/pkg/shutdown"
	"github.com/iagoomes/btg-orders-challenge/internal/pkg/telemetry"
)

const serviceName = "orders-service"

func main() {
	cfg := config.Load()
	telemetry.InitLogger(serviceName, cfg.AppEnv, cfg.LogLevel)

	ctx, cancel := shutdown.WithSignals(context.Background())
	defer cancel()

	tracerShutdown, err := telemetry.SetupTracer(ctx, serviceName)
	if err != nil {
		fatal("tracer setup failed", err)
	}
	defer func() { _ = tracerShutdown(context.Background()) }()

	repo, err := sqlite.Open(cfg.SQLitePath)
	if err != nil {
		fatal("sqlite open failed", err)
	}
	defer repo.Close()

	orderStore := sqlite.NewOrderStore(repo)
	customerStore := sqlite.NewCustomerStore(repo)

	processOrder := usecase.NewProcessOrder(orderStore, customerStore, repo)
	getOrderTotal := usecase.NewGetOrderTotal(orderStore)
	getCustomerOrders := usecase.NewGetCustomerOrders(orderStore, customerStore)
	getOrderCount := usecase.NewGetCustomerOrderCount(orderStore)

	var totalCache cache.Cache
	if cfg.RedisAddr != "" {
		totalCache = cache.NewRedisCache(cfg.RedisAddr, serviceName)
	}

	conn, err := amqp.Dial(cfg.AMQPURL)
	if err != nil {
		fatal("amqp dial failed", err)
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		fatal("amqp channel failed", err)
	}
	defer ch.Close()

	if err := rabbitmq.Declare(ch, rabbitmq.Topology{
		Queue:              cfg.OrdersQueue,
		Exchange:           cfg.OrdersExchange,
		RoutingKey:         cfg.OrdersRoutingKey,
		DeadLetterQueue:    cfg.DeadLetterQueue,
		DeadLetterExchange: cfg.DeadLetterExchange,
	}); err != nil {
		fatal("amqp topology declare failed", err)
	}

	consumer := rabbitmq.NewConsumer(ch, cfg.OrdersQueue, cfg.ConsumerWorkers, processOrder)

	handler := httpx.NewHandler(getOrderTotal, getCustomerOrders, getOrderCount, totalCache)
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           httpx.NewRouter(handler),
		ReadHeaderTimeout: 5 * time.Second,
	}

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := consumer.Run(ctx); err != nil {
			slog.ErrorContext(ctx, "consumer failed", "error", err)
			cancel()
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		slog.InfoContext(ctx, "http server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.ErrorContext(ctx, "http server failed", "error", err)
			cancel()
		}
	}()

	<-ctx.Done()
	slog.Info("shutdown requested")

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer stopCancel()
	if err := server.Shutdown(stopCtx); err != nil {
		slog.Error("http shutdown failed", "error", err)
	}

	wg.Wait()
	slog.Info("bye")
}

func fatal(msg string, err error) {
	slog.Error(msg, "error", err)
	os.Exit(1)
}
