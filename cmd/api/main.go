package main

import (
	"context"
	"errors"
	"log"

	customerapp "crm_backend/internal/application/customer"
	orderapp "crm_backend/internal/application/order"
	productapp "crm_backend/internal/application/product"
	"crm_backend/internal/config"
	"crm_backend/internal/infrastructure/encoding/avro"
	ginserver "crm_backend/internal/infrastructure/http/gin"
	"crm_backend/internal/infrastructure/logsink"
	kafkainfra "crm_backend/internal/infrastructure/messaging/kafka"
	"crm_backend/internal/infrastructure/persistence/postgres"
	"crm_backend/internal/interfaces/http/handler"
	"crm_backend/internal/interfaces/http/router"
	"crm_backend/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config failed: %v", err)
	}

	zlog, err := logger.NewZapLogger(cfg.App.Env)
	if err != nil {
		log.Fatalf("init logger failed: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := postgres.NewPool(cfg.DB)
	if err != nil {
		zlog.Fatal("postgres connection failed", logger.Error(err))
	}
	defer pool.Close()

	db := postgres.NewDB(pool)
	customerRepo := postgres.NewCustomerRepository(db)
	productRepo := postgres.NewProductRepository(db)
	orderRepo := postgres.NewOrderRepository(db)

	encoder, err := avro.NewEncoder(avro.OrderCreatedSchema)
	if err != nil {
		zlog.Fatal("avro codec failed", logger.Error(err))
	}

	var publisher orderapp.Publisher
	if len(cfg.Kafka.Brokers) > 0 {
		producer, err := kafkainfra.NewOrderEventProducer(cfg.Kafka, encoder, zlog)
		if err != nil {
			zlog.Fatal("kafka producer failed", logger.Error(err))
		}
		defer producer.Close()
		publisher = producer

		notificationSink := logsink.NewFileSink(cfg.Sinks.NotificationLog)
		consumer := kafkainfra.NewOrderEventConsumer(cfg.Kafka, encoder, notificationSink, zlog)
		go func() {
			if err := consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				zlog.Warn("kafka consumer stopped", logger.Error(err))
			}
		}()
		defer consumer.Close()
	}

	customerService := customerapp.NewService(customerRepo, db, cfg.Bulk.Policy, zlog)
	productService := productapp.NewService(productRepo, db, zlog)
	orderService := orderapp.NewService(customerRepo, productRepo, orderRepo, db, publisher, zlog)

	customerHandler := handler.NewCustomerHandler(customerService)
	productHandler := handler.NewProductHandler(productService)
	orderHandler := handler.NewOrderHandler(orderService)

	engine := ginserver.NewEngine(cfg.App.Env)
	router.RegisterRoutes(engine, customerHandler, productHandler, orderHandler)

	server := ginserver.NewServer(cfg.Server, engine)
	zlog.Info("api listening", logger.String("addr", cfg.Server.Address()))
	if err := server.Run(); err != nil {
		zlog.Fatal("server run failed", logger.Error(err))
	}
}
