package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"github.com/benschg/klara-shop/internal/address"
	"github.com/benschg/klara-shop/internal/api"
	"github.com/benschg/klara-shop/internal/cart"
	"github.com/benschg/klara-shop/internal/catalog"
	"github.com/benschg/klara-shop/internal/checkout"
	"github.com/benschg/klara-shop/internal/config"
	"github.com/benschg/klara-shop/internal/crosssell"
	"github.com/benschg/klara-shop/internal/events"
	"github.com/benschg/klara-shop/internal/order"
	"github.com/benschg/klara-shop/internal/storage"
)

func main() {
	cfg := config.Load()

	log.Println("[API] ========================================")
	log.Println("[API] Klara Shop - Storefront API")
	log.Println("[API] ========================================")
	log.Printf("[API] Catalog: %s", cfg.CatalogBaseURL)
	log.Printf("[API] Snapshot backend: %s", cfg.SnapshotBackend)

	snapshots := newSnapshotStore(cfg)

	var publisher events.Publisher = events.NopPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		log.Printf("[API] Kafka: %v topic %s", cfg.KafkaBrokers, cfg.KafkaTopic)
		kafkaPublisher := events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
	}

	catalogClient := catalog.NewClient(cfg.CatalogBaseURL, cfg.CatalogAPIKey)
	addressClient := address.NewClient(cfg.AddressAPIBaseURL)
	suggestionSource := crosssell.NewResolver(crosssell.DefaultConfig(), catalogClient)

	cartStore := cart.NewStore(snapshots, publisher, suggestionSource)
	checkoutStore := checkout.NewStore(snapshots)

	loadCtx, loadCancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := cartStore.Load(loadCtx); err != nil {
		log.Printf("[API] Failed to restore cart snapshot: %v", err)
	}
	if err := checkoutStore.Load(loadCtx); err != nil {
		log.Printf("[API] Failed to restore checkout snapshot: %v", err)
	}
	loadCancel()

	orderService := order.NewService(cartStore, checkoutStore, publisher)

	handlers := api.NewHandlers(catalogClient, cartStore, checkoutStore, orderService, addressClient)
	router := api.NewRouter(handlers, cfg.WebDir)

	server := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: router,
	}

	go func() {
		log.Printf("[API] Server started on %s", cfg.ListenAddr)
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatalf("[API] Server error: %v", err)
		}
	}()

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[API] Shutting down...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	server.Shutdown(shutdownCtx)
}

func newSnapshotStore(cfg config.Config) storage.SnapshotStore {
	switch cfg.SnapshotBackend {
	case "postgres":
		db, err := storage.ConnectPostgres(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("[API] Failed to connect to PostgreSQL: %v", err)
		}
		store, err := storage.NewPostgresStore(db)
		if err != nil {
			log.Fatalf("[API] Failed to initialize PostgreSQL snapshot store: %v", err)
		}
		log.Println("[API] Connected to PostgreSQL")
		return store
	case "dynamo":
		awsCfg, err := awsconfig.LoadDefaultConfig(context.Background())
		if err != nil {
			log.Fatalf("[API] Failed to load AWS config: %v", err)
		}
		log.Printf("[API] Using DynamoDB table %s", cfg.DynamoTable)
		return storage.NewDynamoStore(dynamodb.NewFromConfig(awsCfg), cfg.DynamoTable)
	case "memory":
		return storage.NewMemoryStore()
	default:
		log.Fatalf("[API] Unknown snapshot backend: %s", cfg.SnapshotBackend)
		return nil
	}
}
