package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/benschg/klara-shop/internal/config"
	"github.com/benschg/klara-shop/internal/proxy"
)

func main() {
	cfg := config.Load()

	addr := getEnv("PROXY_LISTEN_ADDR", ":8081")

	log.Println("[Proxy] ========================================")
	log.Println("[Proxy] Klara Shop - API Proxy")
	log.Println("[Proxy] ========================================")
	log.Printf("[Proxy] Upstream: %s", cfg.CatalogBaseURL)

	handler := proxy.NewHandler(cfg.CatalogBaseURL, cfg.CatalogAPIKey)

	mux := http.NewServeMux()
	mux.Handle("/api/", handler)

	server := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	go func() {
		log.Printf("[Proxy] Server started on %s", addr)
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatalf("[Proxy] Server error: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[Proxy] Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	server.Shutdown(shutdownCtx)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
