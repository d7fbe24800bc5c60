package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/xqin77/chatstream/internal/adapter/llm"
	"github.com/xqin77/chatstream/internal/config"
	"github.com/xqin77/chatstream/internal/service"
	"github.com/xqin77/chatstream/internal/store"
	handler "github.com/xqin77/chatstream/internal/transport/http"
	"github.com/xqin77/chatstream/internal/workflow"
	"github.com/xqin77/chatstream/policy"
)

func main() {
	// Load configuration
	cfg := config.Load()

	log.Printf("Starting chatstream...")
	log.Printf("HTTP Port: %d", cfg.HTTPPort)
	log.Printf("Database: %s", cfg.DatabaseURL)
	log.Printf("Model: %s", cfg.DefaultModel)

	// Initialize store
	db, err := store.NewSQLiteStore(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer db.Close()

	// Initialize LLM client
	llmClient := llm.NewLLMClient(cfg.OpenAIAPIBase, cfg.OpenAIAPIKey, cfg.LLMTimeout)

	// Initialize policy engine
	ctx := context.Background()
	policyEngine, err := policy.NewEngine(ctx, policy.DefaultPolicy)
	if err != nil {
		log.Fatalf("Failed to initialize policy engine: %v", err)
	}

	// Build and compile the chat workflow. Missing credentials are fatal
	// here, not at request time.
	chatAdapter, err := workflow.NewChatAdapter(cfg, llmClient)
	if err != nil {
		log.Fatalf("Failed to initialize chat workflow: %v", err)
	}

	// Initialize service
	svc := service.New(db, chatAdapter, policyEngine, cfg)

	// Create HTTP server
	server := handler.NewServer(svc)

	// Start server
	go func() {
		addr := fmt.Sprintf(":%d", cfg.HTTPPort)
		if err := server.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	log.Printf("API started on port %d", cfg.HTTPPort)

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down chatstream...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Failed to shutdown server gracefully: %v", err)
	}

	log.Println("Chatstream stopped")
}
