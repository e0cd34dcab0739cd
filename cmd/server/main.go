package main

import (
	"context"
	"embed"
	"errors"
	"flag"
	"io/fs"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"forcemap/internal/codec"
	"forcemap/internal/config"
	"forcemap/internal/editor"
	"forcemap/internal/handler"
	"forcemap/internal/hub"
	"forcemap/internal/repository/sqlite"
	"forcemap/internal/service"
	"forcemap/internal/watcher"
)

//go:embed web/*
var webFS embed.FS

func main() {
	// Command line flags
	configPath := flag.String("config", "", "Config file path (default: search standard locations)")
	addr := flag.String("addr", "", "HTTP listen address (overrides config)")
	dbPath := flag.String("db", "", "SQLite database path (overrides config)")
	graphPath := flag.String("graph", "", "Graph document to load at startup and reload on change")
	flag.Parse()

	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("Starting forcemap server...")

	cfg, cfgPath, err := loadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfgPath != "" {
		log.Printf("Config loaded: %s", cfgPath)
	} else {
		log.Println("No config file found, using defaults")
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	if *dbPath != "" {
		cfg.Database.Path = *dbPath
	}

	// Initialize SQLite repository
	repo, err := sqlite.New(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer repo.Close()
	log.Printf("Database opened: %s", cfg.Database.Path)

	// Build the editor with its starting graph
	ed := editor.New(cfg.EditorOptions())
	if *graphPath != "" {
		if err := importFile(ed, *graphPath); err != nil {
			log.Fatalf("Failed to load graph: %v", err)
		}
		log.Printf("Graph loaded: %s", *graphPath)
	} else if err := ed.Seed(); err != nil {
		log.Fatalf("Failed to seed graph: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize event bus and connect it to the SSE hub
	eventBus := service.NewEventBus()
	sseHub := hub.New()
	sseHub.Attach(eventBus)
	go sseHub.Run(ctx)

	// Start the session loop
	session := service.NewSession(ed, eventBus, cfg.Server.TickInterval.Duration())
	sessionDone := make(chan struct{})
	go func() {
		defer close(sessionDone)
		if err := session.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("Session stopped: %v", err)
		}
	}()

	// Initialize services
	graphSvc := service.NewGraphService(session, eventBus)
	librarySvc := service.NewLibraryService(repo, graphSvc, session, eventBus)

	// Hot reload of force and interaction settings
	if cfgPath != "" {
		go func() {
			if err := watcher.WatchConfig(ctx, cfgPath, graphSvc); err != nil && !errors.Is(err, context.Canceled) {
				log.Printf("Config watcher stopped: %v", err)
			}
		}()
	}

	// Re-import the graph document when it changes on disk
	if *graphPath != "" {
		path := *graphPath
		w := watcher.New(path, func() {
			f, err := os.Open(path)
			if err != nil {
				log.Printf("Failed to reopen graph: %v", err)
				return
			}
			defer f.Close()
			reloadCtx, done := context.WithTimeout(ctx, 5*time.Second)
			defer done()
			if _, err := graphSvc.Import(reloadCtx, codec.ForPath(path).Format(), f); err != nil {
				log.Printf("Failed to reload graph: %v", err)
			}
		})
		go func() {
			if err := w.Watch(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Printf("Graph watcher stopped: %v", err)
			}
		}()
	}

	// Setup routes
	mux := http.NewServeMux()
	handler.Register(mux, handler.NewGraphHandler(graphSvc), handler.NewLibraryHandler(librarySvc))

	// SSE events endpoint
	mux.Handle("GET /events", sseHub)

	// Static files from embedded filesystem
	webContent, err := fs.Sub(webFS, "web")
	if err != nil {
		log.Fatalf("Failed to get embedded web content: %v", err)
	}
	mux.Handle("/", http.FileServer(http.FS(webContent)))

	// Apply middleware
	finalHandler := handler.Chain(mux,
		handler.Recover,
		handler.CORS,
		handler.Logger,
	)

	// Create server; no write timeout so event streams stay open
	server := &http.Server{
		Addr:        cfg.Server.Addr,
		Handler:     finalHandler,
		ReadTimeout: 10 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Server listening on %s", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// Stop the session and hub first so open event streams end
	cancel()
	<-sessionDone

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Server stopped")
}

func loadConfig(path string) (*config.Config, string, error) {
	if path != "" {
		return config.LoadFromPath(path)
	}
	return config.Load()
}

func importFile(ed *editor.Editor, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	report, err := ed.Import(f, codec.ForPath(path))
	if err != nil {
		return err
	}
	if n := len(report.SkippedLinks) + len(report.SkippedNodes); n > 0 {
		log.Printf("Skipped %d malformed entries in %s", n, filepath.Base(path))
	}
	return nil
}
