package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/peterkuimelis/sovereign/internal/config"
	"github.com/peterkuimelis/sovereign/internal/game"
	"github.com/peterkuimelis/sovereign/internal/logger"
	"github.com/peterkuimelis/sovereign/internal/room"
	"github.com/peterkuimelis/sovereign/internal/web"
)

func main() {
	cfg := config.Load()
	port := flag.String("port", cfg.Port, "HTTP port to listen on")
	cards := flag.String("cards", cfg.CardsFile, "path to the card catalog YAML")
	flag.Parse()
	cfg.Port = *port
	cfg.CardsFile = *cards

	log := logger.Setup(cfg)

	catalog, err := game.LoadCatalog(cfg.CardsFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	log.Info("catalog loaded", "path", cfg.CardsFile, "cards", len(catalog.Cards()))

	manager := room.NewManager(catalog, log)
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: web.NewServer(manager, catalog, log),
	}

	go func() {
		log.Info("sovereign server listening", "port", cfg.Port, "environment", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	manager.Close()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("shutdown", "error", err)
	}
}
