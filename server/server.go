package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/circlehq/circle-api/config"
	"github.com/circlehq/circle-api/db"
	"github.com/circlehq/circle-api/services"
)

// Server wires the HTTP layer to the services behind it.
type Server struct {
	Config       *config.Config
	DB           *db.GormDB
	MediaService services.MediaService
}

// Start runs the server until SIGINT/SIGTERM, then drains in-flight
// requests before exiting.
func (s *Server) Start() {
	r := s.setupRouter()

	port := s.Config.Port
	if envPort := os.Getenv("PORT"); envPort != "" {
		fmt.Sscanf(envPort, "%d", &port)
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: r,
	}

	go func() {
		log.Printf("listening on :%d", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}
	log.Println("server exited")
}
