package main

import (
	"context"
	"log"

	"ai-filesearch-be/internal/bootstrap"
	"ai-filesearch-be/internal/config"
	"ai-filesearch-be/internal/server"
	"ai-filesearch-be/internal/tracer"
	"ai-filesearch-be/pkg/database"
)

func main() {
	// Tracing is a no-op unless OTEL_ENABLED=true.
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	cfg := config.Load()

	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	container := bootstrap.NewContainer(gormDB, cfg)

	// The consumer bridges bus events to websocket sessions; it runs for the
	// lifetime of the process.
	go func() {
		log.Println("Background: Starting Consumer Service...")
		if err := container.ConsumerService.Consume(context.Background()); err != nil {
			log.Printf("Background Consumer Error: %v", err)
		}
	}()

	srv := server.New(cfg, container)
	log.Fatal(srv.Run())
}
