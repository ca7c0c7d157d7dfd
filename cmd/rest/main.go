package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"mathdoc-be/internal/bootstrap"
	"mathdoc-be/internal/config"
	"mathdoc-be/internal/server"
	"mathdoc-be/internal/tracer"
	"mathdoc-be/pkg/database"
)

func main() {
	// 1. Load Configuration
	cfg := config.Load()

	// Tracer is a no-op unless OTEL_ENABLED=true
	shutdownTracer := tracer.InitTracer(cfg.Tracing, "mathdoc-rest")
	defer shutdownTracer(context.Background())

	// 2. Initialize Database
	gormDB, err := database.NewGormDBWithPool(cfg.Database.Connection, database.PoolConfig{
		MaxIdleConns:    database.DefaultPool.MaxIdleConns,
		MaxOpenConns:    database.DefaultPool.MaxOpenConns,
		ConnMaxLifetime: database.DefaultPool.ConnMaxLifetime,
		Verbose:         cfg.Database.Verbose,
	})
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	// 3. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(gormDB, cfg)
	defer container.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 4. Start Background Services
	go func() {
		log.Println("Background: Starting Export Consumer...")
		if err := container.ConsumerService.Consume(ctx); err != nil {
			log.Printf("Background Consumer Error: %v", err)
		}
	}()

	// 5. Initialize Server
	srv := server.New(cfg, container)

	go func() {
		<-ctx.Done()
		log.Println("Shutting down...")
		if err := srv.Shutdown(); err != nil {
			log.Printf("Shutdown error: %v", err)
		}
	}()

	// 6. Run Server
	if err := srv.Run(); err != nil {
		log.Printf("Server stopped: %v", err)
	}
}
