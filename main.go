package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	intconfig "rideshare/internal/config"
	intdb "rideshare/internal/db"
	router "rideshare/internal/http"
	"rideshare/internal/realtime"

	"github.com/gin-gonic/gin"
)

func main() {
	env := intconfig.LoadEnv()
	if env.GinMode != "" {
		gin.SetMode(env.GinMode)
	}

	db := intconfig.ConnectDB(env)
	defer intconfig.CloseDB()

	schemaCtx, cancelSchema := context.WithTimeout(context.Background(), 30*time.Second)
	if err := intdb.EnsureSchema(schemaCtx, db); err != nil {
		log.Fatalf("[DB] schema setup failed: %v", err)
	}
	cancelSchema()

	var hub *realtime.Hub
	rdb, err := intconfig.ConnectRedis(env)
	if err != nil {
		log.Printf("[REDIS] connect failed, realtime chat disabled: %v", err)
	} else if rdb != nil {
		defer rdb.Close()
		hub = &realtime.Hub{Client: rdb}
	}

	r := router.NewRouter(env, db, hub)

	srv := &http.Server{
		Addr:              env.AppAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("Server listening on %s", env.AppAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}

	log.Println("Server stopped.")
}
