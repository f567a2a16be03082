package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/infinitystore/backend/app/cmd"
	"github.com/infinitystore/backend/app/configs"
	"github.com/infinitystore/backend/app/models/migrations"
	"github.com/infinitystore/backend/app/routes"
)

func main() {
	env := configs.LoadEnv()
	cmd.RunCli(env, serve)
}

func serve(ctx context.Context, env configs.ENV) error {
	if err := env.ValidateForServe(); err != nil {
		return err
	}

	db, err := configs.OpenConnection(env)
	if err != nil {
		return err
	}
	log.Println("✅ Database connected.")

	if !env.IsProduction() {
		if err := migrations.AutoMigrate(db); err != nil {
			return err
		}
		log.Println("✅ Schema migrated.")
	}

	router := routes.NewRouter(db, env)

	server := &http.Server{
		Addr:              env.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Printf("🚀 Server starting on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Println("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	log.Println("Server stopped.")
	return nil
}
