package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/PabloIb21/teslo-orders-api/cmd/orders-api/app"
	"github.com/PabloIb21/teslo-orders-api/configs"
)

func main() {
	env := os.Getenv("APP_ENV") // dev | staging | prod
	if env == "" {
		env = "dev"
	}

	cfg, err := configs.Load("configs", env)
	if err != nil {
		log.Fatal(err)
	}

	application, cleanup, err := app.InitWithConfig(cfg)
	if err != nil {
		log.Fatal(err)
	}

	srv := &http.Server{
		Addr:         cfg.App.HTTPAddr,
		Handler:      application.Router,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	log.Printf("teslo-orders-api (%s) listening on %s", env, cfg.App.HTTPAddr)
	if err := serve(srv, cleanup, quit); err != nil {
		log.Fatal(err)
	}
	log.Println("teslo-orders-api stopped")
}

// serve runs the server until it fails or a shutdown signal arrives, drains
// in-flight requests, then releases the broker and database resources.
func serve(srv *http.Server, cleanup func(), quit <-chan os.Signal) error {
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		cleanup()
		return err
	case <-quit:
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	err := srv.Shutdown(ctx)
	cleanup()
	return err
}
