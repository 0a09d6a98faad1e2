package main

import (
	"net/http"
	"os"
	"syscall"
	"testing"
	"time"
)

func TestServeRunsCleanupOnShutdownSignal(t *testing.T) {
	srv := &http.Server{
		Addr:    "127.0.0.1:0",
		Handler: http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}),
	}

	cleaned := false
	quit := make(chan os.Signal, 1)
	done := make(chan error, 1)
	go func() { done <- serve(srv, func() { cleaned = true }, quit) }()

	// Give the listener a moment to come up before signalling.
	time.Sleep(50 * time.Millisecond)
	quit <- syscall.SIGTERM

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("serve: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not return after the shutdown signal")
	}
	if !cleaned {
		t.Error("cleanup not run on shutdown")
	}
}

func TestServeRunsCleanupOnListenFailure(t *testing.T) {
	srv := &http.Server{Addr: "127.0.0.1:-1"}

	cleaned := false
	err := serve(srv, func() { cleaned = true }, make(chan os.Signal))
	if err == nil {
		t.Fatal("expected a listen error")
	}
	if !cleaned {
		t.Error("cleanup not run on listen failure")
	}
}
