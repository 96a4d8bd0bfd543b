// Package app provides the clinical notes assistant application.
package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/WaliBandawu/Clinical-Notes-Assistant/cmd/clinical-notes/app/options"
	"github.com/WaliBandawu/Clinical-Notes-Assistant/pkg/app"
)

const (
	// Name is the name of the application.
	Name = "clinical-notes-assistant"

	shortDesc = "Retrieval-augmented assistant over clinical notes"

	commandDesc = `Clinical Notes Assistant

A retrieval-augmented question answering service over clinical text notes.

This server provides:
  - Note chunking and vector embedding via Ollama or OpenAI
  - Redis-backed similarity search over embedded chunks
  - Question answering grounded in the retrieved notes`
)

// NewApp creates and returns a new App object with default parameters.
func NewApp() *app.App {
	opts := options.NewServerOptions()
	return app.NewApp(
		app.WithName(Name),
		app.WithShortDescription(shortDesc),
		app.WithDescription(commandDesc),
		app.WithOptions(opts),
		app.WithRunFunc(run(opts)),
	)
}

// run contains the main logic for initializing and running the server.
func run(opts *options.ServerOptions) app.RunFunc {
	return func() error {
		cfg, err := opts.Config()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		ctx := setupSignalContext()

		server, err := cfg.NewServer(ctx)
		if err != nil {
			return fmt.Errorf("failed to create server: %w", err)
		}

		return server.Run(ctx)
	}
}

// setupSignalContext returns a context cancelled on SIGINT or SIGTERM.
// A second signal exits immediately.
func setupSignalContext() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	c := make(chan os.Signal, 2)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-c
		cancel()
		<-c
		os.Exit(1)
	}()
	return ctx
}
