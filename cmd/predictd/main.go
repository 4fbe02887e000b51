package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/afero"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/visionhost/predict/fetch"
	"github.com/visionhost/predict/guest"
	"github.com/visionhost/predict/service"
	"github.com/visionhost/predict/store"
)

func main() {
	cfg, interactive, err := loadConfig(os.Args[1:], os.LookupEnv)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := run(cfg, interactive); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg config, interactive bool) error {
	log, err := newLogger(cfg.Debug)
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	wasm, err := os.ReadFile(cfg.WasmPath)
	if err != nil {
		return fmt.Errorf("read guest module: %w", err)
	}

	rt, err := guest.NewWithConfig(ctx, &guest.Config{Logger: log})
	if err != nil {
		return err
	}
	defer rt.Close(ctx)

	// Compile once; every request gets its own instance.
	module, err := rt.Load(ctx, wasm)
	if err != nil {
		return err
	}

	fs := afero.NewOsFs()
	predictor := service.NewPredictor(service.Config{
		Module:       module,
		Models:       store.NewModelFile(fs, cfg.ModelPath),
		Labels:       store.NewLabelFile(fs, cfg.LabelsPath),
		Fetcher:      fetch.NewClient(cfg.FetchTimeout),
		InferTimeout: cfg.InferTimeout,
		Logger:       log,
	})

	if interactive {
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			return errors.New("interactive mode needs a terminal")
		}
		return runInteractive(ctx, predictor)
	}

	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: service.NewServer(predictor, log),
	}

	done := make(chan error, 1)
	go func() {
		log.Info("listening", zap.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			done <- err
			return
		}
		done <- nil
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
