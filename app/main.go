package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/akardan/newsbrief/app/api"
	"github.com/akardan/newsbrief/app/cfg"
	"github.com/akardan/newsbrief/app/news"
	"github.com/akardan/newsbrief/app/sources"
	"github.com/akardan/newsbrief/app/store"
	"github.com/akardan/newsbrief/app/tasks"
)

func main() {
	// .env is optional; real env vars win either way
	_ = godotenv.Load()

	appCfg, err := cfg.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if appCfg == nil {
		// Help was shown, exit gracefully
		return
	}

	logLevel := slog.LevelInfo
	if appCfg.Debug {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})))

	slog.Info("Starting Newsbrief server", "version", appCfg.Version)

	st, err := store.New(appCfg.RedisAddr, appCfg.RedisPassword, appCfg.RedisDB)
	if err != nil {
		slog.Error("Failed to connect to store", "error", err)
		os.Exit(1)
	}
	defer st.Close()
	slog.Info("Connected to Redis", "addr", appCfg.RedisAddr)

	registry := sources.NewRegistry(appCfg.SourcesFile)
	if err := registry.Run(); err != nil {
		slog.Error("Failed to load sources", "file", appCfg.SourcesFile, "error", err)
		os.Exit(1)
	}
	slog.Info("Sources loaded", "count", registry.Count())

	httpClient := &http.Client{
		Timeout: time.Duration(appCfg.SourceTimeout) * time.Second,
		Transport: &http.Transport{
			MaxIdleConns:        10,
			IdleConnTimeout:     30 * time.Second,
			MaxIdleConnsPerHost: 2,
		},
	}

	runnerSources := make([]tasks.Source, 0, registry.Count())
	for _, desc := range registry.Sources() {
		adapter, err := sources.NewAdapter(desc, httpClient, appCfg.UserAgent)
		if err != nil {
			slog.Error("Failed to build source adapter", "label", desc.Label, "error", err)
			os.Exit(1)
		}
		runnerSources = append(runnerSources, tasks.Source{
			Adapter:        adapter,
			ExtractSummary: desc.ExtractSummary,
		})
	}

	tagger := news.NewTagger(registry.Vocabularies())

	runner := tasks.NewRunner(st, runnerSources, tagger, httpClient, tasks.Options{
		UserAgent:     appCfg.UserAgent,
		FetchDelay:    time.Duration(appCfg.FetchDelay) * time.Millisecond,
		SourceTimeout: time.Duration(appCfg.SourceTimeout) * time.Second,
		CollectionTTL: time.Duration(appCfg.CollectionTTL) * time.Hour,
		ItemTTL:       time.Duration(appCfg.ItemTTL) * time.Hour,
		MetadataTTL:   time.Duration(appCfg.MetadataTTL) * time.Hour,
	})

	scheduler := tasks.NewScheduler(runner, appCfg.Schedule)
	if err := scheduler.Start(); err != nil {
		slog.Error("Failed to start scheduler", "error", err)
		os.Exit(1)
	}
	defer scheduler.Stop()

	apiHandler := api.NewHandler(st, runner, registry.Count())
	server := api.NewServer(apiHandler, appCfg.APIAccessKey)

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 10 * time.Minute, // manual trigger waits for the full run
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "port", appCfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
	}

	slog.Info("Shutting down gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	} else {
		slog.Info("HTTP server stopped")
	}

	slog.Info("Shutdown complete")
}
