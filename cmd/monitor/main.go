package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"replmon/internal/api"
	"replmon/internal/bus"
	"replmon/internal/config"
	"replmon/internal/monitor"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))

	cfg := config.Default()
	if path := getenv("MONITOR_CONFIG_PATH", ""); path != "" {
		loaded, err := config.LoadConfig(path)
		if err != nil {
			logger.Error("failed to load config", slog.String("path", path), slog.String("error", err.Error()))
			os.Exit(1)
		}
		cfg = loaded
	}
	if url := getenv("NATS_URL", ""); url != "" {
		cfg.NATSURL = url
	}
	if port := getenv("ADMIN_PORT", ""); port != "" {
		cfg.AdminPort = port
	}
	duration := time.Duration(getenvInt("MONITOR_DURATION_SECONDS", cfg.Run.DurationSeconds)) * time.Second

	opts := []monitor.Option{monitor.WithOutput(os.Stdout)}
	var publisher *bus.Publisher
	if cfg.NATSURL != "" {
		var err error
		publisher, err = bus.NewPublisher(cfg.NATSURL)
		if err != nil {
			logger.Error("failed to connect to nats", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer publisher.Close()
		opts = append(opts, monitor.WithAlertSink(publisher))
	}

	m := monitor.New(cfg, logger, opts...)

	if cfg.AdminPort != "" {
		handler := &api.Handler{Monitor: m}
		go api.Serve(cfg.AdminPort, handler.Routes(), logger)
	}

	ctx, cancel := context.WithCancel(context.Background())
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-shutdown
		logger.Info("shutdown signal received")
		cancel()
	}()

	if err := m.Run(ctx, duration); err != nil {
		logger.Error("monitor run failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func getenv(key, fallback string) string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	return val
}

func getenvInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	if parsed, err := strconv.Atoi(val); err == nil {
		return parsed
	}
	return fallback
}
