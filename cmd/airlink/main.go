package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/gordonklaus/portaudio"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/edgevoice/airlink"
	"github.com/edgevoice/airlink/audio"
	"github.com/edgevoice/airlink/config"
	"github.com/edgevoice/airlink/metrics"
	"github.com/edgevoice/airlink/transport/ws"
)

const serviceName = "airlink"

func initLogger(cfg config.LoggingConfig) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	return slog.New(handler)
}

func run() error {
	configPath := flag.String("config", "", "path to configuration file (defaults apply when empty)")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			return err
		}
		cfg = *loaded
	}

	logger := initLogger(cfg.Logging)
	slog.SetDefault(logger)

	deviceID := uuid.NewString()
	logger.Info("starting",
		slog.String("service", serviceName),
		slog.String("device_id", deviceID),
		slog.String("bridge_host", cfg.Bridge.Host),
		slog.Int("bridge_port", cfg.Bridge.Port),
		slog.String("bridge_path", cfg.Bridge.Path),
		slog.Int("sample_rate", cfg.Audio.SampleRate),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	registry := prometheus.NewRegistry()
	m := metrics.New(registry)
	if cfg.Metrics.Enabled {
		go func() {
			if err := metrics.Serve(cfg.Metrics.Address, registry, logger); err != nil {
				logger.Error("metrics server failed", slog.Any("err", err))
			}
		}()
	}

	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("portaudio init: %w", err)
	}
	defer portaudio.Terminate()

	source := audio.NewBufferedSource(cfg.Audio.CaptureBufferBytes)
	captureStream, err := openCapture(source, cfg.Audio.SampleRate, cfg.Audio.ChunkSamples)
	if err != nil {
		return fmt.Errorf("open capture: %w", err)
	}
	defer captureStream.Close()

	// half a second of output buffering between pacing and the device
	sink := newDACSink(cfg.Audio.SampleRate / 2)
	playbackStream, err := openPlayback(sink, cfg.Audio.SampleRate, cfg.Audio.ChunkSamples)
	if err != nil {
		return fmt.Errorf("open playback: %w", err)
	}
	defer playbackStream.Close()

	client := ws.NewClient(ws.ClientConfig{
		Dial: ws.DialConfig{
			URL:     ws.Endpoint(cfg.Bridge.Host, cfg.Bridge.Port, cfg.Bridge.Path),
			Headers: http.Header{"X-Device-ID": []string{deviceID}},
		},
		ReconnectInterval: cfg.Bridge.GetReconnectInterval(),
		Logger:            logger,
	})
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Close(closeCtx); err != nil {
			logger.Error("session close failed", slog.Any("err", err))
		}
	}()

	// stands in for the status LED
	indicator := airlink.IndicatorFunc(func(on bool) {
		logger.Info("status indicator", slog.Bool("on", on))
	})

	pipeline := airlink.New(client, source, sink,
		airlink.WithLogger(logger),
		airlink.WithIndicator(indicator),
		airlink.WithMetrics(m),
		airlink.WithSampleRate(cfg.Audio.SampleRate),
		airlink.WithChunkSamples(cfg.Audio.ChunkSamples),
		airlink.WithRingCapacity(cfg.Audio.PlaybackBufferSamples),
		airlink.WithHeartbeatInterval(cfg.Bridge.GetHeartbeatInterval()),
	)

	if err := pipeline.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	logger.Info("stopped")
	return nil
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", serviceName, err)
		os.Exit(1)
	}
}
