package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/cbegin/manifold-go"
	"github.com/cbegin/manifold-go/internal/config"
	"github.com/cbegin/manifold-go/internal/logging"
	"github.com/cbegin/manifold-go/internal/profile"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to a YAML config file")
		condition  = flag.String("condition", "", "catatonia|depression|paranoid|mania|healthy")
		seconds    = flag.Float64("seconds", 0, "stop after N seconds (0 = until interrupted)")
		outPath    = flag.String("out", "", "render offline to this WAV file instead of playing")
		backend    = flag.String("backend", "", "audio output: ebiten|beep")
		sampleRate = flag.Int("sample-rate", 0, "output sample rate")
		volume     = flag.Float64("volume", -1, "master volume scalar")
		seed       = flag.Int64("seed", 0, "jitter seed (0 = random)")
		logLevel   = flag.String("log-level", "", "debug|info|warn|error")
	)
	flag.Parse()

	cfg := config.DefaultConfig()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.Fatal(err)
		}
		cfg = loaded
	}
	applyFlags(cfg, *condition, *backend, *sampleRate, *volume, *seed, *logLevel)
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	logger, err := logging.New(cfg.Log.Level)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	name := cfg.Condition()
	if *outPath != "" {
		if err := render(name, cfg, *seconds, *outPath); err != nil {
			logger.Fatal("render failed", zap.Error(err))
		}
		logger.Info("rendered", zap.String("condition", string(name)), zap.String("path", *outPath))
		return
	}
	if err := play(name, cfg, *seconds, logger); err != nil {
		logger.Fatal("playback failed", zap.Error(err))
	}
}

func applyFlags(cfg *config.Config, condition, backend string, sampleRate int, volume float64, seed int64, level string) {
	if condition != "" {
		cfg.Session.Condition = condition
	}
	if backend != "" {
		cfg.Audio.Backend = backend
	}
	if sampleRate > 0 {
		cfg.Audio.SampleRate = sampleRate
	}
	if volume >= 0 {
		cfg.Audio.MasterVolume = volume
	}
	if seed != 0 {
		cfg.Audio.Seed = seed
	}
	if level != "" {
		cfg.Log.Level = level
	}
}

func render(name profile.Name, cfg *config.Config, seconds float64, path string) error {
	if seconds <= 0 {
		seconds = 10
	}
	samples, err := manifold.RenderCondition(name, cfg.Audio.SampleRate, seconds, cfg.Audio.Seed,
		manifold.WithMasterVolume(cfg.Audio.MasterVolume))
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := manifold.WriteWAV(f, samples, cfg.Audio.SampleRate); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func play(name profile.Name, cfg *config.Config, seconds float64, logger *zap.Logger) error {
	opts := []manifold.Option{
		manifold.WithSampleRate(cfg.Audio.SampleRate),
		manifold.WithBackend(cfg.Audio.Backend),
		manifold.WithMasterVolume(cfg.Audio.MasterVolume),
		manifold.WithLogger(logger),
	}
	if cfg.Audio.Seed != 0 {
		opts = append(opts, manifold.WithSeed(cfg.Audio.Seed))
	}
	e, err := manifold.New(opts...)
	if err != nil {
		return err
	}
	defer e.Dispose()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if seconds > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(seconds*float64(time.Second)))
		defer cancel()
	}

	if err := e.Init(ctx); err != nil {
		return err
	}
	ch := e.Watch()
	if err := e.PlayCondition(name); err != nil {
		return err
	}
	for {
		select {
		case ev := <-ch:
			switch ev.Kind {
			case manifold.EventStarted:
				fmt.Printf("playing %s\n", ev.Condition)
			case manifold.EventStopped:
				fmt.Printf("stopped %s\n", ev.Condition)
			}
		case <-ctx.Done():
			e.StopAll()
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return nil
			}
			fmt.Println("interrupted")
			return nil
		}
	}
}
