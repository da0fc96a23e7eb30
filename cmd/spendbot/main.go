package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/m3rciful/spendbot/bot"
	coreconfig "github.com/m3rciful/spendbot/core/config"
	"github.com/m3rciful/spendbot/core/logger"
	coretelegram "github.com/m3rciful/spendbot/core/telegram"
	"github.com/m3rciful/spendbot/store"
	"github.com/m3rciful/spendbot/store/factory"

	"log/slog"
)

const defaultConfigPath = "config.yml"

func main() {
	if err := run(); err != nil {
		log.Fatalf("spendbot: %v", err)
	}
}

func run() error {
	// .env is optional; real deployments pass env vars directly.
	_ = godotenv.Load()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = defaultConfigPath
	}

	log.Printf("loading config: %s", cfgPath)
	cfg, err := coreconfig.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if err := logger.Init(cfg); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() {
		if err := logger.Shutdown(); err != nil {
			log.Printf("logger shutdown error: %v", err)
		}
	}()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	startedAt := time.Now()

	st, err := factory.Open(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}

	activeName, err := st.ActiveSheet(ctx)
	if err != nil {
		return fmt.Errorf("read active sheet: %w", err)
	}
	active := store.NewActiveSheet(activeName)

	runOpts, err := bot.Build(bot.Options{
		Config: cfg,
		Store:  st,
		Active: active,
	})
	if err != nil {
		return fmt.Errorf("build bot: %w", err)
	}

	prevStart := runOpts.OnStart
	runOpts.OnStart = func(ctx context.Context, rt coretelegram.Runtime) error {
		if prevStart != nil {
			if err := prevStart(ctx, rt); err != nil {
				return err
			}
		}
		logger.Info(ctx, "app", "ready",
			slog.Duration("startup_duration", logger.RoundMS(time.Since(startedAt))),
		)
		return nil
	}
	runOpts.OnStop = func(ctx context.Context, _ coretelegram.Runtime) error {
		logger.Info(ctx, "app", "shutdown")
		return nil
	}

	return coretelegram.RunTelegram(ctx, runOpts)
}
