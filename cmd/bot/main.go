package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/aou-community/aubot/internal/birthday"
	"github.com/aou-community/aubot/internal/config"
	"github.com/aou-community/aubot/internal/database/mongodb"
	"github.com/aou-community/aubot/internal/discord"
	"github.com/aou-community/aubot/internal/inactivity"
	"github.com/aou-community/aubot/internal/leaderboard"
	"github.com/aou-community/aubot/internal/logger"
	"github.com/aou-community/aubot/internal/registry"
	"github.com/aou-community/aubot/internal/roleinfo"
	"github.com/aou-community/aubot/internal/scheduler"
	"github.com/aou-community/aubot/internal/server"
	"github.com/aou-community/aubot/internal/twitch"
	"github.com/aou-community/aubot/internal/worker"
)

const (
	workerCount     = 4
	workerQueueSize = 32
)

func main() {
	if err := run(); err != nil {
		slog.Error("Bot failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logCfg := logger.DefaultConfig()
	logCfg.Level = cfg.LogLevel
	logCfg.Format = cfg.LogFormat
	logger.Init(logCfg)

	ctx := context.Background()

	store, err := mongodb.Connect(ctx, cfg.DatabaseURI, cfg.DatabaseName)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(context.Background()); err != nil {
			slog.Error("Failed to close store", "error", err)
		}
	}()

	twitchClient := twitch.NewClient(cfg.TwitchClientID, cfg.TwitchClientSecret)
	if err := twitchClient.Authenticate(ctx); err != nil {
		return err
	}

	members := registry.NewService(store.Members())
	roles := roleinfo.NewService(store.Roles())
	birthdays := birthday.NewService(store.Birthdays())
	lastSeen := inactivity.NewService(store.LastSeen())

	pool := worker.NewPool(workerCount, workerQueueSize)
	pool.Start()
	defer pool.Stop()

	bot, err := discord.New(discord.Options{
		Config:     cfg,
		Members:    members,
		Roles:      roles,
		Birthdays:  birthdays,
		Inactivity: lastSeen,
		Twitch:     twitchClient,
		Pool:       pool,
	})
	if err != nil {
		return err
	}

	sched := scheduler.New(pool)
	sched.Schedule(leaderboard.RefreshInterval, worker.NewJob("refresh-leaderboard", bot.RefreshLeaderboard))
	sched.Schedule(discord.BirthdayCheckInterval, worker.NewJob("announce-birthdays", bot.AnnounceBirthdays))
	sched.Schedule(inactivity.SweepInterval, worker.NewJob("sweep-inactive", bot.SweepInactive))
	defer sched.Stop()

	ops := server.New(cfg.HealthPort, store, bot)
	go func() {
		if err := ops.Start(); err != nil {
			slog.Error("Ops server failed", "error", err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := ops.Shutdown(shutdownCtx); err != nil {
			slog.Error("Ops server shutdown failed", "error", err)
		}
	}()

	return bot.Run()
}
