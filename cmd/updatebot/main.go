package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/riisdev/updatebot/internal/bot"
	"github.com/riisdev/updatebot/internal/config"
	"github.com/riisdev/updatebot/internal/datastore"
	"github.com/riisdev/updatebot/internal/httpclient"
	"github.com/riisdev/updatebot/internal/logger"
	"github.com/riisdev/updatebot/internal/notifier"
	"github.com/riisdev/updatebot/internal/source"
	"github.com/riisdev/updatebot/internal/watcher"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file (optional, environment overrides apply)")
	flag.Parse()

	cfg, err := config.LoadGlobalConfig(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	appLogger, err := logger.New(cfg.LogConfig)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build logger")
	}

	appLogger.Info().Str("guild_id", cfg.DiscordConfig.GuildID).Msg("Starting update bot")

	store, err := datastore.NewStore(cfg.StorageConfig.DatabasePath, appLogger)
	if err != nil {
		appLogger.Fatal().Err(err).Msg("Failed to open datastore")
	}
	defer store.Close()

	session, err := discordgo.New("Bot " + cfg.DiscordConfig.Token)
	if err != nil {
		appLogger.Fatal().Err(err).Msg("Failed to create Discord session")
	}

	httpCfg := httpclient.DefaultConfig()
	httpCfg.Timeout = cfg.WatcherConfig.RequestTimeout
	httpCfg.CustomHeaders = map[string]string{
		"User-Agent": cfg.WatcherConfig.UserAgent,
		"Accept":     cfg.WatcherConfig.Accept,
	}
	client := httpclient.NewClient(httpCfg)

	sources := source.DefaultSources()
	fetcher := source.NewFetcher(client, appLogger, cfg.WatcherConfig.RequestTimeout)

	messenger := notifier.NewSessionMessenger(session)
	discordNotifier := notifier.NewDiscordNotifier(
		messenger, store, cfg.DiscordConfig.GuildID, cfg.ProductConfig.Name, appLogger,
	)

	pipeline := watcher.NewPipeline(store, fetcher, discordNotifier, appLogger)
	scheduler := watcher.NewScheduler(
		pipeline, sources,
		cfg.WatcherConfig.RecheckInterval,
		cfg.WatcherConfig.MaxConcurrentChecks,
		appLogger,
	)

	adminBot := bot.New(
		session, messenger, store, sources,
		cfg.DiscordConfig, cfg.ProductConfig, appLogger,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		if err := adminBot.Start(ctx); err != nil {
			appLogger.Error().Err(err).Msg("Discord bot stopped with error")
		}
	}()

	scheduler.Start()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	appLogger.Info().Msg("Shutting down")
	scheduler.Stop()
	cancel()
	appLogger.Info().Msg("Shutdown complete")
}
