package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"showbill/internal/auth"
	"showbill/internal/cloud"
	"showbill/internal/logging"
	"showbill/internal/reminders"
	"showbill/internal/showapi"
	"showbill/internal/store"
	"showbill/internal/syncer"
	"showbill/internal/views"
)

func main() {
	cfg, err := loadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := openDatabase(ctx, cfg.SQLitePath)
	if err != nil {
		logger.Fatal().Err(err).Msg("open local cache")
	}
	defer db.Close()

	localStore := store.New(db, logger)
	if err := localStore.Init(ctx); err != nil {
		logger.Fatal().Err(err).Msg("init local cache")
	}

	client, err := connectCloud(ctx, cfg.MongoURI)
	if err != nil {
		logger.Fatal().Err(err).Msg("connect cloud store")
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	cloudStore := cloud.New(client, logger)

	identity := auth.NewClient(cfg.AuthBaseURL, cfg.AuthAPIKey,
		filepath.Join(cfg.DataDir, "credentials.json"), logger)

	sync := syncer.New(localStore, cloudStore, identity, logger)

	apiCfg := showapi.Config{
		ListingsBaseURL: cfg.ListingsBaseURL,
		ListingsAPIKey:  cfg.ListingsAPIKey,
		DefaultCity:     cfg.DefaultCity,
		DefaultCountry:  cfg.DefaultCountry,
		SongBaseURL:     cfg.SongBaseURL,
	}
	listings := showapi.NewListingsClient(apiCfg, logger)
	songs := showapi.NewSongClient(apiCfg, logger)

	// One-shot browse mode: search the listing services and exit.
	if keyword := os.Getenv("SHOWBILL_SEARCH"); keyword != "" {
		for _, show := range listings.SearchShows(ctx, keyword, os.Getenv("SHOWBILL_GENRE")) {
			logger.Info().
				Str("id", show.ID).
				Str("title", show.Title).
				Str("venue", show.Venue).
				Str("date", show.Date).
				Float64("from", show.StartingPrice).
				Msg("listing")
		}
		for _, track := range songs.SearchTracks(ctx, keyword) {
			logger.Info().
				Str("name", track.Name).
				Str("artist", track.Artist).
				Str("preview", track.PreviewURL).
				Msg("track")
		}
		return
	}

	scheduler := reminders.NewScheduler(func(r reminders.Reminder) {
		logger.Info().
			Str("event_id", r.EventID).
			Str("title", r.Title).
			Str("venue", r.Venue).
			Msg("show starts in two hours")
	}, logger)
	defer scheduler.Stop()

	if email, password := os.Getenv("SHOWBILL_EMAIL"), os.Getenv("SHOWBILL_PASSWORD"); email != "" {
		if _, err := identity.Login(ctx, email, password); err != nil {
			logger.Warn().Err(err).Msg("sign-in failed, continuing offline")
		}
	}

	if err := sync.SyncFromCloud(ctx); err != nil {
		logger.Warn().Err(err).Msg("initial cloud pull failed")
	}

	upcoming, err := views.NewUpcoming(ctx, localStore, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("watch local cache")
	}
	defer upcoming.Close()

	logger.Info().Str("cache", cfg.SQLitePath).Msg("showbill core running")

	for {
		select {
		case projection, ok := <-upcoming.Updates():
			if !ok {
				return
			}
			for _, ev := range projection {
				if err := scheduler.Schedule(ev); err != nil {
					logger.Debug().Err(err).Str("event_id", ev.ID).Msg("reminder skipped")
				}
			}
			logger.Info().Int("upcoming", len(projection)).Msg("projection updated")
		case <-ctx.Done():
			return
		}
	}
}
