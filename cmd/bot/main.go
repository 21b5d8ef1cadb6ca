package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"picturegame-bot/internal/bot"
	"picturegame-bot/internal/config"
	"picturegame-bot/internal/db"
	"picturegame-bot/internal/platform"
)

const (
	botUserAgent    = "/r/PictureGame Bot, v1.0"
	playerUserAgent = "/r/PictureGame Account"
)

func main() {
	if err := config.LoadDotEnv(".env"); err != nil {
		log.Printf("failed to load .env: %v", err)
	}
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := platform.NewRedditClient(ctx, "", botUserAgent,
		cfg.Subreddit, cfg.BotUsername, cfg.BotPassword)
	if err != nil {
		log.Fatalf("bot account login failed: %v", err)
	}

	content, err := client.ReadWikiPage(ctx, cfg.AccountsPage)
	if err != nil {
		log.Fatalf("read accounts page failed: %v", err)
	}
	cred, err := bot.ParseCredential(content)
	if err != nil {
		log.Fatalf("parse shared account credentials failed: %v", err)
	}
	player, err := platform.NewRedditPlayer(ctx, "", playerUserAgent,
		cfg.Subreddit, cred.Username, cred.Password)
	if err != nil {
		log.Fatalf("shared account login failed: %v", err)
	}

	conn, err := db.Open(cfg)
	if err != nil {
		if !errors.Is(err, db.ErrNoDatabase) {
			log.Fatalf("database connection failed: %v", err)
		}
		log.Println("DATABASE_URL not set, archive disabled")
		conn = nil
	} else if err := db.Migrate(conn); err != nil {
		log.Fatalf("database migration failed: %v", err)
	}

	b := bot.New(cfg, client, player,
		platform.NewImgurHost(cfg.ImgurClientID),
		platform.NewStreetViewFetcher(""),
		conn, cred.Password)

	if cfg.DashboardAddr != "" {
		go func() {
			log.Printf("dashboard listening on %s", cfg.DashboardAddr)
			if err := http.ListenAndServe(cfg.DashboardAddr, b.Handler()); err != nil {
				log.Printf("dashboard server stopped error=%v", err)
			}
		}()
	}

	log.Printf("picturegame bot polling /r/%s every %ds", cfg.Subreddit, cfg.PollIntervalSeconds)
	err = b.Run(ctx)

	// Last-resort recovery path: without this the shared account would be
	// unreachable after an untimely shutdown.
	fmt.Printf("CURRENT PASSWORD: %s\n", b.CurrentPassword())
	if err != nil {
		log.Fatal(err)
	}
}
