package bot

import (
	"context"
	"sync"
	"time"

	"picturegame-bot/internal/config"
	"picturegame-bot/internal/platform"

	"gorm.io/gorm"
)

// Bot runs the round lifecycle for one subreddit: it polls the latest round,
// classifies it, and enforces the timeout and hand-off policy. All platform
// side effects go through the narrow collaborator interfaces so a tick can
// run against fakes.
type Bot struct {
	cfg     config.Config
	client  platform.Client
	player  platform.PlayerSession
	images  platform.ImageHost
	fetcher platform.ImageFetcher

	leaderboard *Leaderboard
	db          *gorm.DB
	hub         *wsHub
	now         func() time.Time

	mu       sync.Mutex
	password string
	snapshot Snapshot

	watchMu  sync.Mutex
	watchers map[int]context.CancelFunc
}

func New(cfg config.Config, client platform.Client, player platform.PlayerSession,
	images platform.ImageHost, fetcher platform.ImageFetcher,
	conn *gorm.DB, password string) *Bot {
	return &Bot{
		cfg:         cfg,
		client:      client,
		player:      player,
		images:      images,
		fetcher:     fetcher,
		leaderboard: NewLeaderboard(client, cfg.LeaderboardPage),
		db:          conn,
		hub:         newWSHub(),
		now:         func() time.Time { return time.Now().UTC() },
		password:    password,
		watchers:    make(map[int]context.CancelFunc),
	}
}

// Leaderboard exposes the win table for the dashboard handlers.
func (b *Bot) Leaderboard() *Leaderboard {
	return b.leaderboard
}

// CurrentPassword returns the live shared-account password. It is printed on
// shutdown as the last-resort recovery path.
func (b *Bot) CurrentPassword() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.password
}

func (b *Bot) setPassword(password string) {
	b.mu.Lock()
	b.password = password
	b.mu.Unlock()
}

func (b *Bot) elapsed(createdAt time.Time, minutes int) bool {
	return minutesPassed(createdAt, minutes, b.now())
}
