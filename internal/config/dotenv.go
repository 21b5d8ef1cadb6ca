package config

import (
	"errors"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads environment variables from a .env file if present.
// Existing environment variables are not overwritten.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return godotenv.Load(path)
}

type Config struct {
	Subreddit       string
	BotUsername     string
	BotPassword     string
	ImgurClientID   string
	AccountsPage    string
	LeaderboardPage string
	WordlistPath    string
	ChallengesPath  string

	PollIntervalSeconds  int
	CooldownSeconds      int
	WatchIntervalSeconds int

	NoAnswerWarnMinutes  int
	NoAnswerResetMinutes int
	NoPostWarnMinutes    int
	NoPostResetMinutes   int
	HintOffsetsMinutes   []int

	DashboardAddr string
	AdminToken    string

	DBMaxOpenConns           int
	DBMaxIdleConns           int
	DBConnMaxLifetimeSeconds int
	DBConnMaxIdleTimeSeconds int
}

func Default() Config {
	return Config{
		Subreddit:       "PictureGame",
		AccountsPage:    "accounts",
		LeaderboardPage: "leaderboard",
		WordlistPath:    "wordlist.txt",
		ChallengesPath:  "challenges.txt",

		PollIntervalSeconds:  30,
		CooldownSeconds:      300,
		WatchIntervalSeconds: 15,

		NoAnswerWarnMinutes:  150,
		NoAnswerResetMinutes: 180,
		NoPostWarnMinutes:    30,
		NoPostResetMinutes:   45,
		HintOffsetsMinutes:   []int{30, 60, 90},

		DBMaxOpenConns:           10,
		DBMaxIdleConns:           10,
		DBConnMaxLifetimeSeconds: 300,
		DBConnMaxIdleTimeSeconds: 60,
	}
}

func Load() Config {
	cfg := Default()
	if raw := os.Getenv("SUBREDDIT"); raw != "" {
		cfg.Subreddit = raw
	}
	if raw := os.Getenv("REDDIT_USERNAME"); raw != "" {
		cfg.BotUsername = raw
	}
	if raw := os.Getenv("REDDIT_PASSWORD"); raw != "" {
		cfg.BotPassword = raw
	}
	if raw := os.Getenv("IMGUR_ID"); raw != "" {
		cfg.ImgurClientID = raw
	}
	if raw := os.Getenv("ACCOUNTS_PAGE"); raw != "" {
		cfg.AccountsPage = raw
	}
	if raw := os.Getenv("LEADERBOARD_PAGE"); raw != "" {
		cfg.LeaderboardPage = raw
	}
	if raw := os.Getenv("WORDLIST_PATH"); raw != "" {
		cfg.WordlistPath = raw
	}
	if raw := os.Getenv("CHALLENGES_PATH"); raw != "" {
		cfg.ChallengesPath = raw
	}
	if raw := os.Getenv("POLL_SECONDS"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.PollIntervalSeconds = value
		}
	}
	if raw := os.Getenv("COOLDOWN_SECONDS"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.CooldownSeconds = value
		}
	}
	if raw := os.Getenv("WATCH_SECONDS"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.WatchIntervalSeconds = value
		}
	}
	if raw := os.Getenv("NO_ANSWER_WARN_MINUTES"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.NoAnswerWarnMinutes = value
		}
	}
	if raw := os.Getenv("NO_ANSWER_RESET_MINUTES"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.NoAnswerResetMinutes = value
		}
	}
	if raw := os.Getenv("NO_POST_WARN_MINUTES"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.NoPostWarnMinutes = value
		}
	}
	if raw := os.Getenv("NO_POST_RESET_MINUTES"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.NoPostResetMinutes = value
		}
	}
	if raw := os.Getenv("DASHBOARD_ADDR"); raw != "" {
		cfg.DashboardAddr = raw
	}
	if raw := os.Getenv("ADMIN_TOKEN"); raw != "" {
		cfg.AdminToken = raw
	}
	if raw := os.Getenv("DB_MAX_OPEN_CONNS"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.DBMaxOpenConns = value
		}
	}
	if raw := os.Getenv("DB_MAX_IDLE_CONNS"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.DBMaxIdleConns = value
		}
	}
	if raw := os.Getenv("DB_CONN_MAX_LIFETIME_SECONDS"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.DBConnMaxLifetimeSeconds = value
		}
	}
	if raw := os.Getenv("DB_CONN_MAX_IDLE_SECONDS"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.DBConnMaxIdleTimeSeconds = value
		}
	}
	return cfg
}

// Validate rejects threshold pairs that are not strictly ordered. The exact
// minute values are tunable policy, the ordering is not.
func (c Config) Validate() error {
	if c.BotUsername == "" || c.BotPassword == "" {
		return errors.New("REDDIT_USERNAME and REDDIT_PASSWORD are required")
	}
	if c.NoAnswerWarnMinutes <= 0 || c.NoAnswerWarnMinutes >= c.NoAnswerResetMinutes {
		return errors.New("no-answer thresholds must satisfy 0 < warn < reset")
	}
	if c.NoPostWarnMinutes <= 0 || c.NoPostWarnMinutes >= c.NoPostResetMinutes {
		return errors.New("no-post thresholds must satisfy 0 < warn < reset")
	}
	return nil
}
