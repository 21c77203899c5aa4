// Package config handles application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds the application configuration.
type Config struct {
	RagAPIURL      string
	ListenAddr     string
	DatabasePath   string
	LogLevel       string
	PageSize       int
	ArticlesPath   string
	Feeds          []string
	RefreshMinutes int
	TelegramToken  string
	TelegramChatID int64
}

// Load reads configuration from environment variables.
// RAG_API_URL has no default: without the answer-service location the
// AI features cannot work, so startup fails fast.
func Load() (*Config, error) {
	ragURL := os.Getenv("RAG_API_URL")
	if ragURL == "" {
		return nil, fmt.Errorf("RAG_API_URL is required")
	}

	addr := os.Getenv("LISTEN_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	dbPath := os.Getenv("DATABASE_PATH")
	if dbPath == "" {
		dbPath = "./data/mediawatch.db"
	}

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}

	pageSize := 10
	if raw := os.Getenv("PAGE_SIZE"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("invalid PAGE_SIZE %q", raw)
		}
		pageSize = n
	}

	var feeds []string
	for _, s := range strings.Split(os.Getenv("FEED_URLS"), ",") {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		feeds = append(feeds, s)
	}

	refresh := 60
	if raw := os.Getenv("REFRESH_MINUTES"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("invalid REFRESH_MINUTES %q", raw)
		}
		refresh = n
	}

	var chatID int64
	if raw := os.Getenv("TELEGRAM_CHAT_ID"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid TELEGRAM_CHAT_ID %q: %w", raw, err)
		}
		chatID = id
	}

	return &Config{
		RagAPIURL:      strings.TrimRight(ragURL, "/"),
		ListenAddr:     addr,
		DatabasePath:   dbPath,
		LogLevel:       logLevel,
		PageSize:       pageSize,
		ArticlesPath:   os.Getenv("ARTICLES_PATH"),
		Feeds:          feeds,
		RefreshMinutes: refresh,
		TelegramToken:  os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramChatID: chatID,
	}, nil
}

// NotifyEnabled reports whether Telegram digest notifications are configured.
func (c *Config) NotifyEnabled() bool {
	return c.TelegramToken != "" && c.TelegramChatID != 0
}
