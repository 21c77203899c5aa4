package main

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"mediawatch/internal/api"
	"mediawatch/internal/chat"
	"mediawatch/internal/config"
	"mediawatch/internal/filter"
	"mediawatch/internal/identity"
	"mediawatch/internal/ingest"
	"mediawatch/internal/notify"
	"mediawatch/internal/ragclient"
	"mediawatch/internal/refresher"
	"mediawatch/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	log := newLogger(cfg.LogLevel)

	if dir := filepath.Dir(cfg.DatabasePath); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			log.Error("create data directory", "path", dir, "error", err)
			os.Exit(1)
		}
	}

	store, err := storage.NewSQLite(cfg.DatabasePath)
	if err != nil {
		log.Error("open database", "path", cfg.DatabasePath, "error", err)
		os.Exit(1)
	}
	defer func() { _ = store.Close() }()

	ctx := context.Background()

	if cfg.ArticlesPath != "" {
		if err := seedArticles(ctx, store, cfg.ArticlesPath, log); err != nil {
			log.Error("seed articles", "path", cfg.ArticlesPath, "error", err)
			os.Exit(1)
		}
	}

	rag := ragclient.New(cfg.RagAPIURL)
	sessions := chat.NewManager(rag, log)
	summarizer := chat.NewSummarizer(rag, log)
	idp := identity.NewStoreProvider(store)
	engine := filter.New(log)

	if len(cfg.Feeds) > 0 {
		var notifier refresher.Notifier
		if cfg.NotifyEnabled() {
			tg, err := notify.NewTelegram(cfg.TelegramToken, cfg.TelegramChatID, log)
			if err != nil {
				log.Error("create telegram notifier", "error", err)
				os.Exit(1)
			}
			notifier = tg
		}

		ref := refresher.New(store, cfg.Feeds, notifier, log)
		ref.SetTickInterval(time.Duration(cfg.RefreshMinutes) * time.Minute)

		refCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		go ref.Run(refCtx)
	}

	srv := api.NewServer(store, engine, sessions, summarizer, idp, cfg.PageSize, log)

	log.Info("starting server", "addr", cfg.ListenAddr)
	if err := srv.ListenAndServe(cfg.ListenAddr); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}

// seedArticles loads the JSON article set and inserts anything the
// database has not seen. Restarting with the same file is a no-op.
func seedArticles(ctx context.Context, store storage.Storage, path string, log *slog.Logger) error {
	articles, err := ingest.LoadFile(path)
	if err != nil {
		return err
	}

	added := 0
	for i := range articles {
		inserted, err := store.InsertArticle(ctx, &articles[i])
		if err != nil {
			return err
		}
		if inserted {
			added++
		}
	}
	log.Info("seeded articles", "path", path, "loaded", len(articles), "new", added)
	return nil
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
