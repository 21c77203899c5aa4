package config

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

var configEnvKeys = []string{
	"RAG_API_URL", "LISTEN_ADDR", "DATABASE_PATH", "LOG_LEVEL", "PAGE_SIZE",
	"ARTICLES_PATH", "FEED_URLS", "REFRESH_MINUTES", "TELEGRAM_BOT_TOKEN", "TELEGRAM_CHAT_ID",
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		want    *Config
		wantErr bool
	}{
		{
			name:    "missing RAG_API_URL",
			env:     map[string]string{},
			wantErr: true,
		},
		{
			name: "url only, defaults applied",
			env:  map[string]string{"RAG_API_URL": "http://rag.local:8000"},
			want: &Config{
				RagAPIURL:      "http://rag.local:8000",
				ListenAddr:     ":8080",
				DatabasePath:   "./data/mediawatch.db",
				LogLevel:       "info",
				PageSize:       10,
				RefreshMinutes: 60,
			},
		},
		{
			name: "trailing slash trimmed from rag url",
			env:  map[string]string{"RAG_API_URL": "http://rag.local:8000/"},
			want: &Config{
				RagAPIURL:      "http://rag.local:8000",
				ListenAddr:     ":8080",
				DatabasePath:   "./data/mediawatch.db",
				LogLevel:       "info",
				PageSize:       10,
				RefreshMinutes: 60,
			},
		},
		{
			name: "all values set",
			env: map[string]string{
				"RAG_API_URL":        "http://rag.local:8000",
				"LISTEN_ADDR":        ":9000",
				"DATABASE_PATH":      "/tmp/mw.db",
				"LOG_LEVEL":          "debug",
				"PAGE_SIZE":          "25",
				"ARTICLES_PATH":      "/tmp/articles.json",
				"FEED_URLS":          "https://a.example/rss, https://b.example/rss ,",
				"REFRESH_MINUTES":    "15",
				"TELEGRAM_BOT_TOKEN": "tok",
				"TELEGRAM_CHAT_ID":   "-100123",
			},
			want: &Config{
				RagAPIURL:      "http://rag.local:8000",
				ListenAddr:     ":9000",
				DatabasePath:   "/tmp/mw.db",
				LogLevel:       "debug",
				PageSize:       25,
				ArticlesPath:   "/tmp/articles.json",
				Feeds:          []string{"https://a.example/rss", "https://b.example/rss"},
				RefreshMinutes: 15,
				TelegramToken:  "tok",
				TelegramChatID: -100123,
			},
		},
		{
			name: "invalid page size",
			env: map[string]string{
				"RAG_API_URL": "http://rag.local:8000",
				"PAGE_SIZE":   "zero",
			},
			wantErr: true,
		},
		{
			name: "invalid telegram chat id",
			env: map[string]string{
				"RAG_API_URL":      "http://rag.local:8000",
				"TELEGRAM_CHAT_ID": "not-a-number",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, key := range configEnvKeys {
				t.Setenv(key, "")
			}
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			got, err := Load()
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Load() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestNotifyEnabled(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want bool
	}{
		{name: "token and chat id set", cfg: Config{TelegramToken: "t", TelegramChatID: 1}, want: true},
		{name: "token only", cfg: Config{TelegramToken: "t"}, want: false},
		{name: "chat id only", cfg: Config{TelegramChatID: 1}, want: false},
		{name: "neither", cfg: Config{}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.cfg.NotifyEnabled()
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("NotifyEnabled() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
