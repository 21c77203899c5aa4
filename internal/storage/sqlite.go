package storage

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite" // SQLite driver registration.

	"mediawatch/internal/model"
	"mediawatch/migrations"
)

// SQLite implements Storage backed by a SQLite database.
type SQLite struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at dsn and runs pending migrations.
func NewSQLite(dsn string) (*SQLite, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	if err := migrations.Run(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLite{db: db}, nil
}

// Close closes the underlying database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// InsertArticle stores a new article; the hyperlink is the de-facto key.
func (s *SQLite) InsertArticle(ctx context.Context, a *model.Article) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO articles (
			hyperlink, headline, summary, full_text, outlet, source, country, company,
			media_type, date, sentiment, keyword,
			financial_performance, innovation, regulatory,
			environment_responsibility, social_responsibility, community_responsibility,
			e_commerce, amea_leader, amea_executive, local_leaders
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.Hyperlink, a.Headline, a.Summary, a.Text, a.Outlet, a.Source, a.Country, a.Company,
		a.MediaType, a.Date, a.Sentiment, a.Keyword,
		boolToInt(bool(a.FinancialPerformance)), boolToInt(bool(a.Innovation)), boolToInt(bool(a.Regulatory)),
		boolToInt(bool(a.EnvironmentResponsibility)), boolToInt(bool(a.SocialResponsibility)), boolToInt(bool(a.CommunityResponsibility)),
		boolToInt(bool(a.ECommerce)), nullable(a.AMEALeader), nullable(a.AMEAExecutive), nullable(a.LocalLeaders),
	)
	if err != nil {
		return false, fmt.Errorf("insert article: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

// ListArticles returns every stored article in insertion order.
func (s *SQLite) ListArticles(ctx context.Context) ([]model.Article, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT hyperlink, headline, summary, full_text, outlet, source, country, company,
		        media_type, date, sentiment, keyword,
		        financial_performance, innovation, regulatory,
		        environment_responsibility, social_responsibility, community_responsibility,
		        e_commerce, amea_leader, amea_executive, local_leaders
		 FROM articles ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("query articles: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var articles []model.Article
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		articles = append(articles, a)
	}
	return articles, rows.Err()
}

// CountArticles returns the size of the stored collection.
func (s *SQLite) CountArticles(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM articles`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count articles: %w", err)
	}
	return count, nil
}

// GetValue reads a key from the kv table; a missing key is not an error.
func (s *SQLite) GetValue(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get value: %w", err)
	}
	return value, nil
}

// PutValueIfAbsent stores value under key unless one is already present,
// then reads back whichever value won. An earlier writer is never
// overwritten.
func (s *SQLite) PutValueIfAbsent(ctx context.Context, key, value string) (string, error) {
	if _, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO kv (key, value) VALUES (?, ?)`, key, value,
	); err != nil {
		return "", fmt.Errorf("put value: %w", err)
	}

	var stored string
	if err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&stored); err != nil {
		return "", fmt.Errorf("read back value: %w", err)
	}
	return stored, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

type scannable interface {
	Scan(dest ...any) error
}

func scanArticle(row scannable) (model.Article, error) {
	var a model.Article
	var fin, inn, reg, env, soc, com, eco int
	var leader, exec, local sql.NullString
	err := row.Scan(
		&a.Hyperlink, &a.Headline, &a.Summary, &a.Text, &a.Outlet, &a.Source, &a.Country, &a.Company,
		&a.MediaType, &a.Date, &a.Sentiment, &a.Keyword,
		&fin, &inn, &reg, &env, &soc, &com, &eco,
		&leader, &exec, &local,
	)
	if err != nil {
		return a, fmt.Errorf("scan article: %w", err)
	}
	a.FinancialPerformance = model.Flag(fin == 1)
	a.Innovation = model.Flag(inn == 1)
	a.Regulatory = model.Flag(reg == 1)
	a.EnvironmentResponsibility = model.Flag(env == 1)
	a.SocialResponsibility = model.Flag(soc == 1)
	a.CommunityResponsibility = model.Flag(com == 1)
	a.ECommerce = model.Flag(eco == 1)
	a.AMEALeader = leader.String
	a.AMEAExecutive = exec.String
	a.LocalLeaders = local.String
	return a, nil
}
