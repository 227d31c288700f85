package db

import (
	"database/sql"
	_ "embed"
	"fmt"
)

//go:embed seeds/categories.sql
var seedCategoriesSQL string

//go:embed seeds/sources.sql
var seedSourcesSQL string

// tables are created in dependency order.
var tables = []struct {
	name string
	ddl  string
}{
	{"users", `
CREATE TABLE IF NOT EXISTS users (
    id              BIGSERIAL PRIMARY KEY,
    name            VARCHAR(255) NOT NULL,
    email           VARCHAR(255) NOT NULL UNIQUE,
    password_hash   TEXT NOT NULL,
    is_active       BOOLEAN NOT NULL DEFAULT TRUE,
    last_login_at   TIMESTAMPTZ,
    created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`},
	{"revoked_tokens", `
CREATE TABLE IF NOT EXISTS revoked_tokens (
    token_id    VARCHAR(64) PRIMARY KEY,
    expires_at  TIMESTAMPTZ NOT NULL,
    revoked_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`},
	{"categories", `
CREATE TABLE IF NOT EXISTS categories (
    id          BIGSERIAL PRIMARY KEY,
    name        VARCHAR(100) NOT NULL,
    slug        VARCHAR(100) NOT NULL UNIQUE,
    description TEXT,
    color       VARCHAR(7),
    icon        VARCHAR(100),
    is_active   BOOLEAN NOT NULL DEFAULT TRUE,
    sort_order  INTEGER NOT NULL DEFAULT 0,
    created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`},
	{"news_sources", `
CREATE TABLE IF NOT EXISTS news_sources (
    id                      BIGSERIAL PRIMARY KEY,
    name                    VARCHAR(255) NOT NULL,
    slug                    VARCHAR(255) NOT NULL UNIQUE,
    description             TEXT,
    url                     TEXT NOT NULL,
    api_endpoint            TEXT,
    api_key_required        BOOLEAN NOT NULL DEFAULT FALSE,
    api_config              JSONB NOT NULL DEFAULT '{}'::jsonb,
    language                VARCHAR(5) NOT NULL DEFAULT 'en',
    country                 VARCHAR(2),
    logo_url                TEXT,
    is_active               BOOLEAN NOT NULL DEFAULT TRUE,
    scrape_interval_minutes INTEGER NOT NULL DEFAULT 120 CHECK (scrape_interval_minutes >= 0),
    last_scraped_at         TIMESTAMPTZ,
    scrape_stats            JSONB NOT NULL DEFAULT '{}'::jsonb,
    created_at              TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at              TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`},
	{"articles", `
CREATE TABLE IF NOT EXISTS articles (
    id                   BIGSERIAL PRIMARY KEY,
    uuid                 UUID NOT NULL UNIQUE,
    news_source_id       BIGINT NOT NULL REFERENCES news_sources(id) ON DELETE CASCADE,
    category_id          BIGINT REFERENCES categories(id) ON DELETE SET NULL,
    title                TEXT NOT NULL,
    description          TEXT,
    content              TEXT,
    url                  TEXT NOT NULL UNIQUE,
    image_url            TEXT,
    author               VARCHAR(255),
    published_at         TIMESTAMPTZ NOT NULL,
    metadata             JSONB NOT NULL DEFAULT '{}'::jsonb,
    language             VARCHAR(5) NOT NULL DEFAULT 'en',
    country              VARCHAR(2),
    word_count           INTEGER NOT NULL DEFAULT 0,
    reading_time_minutes INTEGER NOT NULL DEFAULT 1,
    is_active            BOOLEAN NOT NULL DEFAULT TRUE,
    created_at           TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at           TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`},
	{"user_preferences", `
CREATE TABLE IF NOT EXISTS user_preferences (
    id                   BIGSERIAL PRIMARY KEY,
    user_id              BIGINT NOT NULL UNIQUE REFERENCES users(id) ON DELETE CASCADE,
    preferred_sources    JSONB NOT NULL DEFAULT '[]'::jsonb,
    preferred_categories JSONB NOT NULL DEFAULT '[]'::jsonb,
    preferred_authors    JSONB NOT NULL DEFAULT '[]'::jsonb,
    blocked_sources      JSONB NOT NULL DEFAULT '[]'::jsonb,
    blocked_categories   JSONB NOT NULL DEFAULT '[]'::jsonb,
    blocked_keywords     JSONB NOT NULL DEFAULT '[]'::jsonb,
    language             VARCHAR(2) NOT NULL DEFAULT 'en',
    country              VARCHAR(2) NOT NULL DEFAULT 'us',
    articles_per_page    INTEGER NOT NULL DEFAULT 20,
    email_notifications  BOOLEAN NOT NULL DEFAULT FALSE,
    email_frequency      VARCHAR(10) NOT NULL DEFAULT 'daily',
    created_at           TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at           TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`},
	{"user_article_interactions", `
CREATE TABLE IF NOT EXISTS user_article_interactions (
    id               BIGSERIAL PRIMARY KEY,
    user_id          BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    article_id       BIGINT NOT NULL REFERENCES articles(id) ON DELETE CASCADE,
    interaction_type VARCHAR(20) NOT NULL,
    interacted_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at       TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    UNIQUE (user_id, article_id, interaction_type)
)`},
}

var indexes = []string{
	// 一覧・保持期間削除の両方で使用
	`CREATE INDEX IF NOT EXISTS idx_articles_published_at ON articles(published_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_articles_source_published ON articles(news_source_id, published_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_articles_category_published ON articles(category_id, published_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_news_sources_active ON news_sources(is_active) WHERE is_active = TRUE`,
	`CREATE INDEX IF NOT EXISTS idx_interactions_user_type ON user_article_interactions(user_id, interaction_type, interacted_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_revoked_tokens_expires_at ON revoked_tokens(expires_at)`,
}

// pg_trgm がない環境では失敗するため、エラーは無視する
var searchIndexes = []string{
	`CREATE INDEX IF NOT EXISTS idx_articles_title_gin ON articles USING gin(title gin_trgm_ops)`,
	`CREATE INDEX IF NOT EXISTS idx_articles_description_gin ON articles USING gin(description gin_trgm_ops)`,
}

// MigrateUp creates the schema and loads seed rows. Every statement is
// idempotent so it is safe to run on each start.
func MigrateUp(db *sql.DB) error {
	for _, t := range tables {
		if _, err := db.Exec(t.ddl); err != nil {
			return fmt.Errorf("MigrateUp: create %s: %w", t.name, err)
		}
	}

	for _, idx := range indexes {
		if _, err := db.Exec(idx); err != nil {
			return fmt.Errorf("MigrateUp: index: %w", err)
		}
	}

	_, _ = db.Exec(`CREATE EXTENSION IF NOT EXISTS pg_trgm`)
	for _, idx := range searchIndexes {
		_, _ = db.Exec(idx)
	}

	// シードデータの投入(重複は自動的にスキップ)
	for _, seed := range []string{seedCategoriesSQL, seedSourcesSQL} {
		if _, err := db.Exec(seed); err != nil {
			return fmt.Errorf("MigrateUp: seed: %w", err)
		}
	}
	return nil
}

// MigrateDown drops every table created by MigrateUp.
func MigrateDown(db *sql.DB) error {
	for i := len(tables) - 1; i >= 0; i-- {
		if _, err := db.Exec(`DROP TABLE IF EXISTS ` + tables[i].name + ` CASCADE`); err != nil {
			return fmt.Errorf("MigrateDown: drop %s: %w", tables[i].name, err)
		}
	}
	return nil
}
