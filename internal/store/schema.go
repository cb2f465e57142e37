package store

import (
	"context"
	"fmt"
)

// schemaDDL creates all tables and indexes. Statements are idempotent so the
// migrate command can run on every deploy.
//
// The unique index on (account_id, date, amount, description) backs duplicate
// detection: racing uploads to the same account cannot both insert the same
// row even though the application-level check is read-then-write.
const schemaDDL = `
CREATE TABLE IF NOT EXISTS users (
	id              BIGSERIAL PRIMARY KEY,
	email           TEXT NOT NULL UNIQUE,
	hashed_password TEXT NOT NULL,
	full_name       TEXT NOT NULL DEFAULT '',
	is_active       BOOLEAN NOT NULL DEFAULT TRUE,
	created_at      TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS accounts (
	id           BIGSERIAL PRIMARY KEY,
	user_id      BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	name         TEXT NOT NULL,
	account_type TEXT NOT NULL,
	balance      NUMERIC(12,2) NOT NULL DEFAULT 0,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_accounts_user ON accounts(user_id);

CREATE TABLE IF NOT EXISTS categories (
	id    BIGSERIAL PRIMARY KEY,
	name  TEXT NOT NULL UNIQUE,
	color TEXT NOT NULL DEFAULT '#6B7280'
);

CREATE TABLE IF NOT EXISTS transactions (
	id               BIGSERIAL PRIMARY KEY,
	user_id          BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	account_id       BIGINT NOT NULL REFERENCES accounts(id) ON DELETE CASCADE,
	category_id      BIGINT REFERENCES categories(id),
	date             DATE NOT NULL,
	description      TEXT NOT NULL,
	amount           NUMERIC(12,2) NOT NULL,
	transaction_type TEXT NOT NULL,
	is_categorized   BOOLEAN NOT NULL DEFAULT FALSE,
	created_at       TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_transactions_user_date ON transactions(user_id, date);
CREATE INDEX IF NOT EXISTS idx_transactions_category ON transactions(category_id);
CREATE UNIQUE INDEX IF NOT EXISTS idx_transactions_dedup
	ON transactions(account_id, date, amount, description);

CREATE TABLE IF NOT EXISTS rules (
	id           BIGSERIAL PRIMARY KEY,
	user_id      BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	category_id  BIGINT NOT NULL REFERENCES categories(id),
	pattern      TEXT NOT NULL,
	pattern_type TEXT NOT NULL DEFAULT 'contains',
	priority     INTEGER NOT NULL DEFAULT 0,
	is_active    BOOLEAN NOT NULL DEFAULT TRUE,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_rules_user ON rules(user_id);
`

// Migrate applies the schema DDL.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schemaDDL); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	s.logger.Info("Database schema applied")
	return nil
}
