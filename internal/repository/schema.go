package repository

import (
	"context"
	"fmt"
)

// CreateClientsTableSQL creates the tenant relation. Slug carries a unique
// index so insert-or-replace writes can key on it.
const CreateClientsTableSQL = `
CREATE TABLE IF NOT EXISTS clients (
    id BIGSERIAL PRIMARY KEY,
    slug TEXT NOT NULL UNIQUE,
    title TEXT NOT NULL,
    description TEXT NOT NULL,
    primary_color TEXT NOT NULL DEFAULT '#4caf50',
    telegram_chat TEXT NOT NULL DEFAULT '',
    active BOOLEAN NOT NULL DEFAULT TRUE
);
`

// CreateLeadsTableSQL creates the lead relation. Leads reference the client
// surrogate id; the store assigns the timestamp.
const CreateLeadsTableSQL = `
CREATE TABLE IF NOT EXISTS leads (
    id BIGSERIAL PRIMARY KEY,
    client_id BIGINT NOT NULL REFERENCES clients(id),
    phone TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

// SeedDemoClientSQL inserts the demo tenant. Existing rows are left alone,
// so re-running it on every start is safe.
const SeedDemoClientSQL = `
INSERT INTO clients (slug, title, description, primary_color, telegram_chat)
VALUES ('everbest', 'Get Free Bot', 'Limited-time offer! Enter your number below.', '#4caf50', '6999117324')
ON CONFLICT (slug) DO NOTHING;
`

// EnsureSchema creates the clients and leads relations when they are missing.
// It is idempotent and safe to call on every process start.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, CreateClientsTableSQL); err != nil {
		return fmt.Errorf("failed to create clients table: %w", err)
	}

	if _, err := r.db.Exec(ctx, CreateLeadsTableSQL); err != nil {
		return fmt.Errorf("failed to create leads table: %w", err)
	}

	return nil
}

// SeedDemoClient inserts the demo client if it is not present yet.
func (r *Repository) SeedDemoClient(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, SeedDemoClientSQL); err != nil {
		return fmt.Errorf("failed to seed demo client: %w", err)
	}

	return nil
}
