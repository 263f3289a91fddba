package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Houeta/leadgate/internal/models"
	"github.com/jackc/pgx/v5"
)

// ErrClientNotFound is returned when no active client with the given slug exists.
// Missing and inactive rows are indistinguishable through this error on purpose.
var ErrClientNotFound = errors.New("client with this slug not found")

// GetClientBySlug retrieves an active client by its slug. Inactive clients
// resolve to ErrClientNotFound exactly like absent ones, so callers cannot
// leak the distinction to the outside.
func (r *Repository) GetClientBySlug(ctx context.Context, slug string) (models.Client, error) {
	var client models.Client

	err := r.db.QueryRow(ctx, GetClientBySlugSQL, slug).Scan(
		&client.ID, &client.Slug, &client.Title, &client.Description,
		&client.PrimaryColor, &client.TelegramChat, &client.Active,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Client{}, ErrClientNotFound
		}
		return models.Client{}, fmt.Errorf("failed to get client by slug: %w", err)
	}

	return client, nil
}

// UpsertClient inserts the client or replaces all mutable fields wholesale
// when a row with the same slug already exists. There is no partial update.
func (r *Repository) UpsertClient(ctx context.Context, client models.Client) error {
	_, err := r.db.Exec(ctx, UpsertClientSQL,
		client.Slug, client.Title, client.Description,
		client.PrimaryColor, client.TelegramChat, client.Active,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert client %q: %w", client.Slug, err)
	}

	return nil
}

// ListClients returns the slug and title of every active client,
// ordered by slug, for the index page.
func (r *Repository) ListClients(ctx context.Context) ([]models.ClientSummary, error) {
	rows, err := r.db.Query(ctx, ListClientsSQL)
	if err != nil {
		return nil, fmt.Errorf("failed to query clients: %w", err)
	}
	defer rows.Close()

	var clients []models.ClientSummary
	for rows.Next() {
		var summary models.ClientSummary
		if errScan := rows.Scan(&summary.Slug, &summary.Title); errScan != nil {
			return nil, fmt.Errorf("failed to scan client row: %w", errScan)
		}
		clients = append(clients, summary)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	return clients, nil
}
