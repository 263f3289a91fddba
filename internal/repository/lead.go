package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Houeta/leadgate/internal/models"
)

// LeadRow is a lead joined with its owning client, as used by the export.
type LeadRow struct {
	ID          int64     // Unique identifier for the lead
	ClientSlug  string    // Slug of the client the lead belongs to
	ClientTitle string    // Title of the client the lead belongs to
	Phone       string    // Submitted phone number
	CreatedAt   time.Time // Timestamp assigned at insertion
}

// InsertLead appends a lead for the given client and returns the stored row
// with the server-assigned identifier and timestamp.
func (r *Repository) InsertLead(ctx context.Context, clientID int64, phone string) (models.Lead, error) {
	lead := models.Lead{ClientID: clientID, Phone: phone}
	err := r.db.QueryRow(ctx, InsertLeadSQL, clientID, phone).Scan(&lead.ID, &lead.CreatedAt)
	if err != nil {
		return models.Lead{}, fmt.Errorf("failed to insert lead: %w", err)
	}

	return lead, nil
}

// ListLeads returns every captured lead joined with its client,
// ordered by client and submission time, for the export report.
func (r *Repository) ListLeads(ctx context.Context) ([]LeadRow, error) {
	rows, err := r.db.Query(ctx, ListLeadsSQL)
	if err != nil {
		return nil, fmt.Errorf("failed to query leads: %w", err)
	}
	defer rows.Close()

	var leads []LeadRow
	for rows.Next() {
		var row LeadRow
		if errScan := rows.Scan(&row.ID, &row.ClientSlug, &row.ClientTitle, &row.Phone, &row.CreatedAt); errScan != nil {
			return nil, fmt.Errorf("failed to scan lead row: %w", errScan)
		}
		leads = append(leads, row)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	return leads, nil
}
