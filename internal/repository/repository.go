package repository

import (
	"context"

	"github.com/Houeta/leadgate/internal/models"
)

type Repository struct {
	db Database
}

// ClientManager defines the repository operations for tenant records:
// slug resolution, insert-or-replace writes and the index listing.
type ClientManager interface {
	GetClientBySlug(ctx context.Context, slug string) (models.Client, error)
	UpsertClient(ctx context.Context, client models.Client) error
	ListClients(ctx context.Context) ([]models.ClientSummary, error)
}

// LeadManager defines the repository operations for captured leads.
// Leads are append-only; ListLeads exists for the export report.
type LeadManager interface {
	InsertLead(ctx context.Context, clientID int64, phone string) (models.Lead, error)
	ListLeads(ctx context.Context) ([]LeadRow, error)
}

// NewRepository creates a new instance of Repository with the provided Database.
// It returns a pointer to the newly created Repository.
func NewRepository(db Database) *Repository {
	return &Repository{db: db}
}
