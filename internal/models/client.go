package models

// Client represents a tenant of the lead capture service. Each client owns
// a branded landing page identified by its slug and an optional Telegram
// chat where new leads are announced.
type Client struct {
	ID           int64  // Unique identifier for the client
	Slug         string // URL-safe unique identifier, used in landing page paths
	Title        string // Display title shown on the landing page
	Description  string // Short pitch shown under the title
	PrimaryColor string // Color code used for the landing page accent elements
	TelegramChat string // Telegram chat identifier for lead notifications; may be empty
	Active       bool   // Active gates landing page visibility
}

// ClientSummary is a minimal projection of a client used on the index page.
type ClientSummary struct {
	Slug  string // URL-safe unique identifier of the client
	Title string // Display title of the client
}
