package models

import "time"

// Lead represents a single phone-number submission captured from a client's
// landing page. Leads are append-only: they are never updated or deleted.
type Lead struct {
	ID        int64     // Unique identifier for the lead
	ClientID  int64     // Identifier of the client the lead was submitted for
	Phone     string    // Submitted phone number, validated for presence only
	CreatedAt time.Time // Timestamp assigned by the store at insertion time
}
