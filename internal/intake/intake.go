package intake

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Houeta/leadgate/internal/metrics"
	"github.com/Houeta/leadgate/internal/models"
	"github.com/Houeta/leadgate/internal/notifier"
	"github.com/Houeta/leadgate/internal/repository"
)

// ErrMissingPhone is returned when a submission carries no phone number.
var ErrMissingPhone = errors.New("phone number is required")

// notifyTimeout bounds the detached notification goroutine. The upstream
// behavior had no timeout at all; a hung Telegram endpoint must not keep
// request chains pending forever.
const notifyTimeout = 10 * time.Second

// Service implements the lead submission workflow: resolve the client,
// validate the phone, persist the lead and announce it best-effort.
type Service struct {
	clients  repository.ClientManager
	leads    repository.LeadManager
	notifier notifier.Interface
	log      *slog.Logger
	metrics  *metrics.Metrics
}

// NewService creates a new intake service.
func NewService(
	log *slog.Logger,
	clients repository.ClientManager,
	leads repository.LeadManager,
	ntf notifier.Interface,
	mtr *metrics.Metrics,
) *Service {
	return &Service{
		clients:  clients,
		leads:    leads,
		notifier: ntf,
		log:      log,
		metrics:  mtr,
	}
}

// Submit records a lead for the client identified by slug.
//
// An unknown or inactive slug fails with repository.ErrClientNotFound and an
// empty phone with ErrMissingPhone; those are the only errors callers see.
// A persistence failure is logged and the submission still reports success,
// matching the upstream fire-and-forget write semantics - the notification
// is skipped in that case so a lead is always persisted before it is
// announced. The notification itself runs in a detached goroutine with its
// own deadline and its outcome never changes the result.
func (s *Service) Submit(ctx context.Context, slug, phone string) (models.Lead, error) {
	startTime := time.Now()
	client, err := s.clients.GetClientBySlug(ctx, slug)
	if s.metrics != nil {
		s.metrics.DBQueryDuration.WithLabelValues("get_client").Observe(time.Since(startTime).Seconds())
	}
	if err != nil {
		if errors.Is(err, repository.ErrClientNotFound) {
			return models.Lead{}, err
		}
		return models.Lead{}, fmt.Errorf("failed to resolve client: %w", err)
	}

	phone = strings.TrimSpace(phone)
	if phone == "" {
		return models.Lead{}, ErrMissingPhone
	}

	startTime = time.Now()
	lead, err := s.leads.InsertLead(ctx, client.ID, phone)
	if s.metrics != nil {
		s.metrics.DBQueryDuration.WithLabelValues("insert_lead").Observe(time.Since(startTime).Seconds())
	}
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to persist lead, reporting success anyway",
			"error", err, "client", client.Slug)
		return models.Lead{ClientID: client.ID, Phone: phone}, nil
	}

	if s.metrics != nil {
		s.metrics.LeadsReceived.WithLabelValues(client.Slug).Inc()
	}
	s.log.InfoContext(ctx, "Lead captured", "client", client.Slug, "lead", lead.ID)

	go func() {
		notifyCtx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()
		outcome := s.notifier.NotifyLead(notifyCtx, client, lead)
		s.log.DebugContext(notifyCtx, "Lead notification finished",
			"client", client.Slug, "lead", lead.ID, "outcome", string(outcome))
	}()

	return lead, nil
}
