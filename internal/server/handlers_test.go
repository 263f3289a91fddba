package server_test

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Houeta/leadgate/internal/intake"
	"github.com/Houeta/leadgate/internal/metrics"
	"github.com/Houeta/leadgate/internal/models"
	"github.com/Houeta/leadgate/internal/notifier"
	"github.com/Houeta/leadgate/internal/repository"
	"github.com/Houeta/leadgate/internal/server"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAdminToken = "sesame"

// fakeStore implements the client and lead repository interfaces in memory.
type fakeStore struct {
	mu       sync.Mutex
	clients  map[string]models.Client
	leads    []repository.LeadRow
	nextID   int64
	listErr  error
	storeErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{clients: make(map[string]models.Client)}
}

func (f *fakeStore) GetClientBySlug(_ context.Context, slug string) (models.Client, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	client, ok := f.clients[slug]
	if !ok || !client.Active {
		return models.Client{}, repository.ErrClientNotFound
	}
	return client, nil
}

func (f *fakeStore) UpsertClient(_ context.Context, client models.Client) error {
	if f.storeErr != nil {
		return f.storeErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if existing, ok := f.clients[client.Slug]; ok {
		client.ID = existing.ID
	} else {
		f.nextID++
		client.ID = f.nextID
	}
	f.clients[client.Slug] = client
	return nil
}

func (f *fakeStore) ListClients(_ context.Context) ([]models.ClientSummary, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var summaries []models.ClientSummary
	for _, client := range f.clients {
		summaries = append(summaries, models.ClientSummary{Slug: client.Slug, Title: client.Title})
	}
	return summaries, nil
}

func (f *fakeStore) InsertLead(_ context.Context, clientID int64, phone string) (models.Lead, error) {
	if f.storeErr != nil {
		return models.Lead{}, f.storeErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	lead := models.Lead{ID: f.nextID, ClientID: clientID, Phone: phone, CreatedAt: time.Now()}
	for _, client := range f.clients {
		if client.ID == clientID {
			f.leads = append(f.leads, repository.LeadRow{
				ID: lead.ID, ClientSlug: client.Slug, ClientTitle: client.Title,
				Phone: phone, CreatedAt: lead.CreatedAt,
			})
		}
	}
	return lead, nil
}

func (f *fakeStore) ListLeads(_ context.Context) ([]repository.LeadRow, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.leads, nil
}

func (f *fakeStore) leadCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.leads)
}

type fakePinger struct{ fail bool }

func (p *fakePinger) Ping(_ context.Context) error {
	if p.fail {
		return errors.New("db down")
	}
	return nil
}

func newTestRouter(t *testing.T, store *fakeStore) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	mtr := metrics.NewMetrics(prometheus.NewRegistry())
	ntf := notifier.NewNoop(logger, mtr)
	intakeSvc := intake.NewService(logger, store, store, ntf, mtr)
	handler := server.NewHandler(logger, store, store, intakeSvc, mtr)
	health := server.NewHealthChecker(logger, &fakePinger{})
	return server.NewRouter(handler, health, http.NotFoundHandler(), testAdminToken)
}

func seedAcme(t *testing.T, store *fakeStore) {
	t.Helper()
	require.NoError(t, store.UpsertClient(t.Context(), models.Client{
		Slug:         "acme",
		Title:        "Acme",
		Description:  "Get a quote",
		PrimaryColor: "#112233",
		TelegramChat: "",
		Active:       true,
	}))
}

func TestIndex(t *testing.T) {
	t.Parallel()

	t.Run("lists active clients", func(t *testing.T) {
		t.Parallel()
		store := newFakeStore()
		seedAcme(t, store)
		router := newTestRouter(t, store)

		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), `/c/acme`)
		assert.Contains(t, rr.Body.String(), "Acme")
	})

	t.Run("store error yields 500", func(t *testing.T) {
		t.Parallel()
		store := newFakeStore()
		store.listErr = assert.AnError
		router := newTestRouter(t, store)

		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

		require.Equal(t, http.StatusInternalServerError, rr.Code)
	})
}

func TestLandingPage(t *testing.T) {
	t.Parallel()

	t.Run("renders client branding", func(t *testing.T) {
		t.Parallel()
		store := newFakeStore()
		seedAcme(t, store)
		router := newTestRouter(t, store)

		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/c/acme", nil))

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "Acme")
		assert.Contains(t, rr.Body.String(), "#112233")
		assert.Contains(t, rr.Body.String(), "Get a quote")
	})

	t.Run("unknown slug yields 404", func(t *testing.T) {
		t.Parallel()
		store := newFakeStore()
		router := newTestRouter(t, store)

		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/c/ghost", nil))

		require.Equal(t, http.StatusNotFound, rr.Code)
		assert.Contains(t, rr.Body.String(), "Page not found")
	})

	t.Run("inactive client yields the same 404", func(t *testing.T) {
		t.Parallel()
		store := newFakeStore()
		require.NoError(t, store.UpsertClient(t.Context(), models.Client{
			Slug: "paused", Title: "Paused", Description: "-", Active: false,
		}))
		router := newTestRouter(t, store)

		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/c/paused", nil))

		require.Equal(t, http.StatusNotFound, rr.Code)
		assert.Contains(t, rr.Body.String(), "Page not found")
	})
}

func TestSubmitLeadAPI(t *testing.T) {
	t.Parallel()

	t.Run("captures the lead", func(t *testing.T) {
		t.Parallel()
		store := newFakeStore()
		seedAcme(t, store)
		router := newTestRouter(t, store)

		body := strings.NewReader(`{"slug":"acme","phone":"5551234567"}`)
		req := httptest.NewRequest(http.MethodPost, "/api/lead", body)
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		require.Equal(t, http.StatusCreated, rr.Code)
		assert.JSONEq(t, `{"status":"ok","lead_id":2}`, rr.Body.String())
		assert.Equal(t, 1, store.leadCount())
	})

	t.Run("missing slug yields 400", func(t *testing.T) {
		t.Parallel()
		store := newFakeStore()
		seedAcme(t, store)
		router := newTestRouter(t, store)

		body := strings.NewReader(`{"phone":"5551234567"}`)
		req := httptest.NewRequest(http.MethodPost, "/api/lead", body)
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		require.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Zero(t, store.leadCount())
	})

	t.Run("missing phone yields 400 and writes nothing", func(t *testing.T) {
		t.Parallel()
		store := newFakeStore()
		seedAcme(t, store)
		router := newTestRouter(t, store)

		body := strings.NewReader(`{"slug":"acme","phone":""}`)
		req := httptest.NewRequest(http.MethodPost, "/api/lead", body)
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		require.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, rr.Body.String(), "Missing phone")
		assert.Zero(t, store.leadCount())
	})

	t.Run("unknown client yields 404", func(t *testing.T) {
		t.Parallel()
		store := newFakeStore()
		router := newTestRouter(t, store)

		body := strings.NewReader(`{"slug":"ghost","phone":"5551234567"}`)
		req := httptest.NewRequest(http.MethodPost, "/api/lead", body)
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		require.Equal(t, http.StatusNotFound, rr.Code)
		assert.Contains(t, rr.Body.String(), "Invalid client")
	})
}

func TestSubmitLeadForm(t *testing.T) {
	t.Parallel()

	t.Run("captures the lead and confirms", func(t *testing.T) {
		t.Parallel()
		store := newFakeStore()
		seedAcme(t, store)
		router := newTestRouter(t, store)

		form := url.Values{"phone": {"5551234567"}}
		req := httptest.NewRequest(http.MethodPost, "/lead/acme", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "Thank you")
		assert.Equal(t, 1, store.leadCount())
	})

	t.Run("empty phone yields 400", func(t *testing.T) {
		t.Parallel()
		store := newFakeStore()
		seedAcme(t, store)
		router := newTestRouter(t, store)

		form := url.Values{"phone": {""}}
		req := httptest.NewRequest(http.MethodPost, "/lead/acme", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		require.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, rr.Body.String(), "Please enter your phone number.")
		assert.Zero(t, store.leadCount())
	})

	t.Run("unknown slug yields 404", func(t *testing.T) {
		t.Parallel()
		store := newFakeStore()
		router := newTestRouter(t, store)

		form := url.Values{"phone": {"5551234567"}}
		req := httptest.NewRequest(http.MethodPost, "/lead/ghost", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		require.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestAddClient(t *testing.T) {
	t.Parallel()

	postForm := func(router http.Handler, token string, form url.Values) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/admin/add-client", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		return rr
	}

	fullForm := url.Values{
		"slug":        {"acme"},
		"title":       {"Acme"},
		"description": {"Get a quote"},
	}

	t.Run("requires the admin token", func(t *testing.T) {
		t.Parallel()
		router := newTestRouter(t, newFakeStore())

		rr := postForm(router, "", fullForm)
		require.Equal(t, http.StatusUnauthorized, rr.Code)

		rr = postForm(router, "wrong", fullForm)
		require.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("creates the client with defaults", func(t *testing.T) {
		t.Parallel()
		store := newFakeStore()
		router := newTestRouter(t, store)

		rr := postForm(router, testAdminToken, fullForm)

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "Client saved: acme")

		client, err := store.GetClientBySlug(t.Context(), "acme")
		require.NoError(t, err)
		assert.Equal(t, "#4caf50", client.PrimaryColor)
		assert.Empty(t, client.TelegramChat)
		assert.True(t, client.Active)
	})

	t.Run("replaces an existing slug wholesale", func(t *testing.T) {
		t.Parallel()
		store := newFakeStore()
		router := newTestRouter(t, store)

		rr := postForm(router, testAdminToken, fullForm)
		require.Equal(t, http.StatusOK, rr.Code)

		renamed := url.Values{
			"slug":        {"acme"},
			"title":       {"Acme Inc"},
			"description": {"Get a quote"},
		}
		rr = postForm(router, testAdminToken, renamed)
		require.Equal(t, http.StatusOK, rr.Code)

		client, err := store.GetClientBySlug(t.Context(), "acme")
		require.NoError(t, err)
		assert.Equal(t, "Acme Inc", client.Title)
		assert.Len(t, store.clients, 1)
	})

	t.Run("missing required field yields 400", func(t *testing.T) {
		t.Parallel()
		router := newTestRouter(t, newFakeStore())

		form := url.Values{"slug": {"acme"}, "title": {"Acme"}}
		rr := postForm(router, testAdminToken, form)

		require.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, rr.Body.String(), "Missing required field: description")
	})

	t.Run("accepts a JSON body", func(t *testing.T) {
		t.Parallel()
		store := newFakeStore()
		router := newTestRouter(t, store)

		body := strings.NewReader(`{"slug":"acme","title":"Acme","description":"Get a quote","telegram_chat":"777"}`)
		req := httptest.NewRequest(http.MethodPost, "/admin/add-client", body)
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+testAdminToken)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		client, err := store.GetClientBySlug(t.Context(), "acme")
		require.NoError(t, err)
		assert.Equal(t, "777", client.TelegramChat)
	})

	t.Run("store error yields 500", func(t *testing.T) {
		t.Parallel()
		store := newFakeStore()
		store.storeErr = assert.AnError
		router := newTestRouter(t, store)

		rr := postForm(router, testAdminToken, fullForm)

		require.Equal(t, http.StatusInternalServerError, rr.Code)
	})
}

func TestExportLeads(t *testing.T) {
	t.Parallel()

	get := func(router http.Handler, token string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/admin/leads/export", nil)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		return rr
	}

	t.Run("requires the admin token", func(t *testing.T) {
		t.Parallel()
		router := newTestRouter(t, newFakeStore())

		rr := get(router, "")
		require.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("streams an xlsx workbook", func(t *testing.T) {
		t.Parallel()
		store := newFakeStore()
		seedAcme(t, store)
		_, err := store.InsertLead(t.Context(), 1, "5551234567")
		require.NoError(t, err)
		router := newTestRouter(t, store)

		rr := get(router, testAdminToken)

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t,
			"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			rr.Header().Get("Content-Type"))
		assert.Contains(t, rr.Header().Get("Content-Disposition"), "leads.xlsx")
		assert.NotZero(t, rr.Body.Len())
	})

	t.Run("empty store yields 404", func(t *testing.T) {
		t.Parallel()
		router := newTestRouter(t, newFakeStore())

		rr := get(router, testAdminToken)

		require.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestHealthz(t *testing.T) {
	t.Parallel()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	t.Run("database ok", func(t *testing.T) {
		t.Parallel()
		health := server.NewHealthChecker(logger, &fakePinger{})

		rr := httptest.NewRecorder()
		health.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))

		require.Equal(t, http.StatusOK, rr.Code)
		require.JSONEq(t, `{"database":"ok"}`, rr.Body.String())
	})

	t.Run("database unavailable", func(t *testing.T) {
		t.Parallel()
		health := server.NewHealthChecker(logger, &fakePinger{fail: true})

		rr := httptest.NewRecorder()
		health.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))

		require.Equal(t, http.StatusServiceUnavailable, rr.Code)
		require.JSONEq(t, `{"database":"unavailable"}`, rr.Body.String())
	})
}
