package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/Houeta/leadgate/internal/intake"
	"github.com/Houeta/leadgate/internal/metrics"
	"github.com/Houeta/leadgate/internal/models"
	"github.com/Houeta/leadgate/internal/report"
	"github.com/Houeta/leadgate/internal/repository"
	"github.com/go-chi/chi/v5"
)

// defaultPrimaryColor is applied when an admin upsert omits the color.
const defaultPrimaryColor = "#4caf50"

// Handler serves the public landing/submission routes and the admin routes.
type Handler struct {
	log     *slog.Logger
	clients repository.ClientManager
	leads   repository.LeadManager
	intake  *intake.Service
	metrics *metrics.Metrics
}

// NewHandler creates a new HTTP handler set.
func NewHandler(
	log *slog.Logger,
	clients repository.ClientManager,
	leads repository.LeadManager,
	intakeSvc *intake.Service,
	mtr *metrics.Metrics,
) *Handler {
	return &Handler{
		log:     log,
		clients: clients,
		leads:   leads,
		intake:  intakeSvc,
		metrics: mtr,
	}
}

// Index renders the list of active clients.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	clients, err := h.clients.ListClients(r.Context())
	if err != nil {
		h.log.ErrorContext(r.Context(), "Failed to list clients", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err = indexTmpl.Execute(w, clients); err != nil {
		h.log.ErrorContext(r.Context(), "Failed to render index", "error", err)
	}
}

// LandingPage renders the branded landing page for a client slug.
// Unknown and inactive slugs both answer 404 with no further detail.
func (h *Handler) LandingPage(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	client, err := h.clients.GetClientBySlug(r.Context(), slug)
	if err != nil {
		if errors.Is(err, repository.ErrClientNotFound) {
			http.Error(w, "Page not found", http.StatusNotFound)
			return
		}
		h.log.ErrorContext(r.Context(), "Failed to get client", "error", err, "slug", slug)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err = landingTmpl.Execute(w, client); err != nil {
		h.log.ErrorContext(r.Context(), "Failed to render landing page", "error", err, "slug", slug)
	}
}

// leadRequest is the JSON submission payload.
type leadRequest struct {
	Slug  string `json:"slug"`
	Phone string `json:"phone"`
}

// SubmitLeadAPI accepts a JSON lead submission with the slug in the body.
func (h *Handler) SubmitLeadAPI(w http.ResponseWriter, r *http.Request) {
	var req leadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Slug) == "" {
		h.respondJSONError(w, http.StatusBadRequest, "Missing slug")
		return
	}

	lead, err := h.intake.Submit(r.Context(), req.Slug, req.Phone)
	switch {
	case errors.Is(err, repository.ErrClientNotFound):
		h.respondJSONError(w, http.StatusNotFound, "Invalid client")
		return
	case errors.Is(err, intake.ErrMissingPhone):
		h.respondJSONError(w, http.StatusBadRequest, "Missing phone")
		return
	case err != nil:
		h.log.ErrorContext(r.Context(), "Failed to submit lead", "error", err, "slug", req.Slug)
		h.respondJSONError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if encErr := json.NewEncoder(w).Encode(map[string]any{"status": "ok", "lead_id": lead.ID}); encErr != nil {
		h.log.ErrorContext(r.Context(), "Failed to write lead response", "error", encErr)
	}
}

// SubmitLeadForm accepts an HTML form submission with the slug in the path
// and answers with a confirmation page.
func (h *Handler) SubmitLeadForm(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	phone := r.PostFormValue("phone")

	_, err := h.intake.Submit(r.Context(), slug, phone)
	switch {
	case errors.Is(err, repository.ErrClientNotFound):
		http.Error(w, "Page not found", http.StatusNotFound)
		return
	case errors.Is(err, intake.ErrMissingPhone):
		http.Error(w, "Please enter your phone number.", http.StatusBadRequest)
		return
	case err != nil:
		h.log.ErrorContext(r.Context(), "Failed to submit lead", "error", err, "slug", slug)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	// The confirmation page reuses the client branding; lookup failures at
	// this point fall back to a bare page rather than failing the submission.
	client, err := h.clients.GetClientBySlug(r.Context(), slug)
	if err != nil {
		client = models.Client{Slug: slug, Title: slug, PrimaryColor: defaultPrimaryColor}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err = confirmTmpl.Execute(w, client); err != nil {
		h.log.ErrorContext(r.Context(), "Failed to render confirmation", "error", err, "slug", slug)
	}
}

// clientRequest is the admin upsert payload, accepted as JSON or form data.
type clientRequest struct {
	Slug         string `json:"slug"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	PrimaryColor string `json:"primary_color"`
	TelegramChat string `json:"telegram_chat"`
	Active       *bool  `json:"active"`
}

// AddClient inserts or wholesale-replaces a client record.
func (h *Handler) AddClient(w http.ResponseWriter, r *http.Request) {
	req, err := decodeClientRequest(r)
	if err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	for field, value := range map[string]string{
		"slug":        req.Slug,
		"title":       req.Title,
		"description": req.Description,
	} {
		if strings.TrimSpace(value) == "" {
			http.Error(w, "Missing required field: "+field, http.StatusBadRequest)
			return
		}
	}

	if req.PrimaryColor == "" {
		req.PrimaryColor = defaultPrimaryColor
	}
	active := true
	if req.Active != nil {
		active = *req.Active
	}

	client := models.Client{
		Slug:         req.Slug,
		Title:        req.Title,
		Description:  req.Description,
		PrimaryColor: req.PrimaryColor,
		TelegramChat: req.TelegramChat,
		Active:       active,
	}
	started := time.Now()
	err = h.clients.UpsertClient(r.Context(), client)
	if h.metrics != nil {
		h.metrics.DBQueryDuration.WithLabelValues("upsert_client").Observe(time.Since(started).Seconds())
	}
	if err != nil {
		h.log.ErrorContext(r.Context(), "Failed to upsert client", "error", err, "slug", req.Slug)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	if h.metrics != nil {
		h.metrics.ClientUpserts.Inc()
	}
	h.log.InfoContext(r.Context(), "Client record written", "slug", req.Slug)

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if _, err = w.Write([]byte("Client saved: " + req.Slug + "\n")); err != nil {
		h.log.ErrorContext(r.Context(), "Failed to write reply", "error", err)
	}
}

// decodeClientRequest reads the upsert payload from a JSON body or,
// for any other content type, from form values.
func decodeClientRequest(r *http.Request) (clientRequest, error) {
	var req clientRequest

	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return clientRequest{}, err
		}
		return req, nil
	}

	if err := r.ParseForm(); err != nil {
		return clientRequest{}, err
	}
	req.Slug = r.PostFormValue("slug")
	req.Title = r.PostFormValue("title")
	req.Description = r.PostFormValue("description")
	req.PrimaryColor = r.PostFormValue("primary_color")
	req.TelegramChat = r.PostFormValue("telegram_chat")
	if raw := r.PostFormValue("active"); raw != "" {
		active := raw != "false" && raw != "0"
		req.Active = &active
	}
	return req, nil
}

// ExportLeads streams an xlsx workbook with every captured lead,
// one sheet per client.
func (h *Handler) ExportLeads(w http.ResponseWriter, r *http.Request) {
	started := time.Now()
	rows, err := h.leads.ListLeads(r.Context())
	if h.metrics != nil {
		h.metrics.DBQueryDuration.WithLabelValues("list_leads").Observe(time.Since(started).Seconds())
	}
	if err != nil {
		h.log.ErrorContext(r.Context(), "Failed to list leads", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	excelRows := make([]report.ExcelRow, 0, len(rows))
	for _, row := range rows {
		excelRows = append(excelRows, report.ExcelRow{
			ID:        row.ID,
			Client:    row.ClientTitle,
			Phone:     row.Phone,
			CreatedAt: row.CreatedAt,
		})
	}

	started = time.Now()
	buffer, err := report.GenerateExcelReport(excelRows)
	if err != nil {
		if errors.Is(err, report.ErrNoLeads) {
			http.Error(w, "No leads captured yet", http.StatusNotFound)
			return
		}
		h.log.ErrorContext(r.Context(), "Failed to generate lead export", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if h.metrics != nil {
		h.metrics.ReportGeneration.WithLabelValues("xlsx").Observe(time.Since(started).Seconds())
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="leads.xlsx"`)
	if _, err = w.Write(buffer.Bytes()); err != nil {
		h.log.ErrorContext(r.Context(), "Failed to write lead export", "error", err)
	}
}

func (h *Handler) respondJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(map[string]string{"error": message}); err != nil {
		h.log.Error("Failed to write error response", "error", err)
	}
}
