package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/heartmarshall/dossier-issuance/internal/domain"
	"github.com/heartmarshall/dossier-issuance/internal/service/issuance"
)

const maxRequestBody = 1 << 20

// issuanceService defines the minimal interface needed by DocumentHandler.
type issuanceService interface {
	Issue(ctx context.Context, input issuance.IssueInput) (*issuance.IssueResult, error)
	Deliver(ctx context.Context, input issuance.IssueInput) (*issuance.Delivery, *issuance.IssueResult, error)
	Download(ctx context.Context, id uuid.UUID) (*issuance.Delivery, error)
	History(ctx context.Context, scope domain.ScopeKey) ([]domain.DocumentHandle, error)
	Activity(ctx context.Context, id uuid.UUID, limit int) ([]domain.ActivityEvent, error)
}

// DocumentHandler serves the document issuance endpoints.
type DocumentHandler struct {
	svc issuanceService
	log *slog.Logger
}

// NewDocumentHandler creates a DocumentHandler.
func NewDocumentHandler(svc issuanceService, logger *slog.Logger) *DocumentHandler {
	return &DocumentHandler{svc: svc, log: logger.With("handler", "documents")}
}

type issueRequest struct {
	Kind        string          `json:"kind"`
	PropertyID  uuid.UUID       `json:"propertyId"`
	ApplicantID *uuid.UUID      `json:"applicantId,omitempty"`
	DistrictID  uuid.UUID       `json:"districtId"`
	CaseID      uuid.UUID       `json:"caseId"`
	Fields      json.RawMessage `json:"fields,omitempty"`
}

type documentResponse struct {
	ID             string    `json:"id"`
	Kind           string    `json:"kind"`
	PropertyID     string    `json:"propertyId"`
	ApplicantID    *string   `json:"applicantId,omitempty"`
	DistrictID     string    `json:"districtId"`
	CaseID         string    `json:"caseId"`
	DocumentNumber *string   `json:"documentNumber,omitempty"`
	Amount         *int64    `json:"amount,omitempty"`
	FileName       string    `json:"fileName"`
	FileSize       int64     `json:"fileSize"`
	ContentType    string    `json:"contentType"`
	Status         string    `json:"status"`
	IssuedBy       string    `json:"issuedBy"`
	IssuedAt       time.Time `json:"issuedAt"`
	DownloadCount  int64     `json:"downloadCount"`
	Outcome        string    `json:"outcome,omitempty"`
}

type historyResponse struct {
	Items []documentResponse `json:"items"`
}

type activityEventResponse struct {
	ID         string    `json:"id"`
	Action     string    `json:"action"`
	ActorID    string    `json:"actorId"`
	RequestID  string    `json:"requestId,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

type activityResponse struct {
	DocumentID string                  `json:"documentId"`
	Items      []activityEventResponse `json:"items"`
}

type fieldErrorResponse struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error  string               `json:"error"`
	Fields []fieldErrorResponse `json:"fields,omitempty"`
}

// Issue handles POST /api/v1/documents. With ?deliver=true the artifact is
// streamed back instead of the JSON handle.
func (h *DocumentHandler) Issue(w http.ResponseWriter, r *http.Request) {
	var req issueRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	input, err := req.toInput()
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	if deliver, _ := strconv.ParseBool(r.URL.Query().Get("deliver")); deliver {
		d, result, err := h.svc.Deliver(r.Context(), input)
		if err != nil {
			h.handleError(w, r, err)
			return
		}
		defer d.Close()
		w.Header().Set("X-Issue-Outcome", result.Outcome.String())
		h.stream(w, r, d)
		return
	}

	result, err := h.svc.Issue(r.Context(), input)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	status := http.StatusOK
	if result.Outcome == issuance.OutcomeCreated {
		status = http.StatusCreated
	}
	resp := toDocumentResponse(result.Document)
	resp.Outcome = result.Outcome.String()
	writeJSON(w, status, resp)
}

// Content handles GET /api/v1/documents/{id}/content.
func (h *DocumentHandler) Content(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid document id")
		return
	}

	d, err := h.svc.Download(r.Context(), id)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	defer d.Close()

	h.stream(w, r, d)
}

// History handles GET /api/v1/documents/history.
func (h *DocumentHandler) History(w http.ResponseWriter, r *http.Request) {
	scope, err := scopeFromQuery(r)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	handles, err := h.svc.History(r.Context(), scope)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	resp := historyResponse{Items: make([]documentResponse, len(handles))}
	for i, d := range handles {
		resp.Items[i] = toDocumentResponse(d)
	}
	writeJSON(w, http.StatusOK, resp)
}

// Activity handles GET /api/v1/documents/{id}/activity?limit=N.
func (h *DocumentHandler) Activity(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid document id")
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if limit, err = strconv.Atoi(raw); err != nil || limit < 0 {
			writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
	}

	events, err := h.svc.Activity(r.Context(), id, limit)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	resp := activityResponse{DocumentID: id.String(), Items: make([]activityEventResponse, len(events))}
	for i, ev := range events {
		resp.Items[i] = activityEventResponse{
			ID:         ev.ID.String(),
			Action:     ev.Action.String(),
			ActorID:    ev.ActorID.String(),
			RequestID:  ev.RequestID,
			OccurredAt: ev.OccurredAt,
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *DocumentHandler) stream(w http.ResponseWriter, r *http.Request, d *issuance.Delivery) {
	doc := d.Document
	w.Header().Set("Content-Type", doc.ContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": doc.FileName}))
	w.Header().Set("Content-Length", strconv.FormatInt(doc.FileSize, 10))
	w.Header().Set("X-Document-Id", doc.ID.String())
	if doc.DocumentNumber != nil {
		w.Header().Set("X-Document-Number", *doc.DocumentNumber)
	}
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, d); err != nil {
		h.log.WarnContext(r.Context(), "artifact stream interrupted",
			slog.String("document_id", doc.ID.String()),
			slog.String("error", err.Error()),
		)
	}
}

func (h *DocumentHandler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	var ve *domain.ValidationError
	var ce *domain.ConfigurationError

	switch {
	case errors.As(err, &ve):
		resp := errorResponse{Error: "validation failed", Fields: make([]fieldErrorResponse, len(ve.Errors))}
		for i, fe := range ve.Errors {
			resp.Fields[i] = fieldErrorResponse{Field: fe.Field, Message: fe.Message}
		}
		writeJSON(w, http.StatusUnprocessableEntity, resp)
	case errors.As(err, &ce):
		writeError(w, http.StatusUnprocessableEntity, ce.Message)
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, domain.ErrForbidden):
		writeError(w, http.StatusForbidden, "forbidden")
	case errors.Is(err, domain.ErrLockTimeout):
		w.Header().Set("Retry-After", "1")
		writeError(w, http.StatusServiceUnavailable, "document is busy, retry later")
	default:
		h.log.ErrorContext(r.Context(), "internal error", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func (req issueRequest) toInput() (issuance.IssueInput, error) {
	kind, err := domain.ParseDocumentKind(req.Kind)
	if err != nil {
		return issuance.IssueInput{}, err
	}

	input := issuance.IssueInput{
		Kind: kind,
		Scope: domain.ScopeKey{
			Kind:        kind,
			PropertyID:  req.PropertyID,
			ApplicantID: req.ApplicantID,
			DistrictID:  req.DistrictID,
		},
		CaseID: req.CaseID,
	}

	if raw := bytes.TrimSpace(req.Fields); len(raw) > 0 && !bytes.Equal(raw, []byte("null")) {
		fields, err := domain.DecodeFieldSet(kind, raw)
		if err != nil {
			return issuance.IssueInput{}, err
		}
		input.Fields = fields
	}
	return input, nil
}

func scopeFromQuery(r *http.Request) (domain.ScopeKey, error) {
	q := r.URL.Query()

	kind, err := domain.ParseDocumentKind(q.Get("kind"))
	if err != nil {
		return domain.ScopeKey{}, err
	}
	scope := domain.ScopeKey{Kind: kind}

	var errs []domain.FieldError
	parse := func(name string) uuid.UUID {
		id, err := uuid.Parse(q.Get(name))
		if err != nil {
			errs = append(errs, domain.FieldError{Field: name, Message: "must be a UUID"})
		}
		return id
	}
	scope.PropertyID = parse("property_id")
	scope.DistrictID = parse("district_id")
	if q.Get("applicant_id") != "" {
		applicant := parse("applicant_id")
		scope.ApplicantID = &applicant
	}

	if len(errs) > 0 {
		return domain.ScopeKey{}, domain.NewValidationErrors(errs)
	}
	return scope, nil
}

func toDocumentResponse(d domain.DocumentHandle) documentResponse {
	resp := documentResponse{
		ID:             d.ID.String(),
		Kind:           d.Kind.String(),
		PropertyID:     d.Scope.PropertyID.String(),
		DistrictID:     d.Scope.DistrictID.String(),
		CaseID:         d.CaseID.String(),
		DocumentNumber: d.DocumentNumber,
		Amount:         d.Amount,
		FileName:       d.FileName,
		FileSize:       d.FileSize,
		ContentType:    d.ContentType,
		Status:         d.Status.String(),
		IssuedBy:       d.IssuedBy.String(),
		IssuedAt:       d.IssuedAt,
		DownloadCount:  d.DownloadCount,
	}
	if d.Scope.ApplicantID != nil {
		s := d.Scope.ApplicantID.String()
		resp.ApplicantID = &s
	}
	return resp
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}
