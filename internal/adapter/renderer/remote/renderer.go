// Package remote renders documents through an HTTP template service.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/heartmarshall/dossier-issuance/internal/domain"
)

// maxDocumentSize caps the body read from the service.
const maxDocumentSize = 32 << 20

var errTooLarge = errors.New("rendered document exceeds size limit")

type renderRequest struct {
	Kind   string            `json:"kind"`
	Values map[string]string `json:"values"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Renderer posts field values to {baseURL}/render/{KIND} and returns the
// response body as the document.
type Renderer struct {
	baseURL    string
	format     domain.FileFormat
	httpClient *http.Client
	log        *slog.Logger
}

// New creates a Renderer. format describes what the service produces.
func New(baseURL string, timeout time.Duration, format domain.FileFormat, logger *slog.Logger) *Renderer {
	return &Renderer{
		baseURL:    strings.TrimRight(baseURL, "/"),
		format:     format,
		httpClient: &http.Client{Timeout: timeout},
		log:        logger.With("adapter", "renderer_remote"),
	}
}

// Format returns the file format of rendered documents.
func (r *Renderer) Format() domain.FileFormat { return r.format }

// Render renders one document. A 404 or 422 from the service means the
// template for kind is not configured and is reported as
// *domain.ConfigurationError; every other failure is a *domain.RenderError.
func (r *Renderer) Render(ctx context.Context, kind domain.DocumentKind, values map[string]string) ([]byte, error) {
	payload, err := json.Marshal(renderRequest{Kind: string(kind), Values: values})
	if err != nil {
		return nil, domain.NewRenderError(kind, fmt.Errorf("encode request: %w", err))
	}
	reqURL := r.baseURL + "/render/" + url.PathEscape(string(kind))

	r.log.DebugContext(ctx, "render request", slog.String("kind", string(kind)), slog.Int("values", len(values)))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(payload))
	if err != nil {
		return nil, domain.NewRenderError(kind, fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", r.format.ContentType)

	// One attempt only: the caller holds the scope lock, and a failed render
	// is re-driven by re-invoking issue.
	resp, err := r.httpClient.Do(req)
	if err != nil {
		r.log.ErrorContext(ctx, "render request failed", slog.String("kind", string(kind)), slog.String("error", err.Error()))
		return nil, domain.NewRenderError(kind, fmt.Errorf("request failed: %w", err))
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusUnprocessableEntity:
		msg := readErrorMessage(resp.Body)
		if msg == "" {
			msg = "no template configured for " + string(kind)
		}
		return nil, domain.NewConfigurationError("template", msg)
	default:
		return nil, domain.NewRenderError(kind, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, readErrorMessage(resp.Body)))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentSize+1))
	if err != nil {
		return nil, domain.NewRenderError(kind, fmt.Errorf("read body: %w", err))
	}
	if len(body) > maxDocumentSize {
		return nil, domain.NewRenderError(kind, errTooLarge)
	}
	if len(body) == 0 {
		return nil, domain.NewRenderError(kind, errors.New("empty document"))
	}

	r.log.DebugContext(ctx, "render response",
		slog.String("kind", string(kind)),
		slog.Int("status", resp.StatusCode),
		slog.Int("bytes", len(body)),
	)

	return body, nil
}

func readErrorMessage(body io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil || len(raw) == 0 {
		return ""
	}
	var er errorResponse
	if json.Unmarshal(raw, &er) == nil && er.Error != "" {
		return er.Error
	}
	return strings.TrimSpace(string(raw))
}
