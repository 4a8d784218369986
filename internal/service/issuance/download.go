package issuance

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/heartmarshall/dossier-issuance/internal/domain"
	"github.com/heartmarshall/dossier-issuance/pkg/ctxutil"
)

// Delivery is an artifact handed to a caller. The caller must Close it.
type Delivery struct {
	Document domain.DocumentHandle
	Body     io.ReadCloser
}

func (d *Delivery) Read(p []byte) (int, error) { return d.Body.Read(p) }

// Close releases the reader. It is safe to call more than once.
func (d *Delivery) Close() error {
	if d == nil || d.Body == nil {
		return nil
	}
	err := d.Body.Close()
	d.Body = nil
	return err
}

// Gateway serves stored artifacts and accounts for every delivery.
type Gateway struct {
	log      *slog.Logger
	store    artifactStore
	counter  downloadCounter
	activity activityLog
	metrics  metricsRecorder
}

// NewGateway creates a new download Gateway.
func NewGateway(
	logger *slog.Logger,
	store artifactStore,
	counter downloadCounter,
	activity activityLog,
	metrics metricsRecorder,
) *Gateway {
	return &Gateway{
		log:      logger.With("service", "download"),
		store:    store,
		counter:  counter,
		activity: activity,
		metrics:  metrics,
	}
}

// Serve opens the artifact of rec, which the caller has already verified.
// The download counter is incremented and one activity event is emitted;
// neither can fail the delivery.
func (g *Gateway) Serve(ctx context.Context, rec *domain.DocumentRecord, action domain.ActivityAction) (*Delivery, error) {
	body, err := g.store.Open(ctx, rec.StoragePath)
	if err != nil {
		g.log.ErrorContext(ctx, "open artifact failed",
			slog.String("document_id", rec.ID.String()),
			slog.String("path", rec.StoragePath),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("open artifact: %w", err)
	}

	handle := rec.Handle()
	count, err := g.counter.IncrementDownloadCount(context.WithoutCancel(ctx), rec.ID)
	if err != nil {
		g.log.WarnContext(ctx, "download count not updated",
			slog.String("document_id", rec.ID.String()),
			slog.String("error", err.Error()),
		)
	} else {
		handle.DownloadCount = count
	}

	emitActivity(ctx, g.log, g.activity, g.metrics, action, rec)
	g.metrics.IncDownload(rec.Kind().String())

	return &Delivery{Document: handle, Body: body}, nil
}

// Download serves the document with id. A missing or truncated artifact of an
// ACTIVE document is regenerated first.
func (s *Service) Download(ctx context.Context, id uuid.UUID) (*Delivery, error) {
	ctx, span := tracer.Start(ctx, "issuance.Download", trace.WithAttributes(
		attribute.String("document.id", id.String()),
	))
	defer span.End()

	d, err := s.download(ctx, id)
	if err != nil {
		s.fail(ctx, span, "download", err)
		return nil, err
	}
	return d, nil
}

func (s *Service) download(ctx context.Context, id uuid.UUID) (*Delivery, error) {
	actor, ok := ctxutil.ActorFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	rec, err := s.documents.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get document: %w", err)
	}
	if !actor.CanAccess(rec.Scope.DistrictID) {
		return nil, domain.ErrForbidden
	}

	ok, err = s.store.Verify(ctx, rec.StoragePath, rec.FileSize)
	if err != nil {
		return nil, fmt.Errorf("verify artifact: %w", err)
	}
	if !ok {
		if rec, err = s.restoreArtifact(ctx, rec); err != nil {
			return nil, err
		}
		return s.gateway.Serve(ctx, rec, domain.ActivityActionDownload)
	}

	d, err := s.gateway.Serve(ctx, rec, domain.ActivityActionDownload)
	if !errors.Is(err, domain.ErrNotFound) {
		return d, err
	}
	// The artifact vanished after it was verified.
	if rec, err = s.restoreArtifact(ctx, rec); err != nil {
		return nil, err
	}
	return s.gateway.Serve(ctx, rec, domain.ActivityActionDownload)
}

// restoreArtifact regenerates the missing artifact of an ACTIVE document under
// the scope lock and returns the refreshed record.
func (s *Service) restoreArtifact(ctx context.Context, rec *domain.DocumentRecord) (*domain.DocumentRecord, error) {
	if rec.Status != domain.DocumentStatusActive {
		return nil, domain.NewStorageError("open", rec.StoragePath, errors.New("artifact of superseded document is missing"))
	}
	result, err := s.ensureArtifact(ctx, rec.Scope)
	if err != nil {
		return nil, err
	}
	return result.record, nil
}

// Deliver issues the document for input and serves it in one call.
func (s *Service) Deliver(ctx context.Context, input IssueInput) (*Delivery, *IssueResult, error) {
	result, err := s.Issue(ctx, input)
	if err != nil {
		return nil, nil, err
	}
	d, err := s.gateway.Serve(ctx, result.record, domain.ActivityActionDownload)
	if err != nil {
		s.metrics.IncFailure("deliver", failureReason(err))
		return nil, nil, err
	}
	return d, result, nil
}
