package issuance

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/heartmarshall/dossier-issuance/internal/domain"
	"github.com/heartmarshall/dossier-issuance/pkg/ctxutil"
)

const (
	DefaultActivityLimit = 50
	MaxActivityLimit     = 500
)

// Activity returns the newest activity events of the document with id.
// A non-positive limit means DefaultActivityLimit; larger values are capped
// at MaxActivityLimit.
func (s *Service) Activity(ctx context.Context, id uuid.UUID, limit int) ([]domain.ActivityEvent, error) {
	ctx, span := tracer.Start(ctx, "issuance.Activity", trace.WithAttributes(
		attribute.String("document.id", id.String()),
	))
	defer span.End()

	events, err := s.activityOf(ctx, id, limit)
	if err != nil {
		s.fail(ctx, span, "activity", err)
		return nil, err
	}
	return events, nil
}

func (s *Service) activityOf(ctx context.Context, id uuid.UUID, limit int) ([]domain.ActivityEvent, error) {
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

	switch {
	case limit <= 0:
		limit = DefaultActivityLimit
	case limit > MaxActivityLimit:
		limit = MaxActivityLimit
	}

	events, err := s.trail.ListByDocument(ctx, id, limit)
	if err != nil {
		return nil, fmt.Errorf("list activity: %w", err)
	}
	return events, nil
}
