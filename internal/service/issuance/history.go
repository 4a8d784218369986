package issuance

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/heartmarshall/dossier-issuance/internal/domain"
	"github.com/heartmarshall/dossier-issuance/pkg/ctxutil"
)

// History returns every record issued for scope, most recent first.
func (s *Service) History(ctx context.Context, scope domain.ScopeKey) ([]domain.DocumentHandle, error) {
	ctx, span := tracer.Start(ctx, "issuance.History", trace.WithAttributes(
		attribute.String("document.kind", scope.Kind.String()),
	))
	defer span.End()

	actor, ok := ctxutil.ActorFromCtx(ctx)
	if !ok {
		s.fail(ctx, span, "history", domain.ErrUnauthorized)
		return nil, domain.ErrUnauthorized
	}
	if err := scope.Validate(); err != nil {
		s.fail(ctx, span, "history", err)
		return nil, err
	}
	if !actor.CanAccess(scope.DistrictID) {
		s.fail(ctx, span, "history", domain.ErrForbidden)
		return nil, domain.ErrForbidden
	}

	records, err := s.documents.ListByScope(ctx, scope)
	if err != nil {
		err = fmt.Errorf("list documents: %w", err)
		s.fail(ctx, span, "history", err)
		return nil, err
	}

	handles := make([]domain.DocumentHandle, len(records))
	for i := range records {
		handles[i] = records[i].Handle()
	}
	return handles, nil
}
