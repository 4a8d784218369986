// Package activity implements the append-only document activity log using
// PostgreSQL.
package activity

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"

	postgres "github.com/heartmarshall/dossier-issuance/internal/adapter/postgres"
	"github.com/heartmarshall/dossier-issuance/internal/domain"
)

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// Repo provides activity log persistence backed by PostgreSQL.
type Repo struct {
	q postgres.Querier
}

// New creates a new activity repository.
func New(q postgres.Querier) *Repo {
	return &Repo{q: q}
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// Record appends one event. Missing id and timestamp are filled in.
func (r *Repo) Record(ctx context.Context, ev domain.ActivityEvent) error {
	if ev.ID == uuid.Nil {
		ev.ID = uuid.New()
	}
	if ev.OccurredAt.IsZero() {
		ev.OccurredAt = time.Now().UTC()
	}

	sql, args, err := psql.Insert("activity_log").
		Columns("id", "action", "kind", "document_id", "property_id", "applicant_id",
			"district_id", "actor_id", "request_id", "occurred_at").
		Values(ev.ID, string(ev.Action), string(ev.Kind), ev.DocumentID, ev.Scope.PropertyID, ev.Scope.ApplicantID,
			ev.Scope.DistrictID, ev.ActorID, ev.RequestID, ev.OccurredAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert activity query: %w", err)
	}

	if _, err := postgres.QuerierFromCtx(ctx, r.q).Exec(ctx, sql, args...); err != nil {
		return postgres.MapError(err, "activity_event", ev.ID)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

type row struct {
	ID          uuid.UUID  `db:"id"`
	Action      string     `db:"action"`
	Kind        string     `db:"kind"`
	DocumentID  uuid.UUID  `db:"document_id"`
	PropertyID  uuid.UUID  `db:"property_id"`
	ApplicantID *uuid.UUID `db:"applicant_id"`
	DistrictID  uuid.UUID  `db:"district_id"`
	ActorID     uuid.UUID  `db:"actor_id"`
	RequestID   string     `db:"request_id"`
	OccurredAt  time.Time  `db:"occurred_at"`
}

// ListByDocument returns the events of a document, newest first, limited to
// limit records.
func (r *Repo) ListByDocument(ctx context.Context, documentID uuid.UUID, limit int) ([]domain.ActivityEvent, error) {
	sql, args, err := psql.Select("id", "action", "kind", "document_id", "property_id", "applicant_id",
		"district_id", "actor_id", "request_id", "occurred_at").
		From("activity_log").
		Where(squirrel.Eq{"document_id": documentID}).
		OrderBy("occurred_at DESC", "id DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list activity query: %w", err)
	}

	var rows []row
	if err := pgxscan.Select(ctx, postgres.QuerierFromCtx(ctx, r.q), &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("list activity of document %s: %w", documentID, err)
	}

	events := make([]domain.ActivityEvent, len(rows))
	for i, rw := range rows {
		kind := domain.DocumentKind(rw.Kind)
		events[i] = domain.ActivityEvent{
			ID:         rw.ID,
			Action:     domain.ActivityAction(rw.Action),
			Kind:       kind,
			DocumentID: rw.DocumentID,
			Scope: domain.ScopeKey{
				Kind:        kind,
				PropertyID:  rw.PropertyID,
				ApplicantID: rw.ApplicantID,
				DistrictID:  rw.DistrictID,
			},
			ActorID:    rw.ActorID,
			RequestID:  rw.RequestID,
			OccurredAt: rw.OccurredAt,
		}
	}
	return events, nil
}
