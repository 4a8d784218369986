// Package district implements the district directory using PostgreSQL.
package district

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"

	postgres "github.com/heartmarshall/dossier-issuance/internal/adapter/postgres"
	"github.com/heartmarshall/dossier-issuance/internal/domain"
)

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

type row struct {
	ID   uuid.UUID `db:"id"`
	Slug string    `db:"slug"`
	Name string    `db:"name"`
}

// Repo resolves districts by id.
type Repo struct {
	q postgres.Querier
}

// New creates a district repository.
func New(q postgres.Querier) *Repo {
	return &Repo{q: q}
}

// GetByID returns the district or domain.ErrNotFound.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.District, error) {
	sql, args, err := psql.Select("id", "slug", "name").
		From("districts").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build district query: %w", err)
	}

	var rw row
	if err := pgxscan.Get(ctx, postgres.QuerierFromCtx(ctx, r.q), &rw, sql, args...); err != nil {
		return nil, postgres.MapError(err, "district", id)
	}
	return &domain.District{ID: rw.ID, Slug: rw.Slug, Name: rw.Name}, nil
}
