// Package pricing reads per-district unit prices of land-use categories.
package pricing

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	postgres "github.com/heartmarshall/dossier-issuance/internal/adapter/postgres"
	"github.com/heartmarshall/dossier-issuance/internal/domain"
)

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// Repo is the pricing source backed by the unit_prices table.
type Repo struct {
	q postgres.Querier
}

// New creates a pricing repository.
func New(q postgres.Querier) *Repo {
	return &Repo{q: q}
}

// UnitPrice returns the configured price per area unit for category in
// district. A missing row is a configuration problem the operator must fix,
// reported as *domain.ConfigurationError.
func (r *Repo) UnitPrice(ctx context.Context, districtID uuid.UUID, category string) (int64, error) {
	category = strings.TrimSpace(category)

	sql, args, err := psql.Select("unit_price").
		From("unit_prices").
		Where(squirrel.Eq{"district_id": districtID, "land_use_category": category}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build unit price query: %w", err)
	}

	var price int64
	err = postgres.QuerierFromCtx(ctx, r.q).QueryRow(ctx, sql, args...).Scan(&price)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, domain.NewConfigurationError("unit_price",
			fmt.Sprintf("no unit price configured for land-use category %q in district %s", category, districtID))
	}
	if err != nil {
		return 0, postgres.MapError(err, "unit_price", districtID)
	}
	return price, nil
}
