// Package sequence allocates per-(kind, district, year) document numbers.
package sequence

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	postgres "github.com/heartmarshall/dossier-issuance/internal/adapter/postgres"
	"github.com/heartmarshall/dossier-issuance/internal/domain"
)

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// Allocator derives the next number from the records already holding a
// number in the bucket. The value is only stable while the caller's
// transaction holds the bucket lock, so Next refuses to run outside one.
type Allocator struct {
	q postgres.Querier
}

// New creates an allocator. q is the fallback querier; Next itself always
// runs on the transaction found in the context.
func New(q postgres.Querier) *Allocator {
	return &Allocator{q: q}
}

// BucketKey is the advisory lock key of a numbering bucket.
func BucketKey(kind domain.DocumentKind, districtID uuid.UUID, year int) string {
	return fmt.Sprintf("seq|%s|%s|%d", kind, districtID, year)
}

// Next locks the (kind, district, year) bucket for the rest of the
// transaction and returns count+1 formatted as NNN/YY. Both ACTIVE and
// SUPERSEDED records are counted.
func (a *Allocator) Next(ctx context.Context, kind domain.DocumentKind, districtID uuid.UUID, year int) (string, error) {
	if !postgres.InTx(ctx) {
		return "", fmt.Errorf("allocate %s number: transaction required", kind)
	}

	if err := postgres.AcquireXactLock(ctx, BucketKey(kind, districtID, year)); err != nil {
		return "", fmt.Errorf("lock number bucket: %w", err)
	}

	sql, args, err := psql.Select("COUNT(*)").
		From("documents").
		Where(squirrel.Eq{
			"kind":        string(kind),
			"district_id": districtID,
			"number_year": year,
			"status":      []string{string(domain.DocumentStatusActive), string(domain.DocumentStatusSuperseded)},
		}).
		Where(squirrel.NotEq{"document_number": nil}).
		ToSql()
	if err != nil {
		return "", fmt.Errorf("build count query: %w", err)
	}

	var count int
	if err := postgres.QuerierFromCtx(ctx, a.q).QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return "", postgres.MapError(err, "number bucket", BucketKey(kind, districtID, year))
	}

	return domain.FormatDocumentNumber(count+1, year), nil
}
