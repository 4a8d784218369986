// Package document implements the document registry using PostgreSQL.
// Records are created once, then only their artifact location and download
// counter change. Nothing is ever deleted.
package document

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

const table = "documents"

var columns = []string{
	"id", "kind", "property_id", "applicant_id", "district_id", "case_id",
	"document_number", "number_year", "amount", "has_co_applicants", "fields",
	"storage_path", "file_name", "file_size", "content_type", "status",
	"issued_by", "issued_at", "updated_at", "download_count",
}

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// Repo provides document persistence backed by PostgreSQL.
type Repo struct {
	q postgres.Querier
}

// New creates a new document repository. q is used when the context carries
// no transaction; it is normally the pool.
func New(q postgres.Querier) *Repo {
	return &Repo{q: q}
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// FindActiveForUpdate returns the ACTIVE record of scope and row-locks it.
// Must run inside a transaction. Returns domain.ErrNotFound when the scope
// has no active document yet.
func (r *Repo) FindActiveForUpdate(ctx context.Context, scope domain.ScopeKey) (*domain.DocumentRecord, error) {
	query := psql.Select(columns...).
		From(table).
		Where(scopeCond(scope)).
		Where(squirrel.Eq{"status": string(domain.DocumentStatusActive)}).
		Suffix("FOR UPDATE")

	return r.getOne(ctx, query, scope.String())
}

// GetByID returns a record by id.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.DocumentRecord, error) {
	query := psql.Select(columns...).
		From(table).
		Where(squirrel.Eq{"id": id})

	return r.getOne(ctx, query, id)
}

// ListByScope returns every record of scope regardless of status, most
// recently issued first.
func (r *Repo) ListByScope(ctx context.Context, scope domain.ScopeKey) ([]domain.DocumentRecord, error) {
	query := psql.Select(columns...).
		From(table).
		Where(scopeCond(scope)).
		OrderBy("issued_at DESC", "id DESC")

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list documents query: %w", err)
	}

	var rows []row
	if err := pgxscan.Select(ctx, postgres.QuerierFromCtx(ctx, r.q), &rows, sql, args...); err != nil {
		return nil, postgres.MapError(err, "documents of", scope)
	}

	records := make([]domain.DocumentRecord, len(rows))
	for i := range rows {
		records[i] = rows[i].toDomain()
	}
	return records, nil
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// Create inserts a new record. A second ACTIVE record for the same scope, or a
// reused number, fails with domain.ErrAlreadyExists.
func (r *Repo) Create(ctx context.Context, rec *domain.DocumentRecord) error {
	fields := []byte(rec.Fields)
	if len(fields) == 0 {
		fields = []byte(`{}`)
	}

	query := psql.Insert(table).
		Columns(columns...).
		Values(
			rec.ID, string(rec.Scope.Kind), rec.Scope.PropertyID, rec.Scope.ApplicantID, rec.Scope.DistrictID, rec.CaseID,
			rec.DocumentNumber, rec.NumberYear, rec.Amount, rec.HasCoApplicants, fields,
			rec.StoragePath, rec.FileName, rec.FileSize, rec.ContentType, string(rec.Status),
			rec.IssuedBy, rec.IssuedAt, rec.UpdatedAt, rec.DownloadCount,
		)

	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("build insert document query: %w", err)
	}

	if _, err := postgres.QuerierFromCtx(ctx, r.q).Exec(ctx, sql, args...); err != nil {
		return postgres.MapError(err, "document", rec.ID)
	}
	return nil
}

// UpdateArtifact points an existing record at a regenerated artifact. The
// identity columns (number, amount, scope) are left untouched.
func (r *Repo) UpdateArtifact(ctx context.Context, id uuid.UUID, storagePath, fileName string, fileSize int64, updatedAt time.Time) error {
	query := psql.Update(table).
		Set("storage_path", storagePath).
		Set("file_name", fileName).
		Set("file_size", fileSize).
		Set("updated_at", updatedAt).
		Where(squirrel.Eq{"id": id})

	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("build update document query: %w", err)
	}

	tag, err := postgres.QuerierFromCtx(ctx, r.q).Exec(ctx, sql, args...)
	if err != nil {
		return postgres.MapError(err, "document", id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// IncrementDownloadCount bumps the download counter and returns its new value.
func (r *Repo) IncrementDownloadCount(ctx context.Context, id uuid.UUID) (int64, error) {
	query := psql.Update(table).
		Set("download_count", squirrel.Expr("download_count + 1")).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING download_count")

	sql, args, err := query.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build increment download query: %w", err)
	}

	var count int64
	if err := postgres.QuerierFromCtx(ctx, r.q).QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, postgres.MapError(err, "document", id)
	}
	return count, nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func (r *Repo) getOne(ctx context.Context, query squirrel.SelectBuilder, id any) (*domain.DocumentRecord, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select document query: %w", err)
	}

	var rw row
	if err := pgxscan.Get(ctx, postgres.QuerierFromCtx(ctx, r.q), &rw, sql, args...); err != nil {
		return nil, postgres.MapError(err, "document", id)
	}

	rec := rw.toDomain()
	return &rec, nil
}

// scopeCond matches every column of the scope. A nil applicant matches
// applicant_id IS NULL.
func scopeCond(scope domain.ScopeKey) squirrel.Eq {
	cond := squirrel.Eq{
		"kind":        string(scope.Kind),
		"property_id": scope.PropertyID,
		"district_id": scope.DistrictID,
	}
	if scope.ApplicantID != nil {
		cond["applicant_id"] = *scope.ApplicantID
	} else {
		cond["applicant_id"] = nil
	}
	return cond
}
