package testhelper

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/dossier-issuance/internal/domain"
)

// uniqueSuffix returns a short unique string for generating non-conflicting test data.
func uniqueSuffix() string {
	return uuid.New().String()[:8]
}

// SeedDistrict creates a district with a unique slug. Every test works in its
// own district, which also gives it a fresh numbering bucket.
func SeedDistrict(t *testing.T, pool *pgxpool.Pool) domain.District {
	t.Helper()

	suffix := uniqueSuffix()
	district := domain.District{
		ID:   uuid.New(),
		Slug: "district-" + suffix,
		Name: "District " + suffix,
	}

	_, err := pool.Exec(context.Background(),
		`INSERT INTO districts (id, slug, name) VALUES ($1, $2, $3)`,
		district.ID, district.Slug, district.Name,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedDistrict: %v", err)
	}

	return district
}

// SeedUnitPrice configures the unit price of a land-use category in a district.
func SeedUnitPrice(t *testing.T, pool *pgxpool.Pool, districtID uuid.UUID, category string, price int64) {
	t.Helper()

	_, err := pool.Exec(context.Background(),
		`INSERT INTO unit_prices (district_id, land_use_category, unit_price) VALUES ($1, $2, $3)
		 ON CONFLICT (district_id, land_use_category) DO UPDATE SET unit_price = EXCLUDED.unit_price, updated_at = now()`,
		districtID, category, price,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedUnitPrice: %v", err)
	}
}

// SeedDocument inserts an ACTIVE document record directly, bypassing issuance.
// Zero-valued fields of rec are filled with plausible defaults.
func SeedDocument(t *testing.T, pool *pgxpool.Pool, rec domain.DocumentRecord) domain.DocumentRecord {
	t.Helper()

	now := time.Now().UTC().Truncate(time.Microsecond)
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	if rec.Scope.PropertyID == uuid.Nil {
		rec.Scope.PropertyID = uuid.New()
	}
	if rec.CaseID == uuid.Nil {
		rec.CaseID = uuid.New()
	}
	if rec.IssuedBy == uuid.Nil {
		rec.IssuedBy = uuid.New()
	}
	if rec.IssuedAt.IsZero() {
		rec.IssuedAt = now
	}
	if rec.UpdatedAt.IsZero() {
		rec.UpdatedAt = rec.IssuedAt
	}
	if rec.NumberYear == 0 {
		rec.NumberYear = rec.IssuedAt.Year()
	}
	if rec.Status == "" {
		rec.Status = domain.DocumentStatusActive
	}
	if rec.StoragePath == "" {
		rec.StoragePath = string(rec.Scope.Kind) + "/seed/" + rec.ID.String() + ".docx"
	}
	if rec.FileName == "" {
		rec.FileName = rec.ID.String() + ".docx"
	}
	if rec.ContentType == "" {
		rec.ContentType = "application/octet-stream"
	}
	if len(rec.Fields) == 0 {
		rec.Fields = []byte(`{}`)
	}

	_, err := pool.Exec(context.Background(),
		`INSERT INTO documents (id, kind, property_id, applicant_id, district_id, case_id,
		     document_number, number_year, amount, has_co_applicants, fields,
		     storage_path, file_name, file_size, content_type, status,
		     issued_by, issued_at, updated_at, download_count)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)`,
		rec.ID, string(rec.Scope.Kind), rec.Scope.PropertyID, rec.Scope.ApplicantID, rec.Scope.DistrictID, rec.CaseID,
		rec.DocumentNumber, rec.NumberYear, rec.Amount, rec.HasCoApplicants, rec.Fields,
		rec.StoragePath, rec.FileName, rec.FileSize, rec.ContentType, string(rec.Status),
		rec.IssuedBy, rec.IssuedAt, rec.UpdatedAt, rec.DownloadCount,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedDocument: %v", err)
	}

	return rec
}
