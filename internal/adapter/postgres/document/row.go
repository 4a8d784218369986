package document

import (
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/dossier-issuance/internal/domain"
)

// row mirrors one documents row for pgxscan.
type row struct {
	ID              uuid.UUID  `db:"id"`
	Kind            string     `db:"kind"`
	PropertyID      uuid.UUID  `db:"property_id"`
	ApplicantID     *uuid.UUID `db:"applicant_id"`
	DistrictID      uuid.UUID  `db:"district_id"`
	CaseID          uuid.UUID  `db:"case_id"`
	DocumentNumber  *string    `db:"document_number"`
	NumberYear      int        `db:"number_year"`
	Amount          *int64     `db:"amount"`
	HasCoApplicants bool       `db:"has_co_applicants"`
	Fields          []byte     `db:"fields"`
	StoragePath     string     `db:"storage_path"`
	FileName        string     `db:"file_name"`
	FileSize        int64      `db:"file_size"`
	ContentType     string     `db:"content_type"`
	Status          string     `db:"status"`
	IssuedBy        uuid.UUID  `db:"issued_by"`
	IssuedAt        time.Time  `db:"issued_at"`
	UpdatedAt       time.Time  `db:"updated_at"`
	DownloadCount   int64      `db:"download_count"`
}

func (r *row) toDomain() domain.DocumentRecord {
	return domain.DocumentRecord{
		ID: r.ID,
		Scope: domain.ScopeKey{
			Kind:        domain.DocumentKind(r.Kind),
			PropertyID:  r.PropertyID,
			ApplicantID: r.ApplicantID,
			DistrictID:  r.DistrictID,
		},
		CaseID:          r.CaseID,
		DocumentNumber:  r.DocumentNumber,
		NumberYear:      r.NumberYear,
		Amount:          r.Amount,
		HasCoApplicants: r.HasCoApplicants,
		Fields:          r.Fields,
		StoragePath:     r.StoragePath,
		FileName:        r.FileName,
		FileSize:        r.FileSize,
		ContentType:     r.ContentType,
		Status:          domain.DocumentStatus(r.Status),
		IssuedBy:        r.IssuedBy,
		IssuedAt:        r.IssuedAt,
		UpdatedAt:       r.UpdatedAt,
		DownloadCount:   r.DownloadCount,
	}
}
