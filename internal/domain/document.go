package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DocumentKind identifies a legal document type issued for a property.
type DocumentKind string

const (
	DocumentKindReceipt       DocumentKind = "RECEIPT"
	DocumentKindSaleDeed      DocumentKind = "SALE_DEED"
	DocumentKindFinancialCert DocumentKind = "FINANCIAL_CERT"
	DocumentKindRequisition   DocumentKind = "REQUISITION"
)

// AllDocumentKinds lists every supported kind in a stable order.
var AllDocumentKinds = []DocumentKind{
	DocumentKindReceipt,
	DocumentKindSaleDeed,
	DocumentKindFinancialCert,
	DocumentKindRequisition,
}

func (k DocumentKind) String() string { return string(k) }

func (k DocumentKind) IsValid() bool {
	switch k {
	case DocumentKindReceipt, DocumentKindSaleDeed, DocumentKindFinancialCert, DocumentKindRequisition:
		return true
	}
	return false
}

// RequiresApplicant reports whether documents of this kind are scoped to one applicant.
func (k DocumentKind) RequiresApplicant() bool {
	return k == DocumentKindReceipt || k == DocumentKindFinancialCert
}

// IsNumbered reports whether documents of this kind carry a sequence number.
func (k DocumentKind) IsNumbered() bool {
	return k == DocumentKindReceipt
}

// IsPriced reports whether documents of this kind carry an amount computed
// from the district unit price.
func (k DocumentKind) IsPriced() bool {
	return k == DocumentKindReceipt
}

// ParseDocumentKind parses a kind case-insensitively.
func ParseDocumentKind(s string) (DocumentKind, error) {
	k := DocumentKind(strings.ToUpper(strings.TrimSpace(s)))
	if !k.IsValid() {
		return "", NewValidationError("kind", fmt.Sprintf("unknown document kind %q", s))
	}
	return k, nil
}

// DocumentStatus is the lifecycle status of an issued document.
type DocumentStatus string

const (
	DocumentStatusActive     DocumentStatus = "ACTIVE"
	DocumentStatusSuperseded DocumentStatus = "SUPERSEDED"
)

func (s DocumentStatus) String() string { return string(s) }

func (s DocumentStatus) IsValid() bool {
	switch s {
	case DocumentStatusActive, DocumentStatusSuperseded:
		return true
	}
	return false
}

// ScopeKey identifies one logical document: at most one ACTIVE record of
// Kind exists per (PropertyID, ApplicantID, DistrictID).
type ScopeKey struct {
	Kind        DocumentKind
	PropertyID  uuid.UUID
	ApplicantID *uuid.UUID
	DistrictID  uuid.UUID
}

// Validate checks that the scope is complete and that the applicant is
// present exactly when the kind requires one.
func (s ScopeKey) Validate() error {
	var errs []FieldError

	if !s.Kind.IsValid() {
		errs = append(errs, FieldError{Field: "kind", Message: "unknown document kind"})
	}
	if s.PropertyID == uuid.Nil {
		errs = append(errs, FieldError{Field: "property_id", Message: "required"})
	}
	if s.DistrictID == uuid.Nil {
		errs = append(errs, FieldError{Field: "district_id", Message: "required"})
	}
	if s.Kind.IsValid() {
		hasApplicant := s.ApplicantID != nil && *s.ApplicantID != uuid.Nil
		switch {
		case s.Kind.RequiresApplicant() && !hasApplicant:
			errs = append(errs, FieldError{Field: "applicant_id", Message: "required for " + s.Kind.String()})
		case !s.Kind.RequiresApplicant() && s.ApplicantID != nil:
			errs = append(errs, FieldError{Field: "applicant_id", Message: "must be empty for " + s.Kind.String()})
		}
	}

	if len(errs) > 0 {
		return NewValidationErrors(errs)
	}
	return nil
}

// LockKey returns the string used to derive the advisory lock for this scope.
// Two scopes produce the same key only if they are equal.
func (s ScopeKey) LockKey() string {
	applicant := "-"
	if s.ApplicantID != nil {
		applicant = s.ApplicantID.String()
	}
	return "doc|" + string(s.Kind) + "|" + s.PropertyID.String() + "|" + applicant + "|" + s.DistrictID.String()
}

func (s ScopeKey) String() string { return s.LockKey() }

// DocumentRecord is one issued document and the location of its artifact.
type DocumentRecord struct {
	ID              uuid.UUID
	Scope           ScopeKey
	CaseID          uuid.UUID
	DocumentNumber  *string
	NumberYear      int
	Amount          *int64
	HasCoApplicants bool
	Fields          json.RawMessage
	StoragePath     string
	FileName        string
	FileSize        int64
	ContentType     string
	Status          DocumentStatus
	IssuedBy        uuid.UUID
	IssuedAt        time.Time
	UpdatedAt       time.Time
	DownloadCount   int64
}

// Kind is a shorthand for r.Scope.Kind.
func (r *DocumentRecord) Kind() DocumentKind { return r.Scope.Kind }

// Handle returns the caller-facing view of the record.
func (r *DocumentRecord) Handle() DocumentHandle {
	return DocumentHandle{
		ID:             r.ID,
		Kind:           r.Scope.Kind,
		Scope:          r.Scope,
		CaseID:         r.CaseID,
		DocumentNumber: r.DocumentNumber,
		Amount:         r.Amount,
		FileName:       r.FileName,
		FileSize:       r.FileSize,
		ContentType:    r.ContentType,
		Status:         r.Status,
		IssuedBy:       r.IssuedBy,
		IssuedAt:       r.IssuedAt,
		DownloadCount:  r.DownloadCount,
	}
}

// DocumentHandle is what issuance returns to callers. It omits the field
// snapshot and the storage path.
type DocumentHandle struct {
	ID             uuid.UUID
	Kind           DocumentKind
	Scope          ScopeKey
	CaseID         uuid.UUID
	DocumentNumber *string
	Amount         *int64
	FileName       string
	FileSize       int64
	ContentType    string
	Status         DocumentStatus
	IssuedBy       uuid.UUID
	IssuedAt       time.Time
	DownloadCount  int64
}

// FormatDocumentNumber renders a sequence value as NNN/YY.
func FormatDocumentNumber(seq int, year int) string {
	return fmt.Sprintf("%03d/%02d", seq, year%100)
}

// District is the administrative boundary used for access, pricing and numbering.
type District struct {
	ID   uuid.UUID
	Slug string
	Name string
}

// FileFormat describes the artifact files produced by a renderer.
type FileFormat struct {
	Extension   string
	ContentType string
}
