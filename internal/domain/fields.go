package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the date format used in rendered documents.
const DateLayout = "02/01/2006"

// FieldSet is the typed field snapshot of one document kind. It is validated
// before rendering and stored with the record so the artifact can be
// regenerated byte-for-byte.
type FieldSet interface {
	Kind() DocumentKind
	Validate() error
	// Discriminator is the human part of the artifact file name: the scoped
	// applicant's name, or the property lot code for property-wide documents.
	Discriminator() string
	// ApplicantCount is the number of applicants bound to the property.
	ApplicantCount() int
	// RenderValues returns the template variables contributed by the fields.
	RenderValues() map[string]string
	// Property returns the property facts shared by every kind.
	Property() PropertySubject
}

// PropertySubject holds the property facts common to every document kind.
type PropertySubject struct {
	CaseNumber      string          `json:"case_number"`
	LotCode         string          `json:"lot_code"`
	Address         string          `json:"address,omitempty"`
	Area            decimal.Decimal `json:"area"`
	LandUseCategory string          `json:"land_use_category"`
}

// Property returns p. Field sets embed PropertySubject, so this satisfies
// FieldSet.Property for all of them.
func (p PropertySubject) Property() PropertySubject { return p }

func (p PropertySubject) validate() []FieldError {
	var errs []FieldError
	if strings.TrimSpace(p.CaseNumber) == "" {
		errs = append(errs, FieldError{Field: "case_number", Message: "required"})
	}
	if strings.TrimSpace(p.LotCode) == "" {
		errs = append(errs, FieldError{Field: "lot_code", Message: "required"})
	}
	if p.Area.IsNegative() {
		errs = append(errs, FieldError{Field: "area", Message: "must be non-negative"})
	}
	return errs
}

func (p PropertySubject) values() map[string]string {
	return map[string]string{
		"case_number":       p.CaseNumber,
		"lot_code":          p.LotCode,
		"address":           p.Address,
		"area":              p.Area.String(),
		"land_use_category": p.LandUseCategory,
	}
}

// ReceiptFields is the snapshot of a payment receipt.
type ReceiptFields struct {
	PropertySubject
	ApplicantName       string   `json:"applicant_name"`
	ApplicantNationalID string   `json:"applicant_national_id,omitempty"`
	CoApplicants        []string `json:"co_applicants,omitempty"`
}

func (f *ReceiptFields) Kind() DocumentKind { return DocumentKindReceipt }

func (f *ReceiptFields) Validate() error {
	errs := f.PropertySubject.validate()
	if strings.TrimSpace(f.ApplicantName) == "" {
		errs = append(errs, FieldError{Field: "applicant_name", Message: "required"})
	}
	if strings.TrimSpace(f.LandUseCategory) == "" {
		errs = append(errs, FieldError{Field: "land_use_category", Message: "required"})
	}
	if f.Area.IsZero() {
		errs = append(errs, FieldError{Field: "area", Message: "required"})
	}
	return toValidationError(errs)
}

func (f *ReceiptFields) Discriminator() string { return f.ApplicantName }

func (f *ReceiptFields) ApplicantCount() int { return 1 + len(f.CoApplicants) }

func (f *ReceiptFields) RenderValues() map[string]string {
	v := f.PropertySubject.values()
	v["applicant_name"] = f.ApplicantName
	v["applicant_national_id"] = f.ApplicantNationalID
	v["co_applicants"] = strings.Join(f.CoApplicants, ", ")
	return v
}

// SaleDeedFields is the snapshot of a sale deed for a whole property.
type SaleDeedFields struct {
	PropertySubject
	Owners         []string   `json:"owners"`
	ApprovalDate   *time.Time `json:"approval_date,omitempty"`
	OrderReference string     `json:"order_reference,omitempty"`
}

func (f *SaleDeedFields) Kind() DocumentKind { return DocumentKindSaleDeed }

func (f *SaleDeedFields) Validate() error {
	errs := f.PropertySubject.validate()
	if len(nonBlank(f.Owners)) == 0 {
		errs = append(errs, FieldError{Field: "owners", Message: "at least one owner required"})
	}
	if f.ApprovalDate == nil || f.ApprovalDate.IsZero() {
		errs = append(errs, FieldError{Field: "approval_date", Message: "required"})
	}
	return toValidationError(errs)
}

func (f *SaleDeedFields) Discriminator() string { return f.LotCode }

func (f *SaleDeedFields) ApplicantCount() int { return len(nonBlank(f.Owners)) }

func (f *SaleDeedFields) RenderValues() map[string]string {
	v := f.PropertySubject.values()
	v["owners"] = strings.Join(f.Owners, ", ")
	v["approval_date"] = formatDate(f.ApprovalDate)
	v["order_reference"] = f.OrderReference
	return v
}

// FinancialCertFields is the snapshot of a certificate that an applicant has
// settled what they owe for a property.
type FinancialCertFields struct {
	PropertySubject
	ApplicantName       string     `json:"applicant_name"`
	ApplicantNationalID string     `json:"applicant_national_id,omitempty"`
	CoApplicants        []string   `json:"co_applicants,omitempty"`
	ReceiptNumber       string     `json:"receipt_number"`
	AmountPaid          int64      `json:"amount_paid"`
	PaymentDate         *time.Time `json:"payment_date,omitempty"`
}

func (f *FinancialCertFields) Kind() DocumentKind { return DocumentKindFinancialCert }

func (f *FinancialCertFields) Validate() error {
	errs := f.PropertySubject.validate()
	if strings.TrimSpace(f.ApplicantName) == "" {
		errs = append(errs, FieldError{Field: "applicant_name", Message: "required"})
	}
	if strings.TrimSpace(f.ReceiptNumber) == "" {
		errs = append(errs, FieldError{Field: "receipt_number", Message: "required"})
	}
	if f.AmountPaid < 0 {
		errs = append(errs, FieldError{Field: "amount_paid", Message: "must be non-negative"})
	}
	if f.PaymentDate == nil || f.PaymentDate.IsZero() {
		errs = append(errs, FieldError{Field: "payment_date", Message: "required"})
	}
	return toValidationError(errs)
}

func (f *FinancialCertFields) Discriminator() string { return f.ApplicantName }

func (f *FinancialCertFields) ApplicantCount() int { return 1 + len(f.CoApplicants) }

func (f *FinancialCertFields) RenderValues() map[string]string {
	v := f.PropertySubject.values()
	v["applicant_name"] = f.ApplicantName
	v["applicant_national_id"] = f.ApplicantNationalID
	v["co_applicants"] = strings.Join(f.CoApplicants, ", ")
	v["receipt_number"] = f.ReceiptNumber
	v["amount_paid"] = strconv.FormatInt(f.AmountPaid, 10)
	v["payment_date"] = formatDate(f.PaymentDate)
	return v
}

// RequisitionFields is the snapshot of a land requisition.
type RequisitionFields struct {
	PropertySubject
	Owners          []string   `json:"owners"`
	RequisitionDate *time.Time `json:"requisition_date,omitempty"`
	ApprovalDate    *time.Time `json:"approval_date,omitempty"`
}

func (f *RequisitionFields) Kind() DocumentKind { return DocumentKindRequisition }

func (f *RequisitionFields) Validate() error {
	errs := f.PropertySubject.validate()
	if len(nonBlank(f.Owners)) == 0 {
		errs = append(errs, FieldError{Field: "owners", Message: "at least one owner required"})
	}
	if f.RequisitionDate == nil || f.RequisitionDate.IsZero() {
		errs = append(errs, FieldError{Field: "requisition_date", Message: "required"})
	}
	switch {
	case f.ApprovalDate == nil || f.ApprovalDate.IsZero():
		errs = append(errs, FieldError{Field: "approval_date", Message: "required"})
	case f.RequisitionDate != nil && f.ApprovalDate.Before(*f.RequisitionDate):
		errs = append(errs, FieldError{Field: "approval_date", Message: "must not be earlier than requisition_date"})
	}
	return toValidationError(errs)
}

func (f *RequisitionFields) Discriminator() string { return f.LotCode }

func (f *RequisitionFields) ApplicantCount() int { return len(nonBlank(f.Owners)) }

func (f *RequisitionFields) RenderValues() map[string]string {
	v := f.PropertySubject.values()
	v["owners"] = strings.Join(f.Owners, ", ")
	v["requisition_date"] = formatDate(f.RequisitionDate)
	v["approval_date"] = formatDate(f.ApprovalDate)
	return v
}

// NewFieldSet returns an empty field set for kind.
func NewFieldSet(kind DocumentKind) (FieldSet, error) {
	switch kind {
	case DocumentKindReceipt:
		return &ReceiptFields{}, nil
	case DocumentKindSaleDeed:
		return &SaleDeedFields{}, nil
	case DocumentKindFinancialCert:
		return &FinancialCertFields{}, nil
	case DocumentKindRequisition:
		return &RequisitionFields{}, nil
	}
	return nil, NewValidationError("kind", fmt.Sprintf("unknown document kind %q", kind))
}

// DecodeFieldSet decodes a JSON snapshot into the field set of kind.
// Unknown fields are rejected.
func DecodeFieldSet(kind DocumentKind, raw []byte) (FieldSet, error) {
	fs, err := NewFieldSet(kind)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return fs, nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(fs); err != nil {
		return nil, NewValidationError("fields", fmt.Sprintf("invalid %s fields: %v", kind, err))
	}
	return fs, nil
}

func toValidationError(errs []FieldError) error {
	if len(errs) > 0 {
		return NewValidationErrors(errs)
	}
	return nil
}

func nonBlank(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			out = append(out, v)
		}
	}
	return out
}

func formatDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}
