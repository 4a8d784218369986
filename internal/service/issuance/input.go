package issuance

import (
	"errors"

	"github.com/google/uuid"

	"github.com/heartmarshall/dossier-issuance/internal/domain"
)

// IssueInput requests the document of Kind for Scope. Fields are only
// required when no ACTIVE document exists yet.
type IssueInput struct {
	Kind   domain.DocumentKind
	Scope  domain.ScopeKey
	CaseID uuid.UUID
	Fields domain.FieldSet
}

// normalize fills Scope.Kind from Kind when only one of them is set.
func (i *IssueInput) normalize() {
	if i.Scope.Kind == "" {
		i.Scope.Kind = i.Kind
	}
	if i.Kind == "" {
		i.Kind = i.Scope.Kind
	}
}

// Validate checks the parts of the input needed to locate the document.
func (i IssueInput) Validate() error {
	var errs []domain.FieldError

	if i.Kind != i.Scope.Kind {
		errs = append(errs, domain.FieldError{Field: "kind", Message: "does not match scope kind"})
	}
	if err := i.Scope.Validate(); err != nil {
		var ve *domain.ValidationError
		if !errors.As(err, &ve) {
			return err
		}
		errs = append(errs, ve.Errors...)
	}
	if i.Fields != nil && i.Fields.Kind() != i.Scope.Kind {
		errs = append(errs, domain.FieldError{Field: "fields", Message: "field set kind does not match " + i.Scope.Kind.String()})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// validateForCreate checks what is additionally required to issue a new document.
func (i IssueInput) validateForCreate() error {
	var errs []domain.FieldError
	if i.CaseID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "case_id", Message: "required"})
	}
	if i.Fields == nil {
		errs = append(errs, domain.FieldError{Field: "fields", Message: "required"})
	} else if err := i.Fields.Validate(); err != nil {
		var ve *domain.ValidationError
		if !errors.As(err, &ve) {
			return err
		}
		errs = append(errs, ve.Errors...)
	}
	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// Outcome tells how Issue satisfied the request.
type Outcome string

const (
	OutcomeCreated     Outcome = "created"
	OutcomeExisting    Outcome = "existing"
	OutcomeRegenerated Outcome = "regenerated"
)

func (o Outcome) String() string { return string(o) }

// IssueResult is the document returned by Issue.
type IssueResult struct {
	Document domain.DocumentHandle
	Outcome  Outcome

	record *domain.DocumentRecord
}
