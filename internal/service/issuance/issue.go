package issuance

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/heartmarshall/dossier-issuance/internal/artifact"
	"github.com/heartmarshall/dossier-issuance/internal/domain"
	"github.com/heartmarshall/dossier-issuance/pkg/ctxutil"
)

// Issue returns the ACTIVE document for the input scope, creating it when
// none exists and regenerating its artifact when the stored file is missing
// or truncated. Concurrent calls for the same scope are serialised; all of
// them receive the same record.
func (s *Service) Issue(ctx context.Context, input IssueInput) (*IssueResult, error) {
	start := time.Now()
	input.normalize()

	ctx, span := tracer.Start(ctx, "issuance.Issue", trace.WithAttributes(
		attribute.String("document.kind", input.Kind.String()),
		attribute.String("document.district_id", input.Scope.DistrictID.String()),
	))
	defer span.End()

	result, err := s.issue(ctx, input)
	if err != nil {
		s.fail(ctx, span, "issue", err)
		return nil, err
	}

	span.SetAttributes(
		attribute.String("document.id", result.Document.ID.String()),
		attribute.String("issue.outcome", result.Outcome.String()),
	)
	s.metrics.ObserveIssue(input.Kind.String(), result.Outcome.String(), start)

	switch result.Outcome {
	case OutcomeCreated:
		s.recordActivity(ctx, domain.ActivityActionIssue, result.record)
	case OutcomeRegenerated:
		s.recordActivity(ctx, domain.ActivityActionRegenerate, result.record)
	}

	s.log.InfoContext(ctx, "document issued",
		slog.String("document_id", result.Document.ID.String()),
		slog.String("kind", input.Kind.String()),
		slog.String("outcome", result.Outcome.String()),
	)
	return result, nil
}

func (s *Service) issue(ctx context.Context, input IssueInput) (*IssueResult, error) {
	actor, ok := ctxutil.ActorFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}
	if !actor.CanAccess(input.Scope.DistrictID) {
		return nil, domain.ErrForbidden
	}

	var result *IssueResult
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.locker.Lock(ctx, input.Scope.LockKey()); err != nil {
			return fmt.Errorf("lock scope: %w", err)
		}

		existing, err := s.documents.FindActiveForUpdate(ctx, input.Scope)
		switch {
		case err == nil:
			result, err = s.reuse(ctx, existing)
			return err
		case errors.Is(err, domain.ErrNotFound):
			rec, err := s.create(ctx, input, actor)
			if err != nil {
				return err
			}
			result = &IssueResult{Document: rec.Handle(), Outcome: OutcomeCreated, record: rec}
			return nil
		default:
			return fmt.Errorf("find active document: %w", err)
		}
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// reuse returns rec as-is when its artifact is intact and regenerates it otherwise.
// It runs under the scope lock.
func (s *Service) reuse(ctx context.Context, rec *domain.DocumentRecord) (*IssueResult, error) {
	ok, err := s.store.Verify(ctx, rec.StoragePath, rec.FileSize)
	if err != nil {
		return nil, fmt.Errorf("verify artifact: %w", err)
	}
	if ok {
		return &IssueResult{Document: rec.Handle(), Outcome: OutcomeExisting, record: rec}, nil
	}

	s.log.WarnContext(ctx, "artifact missing or truncated, regenerating",
		slog.String("document_id", rec.ID.String()),
		slog.String("path", rec.StoragePath),
	)
	if err := s.regenerate(ctx, rec); err != nil {
		return nil, err
	}
	return &IssueResult{Document: rec.Handle(), Outcome: OutcomeRegenerated, record: rec}, nil
}

// create issues a new ACTIVE document. It runs under the scope lock.
func (s *Service) create(ctx context.Context, input IssueInput, actor domain.Actor) (*domain.DocumentRecord, error) {
	if err := input.validateForCreate(); err != nil {
		return nil, err
	}

	district, err := s.districts.GetByID(ctx, input.Scope.DistrictID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NewValidationError("district_id", "unknown district")
		}
		return nil, fmt.Errorf("get district: %w", err)
	}

	fields := input.Fields
	now := s.clock()
	rec := &domain.DocumentRecord{
		ID:              uuid.New(),
		Scope:           input.Scope,
		CaseID:          input.CaseID,
		NumberYear:      now.Year(),
		HasCoApplicants: fields.ApplicantCount() > 1,
		Status:          domain.DocumentStatusActive,
		IssuedBy:        actor.UserID,
		IssuedAt:        now,
		UpdatedAt:       now,
	}

	if input.Kind.IsPriced() {
		property := fields.Property()
		price, err := s.pricing.UnitPrice(ctx, district.ID, property.LandUseCategory)
		if err != nil {
			return nil, fmt.Errorf("unit price: %w", err)
		}
		amount, err := ComputeAmount(price, property.Area)
		if err != nil {
			return nil, err
		}
		rec.Amount = &amount
	}

	if input.Kind.IsNumbered() {
		number, err := s.sequence.Next(ctx, input.Kind, district.ID, rec.NumberYear)
		if err != nil {
			return nil, fmt.Errorf("allocate number: %w", err)
		}
		rec.DocumentNumber = &number
	}

	rec.Fields, err = json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("marshal fields: %w", err)
	}

	if err := s.renderAndStore(ctx, rec, fields, district, now); err != nil {
		return nil, err
	}

	if err := s.documents.Create(ctx, rec); err != nil {
		return nil, fmt.Errorf("create document: %w", err)
	}
	return rec, nil
}

// renderAndStore renders rec and writes the artifact at a fresh path derived
// from ts, updating the artifact fields of rec.
func (s *Service) renderAndStore(ctx context.Context, rec *domain.DocumentRecord, fields domain.FieldSet, district *domain.District, ts time.Time) error {
	data, err := s.renderer.Render(ctx, rec.Kind(), s.renderValues(rec, fields, district))
	if err != nil {
		s.log.ErrorContext(ctx, "render failed",
			slog.String("document_id", rec.ID.String()),
			slog.String("kind", rec.Kind().String()),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("render: %w", err)
	}

	format := s.renderer.Format()
	p, size, err := s.write(ctx, rec.Kind(), district.Slug, ts, fields.Discriminator(), format.Extension, data)
	if err != nil {
		s.log.ErrorContext(ctx, "artifact write failed",
			slog.String("document_id", rec.ID.String()),
			slog.String("kind", rec.Kind().String()),
			slog.String("path", p),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("write artifact: %w", err)
	}

	rec.StoragePath = p
	rec.FileName = artifact.FileName(p)
	rec.FileSize = size
	rec.ContentType = format.ContentType
	return nil
}

// write stores data under a path built from ts. When the path is taken the
// timestamp is advanced by one second, up to MaxPathAttempts tries.
func (s *Service) write(ctx context.Context, kind domain.DocumentKind, districtSlug string, ts time.Time, discriminator, ext string, data []byte) (string, int64, error) {
	var p string
	for attempt := 0; attempt < s.cfg.MaxPathAttempts; attempt++ {
		p = artifact.BuildPath(kind, districtSlug, ts, discriminator, ext)
		size, err := s.store.Write(ctx, p, data)
		if err == nil {
			return p, size, nil
		}
		if !errors.Is(err, artifact.ErrArtifactExists) {
			return p, 0, err
		}
		ts = ts.Add(time.Second)
	}
	return p, 0, domain.NewStorageError("write", p, artifact.ErrArtifactExists)
}

// renderValues merges the field values with the record identity.
func (s *Service) renderValues(rec *domain.DocumentRecord, fields domain.FieldSet, district *domain.District) map[string]string {
	v := fields.RenderValues()
	v["kind"] = rec.Kind().String()
	v["document_id"] = rec.ID.String()
	v["case_id"] = rec.CaseID.String()
	v["district_name"] = district.Name
	v["district_slug"] = district.Slug
	v["issued_date"] = rec.IssuedAt.In(s.cfg.Location).Format(domain.DateLayout)
	v["has_co_applicants"] = strconv.FormatBool(rec.HasCoApplicants)
	v["document_number"] = ""
	if rec.DocumentNumber != nil {
		v["document_number"] = *rec.DocumentNumber
	}
	v["amount"] = ""
	if rec.Amount != nil {
		v["amount"] = strconv.FormatInt(*rec.Amount, 10)
	}
	return v
}

// fail records a failed operation on the span, in metrics and, for backend
// failures, in the log.
func (s *Service) fail(ctx context.Context, span trace.Span, op string, err error) {
	reason := failureReason(err)
	span.RecordError(err)
	span.SetStatus(codes.Error, reason)
	s.metrics.IncFailure(op, reason)
	if reason == "internal" {
		s.log.ErrorContext(ctx, op+" failed", slog.String("error", err.Error()))
	}
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return "validation"
	case errors.Is(err, domain.ErrConfiguration):
		return "configuration"
	case errors.Is(err, domain.ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, domain.ErrForbidden):
		return "forbidden"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrLockTimeout):
		return "lock_timeout"
	case errors.Is(err, domain.ErrStorage):
		return "storage"
	case errors.Is(err, domain.ErrRender):
		return "render"
	}
	return "internal"
}
