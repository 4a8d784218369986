package issuance

import (
	"context"
	"fmt"

	"github.com/heartmarshall/dossier-issuance/internal/domain"
)

// regenerate re-renders rec from its stored field snapshot and moves it to a
// freshly written artifact. The id, number, amount and issue date are kept.
// It must run under the scope lock.
func (s *Service) regenerate(ctx context.Context, rec *domain.DocumentRecord) error {
	fields, err := domain.DecodeFieldSet(rec.Kind(), rec.Fields)
	if err != nil {
		return fmt.Errorf("decode stored fields of %s: %w", rec.ID, err)
	}

	district, err := s.districts.GetByID(ctx, rec.Scope.DistrictID)
	if err != nil {
		return fmt.Errorf("get district: %w", err)
	}

	now := s.clock()
	if err := s.renderAndStore(ctx, rec, fields, district, now); err != nil {
		return err
	}

	if err := s.documents.UpdateArtifact(ctx, rec.ID, rec.StoragePath, rec.FileName, rec.FileSize, now); err != nil {
		return fmt.Errorf("update artifact location: %w", err)
	}
	rec.UpdatedAt = now
	return nil
}

// ensureArtifact re-checks the ACTIVE document of scope under the scope lock
// and regenerates its artifact when needed.
func (s *Service) ensureArtifact(ctx context.Context, scope domain.ScopeKey) (*IssueResult, error) {
	var result *IssueResult
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.locker.Lock(ctx, scope.LockKey()); err != nil {
			return fmt.Errorf("lock scope: %w", err)
		}
		rec, err := s.documents.FindActiveForUpdate(ctx, scope)
		if err != nil {
			return fmt.Errorf("find active document: %w", err)
		}
		result, err = s.reuse(ctx, rec)
		return err
	})
	if err != nil {
		return nil, err
	}
	if result.Outcome == OutcomeRegenerated {
		s.recordActivity(ctx, domain.ActivityActionRegenerate, result.record)
	}
	return result, nil
}
