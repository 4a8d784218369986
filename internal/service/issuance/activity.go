package issuance

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/dossier-issuance/internal/domain"
	"github.com/heartmarshall/dossier-issuance/pkg/ctxutil"
)

// activityTimeout bounds how long an activity sink may hold up a request.
const activityTimeout = 5 * time.Second

func (s *Service) recordActivity(ctx context.Context, action domain.ActivityAction, rec *domain.DocumentRecord) {
	emitActivity(ctx, s.log, s.activity, s.metrics, action, rec)
}

// emitActivity records one event for rec. Failures are logged and counted,
// never returned: activity is an audit trail, not part of the operation.
func emitActivity(
	ctx context.Context,
	log *slog.Logger,
	sink activityLog,
	metrics metricsRecorder,
	action domain.ActivityAction,
	rec *domain.DocumentRecord,
) {
	if sink == nil || rec == nil {
		return
	}

	actorID, _ := ctxutil.UserIDFromCtx(ctx)
	ev := domain.ActivityEvent{
		ID:         uuid.New(),
		Action:     action,
		Kind:       rec.Kind(),
		DocumentID: rec.ID,
		Scope:      rec.Scope,
		ActorID:    actorID,
		RequestID:  ctxutil.RequestIDFromCtx(ctx),
		OccurredAt: time.Now(),
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), activityTimeout)
	defer cancel()

	if err := sink.Record(ctx, ev); err != nil {
		metrics.IncActivityFailure()
		log.WarnContext(ctx, "activity record failed",
			slog.String("action", action.String()),
			slog.String("document_id", rec.ID.String()),
			slog.String("error", err.Error()),
		)
	}
}
