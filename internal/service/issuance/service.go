// Package issuance issues, regenerates and serves the legal documents of a
// land-parcel dossier. Every logical document (kind + scope) has at most one
// ACTIVE record; issuing it again returns that record.
package issuance

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"

	"github.com/heartmarshall/dossier-issuance/internal/config"
	"github.com/heartmarshall/dossier-issuance/internal/domain"
)

var tracer = otel.Tracer("github.com/heartmarshall/dossier-issuance/internal/service/issuance")

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type documentRepo interface {
	FindActiveForUpdate(ctx context.Context, scope domain.ScopeKey) (*domain.DocumentRecord, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.DocumentRecord, error)
	ListByScope(ctx context.Context, scope domain.ScopeKey) ([]domain.DocumentRecord, error)
	Create(ctx context.Context, rec *domain.DocumentRecord) error
	UpdateArtifact(ctx context.Context, id uuid.UUID, storagePath, fileName string, fileSize int64, updatedAt time.Time) error
}

type downloadCounter interface {
	IncrementDownloadCount(ctx context.Context, id uuid.UUID) (int64, error)
}

type sequenceAllocator interface {
	Next(ctx context.Context, kind domain.DocumentKind, districtID uuid.UUID, year int) (string, error)
}

type artifactStore interface {
	Write(ctx context.Context, p string, data []byte) (int64, error)
	Verify(ctx context.Context, p string, size int64) (bool, error)
	Open(ctx context.Context, p string) (io.ReadCloser, error)
}

type renderer interface {
	Render(ctx context.Context, kind domain.DocumentKind, values map[string]string) ([]byte, error)
	Format() domain.FileFormat
}

type pricingSource interface {
	UnitPrice(ctx context.Context, districtID uuid.UUID, category string) (int64, error)
}

type districtDirectory interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.District, error)
}

type activityLog interface {
	Record(ctx context.Context, ev domain.ActivityEvent) error
}

type activityTrail interface {
	ListByDocument(ctx context.Context, documentID uuid.UUID, limit int) ([]domain.ActivityEvent, error)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type scopeLocker interface {
	Lock(ctx context.Context, key string) error
}

type metricsRecorder interface {
	ObserveIssue(kind, outcome string, start time.Time)
	IncDownload(kind string)
	IncFailure(operation, reason string)
	IncActivityFailure()
}

type server interface {
	Serve(ctx context.Context, rec *domain.DocumentRecord, action domain.ActivityAction) (*Delivery, error)
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Service is the issuance coordinator.
type Service struct {
	log       *slog.Logger
	documents documentRepo
	sequence  sequenceAllocator
	store     artifactStore
	renderer  renderer
	pricing   pricingSource
	districts districtDirectory
	activity  activityLog
	trail     activityTrail
	tx        txManager
	locker    scopeLocker
	gateway   server
	metrics   metricsRecorder
	cfg       config.IssuanceConfig
	now       func() time.Time
}

// NewService creates a new issuance Service.
func NewService(
	logger *slog.Logger,
	documents documentRepo,
	sequence sequenceAllocator,
	store artifactStore,
	renderer renderer,
	pricing pricingSource,
	districts districtDirectory,
	activity activityLog,
	trail activityTrail,
	tx txManager,
	locker scopeLocker,
	gateway server,
	metrics metricsRecorder,
	cfg config.IssuanceConfig,
) *Service {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.MaxPathAttempts <= 0 {
		cfg.MaxPathAttempts = 1
	}
	return &Service{
		log:       logger.With("service", "issuance"),
		documents: documents,
		sequence:  sequence,
		store:     store,
		renderer:  renderer,
		pricing:   pricing,
		districts: districts,
		activity:  activity,
		trail:     trail,
		tx:        tx,
		locker:    locker,
		gateway:   gateway,
		metrics:   metrics,
		cfg:       cfg,
		now:       time.Now,
	}
}

// clock returns the current time in the issuance timezone, truncated to
// whole seconds so stored timestamps and artifact paths agree.
func (s *Service) clock() time.Time {
	return s.now().In(s.cfg.Location).Truncate(time.Second)
}
