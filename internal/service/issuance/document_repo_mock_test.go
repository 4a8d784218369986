package issuance

import (
	"context"
	"github.com/google/uuid"
	"github.com/heartmarshall/dossier-issuance/internal/domain"
	"sync"
	"time"
)

var _ documentRepo = &documentRepoMock{}

type documentRepoMock struct {
	FindActiveForUpdateFunc func(ctx context.Context, scope domain.ScopeKey) (*domain.DocumentRecord, error)
	GetByIDFunc             func(ctx context.Context, id uuid.UUID) (*domain.DocumentRecord, error)
	ListByScopeFunc         func(ctx context.Context, scope domain.ScopeKey) ([]domain.DocumentRecord, error)
	CreateFunc              func(ctx context.Context, rec *domain.DocumentRecord) error
	UpdateArtifactFunc      func(ctx context.Context, id uuid.UUID, storagePath string, fileName string, fileSize int64, updatedAt time.Time) error

	calls struct {
		FindActiveForUpdate []struct {
			Ctx   context.Context
			Scope domain.ScopeKey
		}
		GetByID []struct {
			Ctx context.Context
			Id  uuid.UUID
		}
		ListByScope []struct {
			Ctx   context.Context
			Scope domain.ScopeKey
		}
		Create []struct {
			Ctx context.Context
			Rec *domain.DocumentRecord
		}
		UpdateArtifact []struct {
			Ctx         context.Context
			Id          uuid.UUID
			StoragePath string
			FileName    string
			FileSize    int64
			UpdatedAt   time.Time
		}
	}
	lockFindActiveForUpdate sync.RWMutex
	lockGetByID             sync.RWMutex
	lockListByScope         sync.RWMutex
	lockCreate              sync.RWMutex
	lockUpdateArtifact      sync.RWMutex
}

func (mock *documentRepoMock) FindActiveForUpdate(ctx context.Context, scope domain.ScopeKey) (*domain.DocumentRecord, error) {
	if mock.FindActiveForUpdateFunc == nil {
		panic("documentRepoMock.FindActiveForUpdateFunc: method is nil but documentRepo.FindActiveForUpdate was just called")
	}
	callInfo := struct {
		Ctx   context.Context
		Scope domain.ScopeKey
	}{Ctx: ctx, Scope: scope}
	mock.lockFindActiveForUpdate.Lock()
	mock.calls.FindActiveForUpdate = append(mock.calls.FindActiveForUpdate, callInfo)
	mock.lockFindActiveForUpdate.Unlock()
	return mock.FindActiveForUpdateFunc(ctx, scope)
}

func (mock *documentRepoMock) FindActiveForUpdateCalls() []struct {
	Ctx   context.Context
	Scope domain.ScopeKey
} {
	mock.lockFindActiveForUpdate.RLock()
	calls := mock.calls.FindActiveForUpdate
	mock.lockFindActiveForUpdate.RUnlock()
	return calls
}

func (mock *documentRepoMock) GetByID(ctx context.Context, id uuid.UUID) (*domain.DocumentRecord, error) {
	if mock.GetByIDFunc == nil {
		panic("documentRepoMock.GetByIDFunc: method is nil but documentRepo.GetByID was just called")
	}
	callInfo := struct {
		Ctx context.Context
		Id  uuid.UUID
	}{Ctx: ctx, Id: id}
	mock.lockGetByID.Lock()
	mock.calls.GetByID = append(mock.calls.GetByID, callInfo)
	mock.lockGetByID.Unlock()
	return mock.GetByIDFunc(ctx, id)
}

func (mock *documentRepoMock) GetByIDCalls() []struct {
	Ctx context.Context
	Id  uuid.UUID
} {
	mock.lockGetByID.RLock()
	calls := mock.calls.GetByID
	mock.lockGetByID.RUnlock()
	return calls
}

func (mock *documentRepoMock) ListByScope(ctx context.Context, scope domain.ScopeKey) ([]domain.DocumentRecord, error) {
	if mock.ListByScopeFunc == nil {
		panic("documentRepoMock.ListByScopeFunc: method is nil but documentRepo.ListByScope was just called")
	}
	callInfo := struct {
		Ctx   context.Context
		Scope domain.ScopeKey
	}{Ctx: ctx, Scope: scope}
	mock.lockListByScope.Lock()
	mock.calls.ListByScope = append(mock.calls.ListByScope, callInfo)
	mock.lockListByScope.Unlock()
	return mock.ListByScopeFunc(ctx, scope)
}

func (mock *documentRepoMock) ListByScopeCalls() []struct {
	Ctx   context.Context
	Scope domain.ScopeKey
} {
	mock.lockListByScope.RLock()
	calls := mock.calls.ListByScope
	mock.lockListByScope.RUnlock()
	return calls
}

func (mock *documentRepoMock) Create(ctx context.Context, rec *domain.DocumentRecord) error {
	if mock.CreateFunc == nil {
		panic("documentRepoMock.CreateFunc: method is nil but documentRepo.Create was just called")
	}
	callInfo := struct {
		Ctx context.Context
		Rec *domain.DocumentRecord
	}{Ctx: ctx, Rec: rec}
	mock.lockCreate.Lock()
	mock.calls.Create = append(mock.calls.Create, callInfo)
	mock.lockCreate.Unlock()
	return mock.CreateFunc(ctx, rec)
}

func (mock *documentRepoMock) CreateCalls() []struct {
	Ctx context.Context
	Rec *domain.DocumentRecord
} {
	mock.lockCreate.RLock()
	calls := mock.calls.Create
	mock.lockCreate.RUnlock()
	return calls
}

func (mock *documentRepoMock) UpdateArtifact(ctx context.Context, id uuid.UUID, storagePath string, fileName string, fileSize int64, updatedAt time.Time) error {
	if mock.UpdateArtifactFunc == nil {
		panic("documentRepoMock.UpdateArtifactFunc: method is nil but documentRepo.UpdateArtifact was just called")
	}
	callInfo := struct {
		Ctx         context.Context
		Id          uuid.UUID
		StoragePath string
		FileName    string
		FileSize    int64
		UpdatedAt   time.Time
	}{Ctx: ctx, Id: id, StoragePath: storagePath, FileName: fileName, FileSize: fileSize, UpdatedAt: updatedAt}
	mock.lockUpdateArtifact.Lock()
	mock.calls.UpdateArtifact = append(mock.calls.UpdateArtifact, callInfo)
	mock.lockUpdateArtifact.Unlock()
	return mock.UpdateArtifactFunc(ctx, id, storagePath, fileName, fileSize, updatedAt)
}

func (mock *documentRepoMock) UpdateArtifactCalls() []struct {
	Ctx         context.Context
	Id          uuid.UUID
	StoragePath string
	FileName    string
	FileSize    int64
	UpdatedAt   time.Time
} {
	mock.lockUpdateArtifact.RLock()
	calls := mock.calls.UpdateArtifact
	mock.lockUpdateArtifact.RUnlock()
	return calls
}
