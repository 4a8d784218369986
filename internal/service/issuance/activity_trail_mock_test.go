package issuance

import (
	"context"
	"github.com/google/uuid"
	"github.com/heartmarshall/dossier-issuance/internal/domain"
	"sync"
)

var _ activityTrail = &activityTrailMock{}

type activityTrailMock struct {
	ListByDocumentFunc func(ctx context.Context, documentID uuid.UUID, limit int) ([]domain.ActivityEvent, error)

	calls struct {
		ListByDocument []struct {
			Ctx        context.Context
			DocumentID uuid.UUID
			Limit      int
		}
	}
	lockListByDocument sync.RWMutex
}

func (mock *activityTrailMock) ListByDocument(ctx context.Context, documentID uuid.UUID, limit int) ([]domain.ActivityEvent, error) {
	if mock.ListByDocumentFunc == nil {
		panic("activityTrailMock.ListByDocumentFunc: method is nil but activityTrail.ListByDocument was just called")
	}
	callInfo := struct {
		Ctx        context.Context
		DocumentID uuid.UUID
		Limit      int
	}{Ctx: ctx, DocumentID: documentID, Limit: limit}
	mock.lockListByDocument.Lock()
	mock.calls.ListByDocument = append(mock.calls.ListByDocument, callInfo)
	mock.lockListByDocument.Unlock()
	return mock.ListByDocumentFunc(ctx, documentID, limit)
}

func (mock *activityTrailMock) ListByDocumentCalls() []struct {
	Ctx        context.Context
	DocumentID uuid.UUID
	Limit      int
} {
	mock.lockListByDocument.RLock()
	calls := mock.calls.ListByDocument
	mock.lockListByDocument.RUnlock()
	return calls
}
