package rest

import (
	"context"
	"github.com/google/uuid"
	"github.com/heartmarshall/dossier-issuance/internal/domain"
	"github.com/heartmarshall/dossier-issuance/internal/service/issuance"
	"sync"
)

var _ issuanceService = &issuanceServiceMock{}

type issuanceServiceMock struct {
	IssueFunc    func(ctx context.Context, input issuance.IssueInput) (*issuance.IssueResult, error)
	DeliverFunc  func(ctx context.Context, input issuance.IssueInput) (*issuance.Delivery, *issuance.IssueResult, error)
	DownloadFunc func(ctx context.Context, id uuid.UUID) (*issuance.Delivery, error)
	HistoryFunc  func(ctx context.Context, scope domain.ScopeKey) ([]domain.DocumentHandle, error)
	ActivityFunc func(ctx context.Context, id uuid.UUID, limit int) ([]domain.ActivityEvent, error)

	calls struct {
		Issue []struct {
			Ctx   context.Context
			Input issuance.IssueInput
		}
		Deliver []struct {
			Ctx   context.Context
			Input issuance.IssueInput
		}
		Download []struct {
			Ctx context.Context
			Id  uuid.UUID
		}
		History []struct {
			Ctx   context.Context
			Scope domain.ScopeKey
		}
		Activity []struct {
			Ctx   context.Context
			Id    uuid.UUID
			Limit int
		}
	}
	lockIssue    sync.RWMutex
	lockDeliver  sync.RWMutex
	lockDownload sync.RWMutex
	lockHistory  sync.RWMutex
	lockActivity sync.RWMutex
}

func (mock *issuanceServiceMock) Issue(ctx context.Context, input issuance.IssueInput) (*issuance.IssueResult, error) {
	if mock.IssueFunc == nil {
		panic("issuanceServiceMock.IssueFunc: method is nil but issuanceService.Issue was just called")
	}
	callInfo := struct {
		Ctx   context.Context
		Input issuance.IssueInput
	}{Ctx: ctx, Input: input}
	mock.lockIssue.Lock()
	mock.calls.Issue = append(mock.calls.Issue, callInfo)
	mock.lockIssue.Unlock()
	return mock.IssueFunc(ctx, input)
}

func (mock *issuanceServiceMock) IssueCalls() []struct {
	Ctx   context.Context
	Input issuance.IssueInput
} {
	mock.lockIssue.RLock()
	calls := mock.calls.Issue
	mock.lockIssue.RUnlock()
	return calls
}

func (mock *issuanceServiceMock) Deliver(ctx context.Context, input issuance.IssueInput) (*issuance.Delivery, *issuance.IssueResult, error) {
	if mock.DeliverFunc == nil {
		panic("issuanceServiceMock.DeliverFunc: method is nil but issuanceService.Deliver was just called")
	}
	callInfo := struct {
		Ctx   context.Context
		Input issuance.IssueInput
	}{Ctx: ctx, Input: input}
	mock.lockDeliver.Lock()
	mock.calls.Deliver = append(mock.calls.Deliver, callInfo)
	mock.lockDeliver.Unlock()
	return mock.DeliverFunc(ctx, input)
}

func (mock *issuanceServiceMock) DeliverCalls() []struct {
	Ctx   context.Context
	Input issuance.IssueInput
} {
	mock.lockDeliver.RLock()
	calls := mock.calls.Deliver
	mock.lockDeliver.RUnlock()
	return calls
}

func (mock *issuanceServiceMock) Download(ctx context.Context, id uuid.UUID) (*issuance.Delivery, error) {
	if mock.DownloadFunc == nil {
		panic("issuanceServiceMock.DownloadFunc: method is nil but issuanceService.Download was just called")
	}
	callInfo := struct {
		Ctx context.Context
		Id  uuid.UUID
	}{Ctx: ctx, Id: id}
	mock.lockDownload.Lock()
	mock.calls.Download = append(mock.calls.Download, callInfo)
	mock.lockDownload.Unlock()
	return mock.DownloadFunc(ctx, id)
}

func (mock *issuanceServiceMock) DownloadCalls() []struct {
	Ctx context.Context
	Id  uuid.UUID
} {
	mock.lockDownload.RLock()
	calls := mock.calls.Download
	mock.lockDownload.RUnlock()
	return calls
}

func (mock *issuanceServiceMock) History(ctx context.Context, scope domain.ScopeKey) ([]domain.DocumentHandle, error) {
	if mock.HistoryFunc == nil {
		panic("issuanceServiceMock.HistoryFunc: method is nil but issuanceService.History was just called")
	}
	callInfo := struct {
		Ctx   context.Context
		Scope domain.ScopeKey
	}{Ctx: ctx, Scope: scope}
	mock.lockHistory.Lock()
	mock.calls.History = append(mock.calls.History, callInfo)
	mock.lockHistory.Unlock()
	return mock.HistoryFunc(ctx, scope)
}

func (mock *issuanceServiceMock) HistoryCalls() []struct {
	Ctx   context.Context
	Scope domain.ScopeKey
} {
	mock.lockHistory.RLock()
	calls := mock.calls.History
	mock.lockHistory.RUnlock()
	return calls
}

func (mock *issuanceServiceMock) Activity(ctx context.Context, id uuid.UUID, limit int) ([]domain.ActivityEvent, error) {
	if mock.ActivityFunc == nil {
		panic("issuanceServiceMock.ActivityFunc: method is nil but issuanceService.Activity was just called")
	}
	callInfo := struct {
		Ctx   context.Context
		Id    uuid.UUID
		Limit int
	}{Ctx: ctx, Id: id, Limit: limit}
	mock.lockActivity.Lock()
	mock.calls.Activity = append(mock.calls.Activity, callInfo)
	mock.lockActivity.Unlock()
	return mock.ActivityFunc(ctx, id, limit)
}

func (mock *issuanceServiceMock) ActivityCalls() []struct {
	Ctx   context.Context
	Id    uuid.UUID
	Limit int
} {
	mock.lockActivity.RLock()
	calls := mock.calls.Activity
	mock.lockActivity.RUnlock()
	return calls
}
