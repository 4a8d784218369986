package issuance

import (
	"context"
	"github.com/heartmarshall/dossier-issuance/internal/domain"
	"sync"
)

var _ renderer = &rendererMock{}

type rendererMock struct {
	RenderFunc func(ctx context.Context, kind domain.DocumentKind, values map[string]string) ([]byte, error)
	FormatFunc func() domain.FileFormat

	calls struct {
		Render []struct {
			Ctx    context.Context
			Kind   domain.DocumentKind
			Values map[string]string
		}
		Format []struct{}
	}
	lockRender sync.RWMutex
	lockFormat sync.RWMutex
}

func (mock *rendererMock) Render(ctx context.Context, kind domain.DocumentKind, values map[string]string) ([]byte, error) {
	if mock.RenderFunc == nil {
		panic("rendererMock.RenderFunc: method is nil but renderer.Render was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		Kind   domain.DocumentKind
		Values map[string]string
	}{Ctx: ctx, Kind: kind, Values: values}
	mock.lockRender.Lock()
	mock.calls.Render = append(mock.calls.Render, callInfo)
	mock.lockRender.Unlock()
	return mock.RenderFunc(ctx, kind, values)
}

func (mock *rendererMock) RenderCalls() []struct {
	Ctx    context.Context
	Kind   domain.DocumentKind
	Values map[string]string
} {
	mock.lockRender.RLock()
	calls := mock.calls.Render
	mock.lockRender.RUnlock()
	return calls
}

func (mock *rendererMock) Format() domain.FileFormat {
	if mock.FormatFunc == nil {
		panic("rendererMock.FormatFunc: method is nil but renderer.Format was just called")
	}
	mock.lockFormat.Lock()
	mock.calls.Format = append(mock.calls.Format, struct{}{})
	mock.lockFormat.Unlock()
	return mock.FormatFunc()
}

func (mock *rendererMock) FormatCalls() []struct{} {
	mock.lockFormat.RLock()
	calls := mock.calls.Format
	mock.lockFormat.RUnlock()
	return calls
}
