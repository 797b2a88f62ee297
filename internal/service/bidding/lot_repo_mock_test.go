package bidding

import (
	"context"
	"sync"

	"github.com/heartmarshall/lotbid-backend/internal/domain"
)

var _ lotRepo = &lotRepoMock{}

type lotRepoMock struct {
	ExtendFunc func(ctx context.Context, ext domain.LotExtension) error

	calls struct {
		Extend []struct {
			Ctx context.Context
			Ext domain.LotExtension
		}
	}
	lockExtend sync.RWMutex
}

func (mock *lotRepoMock) Extend(ctx context.Context, ext domain.LotExtension) error {
	if mock.ExtendFunc == nil {
		panic("lotRepoMock.ExtendFunc: method is nil but lotRepo.Extend was just called")
	}
	callInfo := struct {
		Ctx context.Context
		Ext domain.LotExtension
	}{Ctx: ctx, Ext: ext}
	mock.lockExtend.Lock()
	mock.calls.Extend = append(mock.calls.Extend, callInfo)
	mock.lockExtend.Unlock()
	return mock.ExtendFunc(ctx, ext)
}

func (mock *lotRepoMock) ExtendCalls() []struct {
	Ctx context.Context
	Ext domain.LotExtension
} {
	mock.lockExtend.RLock()
	calls := mock.calls.Extend
	mock.lockExtend.RUnlock()
	return calls
}
