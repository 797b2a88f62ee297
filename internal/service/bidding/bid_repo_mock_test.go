package bidding

import (
	"context"
	"sync"

	"github.com/heartmarshall/lotbid-backend/internal/domain"
)

var _ bidRepo = &bidRepoMock{}

type bidRepoMock struct {
	CreateFunc func(ctx context.Context, bid *domain.Bid) (*domain.Bid, error)

	calls struct {
		Create []struct {
			Ctx context.Context
			Bid *domain.Bid
		}
	}
	lockCreate sync.RWMutex
}

func (mock *bidRepoMock) Create(ctx context.Context, bid *domain.Bid) (*domain.Bid, error) {
	if mock.CreateFunc == nil {
		panic("bidRepoMock.CreateFunc: method is nil but bidRepo.Create was just called")
	}
	callInfo := struct {
		Ctx context.Context
		Bid *domain.Bid
	}{Ctx: ctx, Bid: bid}
	mock.lockCreate.Lock()
	mock.calls.Create = append(mock.calls.Create, callInfo)
	mock.lockCreate.Unlock()
	return mock.CreateFunc(ctx, bid)
}

func (mock *bidRepoMock) CreateCalls() []struct {
	Ctx context.Context
	Bid *domain.Bid
} {
	mock.lockCreate.RLock()
	calls := mock.calls.Create
	mock.lockCreate.RUnlock()
	return calls
}
