package closer

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/heartmarshall/lotbid-backend/internal/domain"
)

var _ bidRepo = &bidRepoMock{}

type bidRepoMock struct {
	TopByItemsFunc func(ctx context.Context, itemIDs []uuid.UUID) (map[uuid.UUID]domain.Bid, error)

	calls struct {
		TopByItems []struct {
			Ctx     context.Context
			ItemIDs []uuid.UUID
		}
	}
	lockTopByItems sync.RWMutex
}

func (mock *bidRepoMock) TopByItems(ctx context.Context, itemIDs []uuid.UUID) (map[uuid.UUID]domain.Bid, error) {
	if mock.TopByItemsFunc == nil {
		panic("bidRepoMock.TopByItemsFunc: method is nil but bidRepo.TopByItems was just called")
	}
	callInfo := struct {
		Ctx     context.Context
		ItemIDs []uuid.UUID
	}{Ctx: ctx, ItemIDs: itemIDs}
	mock.lockTopByItems.Lock()
	mock.calls.TopByItems = append(mock.calls.TopByItems, callInfo)
	mock.lockTopByItems.Unlock()
	return mock.TopByItemsFunc(ctx, itemIDs)
}

func (mock *bidRepoMock) TopByItemsCalls() []struct {
	Ctx     context.Context
	ItemIDs []uuid.UUID
} {
	mock.lockTopByItems.RLock()
	calls := mock.calls.TopByItems
	mock.lockTopByItems.RUnlock()
	return calls
}
