package closer

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/heartmarshall/lotbid-backend/internal/domain"
)

var _ itemRepo = &itemRepoMock{}

type itemRepoMock struct {
	ListByLotFunc func(ctx context.Context, lotID uuid.UUID) ([]domain.Item, error)
	SetWinnerFunc func(ctx context.Context, itemID uuid.UUID, bidID uuid.UUID) error

	calls struct {
		ListByLot []struct {
			Ctx   context.Context
			LotID uuid.UUID
		}
		SetWinner []struct {
			Ctx    context.Context
			ItemID uuid.UUID
			BidID  uuid.UUID
		}
	}
	lockListByLot sync.RWMutex
	lockSetWinner sync.RWMutex
}

func (mock *itemRepoMock) ListByLot(ctx context.Context, lotID uuid.UUID) ([]domain.Item, error) {
	if mock.ListByLotFunc == nil {
		panic("itemRepoMock.ListByLotFunc: method is nil but itemRepo.ListByLot was just called")
	}
	callInfo := struct {
		Ctx   context.Context
		LotID uuid.UUID
	}{Ctx: ctx, LotID: lotID}
	mock.lockListByLot.Lock()
	mock.calls.ListByLot = append(mock.calls.ListByLot, callInfo)
	mock.lockListByLot.Unlock()
	return mock.ListByLotFunc(ctx, lotID)
}

func (mock *itemRepoMock) ListByLotCalls() []struct {
	Ctx   context.Context
	LotID uuid.UUID
} {
	mock.lockListByLot.RLock()
	calls := mock.calls.ListByLot
	mock.lockListByLot.RUnlock()
	return calls
}

func (mock *itemRepoMock) SetWinner(ctx context.Context, itemID uuid.UUID, bidID uuid.UUID) error {
	if mock.SetWinnerFunc == nil {
		panic("itemRepoMock.SetWinnerFunc: method is nil but itemRepo.SetWinner was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		ItemID uuid.UUID
		BidID  uuid.UUID
	}{Ctx: ctx, ItemID: itemID, BidID: bidID}
	mock.lockSetWinner.Lock()
	mock.calls.SetWinner = append(mock.calls.SetWinner, callInfo)
	mock.lockSetWinner.Unlock()
	return mock.SetWinnerFunc(ctx, itemID, bidID)
}

func (mock *itemRepoMock) SetWinnerCalls() []struct {
	Ctx    context.Context
	ItemID uuid.UUID
	BidID  uuid.UUID
} {
	mock.lockSetWinner.RLock()
	calls := mock.calls.SetWinner
	mock.lockSetWinner.RUnlock()
	return calls
}
