package bidding

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/heartmarshall/lotbid-backend/internal/domain"
	"github.com/shopspring/decimal"
)

var _ itemRepo = &itemRepoMock{}

type itemRepoMock struct {
	GetForBidFunc   func(ctx context.Context, itemID uuid.UUID) (*domain.BidTarget, error)
	GetTargetFunc   func(ctx context.Context, itemID uuid.UUID) (*domain.BidTarget, error)
	GetTargetsFunc  func(ctx context.Context, itemIDs []uuid.UUID) ([]domain.BidTarget, error)
	UpdatePriceFunc func(ctx context.Context, itemID uuid.UUID, from decimal.Decimal, to decimal.Decimal) error

	calls struct {
		GetForBid []struct {
			Ctx    context.Context
			ItemID uuid.UUID
		}
		GetTarget []struct {
			Ctx    context.Context
			ItemID uuid.UUID
		}
		GetTargets []struct {
			Ctx     context.Context
			ItemIDs []uuid.UUID
		}
		UpdatePrice []struct {
			Ctx    context.Context
			ItemID uuid.UUID
			From   decimal.Decimal
			To     decimal.Decimal
		}
	}
	lockGetForBid   sync.RWMutex
	lockGetTarget   sync.RWMutex
	lockGetTargets  sync.RWMutex
	lockUpdatePrice sync.RWMutex
}

func (mock *itemRepoMock) GetForBid(ctx context.Context, itemID uuid.UUID) (*domain.BidTarget, error) {
	if mock.GetForBidFunc == nil {
		panic("itemRepoMock.GetForBidFunc: method is nil but itemRepo.GetForBid was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		ItemID uuid.UUID
	}{Ctx: ctx, ItemID: itemID}
	mock.lockGetForBid.Lock()
	mock.calls.GetForBid = append(mock.calls.GetForBid, callInfo)
	mock.lockGetForBid.Unlock()
	return mock.GetForBidFunc(ctx, itemID)
}

func (mock *itemRepoMock) GetForBidCalls() []struct {
	Ctx    context.Context
	ItemID uuid.UUID
} {
	mock.lockGetForBid.RLock()
	calls := mock.calls.GetForBid
	mock.lockGetForBid.RUnlock()
	return calls
}

func (mock *itemRepoMock) GetTarget(ctx context.Context, itemID uuid.UUID) (*domain.BidTarget, error) {
	if mock.GetTargetFunc == nil {
		panic("itemRepoMock.GetTargetFunc: method is nil but itemRepo.GetTarget was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		ItemID uuid.UUID
	}{Ctx: ctx, ItemID: itemID}
	mock.lockGetTarget.Lock()
	mock.calls.GetTarget = append(mock.calls.GetTarget, callInfo)
	mock.lockGetTarget.Unlock()
	return mock.GetTargetFunc(ctx, itemID)
}

func (mock *itemRepoMock) GetTargetCalls() []struct {
	Ctx    context.Context
	ItemID uuid.UUID
} {
	mock.lockGetTarget.RLock()
	calls := mock.calls.GetTarget
	mock.lockGetTarget.RUnlock()
	return calls
}

func (mock *itemRepoMock) GetTargets(ctx context.Context, itemIDs []uuid.UUID) ([]domain.BidTarget, error) {
	if mock.GetTargetsFunc == nil {
		panic("itemRepoMock.GetTargetsFunc: method is nil but itemRepo.GetTargets was just called")
	}
	callInfo := struct {
		Ctx     context.Context
		ItemIDs []uuid.UUID
	}{Ctx: ctx, ItemIDs: itemIDs}
	mock.lockGetTargets.Lock()
	mock.calls.GetTargets = append(mock.calls.GetTargets, callInfo)
	mock.lockGetTargets.Unlock()
	return mock.GetTargetsFunc(ctx, itemIDs)
}

func (mock *itemRepoMock) GetTargetsCalls() []struct {
	Ctx     context.Context
	ItemIDs []uuid.UUID
} {
	mock.lockGetTargets.RLock()
	calls := mock.calls.GetTargets
	mock.lockGetTargets.RUnlock()
	return calls
}

func (mock *itemRepoMock) UpdatePrice(ctx context.Context, itemID uuid.UUID, from decimal.Decimal, to decimal.Decimal) error {
	if mock.UpdatePriceFunc == nil {
		panic("itemRepoMock.UpdatePriceFunc: method is nil but itemRepo.UpdatePrice was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		ItemID uuid.UUID
		From   decimal.Decimal
		To     decimal.Decimal
	}{Ctx: ctx, ItemID: itemID, From: from, To: to}
	mock.lockUpdatePrice.Lock()
	mock.calls.UpdatePrice = append(mock.calls.UpdatePrice, callInfo)
	mock.lockUpdatePrice.Unlock()
	return mock.UpdatePriceFunc(ctx, itemID, from, to)
}

func (mock *itemRepoMock) UpdatePriceCalls() []struct {
	Ctx    context.Context
	ItemID uuid.UUID
	From   decimal.Decimal
	To     decimal.Decimal
} {
	mock.lockUpdatePrice.RLock()
	calls := mock.calls.UpdatePrice
	mock.lockUpdatePrice.RUnlock()
	return calls
}
