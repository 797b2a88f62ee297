package closer

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/lotbid-backend/internal/domain"
)

var _ lotRepo = &lotRepoMock{}

type lotRepoMock struct {
	ListExpiredFunc func(ctx context.Context, now time.Time, limit int) ([]uuid.UUID, error)
	LockExpiredFunc func(ctx context.Context, lotID uuid.UUID, now time.Time) (*domain.Lot, error)
	MarkClosedFunc  func(ctx context.Context, lotID uuid.UUID, status domain.LotStatus, closedAt time.Time) error

	calls struct {
		ListExpired []struct {
			Ctx   context.Context
			Now   time.Time
			Limit int
		}
		LockExpired []struct {
			Ctx   context.Context
			LotID uuid.UUID
			Now   time.Time
		}
		MarkClosed []struct {
			Ctx      context.Context
			LotID    uuid.UUID
			Status   domain.LotStatus
			ClosedAt time.Time
		}
	}
	lockListExpired sync.RWMutex
	lockLockExpired sync.RWMutex
	lockMarkClosed  sync.RWMutex
}

func (mock *lotRepoMock) ListExpired(ctx context.Context, now time.Time, limit int) ([]uuid.UUID, error) {
	if mock.ListExpiredFunc == nil {
		panic("lotRepoMock.ListExpiredFunc: method is nil but lotRepo.ListExpired was just called")
	}
	callInfo := struct {
		Ctx   context.Context
		Now   time.Time
		Limit int
	}{Ctx: ctx, Now: now, Limit: limit}
	mock.lockListExpired.Lock()
	mock.calls.ListExpired = append(mock.calls.ListExpired, callInfo)
	mock.lockListExpired.Unlock()
	return mock.ListExpiredFunc(ctx, now, limit)
}

func (mock *lotRepoMock) ListExpiredCalls() []struct {
	Ctx   context.Context
	Now   time.Time
	Limit int
} {
	mock.lockListExpired.RLock()
	calls := mock.calls.ListExpired
	mock.lockListExpired.RUnlock()
	return calls
}

func (mock *lotRepoMock) LockExpired(ctx context.Context, lotID uuid.UUID, now time.Time) (*domain.Lot, error) {
	if mock.LockExpiredFunc == nil {
		panic("lotRepoMock.LockExpiredFunc: method is nil but lotRepo.LockExpired was just called")
	}
	callInfo := struct {
		Ctx   context.Context
		LotID uuid.UUID
		Now   time.Time
	}{Ctx: ctx, LotID: lotID, Now: now}
	mock.lockLockExpired.Lock()
	mock.calls.LockExpired = append(mock.calls.LockExpired, callInfo)
	mock.lockLockExpired.Unlock()
	return mock.LockExpiredFunc(ctx, lotID, now)
}

func (mock *lotRepoMock) LockExpiredCalls() []struct {
	Ctx   context.Context
	LotID uuid.UUID
	Now   time.Time
} {
	mock.lockLockExpired.RLock()
	calls := mock.calls.LockExpired
	mock.lockLockExpired.RUnlock()
	return calls
}

func (mock *lotRepoMock) MarkClosed(ctx context.Context, lotID uuid.UUID, status domain.LotStatus, closedAt time.Time) error {
	if mock.MarkClosedFunc == nil {
		panic("lotRepoMock.MarkClosedFunc: method is nil but lotRepo.MarkClosed was just called")
	}
	callInfo := struct {
		Ctx      context.Context
		LotID    uuid.UUID
		Status   domain.LotStatus
		ClosedAt time.Time
	}{Ctx: ctx, LotID: lotID, Status: status, ClosedAt: closedAt}
	mock.lockMarkClosed.Lock()
	mock.calls.MarkClosed = append(mock.calls.MarkClosed, callInfo)
	mock.lockMarkClosed.Unlock()
	return mock.MarkClosedFunc(ctx, lotID, status, closedAt)
}

func (mock *lotRepoMock) MarkClosedCalls() []struct {
	Ctx      context.Context
	LotID    uuid.UUID
	Status   domain.LotStatus
	ClosedAt time.Time
} {
	mock.lockMarkClosed.RLock()
	calls := mock.calls.MarkClosed
	mock.lockMarkClosed.RUnlock()
	return calls
}
