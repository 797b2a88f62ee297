package closer

import (
	"context"
	"sync"
	"time"

	"github.com/heartmarshall/lotbid-backend/internal/domain"
)

var _ sweeper = &sweeperMock{}

type sweeperMock struct {
	SweepFunc func(ctx context.Context, now time.Time) (domain.SweepReport, error)

	calls struct {
		Sweep []struct {
			Ctx context.Context
			Now time.Time
		}
	}
	lockSweep sync.RWMutex
}

func (mock *sweeperMock) Sweep(ctx context.Context, now time.Time) (domain.SweepReport, error) {
	if mock.SweepFunc == nil {
		panic("sweeperMock.SweepFunc: method is nil but sweeper.Sweep was just called")
	}
	callInfo := struct {
		Ctx context.Context
		Now time.Time
	}{Ctx: ctx, Now: now}
	mock.lockSweep.Lock()
	mock.calls.Sweep = append(mock.calls.Sweep, callInfo)
	mock.lockSweep.Unlock()
	return mock.SweepFunc(ctx, now)
}

func (mock *sweeperMock) SweepCalls() []struct {
	Ctx context.Context
	Now time.Time
} {
	mock.lockSweep.RLock()
	calls := mock.calls.Sweep
	mock.lockSweep.RUnlock()
	return calls
}
