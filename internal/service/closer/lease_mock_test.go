package closer

import (
	"context"
	"sync"
)

var _ lease = &leaseMock{}

type leaseMock struct {
	AcquireFunc func(ctx context.Context) (bool, error)
	ReleaseFunc func(ctx context.Context) error

	calls struct {
		Acquire []struct {
			Ctx context.Context
		}
		Release []struct {
			Ctx context.Context
		}
	}
	lockAcquire sync.RWMutex
	lockRelease sync.RWMutex
}

func (mock *leaseMock) Acquire(ctx context.Context) (bool, error) {
	if mock.AcquireFunc == nil {
		panic("leaseMock.AcquireFunc: method is nil but lease.Acquire was just called")
	}
	callInfo := struct {
		Ctx context.Context
	}{Ctx: ctx}
	mock.lockAcquire.Lock()
	mock.calls.Acquire = append(mock.calls.Acquire, callInfo)
	mock.lockAcquire.Unlock()
	return mock.AcquireFunc(ctx)
}

func (mock *leaseMock) AcquireCalls() []struct {
	Ctx context.Context
} {
	mock.lockAcquire.RLock()
	calls := mock.calls.Acquire
	mock.lockAcquire.RUnlock()
	return calls
}

func (mock *leaseMock) Release(ctx context.Context) error {
	if mock.ReleaseFunc == nil {
		panic("leaseMock.ReleaseFunc: method is nil but lease.Release was just called")
	}
	callInfo := struct {
		Ctx context.Context
	}{Ctx: ctx}
	mock.lockRelease.Lock()
	mock.calls.Release = append(mock.calls.Release, callInfo)
	mock.lockRelease.Unlock()
	return mock.ReleaseFunc(ctx)
}

func (mock *leaseMock) ReleaseCalls() []struct {
	Ctx context.Context
} {
	mock.lockRelease.RLock()
	calls := mock.calls.Release
	mock.lockRelease.RUnlock()
	return calls
}
