package bidding

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/heartmarshall/lotbid-backend/internal/domain"
)

// memStore is an in-memory stand-in for the Postgres repositories. GetForBid
// takes a store-wide lock that is held until the transaction ends, which is
// how SELECT ... FOR UPDATE serializes bids on one item. Writes are staged and
// applied only on commit.
type memStore struct {
	rowLock sync.Mutex

	mu       sync.Mutex
	items    map[uuid.UUID]*domain.Item
	lots     map[uuid.UUID]*domain.Lot
	auctions map[uuid.UUID]*domain.Auction
	bids     []domain.Bid
	seq      int64

	// afterLock runs while the row lock is held, before the snapshot is read.
	afterLock func()
}

type memTx struct {
	locked bool
	ops    []func()
}

type memTxKey struct{}

func newMemStore() *memStore {
	return &memStore{
		items:    make(map[uuid.UUID]*domain.Item),
		lots:     make(map[uuid.UUID]*domain.Lot),
		auctions: make(map[uuid.UUID]*domain.Auction),
	}
}

func (s *memStore) addAuction(a domain.Auction) { s.auctions[a.ID] = &a }
func (s *memStore) addLot(l domain.Lot)         { s.lots[l.ID] = &l }
func (s *memStore) addItem(i domain.Item)       { s.items[i.ID] = &i }

func (s *memStore) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	tx := &memTx{}
	err := fn(context.WithValue(ctx, memTxKey{}, tx))

	if err == nil {
		s.mu.Lock()
		for _, op := range tx.ops {
			op()
		}
		s.mu.Unlock()
	}
	if tx.locked {
		s.rowLock.Unlock()
	}
	return err
}

func txFrom(ctx context.Context) *memTx {
	tx, ok := ctx.Value(memTxKey{}).(*memTx)
	if !ok {
		panic("memStore: write outside transaction")
	}
	return tx
}

func (s *memStore) GetForBid(ctx context.Context, itemID uuid.UUID) (*domain.BidTarget, error) {
	tx := txFrom(ctx)
	if !tx.locked {
		s.rowLock.Lock()
		tx.locked = true
	}
	if s.afterLock != nil {
		s.afterLock()
	}
	return s.GetTarget(ctx, itemID)
}

func (s *memStore) GetTarget(_ context.Context, itemID uuid.UUID) (*domain.BidTarget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[itemID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	lot := s.lots[item.LotID]

	target := &domain.BidTarget{Item: *item, Lot: *lot}
	if lot.AuctionID != nil {
		a := *s.auctions[*lot.AuctionID]
		target.Auction = &a
	}
	return target, nil
}

func (s *memStore) GetTargets(ctx context.Context, itemIDs []uuid.UUID) ([]domain.BidTarget, error) {
	var out []domain.BidTarget
	for _, id := range itemIDs {
		t, err := s.GetTarget(ctx, id)
		if err != nil {
			continue
		}
		out = append(out, *t)
	}
	return out, nil
}

func (s *memStore) UpdatePrice(ctx context.Context, itemID uuid.UUID, from, to decimal.Decimal) error {
	tx := txFrom(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	item := s.items[itemID]
	if !item.Price().Equal(from) {
		return domain.ErrConflict
	}
	tx.ops = append(tx.ops, func() {
		p := to
		item.CurrentPrice = &p
	})
	return nil
}

func (s *memStore) Create(ctx context.Context, bid *domain.Bid) (*domain.Bid, error) {
	tx := txFrom(ctx)
	b := *bid
	tx.ops = append(tx.ops, func() {
		s.seq++
		b.Seq = s.seq
		s.bids = append(s.bids, b)
	})
	return &b, nil
}

func (s *memStore) Extend(ctx context.Context, ext domain.LotExtension) error {
	tx := txFrom(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	lot := s.lots[ext.LotID]
	if lot.Status != domain.LotStatusLive ||
		lot.ExtendedCount != ext.ExpectedCount ||
		lot.ClosesAt == nil || !lot.ClosesAt.Equal(ext.ExpectedClosesAt) {
		return domain.ErrConflict
	}
	tx.ops = append(tx.ops, func() {
		closesAt, at := ext.NewClosesAt, ext.ExtendedAt
		lot.ClosesAt = &closesAt
		lot.ExtendedCount++
		lot.LastExtendedAt = &at
	})
	return nil
}

func (s *memStore) ledger() []domain.Bid {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Bid, len(s.bids))
	copy(out, s.bids)
	return out
}

func (s *memStore) item(id uuid.UUID) domain.Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.items[id]
}

func (s *memStore) lot(id uuid.UUID) domain.Lot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.lots[id]
}
