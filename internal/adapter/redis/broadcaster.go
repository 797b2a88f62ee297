package redis

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/heartmarshall/lotbid-backend/internal/domain"
	"github.com/heartmarshall/lotbid-backend/internal/eventbus"
)

// SinkName identifies this sink in logs and metrics.
const SinkName = "redis"

type publisher interface {
	Publish(ctx context.Context, channel string, message any) *goredis.IntCmd
}

// Broadcaster is an eventbus.Sink fanning events out over Redis pub/sub.
// Bid events go to "<prefix>:item:<id>", lot events to "<prefix>:lot:<id>";
// extensions also reach the item channel so item pages see the new close.
type Broadcaster struct {
	rdb    publisher
	prefix string
}

func NewBroadcaster(rdb publisher, prefix string) *Broadcaster {
	return &Broadcaster{rdb: rdb, prefix: prefix}
}

func (b *Broadcaster) Name() string { return SinkName }

func (b *Broadcaster) Deliver(ctx context.Context, ev domain.Event) error {
	payload, err := eventbus.Encode(ev)
	if err != nil {
		return err
	}

	for _, ch := range b.Channels(ev) {
		if err := b.rdb.Publish(ctx, ch, payload).Err(); err != nil {
			return fmt.Errorf("redis publish %s: %w", ch, err)
		}
	}
	return nil
}

// Channels lists the pub/sub channels an event is sent to.
func (b *Broadcaster) Channels(ev domain.Event) []string {
	switch e := ev.(type) {
	case domain.BidPlacedEvent:
		return []string{b.itemChannel(e.ItemID)}
	case domain.LotExtendedEvent:
		chans := []string{b.lotChannel(e.LotID)}
		if e.ItemID != uuid.Nil {
			chans = append(chans, b.itemChannel(e.ItemID))
		}
		return chans
	default:
		return []string{b.lotChannel(ev.Key())}
	}
}

func (b *Broadcaster) itemChannel(id uuid.UUID) string {
	return b.prefix + ":item:" + id.String()
}

func (b *Broadcaster) lotChannel(id uuid.UUID) string {
	return b.prefix + ":lot:" + id.String()
}
