package eventbus

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/lotbid-backend/internal/domain"
)

// Envelope is the wire form shared by every sink.
type Envelope struct {
	ID         string           `json:"id"`
	Type       domain.EventType `json:"type"`
	Key        uuid.UUID        `json:"key"`
	OccurredAt time.Time        `json:"occurred_at"`
	Data       json.RawMessage  `json:"data"`
}

// Encode wraps ev in an Envelope and marshals it.
func Encode(ev domain.Event) ([]byte, error) {
	data, err := json.Marshal(ev)
	if err != nil {
		return nil, fmt.Errorf("marshal %s: %w", ev.Type(), err)
	}

	return json.Marshal(Envelope{
		ID:         MessageID(ev),
		Type:       ev.Type(),
		Key:        ev.Key(),
		OccurredAt: ev.OccurredAt().UTC(),
		Data:       data,
	})
}

// MessageID is stable for a given fact, so sinks can de-duplicate redeliveries.
func MessageID(ev domain.Event) string {
	switch e := ev.(type) {
	case domain.BidPlacedEvent:
		return "bid:" + e.BidID.String()
	case domain.LotExtendedEvent:
		return fmt.Sprintf("lot:%s:ext:%d", e.LotID, e.ExtendedCount)
	case domain.LotClosedEvent:
		return "lot:" + e.LotID.String() + ":closed"
	default:
		return fmt.Sprintf("%s:%s:%d", ev.Type(), ev.Key(), ev.OccurredAt().UnixNano())
	}
}
