package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/PabloGalante/callorder-agent/internal/domain"
	"github.com/PabloGalante/callorder-agent/internal/observability"
)

// OrderEvent is the message sent for every finished call.
type OrderEvent struct {
	Type    string                `json:"type"`
	OrderID string                `json:"order_id"`
	CallID  domain.CallID         `json:"call_id"`
	EndedAt time.Time             `json:"ended_at"`
	Order   domain.ExtractedOrder `json:"order"`
	Missing []string              `json:"missing,omitempty"`
}

const orderPlaced = "order.placed"

// OrderEvents is a domain.RecordSink that publishes each record as an
// OrderEvent. The transcript itself is not sent.
type OrderEvents struct {
	mu       sync.Mutex
	pub      Publisher
	exchange string
}

func NewOrderEvents(pub Publisher, exchange string) *OrderEvents {
	return &OrderEvents{pub: pub, exchange: exchange}
}

func (o *OrderEvents) SaveCall(ctx context.Context, rec *domain.CallRecord) error {
	body, err := json.Marshal(OrderEvent{
		Type:    orderPlaced,
		OrderID: rec.OrderID,
		CallID:  rec.CallID,
		EndedAt: rec.EndedAt,
		Order:   rec.Order,
		Missing: rec.Order.Missing(),
	})
	if err != nil {
		return fmt.Errorf("encode order event: %w", err)
	}

	o.mu.Lock()
	err = o.pub.Publish(o.exchange, rec.OrderID, body)
	o.mu.Unlock()
	if err != nil {
		return fmt.Errorf("publish order %s: %w", rec.OrderID, err)
	}

	observability.LoggerFromContext(ctx).Info("order event published",
		"exchange", o.exchange,
		"order_id", rec.OrderID)
	return nil
}

// Close closes the publisher when it holds a connection.
func (o *OrderEvents) Close() error {
	if c, ok := o.pub.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}
