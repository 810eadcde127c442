package publisher

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
)

type OrderPublisher interface {
	PublishOrderPlaced(ctx context.Context, order domain.Order) error
}

type outboxEvent struct {
	id       int64
	order    domain.Order
	attempts int
}

// Outbox accepts order events without touching the broker. The poller moves
// them out, so a broker outage never reaches the checkout path.
type Outbox struct {
	mu      sync.Mutex
	seq     int64
	pending []*outboxEvent
}

func NewOutbox() *Outbox {
	return &Outbox{}
}

func (o *Outbox) PublishOrderPlaced(_ context.Context, order domain.Order) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.seq++
	o.pending = append(o.pending, &outboxEvent{id: o.seq, order: order.Clone()})
	return nil
}

// Pending returns the number of events not yet delivered.
func (o *Outbox) Pending() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.pending)
}

func (o *Outbox) unprocessed(limit int) []*outboxEvent {
	o.mu.Lock()
	defer o.mu.Unlock()

	n := min(limit, len(o.pending))
	out := make([]*outboxEvent, n)
	copy(out, o.pending[:n])
	return out
}

func (o *Outbox) markProcessed(id int64) {
	o.mu.Lock()
	defer o.mu.Unlock()

	for i, ev := range o.pending {
		if ev.id == id {
			o.pending = append(o.pending[:i], o.pending[i+1:]...)
			return
		}
	}
}

func (o *Outbox) markFailed(id int64) int {
	o.mu.Lock()
	defer o.mu.Unlock()

	for _, ev := range o.pending {
		if ev.id == id {
			ev.attempts++
			return ev.attempts
		}
	}
	return 0
}

// OutboxPoller periodically forwards outbox events to the broker.
type OutboxPoller struct {
	outbox *Outbox
	target OrderPublisher
	tick   time.Duration
	batch  int
	logger *zap.Logger
}

func NewOutboxPoller(outbox *Outbox, target OrderPublisher, logger *zap.Logger) *OutboxPoller {
	return &OutboxPoller{
		outbox: outbox,
		target: target,
		tick:   time.Second,
		batch:  100,
		logger: logger,
	}
}

func (p *OutboxPoller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.tick)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			p.processUnpublishedEvents(ctx)
		case <-ctx.Done():
			return
		}
	}
}

// Flush makes one delivery pass, used on shutdown after Run has returned.
func (p *OutboxPoller) Flush(ctx context.Context) {
	p.processUnpublishedEvents(ctx)
	if left := p.outbox.Pending(); left > 0 {
		p.logger.Warn("order events left undelivered", zap.Int("count", left))
	}
}

func (p *OutboxPoller) processUnpublishedEvents(ctx context.Context) {
	for _, ev := range p.outbox.unprocessed(p.batch) {
		err := p.target.PublishOrderPlaced(ctx, ev.order)
		if errors.Is(err, gobreaker.ErrOpenState) {
			p.logger.Debug("broker circuit open, skipping outbox pass", zap.Int("pending", p.outbox.Pending()))
			return
		}
		if err != nil {
			attempts := p.outbox.markFailed(ev.id)
			p.logger.Warn("failed to publish order event",
				zap.String("order_id", ev.order.ID),
				zap.Int("attempts", attempts),
				zap.Error(err))
			continue
		}
		p.outbox.markProcessed(ev.id)
	}
}
