package publisher

import (
	"context"
	"time"

	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
)

const (
	breakerName        = "order-events"
	breakerMaxFailures = 5
	breakerOpenTimeout = 10 * time.Second
)

// BreakerPublisher stops calling the broker after consecutive failures and
// lets a single probe through once the open timeout has passed.
type BreakerPublisher struct {
	next OrderPublisher
	cb   *gobreaker.CircuitBreaker[struct{}]
}

func NewBreakerPublisher(next OrderPublisher, logger *zap.Logger) *BreakerPublisher {
	return &BreakerPublisher{
		next: next,
		cb: gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
			Name:        breakerName,
			MaxRequests: 1,
			Timeout:     breakerOpenTimeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= breakerMaxFailures
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				logger.Warn("circuit breaker state changed",
					zap.String("name", name),
					zap.Stringer("from", from),
					zap.Stringer("to", to))
			},
		}),
	}
}

func (p *BreakerPublisher) PublishOrderPlaced(ctx context.Context, order domain.Order) error {
	_, err := p.cb.Execute(func() (struct{}, error) {
		return struct{}{}, p.next.PublishOrderPlaced(ctx, order)
	})
	return err
}
