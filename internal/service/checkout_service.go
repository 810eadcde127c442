package service

import (
	"context"
	"fmt"
	"time"

	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/fjod/go_cart/storefront/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type OrderPublisher interface {
	PublishOrderPlaced(ctx context.Context, order domain.Order) error
}

type CheckoutInput struct {
	CartID        string
	UserID        string
	CustomerInfo  domain.CustomerInfo
	PaymentMethod domain.PaymentMethod
}

type CheckoutService struct {
	carts  repository.CartRepository
	orders repository.OrderRepository
	events OrderPublisher
	logger *zap.Logger
	now    func() time.Time
}

func NewCheckoutService(
	carts repository.CartRepository,
	orders repository.OrderRepository,
	events OrderPublisher,
	logger *zap.Logger) *CheckoutService {

	return &CheckoutService{
		carts:  carts,
		orders: orders,
		events: events,
		logger: logger,
		now:    time.Now,
	}
}

// CreateOrder snapshots the resolved cart into a pending order and empties the
// cart. Storing the order and clearing the cart happen under the cart's lock,
// so either both are visible or neither is.
func (s *CheckoutService) CreateOrder(ctx context.Context, in CheckoutInput) (domain.Order, error) {
	cart := s.carts.GetOrCreate(in.CartID, in.UserID)

	var order domain.Order
	_, err := s.carts.Update(cart.ID, func(c *domain.Cart) error {
		if c.IsEmpty() {
			return domain.ErrEmptyCart
		}
		if !in.PaymentMethod.Valid() {
			return fmt.Errorf("%q: %w", in.PaymentMethod, domain.ErrInvalidPaymentMethod)
		}

		userID := in.UserID
		if userID == "" {
			userID = c.UserID
		}

		now := s.now()
		order = domain.Order{
			ID:            uuid.NewString(),
			CartID:        c.ID,
			UserID:        userID,
			CustomerInfo:  in.CustomerInfo,
			Items:         c.Clone().Items,
			TotalAmount:   c.TotalAmount,
			Currency:      c.Currency,
			PaymentMethod: in.PaymentMethod,
			Status:        domain.OrderStatusPending,
			CreatedAt:     now,
		}

		if err := s.orders.Create(order); err != nil {
			return fmt.Errorf("failed to store order: %w", err)
		}

		c.Clear()
		c.UpdatedAt = now
		return nil
	})
	if err != nil {
		return domain.Order{}, err
	}

	s.logger.Info("order created",
		zap.String("order_id", order.ID),
		zap.String("cart_id", order.CartID),
		zap.Int("items", len(order.Items)),
		zap.String("total", order.TotalAmount.String()))

	if errPublish := s.events.PublishOrderPlaced(ctx, order); errPublish != nil {
		s.logger.Warn("failed to publish order event", zap.String("order_id", order.ID), zap.Error(errPublish))
	}

	return order, nil
}
