package service

import (
	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/fjod/go_cart/storefront/internal/repository"
)

// OrderService exposes read access to placed orders.
type OrderService struct {
	orders repository.OrderRepository
}

func NewOrderService(orders repository.OrderRepository) *OrderService {
	return &OrderService{orders: orders}
}

func (s *OrderService) GetOrder(orderID string) (domain.Order, error) {
	return s.orders.Get(orderID)
}

// ListOrders returns orders newest first. A non-empty userID keeps only that
// user's orders.
func (s *OrderService) ListOrders(userID string) []domain.Order {
	all := s.orders.ListAll()
	if userID == "" {
		return all
	}

	filtered := make([]domain.Order, 0, len(all))
	for _, o := range all {
		if o.UserID == userID {
			filtered = append(filtered, o)
		}
	}
	return filtered
}
