package repository

import (
	"fmt"
	"sort"
	"sync"

	"github.com/fjod/go_cart/storefront/internal/domain"
)

type orderEntry struct {
	seq   uint64
	order domain.Order
}

// MemoryOrderRepository implements OrderRepository with in-memory storage
type MemoryOrderRepository struct {
	mu     sync.RWMutex
	orders map[string]orderEntry // orderID -> order
	seq    uint64
}

func NewMemoryOrderRepository() *MemoryOrderRepository {
	return &MemoryOrderRepository{
		orders: make(map[string]orderEntry),
	}
}

func (r *MemoryOrderRepository) Create(order domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.orders[order.ID]; exists {
		return fmt.Errorf("order %q: %w", order.ID, ErrDuplicateOrder)
	}

	r.seq++
	r.orders[order.ID] = orderEntry{seq: r.seq, order: order.Clone()}
	return nil
}

func (r *MemoryOrderRepository) Get(orderID string) (domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, exists := r.orders[orderID]
	if !exists {
		return domain.Order{}, fmt.Errorf("order %q: %w", orderID, domain.ErrNotFound)
	}
	return entry.order.Clone(), nil
}

func (r *MemoryOrderRepository) ListAll() []domain.Order {
	r.mu.RLock()
	entries := make([]orderEntry, 0, len(r.orders))
	for _, entry := range r.orders {
		entries = append(entries, entry)
	}
	r.mu.RUnlock()

	// newest first; insertion order breaks timestamp ties
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if !a.order.CreatedAt.Equal(b.order.CreatedAt) {
			return a.order.CreatedAt.After(b.order.CreatedAt)
		}
		return a.seq > b.seq
	})

	result := make([]domain.Order, 0, len(entries))
	for _, entry := range entries {
		result = append(result, entry.order.Clone())
	}
	return result
}
