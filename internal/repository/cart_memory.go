package repository

import (
	"fmt"
	"sync"
	"time"

	"github.com/fjod/go_cart/storefront/internal/domain"
)

type cartEntry struct {
	mu   sync.Mutex
	cart domain.Cart
}

// MemoryCartRepository keeps carts for the lifetime of the process.
// No eviction, no TTL.
type MemoryCartRepository struct {
	mu        sync.RWMutex
	carts     map[string]*cartEntry // cartID -> cart
	userCarts map[string]string     // userID -> cartID

	now func() time.Time
}

func NewMemoryCartRepository() *MemoryCartRepository {
	return &MemoryCartRepository{
		carts:     make(map[string]*cartEntry),
		userCarts: make(map[string]string),
		now:       time.Now,
	}
}

func (r *MemoryCartRepository) GetOrCreate(cartID, userID string) domain.Cart {
	entry := r.resolve(cartID, userID)

	entry.mu.Lock()
	defer entry.mu.Unlock()
	return entry.cart.Clone()
}

func (r *MemoryCartRepository) resolve(cartID, userID string) *cartEntry {
	r.mu.Lock()
	defer r.mu.Unlock()

	if userID != "" {
		if mappedID, ok := r.userCarts[userID]; ok {
			if entry, exists := r.carts[mappedID]; exists {
				return entry
			}
		}
	}

	if cartID != "" {
		if entry, exists := r.carts[cartID]; exists {
			return entry
		}
	}

	cart := domain.NewCart(userID, r.now())
	entry := &cartEntry{cart: cart}
	r.carts[cart.ID] = entry
	if userID != "" {
		// last writer wins
		r.userCarts[userID] = cart.ID
	}
	return entry
}

func (r *MemoryCartRepository) Get(cartID string) (domain.Cart, error) {
	entry, err := r.entry(cartID)
	if err != nil {
		return domain.Cart{}, err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	return entry.cart.Clone(), nil
}

func (r *MemoryCartRepository) Update(cartID string, fn func(cart *domain.Cart) error) (domain.Cart, error) {
	entry, err := r.entry(cartID)
	if err != nil {
		return domain.Cart{}, err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	working := entry.cart.Clone()
	if err := fn(&working); err != nil {
		return domain.Cart{}, err
	}

	entry.cart = working
	return working.Clone(), nil
}

func (r *MemoryCartRepository) entry(cartID string) (*cartEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, exists := r.carts[cartID]
	if !exists {
		return nil, fmt.Errorf("cart %q: %w", cartID, domain.ErrNotFound)
	}
	return entry, nil
}
