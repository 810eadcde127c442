package repository

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupCartRepo(t *testing.T) *MemoryCartRepository {
	t.Helper()
	repo := NewMemoryCartRepository()
	repo.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }
	return repo
}

func testItem(productID int64, price string, quantity int) domain.CartItem {
	return domain.NewCartItem(domain.Product{
		ID:       productID,
		Name:     "p",
		Price:    decimal.RequireFromString(price),
		Currency: domain.DefaultCurrency,
		Stock:    100,
	}, quantity)
}

func TestGetOrCreate_NewAnonymousCart(t *testing.T) {
	repo := setupCartRepo(t)

	cart := repo.GetOrCreate("", "")
	assert.NotEmpty(t, cart.ID)
	assert.Empty(t, cart.UserID)
	assert.Empty(t, cart.Items)

	again := repo.GetOrCreate(cart.ID, "")
	assert.Equal(t, cart.ID, again.ID)
}

func TestGetOrCreate_UnknownCartIDCreatesFreshCart(t *testing.T) {
	repo := setupCartRepo(t)

	cart := repo.GetOrCreate("does-not-exist", "")
	assert.NotEqual(t, "does-not-exist", cart.ID)

	_, err := repo.Get(cart.ID)
	require.NoError(t, err)
}

func TestGetOrCreate_UserMappingTakesPrecedence(t *testing.T) {
	repo := setupCartRepo(t)

	userCart := repo.GetOrCreate("", "user-1")
	anonCart := repo.GetOrCreate("", "")
	require.NotEqual(t, userCart.ID, anonCart.ID)

	resolved := repo.GetOrCreate(anonCart.ID, "user-1")
	assert.Equal(t, userCart.ID, resolved.ID)
	assert.Equal(t, "user-1", resolved.UserID)
}

func TestGetOrCreate_FallsBackToCartIDWithoutBinding(t *testing.T) {
	repo := setupCartRepo(t)

	anonCart := repo.GetOrCreate("", "")
	resolved := repo.GetOrCreate(anonCart.ID, "user-2")
	assert.Equal(t, anonCart.ID, resolved.ID)

	// user-2 has no mapping yet, so the next lookup without a cart id creates one
	fresh := repo.GetOrCreate("", "user-2")
	assert.NotEqual(t, anonCart.ID, fresh.ID)
	assert.Equal(t, fresh.ID, repo.GetOrCreate("", "user-2").ID)
}

func TestGet_NotFound(t *testing.T) {
	repo := setupCartRepo(t)

	_, err := repo.Get("missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdate_CommitsOnSuccess(t *testing.T) {
	repo := setupCartRepo(t)
	cart := repo.GetOrCreate("", "")

	updated, err := repo.Update(cart.ID, func(c *domain.Cart) error {
		c.Items = append(c.Items, testItem(1, "10", 2))
		c.Recalculate()
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, updated.TotalItems)

	stored, err := repo.Get(cart.ID)
	require.NoError(t, err)
	require.Len(t, stored.Items, 1)
	assert.True(t, decimal.NewFromInt(20).Equal(stored.TotalAmount))
}

func TestUpdate_DiscardsOnError(t *testing.T) {
	repo := setupCartRepo(t)
	cart := repo.GetOrCreate("", "")
	_, err := repo.Update(cart.ID, func(c *domain.Cart) error {
		c.Items = append(c.Items, testItem(1, "10", 2))
		c.Recalculate()
		return nil
	})
	require.NoError(t, err)

	boom := errors.New("boom")
	_, err = repo.Update(cart.ID, func(c *domain.Cart) error {
		c.Items[0].Quantity = 9
		c.Items = append(c.Items, testItem(2, "1", 1))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	stored, err := repo.Get(cart.ID)
	require.NoError(t, err)
	require.Len(t, stored.Items, 1)
	assert.Equal(t, 2, stored.Items[0].Quantity)
	assert.Equal(t, 2, stored.TotalItems)
}

func TestUpdate_UnknownCart(t *testing.T) {
	repo := setupCartRepo(t)

	_, err := repo.Update("missing", func(*domain.Cart) error { return nil })
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReturnedCartsAreCopies(t *testing.T) {
	repo := setupCartRepo(t)
	cart := repo.GetOrCreate("", "")
	updated, err := repo.Update(cart.ID, func(c *domain.Cart) error {
		c.Items = append(c.Items, testItem(1, "10", 1))
		return nil
	})
	require.NoError(t, err)

	updated.Items[0].Quantity = 100

	stored, err := repo.Get(cart.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.Items[0].Quantity)
}

func TestUpdate_ConcurrentWritersAreSerialized(t *testing.T) {
	repo := setupCartRepo(t)
	cart := repo.GetOrCreate("", "")
	_, err := repo.Update(cart.ID, func(c *domain.Cart) error {
		c.Items = append(c.Items, testItem(1, "1", 0))
		return nil
	})
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = repo.Update(cart.ID, func(c *domain.Cart) error {
				c.Items[0].Quantity++
				c.Recalculate()
				return nil
			})
		}()
	}
	wg.Wait()

	stored, err := repo.Get(cart.ID)
	require.NoError(t, err)
	assert.Equal(t, 50, stored.Items[0].Quantity)
	assert.Equal(t, 50, stored.TotalItems)
}
