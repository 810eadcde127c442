package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func writeCatalog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "products.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestJSONFileReader_ListProducts(t *testing.T) {
	path := writeCatalog(t, `[
		{"id": 1, "name": "Shirt", "price": 10.5, "currency": "INR", "stock": 5, "image": "a.png", "brand": "B", "category": "Clothing"},
		{"id": 2, "name": "Mug", "price": 3, "currency": "INR", "stock": 0, "image": "b.png", "brand": "C", "category": "Home"}
	]`)
	reader := NewJSONFileReader(path, zap.NewNop())

	products := reader.ListProducts(context.Background())
	require.Len(t, products, 2)
	assert.Equal(t, int64(1), products[0].ID)
	assert.Equal(t, "Shirt", products[0].Name)
	assert.True(t, decimal.RequireFromString("10.5").Equal(products[0].Price))
	assert.Equal(t, 5, products[0].Stock)
	assert.Equal(t, "Clothing", products[0].Category)
}

func TestJSONFileReader_RereadsOnEveryCall(t *testing.T) {
	path := writeCatalog(t, `[{"id": 1, "name": "Shirt", "price": 10, "stock": 5}]`)
	reader := NewJSONFileReader(path, zap.NewNop())

	first := reader.ListProducts(context.Background())
	require.Len(t, first, 1)
	assert.Equal(t, 5, first[0].Stock)

	require.NoError(t, os.WriteFile(path, []byte(`[{"id": 1, "name": "Shirt", "price": 10, "stock": 1}]`), 0o600))

	second := reader.ListProducts(context.Background())
	require.Len(t, second, 1)
	assert.Equal(t, 1, second[0].Stock)
}

func TestJSONFileReader_MissingFileIsEmpty(t *testing.T) {
	reader := NewJSONFileReader(filepath.Join(t.TempDir(), "nope.json"), zap.NewNop())

	products := reader.ListProducts(context.Background())
	assert.NotNil(t, products)
	assert.Empty(t, products)
}

func TestJSONFileReader_MalformedFileIsEmpty(t *testing.T) {
	reader := NewJSONFileReader(writeCatalog(t, `{not json`), zap.NewNop())

	assert.Empty(t, reader.ListProducts(context.Background()))
}

func TestFind(t *testing.T) {
	path := writeCatalog(t, `[{"id": 1, "name": "A"}, {"id": 2, "name": "B"}]`)
	products := NewJSONFileReader(path, zap.NewNop()).ListProducts(context.Background())

	p, ok := Find(products, 2)
	require.True(t, ok)
	assert.Equal(t, "B", p.Name)

	_, ok = Find(products, 99)
	assert.False(t, ok)
}

func TestFilterByCategory(t *testing.T) {
	path := writeCatalog(t, `[
		{"id": 1, "category": "Clothing"},
		{"id": 2, "category": "Home"},
		{"id": 3, "category": "clothing"}
	]`)
	products := NewJSONFileReader(path, zap.NewNop()).ListProducts(context.Background())

	filtered := FilterByCategory(products, "CLOTHING")
	require.Len(t, filtered, 2)
	assert.Equal(t, int64(1), filtered[0].ID)
	assert.Equal(t, int64(3), filtered[1].ID)

	assert.Empty(t, FilterByCategory(products, "Toys"))
}
