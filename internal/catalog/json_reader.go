package catalog

import (
	"context"
	"encoding/json"
	"os"

	"github.com/fjod/go_cart/storefront/internal/domain"
	"go.uber.org/zap"
)

// JSONFileReader re-reads a JSON array of products on every call.
type JSONFileReader struct {
	path   string
	logger *zap.Logger
}

func NewJSONFileReader(path string, logger *zap.Logger) *JSONFileReader {
	return &JSONFileReader{path: path, logger: logger}
}

func (r *JSONFileReader) ListProducts(_ context.Context) []domain.Product {
	data, err := os.ReadFile(r.path)
	if err != nil {
		r.logger.Error("error reading products data", zap.String("path", r.path), zap.Error(err))
		return []domain.Product{}
	}

	var products []domain.Product
	if err := json.Unmarshal(data, &products); err != nil {
		r.logger.Error("error parsing products data", zap.String("path", r.path), zap.Error(err))
		return []domain.Product{}
	}
	if products == nil {
		products = []domain.Product{}
	}
	return products
}
