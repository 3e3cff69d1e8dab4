package storage

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/kianfelka-ship-it/D-ngerechner-Resp/internal/domain"
)

// LoadCatalogFromFile reads the fertilizer product catalog from a JSON file.
// File order is preserved; it becomes the catalog iteration order.
func LoadCatalogFromFile(path string) (domain.Catalog, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}

	var catalog domain.Catalog
	if err := json.Unmarshal(b, &catalog); err != nil {
		return nil, fmt.Errorf("unmarshal catalog: %w", err)
	}
	return catalog, nil
}
