package nash

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/spooky-finn/go-nashio-adapter/domain/interfaces"
)

//go:embed products.json
var productsJSON []byte

var (
	productsOnce sync.Once
	products     []interfaces.Product
	productsErr  error
)

// Products returns the static product catalog shipped with the adapter.
func (api *SyncAPI) Products() ([]interfaces.Product, error) {
	productsOnce.Do(func() {
		productsErr = json.Unmarshal(productsJSON, &products)
		if productsErr != nil {
			productsErr = fmt.Errorf("failed to parse product catalog: %w", productsErr)
		}
	})

	return products, productsErr
}
