package domain

import (
	"fmt"
	"strings"
)

type MarketSymbol struct {
	BaseAsset  string
	QuoteAsset string
}

func NewMarketSymbol(base string, quote string) (*MarketSymbol, error) {
	if base == quote {
		return nil, fmt.Errorf("base and quote must be different")
	}
	if base == "" || quote == "" {
		return nil, fmt.Errorf("base and quote must not be empty")
	}
	base = strings.ToLower(base)
	quote = strings.ToLower(quote)
	return &MarketSymbol{
		BaseAsset:  base,
		QuoteAsset: quote,
	}, nil
}

// NewMarketSymbolFromProductID parses a product id of the "BTC-USD" form.
func NewMarketSymbolFromProductID(s string) (*MarketSymbol, error) {
	split := strings.Split(s, "-")

	if len(split) != 2 {
		return nil, fmt.Errorf("invalid product id %q", s)
	}

	base := split[0]
	quote := split[1]
	return NewMarketSymbol(base, quote)
}

func (ms *MarketSymbol) Join(separator string) string {
	return fmt.Sprintf("%s%s%s", ms.BaseAsset, separator, ms.QuoteAsset)
}

// String returns the exchange market name, e.g. "btc_usd".
func (ms *MarketSymbol) String() string {
	return fmt.Sprintf("%s_%s", ms.BaseAsset, ms.QuoteAsset)
}

// ProductID returns the caller-facing product id, e.g. "BTC-USD".
func (ms *MarketSymbol) ProductID() string {
	return strings.ToUpper(fmt.Sprintf("%s-%s", ms.BaseAsset, ms.QuoteAsset))
}

func (ms *MarketSymbol) Equal(other *MarketSymbol) bool {
	return ms.BaseAsset == other.BaseAsset && ms.QuoteAsset == other.QuoteAsset
}
