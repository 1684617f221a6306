package domain

import (
	"fmt"
	"sync"

	"github.com/shopspring/decimal"
)

// BookEntry is a single price level delta as delivered by the exchange.
// Both fields are decimal strings.
type BookEntry struct {
	Price string
	Size  string
}

// OrderBookUpdate is a batch of leveled deltas for one market.
type OrderBookUpdate struct {
	Asks []BookEntry
	Bids []BookEntry
}

type priceLevel struct {
	price decimal.Decimal
	size  decimal.Decimal
}

// OrderBook is the in-memory price-level cache for one market. Levels are
// keyed by the raw price string; a delta with size zero removes its level,
// so no stored size is ever zero.
type OrderBook struct {
	mu   sync.Mutex
	asks map[string]priceLevel
	bids map[string]priceLevel
}

func NewOrderBook() *OrderBook {
	return &OrderBook{
		asks: make(map[string]priceLevel),
		bids: make(map[string]priceLevel),
	}
}

// Update applies a batch of ask and bid deltas. The whole batch is parsed
// up front and applied under one lock, so a reader never observes a
// partially applied batch. A malformed entry fails the call before any
// level is touched.
func (ob *OrderBook) Update(asks []BookEntry, bids []BookEntry) error {
	parsedAsks, err := parseBookEntries(asks)
	if err != nil {
		return fmt.Errorf("asks: %w", err)
	}
	parsedBids, err := parseBookEntries(bids)
	if err != nil {
		return fmt.Errorf("bids: %w", err)
	}

	ob.mu.Lock()
	defer ob.mu.Unlock()

	applyDepth(ob.asks, asks, parsedAsks)
	applyDepth(ob.bids, bids, parsedBids)
	return nil
}

// BestBid returns the maximum bid price. The second result is false when
// the bid side has no levels.
func (ob *OrderBook) BestBid() (decimal.Decimal, bool) {
	ob.mu.Lock()
	defer ob.mu.Unlock()
	return bestPrice(ob.bids, func(candidate, best decimal.Decimal) bool {
		return candidate.GreaterThan(best)
	})
}

// BestAsk returns the minimum ask price. The second result is false when
// the ask side has no levels.
func (ob *OrderBook) BestAsk() (decimal.Decimal, bool) {
	ob.mu.Lock()
	defer ob.mu.Unlock()
	return bestPrice(ob.asks, func(candidate, best decimal.Decimal) bool {
		return candidate.LessThan(best)
	})
}

// Depth returns the number of stored ask and bid levels.
func (ob *OrderBook) Depth() (asks int, bids int) {
	ob.mu.Lock()
	defer ob.mu.Unlock()
	return len(ob.asks), len(ob.bids)
}

func applyDepth(side map[string]priceLevel, entries []BookEntry, parsed []priceLevel) {
	for i, entry := range entries {
		level := parsed[i]
		if level.size.IsZero() {
			delete(side, entry.Price)
		} else {
			side[entry.Price] = level
		}
	}
}

func bestPrice(side map[string]priceLevel, better func(candidate, best decimal.Decimal) bool) (decimal.Decimal, bool) {
	found := false
	var best decimal.Decimal

	for _, level := range side {
		if !found || better(level.price, best) {
			best = level.price
			found = true
		}
	}

	return best, found
}

func parseBookEntries(entries []BookEntry) ([]priceLevel, error) {
	result := make([]priceLevel, len(entries))
	for i, entry := range entries {
		price, err := decimal.NewFromString(entry.Price)
		if err != nil {
			return nil, fmt.Errorf("failed to parse price %q: %w", entry.Price, err)
		}
		size, err := decimal.NewFromString(entry.Size)
		if err != nil {
			return nil, fmt.Errorf("failed to parse size %q: %w", entry.Size, err)
		}
		result[i] = priceLevel{price: price, size: size}
	}
	return result, nil
}
