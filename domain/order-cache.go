package domain

import "sync"

// OrderCache maps exchange order ids to locally tracked orders. Orders are
// created on placement and never removed within a run.
type OrderCache struct {
	mu     sync.Mutex
	orders map[string]*LocalOrder
}

func NewOrderCache() *OrderCache {
	return &OrderCache{
		orders: make(map[string]*LocalOrder),
	}
}

func (c *OrderCache) Track(order *LocalOrder) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.orders[order.ID] = order
}

// Get returns the tracked order for the given id, or ErrUnknownOrder when
// the id was never placed through this process.
func (c *OrderCache) Get(orderID string) (*LocalOrder, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	order, ok := c.orders[orderID]
	if !ok {
		return nil, ErrUnknownOrder
	}
	return order, nil
}

// Reconcile updates a tracked order with an exchange-reported status and
// returns the record. Statuses outside the canonical mapping leave the
// local status untouched.
func (c *OrderCache) Reconcile(orderID string, status ExchangeOrderStatus) (*LocalOrder, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	order, ok := c.orders[orderID]
	if !ok {
		return nil, ErrUnknownOrder
	}

	if canonical, ok := CanonicalOrderStatus(status); ok {
		order.Status = canonical
	}
	return order, nil
}

func (c *OrderCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.orders)
}
