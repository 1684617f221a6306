package domain

import "github.com/shopspring/decimal"

// OrderStatus is the canonical three-value reduction of the exchange's
// status vocabulary.
type OrderStatus string

const (
	OrderStatusOpen     OrderStatus = "open"
	OrderStatusDone     OrderStatus = "done"
	OrderStatusRejected OrderStatus = "rejected"
)

// ExchangeOrderStatus is a status string as reported by the exchange.
type ExchangeOrderStatus string

const (
	ExchangeOrderStatusOpen      ExchangeOrderStatus = "OPEN"
	ExchangeOrderStatusPending   ExchangeOrderStatus = "PENDING"
	ExchangeOrderStatusFilled    ExchangeOrderStatus = "FILLED"
	ExchangeOrderStatusCancelled ExchangeOrderStatus = "CANCELLED"
)

// CanonicalOrderStatus maps an exchange-reported status into the canonical
// vocabulary. The second result is false for statuses outside the mapping
// table, in which case the local status is left as-is by the caller.
func CanonicalOrderStatus(s ExchangeOrderStatus) (OrderStatus, bool) {
	switch s {
	case ExchangeOrderStatusCancelled:
		return OrderStatusRejected, true
	case ExchangeOrderStatusFilled:
		return OrderStatusDone, true
	case ExchangeOrderStatusOpen, ExchangeOrderStatusPending:
		return OrderStatusOpen, true
	}
	return "", false
}

// LocalOrder is a locally tracked order record. Price and Size are nil for
// market orders, where they are unknown at placement time.
type LocalOrder struct {
	ID         string
	Status     OrderStatus
	Price      *decimal.Decimal
	Size       *decimal.Decimal
	CreatedAt  int64
	FilledSize decimal.Decimal
	PostOnly   bool
}

// RejectedOrder builds the sentinel returned when a placement is rejected
// for business reasons. It is never stored in the order cache.
func RejectedOrder() *LocalOrder {
	return &LocalOrder{Status: OrderStatusRejected}
}
