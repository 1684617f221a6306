package interfaces

import (
	"github.com/spooky-finn/go-nashio-adapter/domain"
)

type Credentials struct {
	APIKey string
	Secret string
}

// OrderBookSnapshotResult is a full order book snapshot fetched via pull.
type OrderBookSnapshotResult struct {
	Asks []domain.BookEntry
	Bids []domain.BookEntry
}

// TradeHistoryPage is a single page of trade history. Next is the opaque
// token of the next (older) page in a backward scan, empty on the last page.
type TradeHistoryPage struct {
	Trades []domain.RawTrade
	Next   string
}

// Balance is the account balance for a single currency. Both fields are
// decimal strings.
type Balance struct {
	Available string
	Hold      string
}

type LimitOrderRequest struct {
	Symbol   *domain.MarketSymbol
	Side     domain.Side
	Size     string
	Price    string
	PostOnly bool
}

type MarketOrderRequest struct {
	Symbol *domain.MarketSymbol
	Side   domain.Side
	Size   string
}

// OrderAck is the exchange's acknowledgement of a placed order.
type OrderAck struct {
	ID string
}

type Product struct {
	ID        string `json:"id"`
	Asset     string `json:"asset"`
	Currency  string `json:"currency"`
	MinSize   string `json:"min_size"`
	MaxSize   string `json:"max_size"`
	Increment string `json:"increment"`
	Label     string `json:"label"`
}

// SyncAPI is the pull side of the exchange client: on-demand queries and
// trading calls. All methods block for the network round-trip; callers that
// need the callback contract run them from goroutines.
type SyncAPI interface {
	Login(creds Credentials) error
	Products() ([]Product, error)
	OrderBookSnapshot(symbol *domain.MarketSymbol) (*OrderBookSnapshotResult, error)
	TradeHistory(symbol *domain.MarketSymbol, before string) (*TradeHistoryPage, error)
	AccountBalance(currency string) (*Balance, error)
	PlaceLimitOrder(req LimitOrderRequest) (*OrderAck, error)
	PlaceMarketOrder(req MarketOrderRequest) (*OrderAck, error)
	CancelOrder(orderID string) error
	OrderStatus(orderID string) (domain.ExchangeOrderStatus, error)
}

// StreamAPI is the push side of the exchange client: standing subscriptions
// delivering unsolicited updates.
type StreamAPI interface {
	DepthDiffStream(symbol *domain.MarketSymbol) (*Subscription[*domain.OrderBookUpdate], error)
	TradeStream(symbol *domain.MarketSymbol) (*Subscription[[]domain.RawTrade], error)
}
