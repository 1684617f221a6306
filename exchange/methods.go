package exchange

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spooky-finn/go-nashio-adapter/domain"
	"github.com/spooky-finn/go-nashio-adapter/domain/interfaces"
	promclient "github.com/spooky-finn/go-nashio-adapter/infrastructure/prometheus"
	"github.com/spooky-finn/go-nashio-adapter/usecase"
)

type TradesRequest struct {
	ProductID string
	// Before is the pagination cursor of an earlier page, empty for the
	// most recent one.
	Before string
}

type QuoteRequest struct {
	ProductID string
}

type BalanceRequest struct {
	Currency string
	Asset    string
}

type OrderRequest struct {
	ProductID string
	Size      string
	Price     string
	// OrderType is "maker" for limit orders and "taker" for market orders.
	OrderType string
	PostOnly  bool
}

type CancelRequest struct {
	OrderID string
}

type OrderStatusRequest struct {
	OrderID string
}

// Balance is the account balance for one asset/currency pair.
type Balance struct {
	Asset        decimal.Decimal
	AssetHold    decimal.Decimal
	Currency     decimal.Decimal
	CurrencyHold decimal.Decimal
}

// GetProducts returns the static product catalog.
func (e *Exchange) GetProducts() ([]interfaces.Product, error) {
	return e.gate.Client().Products()
}

func (e *Exchange) GetTrades(opts TradesRequest, cb func(error, []domain.TradeRecord)) {
	e.gate.Login(func(err error) {
		if err != nil {
			cb(err, nil)
			return
		}

		symbol, err := domain.NewMarketSymbolFromProductID(opts.ProductID)
		if err != nil {
			cb(err, nil)
			return
		}

		e.policy.Trades(symbol, opts.Before, cb)
	})
}

func (e *Exchange) GetQuote(opts QuoteRequest, cb func(error, *usecase.Quote)) {
	e.gate.Login(func(err error) {
		if err != nil {
			cb(err, nil)
			return
		}

		symbol, err := domain.NewMarketSymbolFromProductID(opts.ProductID)
		if err != nil {
			cb(err, nil)
			return
		}

		e.policy.Quote(symbol, cb)
	})
}

func (e *Exchange) GetBalance(opts BalanceRequest, cb func(error, *Balance)) {
	e.gate.Login(func(err error) {
		if err != nil {
			cb(err, nil)
			return
		}

		client := e.gate.Client()

		currency, err := client.AccountBalance(opts.Currency)
		if err != nil {
			cb(err, nil)
			return
		}

		asset, err := client.AccountBalance(opts.Asset)
		if err != nil {
			cb(err, nil)
			return
		}

		balance, err := buildBalance(asset, currency)
		if err != nil {
			cb(err, nil)
			return
		}

		cb(nil, balance)
	})
}

func (e *Exchange) Buy(opts OrderRequest, cb func(error, *domain.LocalOrder)) {
	e.trade(domain.SideBuy, opts, cb)
}

func (e *Exchange) Sell(opts OrderRequest, cb func(error, *domain.LocalOrder)) {
	e.trade(domain.SideSell, opts, cb)
}

func (e *Exchange) CancelOrder(opts CancelRequest, cb func(error)) {
	e.gate.Login(func(err error) {
		if err != nil {
			cb(err)
			return
		}
		cb(e.gate.Client().CancelOrder(opts.OrderID))
	})
}

// GetOrder reconciles the exchange-reported status of a tracked order into
// the canonical vocabulary. An id that was never placed through this
// process is reported as ErrUnknownOrder.
func (e *Exchange) GetOrder(opts OrderStatusRequest, cb func(error, *domain.LocalOrder)) {
	e.gate.Login(func(err error) {
		if err != nil {
			cb(err, nil)
			return
		}

		if _, err := e.orders.Get(opts.OrderID); err != nil {
			cb(err, nil)
			return
		}

		status, err := e.gate.Client().OrderStatus(opts.OrderID)
		if err != nil {
			cb(err, nil)
			return
		}

		order, err := e.orders.Reconcile(opts.OrderID, status)
		cb(err, order)
	})
}

// GetCursor returns the token to pass as Before on the next GetTrades call
// in a backward history scan.
func (e *Exchange) GetCursor(record domain.TradeRecord) string {
	return e.policy.Cursor(record)
}

func (e *Exchange) trade(side domain.Side, opts OrderRequest, cb func(error, *domain.LocalOrder)) {
	e.gate.Login(func(err error) {
		if err != nil {
			cb(err, nil)
			return
		}

		symbol, err := domain.NewMarketSymbolFromProductID(opts.ProductID)
		if err != nil {
			cb(err, nil)
			return
		}

		if opts.OrderType == "taker" {
			e.placeMarketOrder(symbol, side, opts, cb)
			return
		}
		e.placeLimitOrder(symbol, side, opts, cb)
	})
}

func (e *Exchange) placeMarketOrder(symbol *domain.MarketSymbol, side domain.Side, opts OrderRequest, cb func(error, *domain.LocalOrder)) {
	ack, err := e.gate.Client().PlaceMarketOrder(interfaces.MarketOrderRequest{
		Symbol: symbol,
		Side:   side,
		Size:   opts.Size,
	})
	if err != nil {
		e.placementFailed(err, cb)
		return
	}

	// Price and size are unknown for immediate orders at placement time.
	order := &domain.LocalOrder{
		ID:         ack.ID,
		Status:     domain.OrderStatusOpen,
		CreatedAt:  time.Now().UnixMilli(),
		FilledSize: decimal.Zero,
		PostOnly:   opts.PostOnly,
	}

	e.track(order)
	cb(nil, order)
}

func (e *Exchange) placeLimitOrder(symbol *domain.MarketSymbol, side domain.Side, opts OrderRequest, cb func(error, *domain.LocalOrder)) {
	price, err := decimal.NewFromString(opts.Price)
	if err != nil {
		cb(err, nil)
		return
	}
	size, err := decimal.NewFromString(opts.Size)
	if err != nil {
		cb(err, nil)
		return
	}

	ack, err := e.gate.Client().PlaceLimitOrder(interfaces.LimitOrderRequest{
		Symbol:   symbol,
		Side:     side,
		Size:     opts.Size,
		Price:    opts.Price,
		PostOnly: opts.PostOnly,
	})
	if err != nil {
		e.placementFailed(err, cb)
		return
	}

	order := &domain.LocalOrder{
		ID:         ack.ID,
		Status:     domain.OrderStatusOpen,
		Price:      &price,
		Size:       &size,
		CreatedAt:  time.Now().UnixMilli(),
		FilledSize: decimal.Zero,
		PostOnly:   opts.PostOnly,
	}

	e.track(order)
	cb(nil, order)
}

// placementFailed splits business rejections from transport failures. A
// rejection is a domain value: the caller gets a successful callback with a
// rejected-status order and no error. Anything else goes out on the error
// channel.
func (e *Exchange) placementFailed(err error, cb func(error, *domain.LocalOrder)) {
	var rejection *domain.RejectionError
	if errors.As(err, &rejection) {
		logger.Printf("placement rejected: %s", rejection.Reason)
		promclient.RejectedOrderCounter.Inc()
		cb(nil, domain.RejectedOrder())
		return
	}

	cb(err, nil)
}

func (e *Exchange) track(order *domain.LocalOrder) {
	e.orders.Track(order)
	promclient.TrackedOrdersGauge.Set(float64(e.orders.Len()))
}

func buildBalance(asset, currency *interfaces.Balance) (*Balance, error) {
	assetAvailable, err := decimal.NewFromString(asset.Available)
	if err != nil {
		return nil, err
	}
	assetHold, err := decimal.NewFromString(asset.Hold)
	if err != nil {
		return nil, err
	}
	currencyAvailable, err := decimal.NewFromString(currency.Available)
	if err != nil {
		return nil, err
	}
	currencyHold, err := decimal.NewFromString(currency.Hold)
	if err != nil {
		return nil, err
	}

	return &Balance{
		Asset:        assetAvailable,
		AssetHold:    assetHold,
		Currency:     currencyAvailable,
		CurrencyHold: currencyHold,
	}, nil
}
