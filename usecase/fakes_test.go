package usecase_test

import (
	"sync"

	"github.com/spooky-finn/go-nashio-adapter/domain"
	"github.com/spooky-finn/go-nashio-adapter/domain/interfaces"
)

type fakeSyncAPI struct {
	mu sync.Mutex

	loginCalls int
	loginErr   error
	// when set, Login blocks until the channel is closed
	loginGate chan struct{}

	snapshot      *interfaces.OrderBookSnapshotResult
	snapshotCalls int

	pages     []*interfaces.TradeHistoryPage
	pageCalls []string
}

func (f *fakeSyncAPI) Login(creds interfaces.Credentials) error {
	f.mu.Lock()
	f.loginCalls++
	gate := f.loginGate
	err := f.loginErr
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}
	return err
}

func (f *fakeSyncAPI) LoginCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.loginCalls
}

func (f *fakeSyncAPI) SetLoginErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loginErr = err
}

func (f *fakeSyncAPI) OrderBookSnapshot(symbol *domain.MarketSymbol) (*interfaces.OrderBookSnapshotResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.snapshotCalls++
	if f.snapshot == nil {
		return &interfaces.OrderBookSnapshotResult{}, nil
	}
	return f.snapshot, nil
}

func (f *fakeSyncAPI) SnapshotCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snapshotCalls
}

func (f *fakeSyncAPI) TradeHistory(symbol *domain.MarketSymbol, before string) (*interfaces.TradeHistoryPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.pageCalls = append(f.pageCalls, before)
	if len(f.pages) == 0 {
		return &interfaces.TradeHistoryPage{}, nil
	}
	page := f.pages[0]
	f.pages = f.pages[1:]
	return page, nil
}

func (f *fakeSyncAPI) Products() ([]interfaces.Product, error) { return nil, nil }

func (f *fakeSyncAPI) AccountBalance(currency string) (*interfaces.Balance, error) {
	return &interfaces.Balance{Available: "0", Hold: "0"}, nil
}

func (f *fakeSyncAPI) PlaceLimitOrder(req interfaces.LimitOrderRequest) (*interfaces.OrderAck, error) {
	return &interfaces.OrderAck{ID: "fake"}, nil
}

func (f *fakeSyncAPI) PlaceMarketOrder(req interfaces.MarketOrderRequest) (*interfaces.OrderAck, error) {
	return &interfaces.OrderAck{ID: "fake"}, nil
}

func (f *fakeSyncAPI) CancelOrder(orderID string) error { return nil }

func (f *fakeSyncAPI) OrderStatus(orderID string) (domain.ExchangeOrderStatus, error) {
	return domain.ExchangeOrderStatusOpen, nil
}

type fakeStreamAPI struct {
	mu        sync.Mutex
	depthCh   chan *domain.OrderBookUpdate
	tradeCh   chan []domain.RawTrade
	depthSubs int
	tradeSubs int
}

func newFakeStreamAPI() *fakeStreamAPI {
	return &fakeStreamAPI{
		depthCh: make(chan *domain.OrderBookUpdate, 16),
		tradeCh: make(chan []domain.RawTrade, 16),
	}
}

func (f *fakeStreamAPI) DepthDiffStream(symbol *domain.MarketSymbol) (*interfaces.Subscription[*domain.OrderBookUpdate], error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.depthSubs++
	return &interfaces.Subscription[*domain.OrderBookUpdate]{
		Stream:      f.depthCh,
		Unsubscribe: func() {},
		Topic:       "updated_order_book:" + symbol.String(),
	}, nil
}

func (f *fakeStreamAPI) TradeStream(symbol *domain.MarketSymbol) (*interfaces.Subscription[[]domain.RawTrade], error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.tradeSubs++
	return &interfaces.Subscription[[]domain.RawTrade]{
		Stream:      f.tradeCh,
		Unsubscribe: func() {},
		Topic:       "new_trades:" + symbol.String(),
	}, nil
}

func (f *fakeStreamAPI) DepthSubs() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.depthSubs
}

func (f *fakeStreamAPI) TradeSubs() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.tradeSubs
}
