package domain

import "sync"

// MarketStorage owns the per-market OrderBook and TradeLog instances.
// Caches are created on first access and live for the whole run. The created
// flag tells the caller whether this access was the first one, so a push
// subscription can be armed at most once per market.
type MarketStorage struct {
	mu        sync.Mutex
	books     map[string]*OrderBook
	tradeLogs map[string]*TradeLog
}

func NewMarketStorage() *MarketStorage {
	return &MarketStorage{
		books:     make(map[string]*OrderBook),
		tradeLogs: make(map[string]*TradeLog),
	}
}

func (s *MarketStorage) EnsureBook(symbol *MarketSymbol) (book *OrderBook, created bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	book, ok := s.books[symbol.String()]
	if !ok {
		book = NewOrderBook()
		s.books[symbol.String()] = book
	}
	return book, !ok
}

func (s *MarketStorage) EnsureTradeLog(symbol *MarketSymbol) (log *TradeLog, created bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	log, ok := s.tradeLogs[symbol.String()]
	if !ok {
		log = NewTradeLog()
		s.tradeLogs[symbol.String()] = log
	}
	return log, !ok
}

func (s *MarketStorage) BookCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.books)
}

func (s *MarketStorage) TradeLogCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tradeLogs)
}
