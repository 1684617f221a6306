package usecase

import (
	"log"
	"os"

	"github.com/shopspring/decimal"
	"github.com/spooky-finn/go-nashio-adapter/config"
	"github.com/spooky-finn/go-nashio-adapter/domain"
	"github.com/spooky-finn/go-nashio-adapter/domain/interfaces"
	"github.com/spooky-finn/go-nashio-adapter/helpers"
	promclient "github.com/spooky-finn/go-nashio-adapter/infrastructure/prometheus"
)

var policyLogger = log.New(os.Stdout, "[channel-policy] ", log.LstdFlags)

type Quote struct {
	Bid decimal.Decimal
	Ask decimal.Decimal
}

// ChannelPolicy decides, per market, whether market data comes from a push
// subscription or a pull query, and owns the per-market caches. The choice
// is fixed at construction by the run mode: live arms push subscriptions,
// backfill pages through history with pull queries.
type ChannelPolicy struct {
	mode    config.RunMode
	gate    *SessionGate
	stream  interfaces.StreamAPI
	storage *domain.MarketStorage
}

func NewChannelPolicy(mode config.RunMode, gate *SessionGate, stream interfaces.StreamAPI) *ChannelPolicy {
	return &ChannelPolicy{
		mode:    mode,
		gate:    gate,
		stream:  stream,
		storage: domain.NewMarketStorage(),
	}
}

// Quote resumes cb with the best bid and ask for the market. In live mode
// an already populated book answers straight from the cache. On first
// access the book is created, the depth subscription armed (live mode,
// at most once per market) and a snapshot pulled so the caller still gets
// an answer on the priming call.
func (p *ChannelPolicy) Quote(symbol *domain.MarketSymbol, cb func(error, *Quote)) {
	book, created := p.storage.EnsureBook(symbol)

	if p.mode == config.RunModeLive {
		if !created {
			p.quoteFromBook(book, cb)
			return
		}
		promclient.OpenOrderBookGauge.Set(float64(p.storage.BookCount()))
		p.armDepthStream(symbol, book)
	}

	snapshot, err := p.gate.Client().OrderBookSnapshot(symbol)
	if err != nil {
		cb(err, nil)
		return
	}

	if err := book.Update(snapshot.Asks, snapshot.Bids); err != nil {
		cb(err, nil)
		return
	}

	p.quoteFromBook(book, cb)
}

// Trades resumes cb with the buffered trades for the market, draining the
// buffer atomically so a batch pushed mid-read is kept for the next call.
// In backfill mode every call pulls one history page keyed by the
// optional before cursor, so consecutive calls return only their own page.
// In live mode the first access arms the trade subscription and returns
// without resuming cb; the caller polls again once the subscription has
// delivered data.
func (p *ChannelPolicy) Trades(symbol *domain.MarketSymbol, before string, cb func(error, []domain.TradeRecord)) {
	tradeLog, created := p.storage.EnsureTradeLog(symbol)

	if p.mode == config.RunModeLive {
		if created {
			promclient.OpenTradeStreamGauge.Set(float64(p.storage.TradeLogCount()))
			p.armTradeStream(symbol, tradeLog)
			return
		}

		cb(nil, tradeLog.Drain())
		return
	}

	page, err := p.gate.Client().TradeHistory(symbol, before)
	if err != nil {
		cb(err, nil)
		return
	}

	if err := tradeLog.Add(page.Trades, page.Next); err != nil {
		cb(err, nil)
		return
	}

	cb(nil, tradeLog.Drain())
}

// Cursor returns the token driving the next backward getTrades call: the
// pagination token of the record's fetch in backfill mode, the trade's
// millisecond timestamp in live mode.
func (p *ChannelPolicy) Cursor(record domain.TradeRecord) string {
	if p.mode == config.RunModeBackfill {
		return record.Cursor
	}
	return helpers.IntToString(record.Time)
}

func (p *ChannelPolicy) quoteFromBook(book *domain.OrderBook, cb func(error, *Quote)) {
	bid, bidOk := book.BestBid()
	ask, askOk := book.BestAsk()

	if !bidOk || !askOk {
		cb(domain.ErrNoLiquidity, nil)
		return
	}

	cb(nil, &Quote{Bid: bid, Ask: ask})
}

func (p *ChannelPolicy) armDepthStream(symbol *domain.MarketSymbol, book *domain.OrderBook) {
	subscription, err := p.stream.DepthDiffStream(symbol)
	if err != nil {
		policyLogger.Printf("failed to subscribe to depth updates for %s: %s", symbol.String(), err)
		return
	}

	go func() {
		for update := range subscription.Stream {
			if config.DebugMode {
				policyLogger.Printf("depth update %s: %s", symbol.String(), helpers.ToJsonString(update))
			}
			if err := book.Update(update.Asks, update.Bids); err != nil {
				policyLogger.Printf("dropped malformed depth update for %s: %s", symbol.String(), err)
			}
		}
	}()
}

func (p *ChannelPolicy) armTradeStream(symbol *domain.MarketSymbol, tradeLog *domain.TradeLog) {
	subscription, err := p.stream.TradeStream(symbol)
	if err != nil {
		policyLogger.Printf("failed to subscribe to trades for %s: %s", symbol.String(), err)
		return
	}

	go func() {
		for trades := range subscription.Stream {
			if err := tradeLog.Add(trades, ""); err != nil {
				policyLogger.Printf("dropped malformed trade batch for %s: %s", symbol.String(), err)
			}
		}
	}()
}
