package domain

import (
	"fmt"
	"sync"
	"time"

	"github.com/gammazero/deque"
	"github.com/shopspring/decimal"
)

type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

// RawTrade is a trade event as delivered by the exchange, before
// normalization. Amount and LimitPrice are decimal strings, Direction uses
// the exchange vocabulary ("BUY" / "SELL").
type RawTrade struct {
	ID         string
	ExecutedAt string
	Amount     string
	LimitPrice string
	Direction  string
}

// TradeRecord is a normalized trade. Cursor is set only on records fetched
// via pull pagination and carries the next-page token of that fetch.
type TradeRecord struct {
	TradeID    string
	Time       int64
	ExecutedAt string
	Size       decimal.Decimal
	Price      decimal.Decimal
	Side       Side
	Cursor     string
}

// TradeLog is a consume-once buffer of normalized trades for one market.
// Records are kept in arrival order, which is not necessarily chronological
// since push and pull sources may interleave. Consumers read via Drain.
type TradeLog struct {
	mu  sync.Mutex
	buf deque.Deque[TradeRecord]
}

func NewTradeLog() *TradeLog {
	return &TradeLog{}
}

// Add normalizes the incoming trades and appends them in arrival order.
// A non-empty nextCursor is attached to every record of the batch, so pull
// callers can read the next-page token off any returned trade. A malformed
// trade fails the whole batch before anything is appended.
func (l *TradeLog) Add(trades []RawTrade, nextCursor string) error {
	records := make([]TradeRecord, len(trades))
	for i, raw := range trades {
		record, err := normalizeTrade(raw)
		if err != nil {
			return err
		}
		record.Cursor = nextCursor
		records[i] = record
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	for _, record := range records {
		l.buf.PushBack(record)
	}
	return nil
}

// Get returns the buffered records without mutating the log.
func (l *TradeLog) Get() []TradeRecord {
	l.mu.Lock()
	defer l.mu.Unlock()

	records := make([]TradeRecord, l.buf.Len())
	for i := 0; i < l.buf.Len(); i++ {
		records[i] = l.buf.At(i)
	}
	return records
}

// Drain returns the buffered records and empties the buffer in one step.
// A batch appended concurrently by a push subscription is either part of the
// returned slice or kept for the next call, never lost.
func (l *TradeLog) Drain() []TradeRecord {
	l.mu.Lock()
	defer l.mu.Unlock()

	records := make([]TradeRecord, l.buf.Len())
	for i := 0; i < l.buf.Len(); i++ {
		records[i] = l.buf.At(i)
	}
	l.buf.Clear()
	return records
}

// Clear empties the buffer.
func (l *TradeLog) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.buf.Clear()
}

func (l *TradeLog) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.buf.Len()
}

func normalizeTrade(raw RawTrade) (TradeRecord, error) {
	executedAt, err := time.Parse(time.RFC3339, raw.ExecutedAt)
	if err != nil {
		return TradeRecord{}, fmt.Errorf("failed to parse executedAt %q: %w", raw.ExecutedAt, err)
	}

	size, err := decimal.NewFromString(raw.Amount)
	if err != nil {
		return TradeRecord{}, fmt.Errorf("failed to parse trade amount %q: %w", raw.Amount, err)
	}

	price, err := decimal.NewFromString(raw.LimitPrice)
	if err != nil {
		return TradeRecord{}, fmt.Errorf("failed to parse trade price %q: %w", raw.LimitPrice, err)
	}

	side := SideSell
	if raw.Direction == "BUY" {
		side = SideBuy
	}

	return TradeRecord{
		TradeID:    raw.ID,
		Time:       executedAt.UnixMilli(),
		ExecutedAt: raw.ExecutedAt,
		Size:       size,
		Price:      price,
		Side:       side,
	}, nil
}
