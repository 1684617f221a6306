package domain

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

func sampleTrades() []RawTrade {
	return []RawTrade{
		{
			ID:         "t-1",
			ExecutedAt: "2021-03-01T12:00:00.000Z",
			Amount:     "0.25",
			LimitPrice: "45000.5",
			Direction:  "BUY",
		},
		{
			ID:         "t-2",
			ExecutedAt: "2021-03-01T12:00:01.500Z",
			Amount:     "1.5",
			LimitPrice: "45001",
			Direction:  "SELL",
		},
	}
}

func TestTradeLog_AddAndGet(t *testing.T) {
	log := NewTradeLog()

	err := log.Add(sampleTrades(), "")
	assert.NoError(t, err)

	records := log.Get()
	assert.Len(t, records, 2)

	assert.Equal(t, "t-1", records[0].TradeID)
	assert.Equal(t, SideBuy, records[0].Side)
	assert.Equal(t, "0.25", records[0].Size.String())
	assert.Equal(t, "45000.5", records[0].Price.String())
	assert.Equal(t, int64(1614600000000), records[0].Time)
	assert.Equal(t, "2021-03-01T12:00:00.000Z", records[0].ExecutedAt)

	assert.Equal(t, SideSell, records[1].Side)
	assert.Equal(t, int64(1614600001500), records[1].Time)

	// Get does not drain
	assert.Equal(t, 2, log.Len())
}

func TestTradeLog_CursorAttachedToBatch(t *testing.T) {
	log := NewTradeLog()

	err := log.Add(sampleTrades(), "174000")
	assert.NoError(t, err)

	for _, record := range log.Get() {
		assert.Equal(t, "174000", record.Cursor)
	}

	// push-delivered batches carry no cursor
	log.Clear()
	err = log.Add(sampleTrades(), "")
	assert.NoError(t, err)
	for _, record := range log.Get() {
		assert.Empty(t, record.Cursor)
	}
}

func TestTradeLog_DrainEmptiesBuffer(t *testing.T) {
	log := NewTradeLog()

	assert.NoError(t, log.Add(sampleTrades(), ""))

	records := log.Drain()
	assert.Len(t, records, 2)
	assert.Equal(t, 0, log.Len())
	assert.Empty(t, log.Drain())
}

func TestTradeLog_ConcurrentAppendsSurviveDrain(t *testing.T) {
	log := NewTradeLog()
	const batches = 200

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < batches; i++ {
			trade := sampleTrades()[:1]
			trade[0].ID = "t-" + strconv.Itoa(i)
			assert.NoError(t, log.Add(trade, ""))
		}
	}()

	// every appended trade must come out of exactly one drain
	seen := make(map[string]bool)
	for len(seen) < batches {
		for _, record := range log.Drain() {
			assert.False(t, seen[record.TradeID], "trade %s delivered twice", record.TradeID)
			seen[record.TradeID] = true
		}
	}
	<-done

	assert.Len(t, seen, batches)
	assert.Equal(t, 0, log.Len())
}

func TestTradeLog_ClearEmptiesBuffer(t *testing.T) {
	log := NewTradeLog()

	err := log.Add(sampleTrades(), "")
	assert.NoError(t, err)

	records := log.Get()
	assert.Len(t, records, 2)
	log.Clear()

	assert.Empty(t, log.Get())
	assert.Equal(t, 0, log.Len())
}

func TestTradeLog_ArrivalOrderAcrossBatches(t *testing.T) {
	log := NewTradeLog()

	first := sampleTrades()[:1]
	second := sampleTrades()[1:]

	assert.NoError(t, log.Add(second, ""))
	assert.NoError(t, log.Add(first, ""))

	records := log.Get()
	assert.Equal(t, "t-2", records[0].TradeID, "records keep arrival order, not chronological order")
	assert.Equal(t, "t-1", records[1].TradeID)
}

func TestTradeLog_MalformedTradeFailsWholeBatch(t *testing.T) {
	log := NewTradeLog()

	trades := sampleTrades()
	trades[1].Amount = "garbage"

	err := log.Add(trades, "")
	assert.Error(t, err)
	assert.Equal(t, 0, log.Len(), "no record of a failed batch may be appended")
}
