package nash

import (
	"encoding/json"
	"fmt"

	"github.com/spooky-finn/go-nashio-adapter/domain"
	"github.com/spooky-finn/go-nashio-adapter/domain/interfaces"
)

// StreamAPI decodes raw frames from the stream client into domain payloads.
type StreamAPI struct {
	client *StreamClient
}

func NewStreamAPI(client *StreamClient) *StreamAPI {
	return &StreamAPI{client: client}
}

type depthUpdateFrame struct {
	Channel string `json:"channel"`
	Payload struct {
		UpdatedAsks []wireBookEntry `json:"updatedAsks"`
		UpdatedBids []wireBookEntry `json:"updatedBids"`
	} `json:"payload"`
}

type tradesFrame struct {
	Channel string `json:"channel"`
	Payload struct {
		NewTrades []wireTrade `json:"newTrades"`
	} `json:"payload"`
}

func (s *StreamAPI) DepthDiffStream(symbol *domain.MarketSymbol) (*interfaces.Subscription[*domain.OrderBookUpdate], error) {
	channel := fmt.Sprintf("updated_order_book:%s", symbol.String())
	subscription, err := s.client.Subscribe(channel)
	if err != nil {
		return nil, err
	}

	out := make(chan *domain.OrderBookUpdate)

	go func() {
		defer close(out)

		for msg := range subscription.Stream {
			frame := &depthUpdateFrame{}
			if err := json.Unmarshal(msg, frame); err != nil {
				logger.Printf("error unmarshaling depth update: %s", err)
				continue
			}

			out <- &domain.OrderBookUpdate{
				Asks: toBookEntries(frame.Payload.UpdatedAsks),
				Bids: toBookEntries(frame.Payload.UpdatedBids),
			}
		}
	}()

	return &interfaces.Subscription[*domain.OrderBookUpdate]{
		Stream:      out,
		Unsubscribe: subscription.Unsubscribe,
		Topic:       channel,
	}, nil
}

func (s *StreamAPI) TradeStream(symbol *domain.MarketSymbol) (*interfaces.Subscription[[]domain.RawTrade], error) {
	channel := fmt.Sprintf("new_trades:%s", symbol.String())
	subscription, err := s.client.Subscribe(channel)
	if err != nil {
		return nil, err
	}

	out := make(chan []domain.RawTrade)

	go func() {
		defer close(out)

		for msg := range subscription.Stream {
			frame := &tradesFrame{}
			if err := json.Unmarshal(msg, frame); err != nil {
				logger.Printf("error unmarshaling trades: %s", err)
				continue
			}

			out <- toRawTrades(frame.Payload.NewTrades)
		}
	}()

	return &interfaces.Subscription[[]domain.RawTrade]{
		Stream:      out,
		Unsubscribe: subscription.Unsubscribe,
		Topic:       channel,
	}, nil
}
