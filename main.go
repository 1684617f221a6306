package main

import (
	"fmt"
	"log"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/spooky-finn/go-nashio-adapter/config"
	"github.com/spooky-finn/go-nashio-adapter/domain"
	"github.com/spooky-finn/go-nashio-adapter/exchange"
	promclient "github.com/spooky-finn/go-nashio-adapter/infrastructure/prometheus"
	"github.com/spooky-finn/go-nashio-adapter/usecase"
)

const pollInterval = 2 * time.Second

func main() {
	conf, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %s", err)
	}

	ex := exchange.NewNashExchange(conf)

	g := new(errgroup.Group)

	g.Go(func() error {
		return promclient.StartPromClientServer(conf.MetricsAddr)
	})

	g.Go(func() error {
		for {
			ex.GetQuote(exchange.QuoteRequest{ProductID: "BTC-USDC"}, func(err error, quote *usecase.Quote) {
				if err != nil {
					fmt.Printf("quote error: %s\n", err)
					return
				}
				fmt.Printf("BTC-USDC bid=%s ask=%s\n", quote.Bid.String(), quote.Ask.String())
			})

			ex.GetTrades(exchange.TradesRequest{ProductID: "BTC-USDC"}, func(err error, trades []domain.TradeRecord) {
				if err != nil {
					fmt.Printf("trades error: %s\n", err)
					return
				}
				for _, trade := range trades {
					fmt.Printf("trade %s %s %s @ %s\n", trade.TradeID, trade.Side, trade.Size.String(), trade.Price.String())
				}
			})

			time.Sleep(pollInterval)
		}
	})

	if err := g.Wait(); err != nil {
		log.Fatalf("exited: %s", err)
	}
}
