package promclient

import (
	"log"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var OpenOrderBookGauge = prometheus.NewGauge(
	prometheus.GaugeOpts{
		Name: "nashio_open_order_books",
		Help: "number of markets with a live local order book",
	},
)

var OpenTradeStreamGauge = prometheus.NewGauge(
	prometheus.GaugeOpts{
		Name: "nashio_open_trade_streams",
		Help: "number of markets with an armed trade subscription",
	},
)

var TrackedOrdersGauge = prometheus.NewGauge(
	prometheus.GaugeOpts{
		Name: "nashio_tracked_orders",
		Help: "orders tracked by the local order cache",
	},
)

var RejectedOrderCounter = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "nashio_rejected_orders_total",
		Help: "order placements rejected by the exchange",
	},
)

func StartPromClientServer(addr string) error {
	reg := prometheus.NewRegistry()
	promHandler := promhttp.HandlerFor(reg, promhttp.HandlerOpts{})

	reg.MustRegister(OpenOrderBookGauge)
	reg.MustRegister(OpenTradeStreamGauge)
	reg.MustRegister(TrackedOrdersGauge)
	reg.MustRegister(RejectedOrderCounter)
	reg.MustRegister(collectors.NewGoCollector())

	http.Handle("/metrics", promHandler)
	log.Printf("prometheus server listening at %s", addr)

	return http.ListenAndServe(addr, nil)
}
