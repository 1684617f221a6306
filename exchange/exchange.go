package exchange

import (
	"log"
	"os"

	"github.com/spooky-finn/go-nashio-adapter/config"
	"github.com/spooky-finn/go-nashio-adapter/domain"
	"github.com/spooky-finn/go-nashio-adapter/domain/interfaces"
	"github.com/spooky-finn/go-nashio-adapter/provider/nash"
	"github.com/spooky-finn/go-nashio-adapter/usecase"
)

var logger = log.New(os.Stdout, "[exchange] ", log.LstdFlags)

// Info is the static capability descriptor consumed by the trading-bot
// runner: how history is scanned, fee rates, and the backfill rate limit.
type Info struct {
	Name                string
	HistoryScan         string
	HistoryScanUsesTime bool
	MakerFee            float64
	TakerFee            float64
	BackfillRateLimit   int
}

// NashInfo describes the Nash exchange: backward history scan driven by
// opaque cursors rather than timestamps.
var NashInfo = Info{
	Name:                "nashio",
	HistoryScan:         "backward",
	HistoryScanUsesTime: false,
	MakerFee:            0,
	TakerFee:            0.25,
	BackfillRateLimit:   0,
}

// Exchange is the transport-independent surface exposed to the trading-bot
// runner. Every market-data and trading call passes through the session
// gate first; market-data calls then go through the channel policy, trading
// calls through the order cache.
type Exchange struct {
	info   Info
	gate   *usecase.SessionGate
	policy *usecase.ChannelPolicy
	orders *domain.OrderCache
}

func New(conf *config.Config, info Info, newClient func() interfaces.SyncAPI, stream interfaces.StreamAPI) *Exchange {
	gate := usecase.NewSessionGate(newClient, interfaces.Credentials{
		APIKey: conf.APIKey,
		Secret: conf.APISecret,
	})

	return &Exchange{
		info:   info,
		gate:   gate,
		policy: usecase.NewChannelPolicy(conf.Mode, gate, stream),
		orders: domain.NewOrderCache(),
	}
}

// NewNashExchange wires the exchange surface to the Nash REST and websocket
// clients. The websocket connection is dialed once, on successful login.
func NewNashExchange(conf *config.Config) *Exchange {
	streamClient := nash.NewStreamClient(conf.WSEndpoint)
	streamAPI := nash.NewStreamAPI(streamClient)

	e := New(conf, NashInfo, func() interfaces.SyncAPI {
		return nash.NewSyncAPI(conf.HTTPEndpoint)
	}, streamAPI)

	e.gate.SetOnAuthenticated(func() {
		if err := streamClient.Connect(); err != nil {
			logger.Printf("failed to connect to the nash stream websocket: %s", err)
		}
	})

	return e
}

func (e *Exchange) Info() Info {
	return e.info
}
