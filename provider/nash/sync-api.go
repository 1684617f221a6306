package nash

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/spooky-finn/go-nashio-adapter/domain"
	"github.com/spooky-finn/go-nashio-adapter/domain/interfaces"
)

var logger = log.New(os.Stdout, "[nash] ", log.LstdFlags)

const requestTimeout = 15 * time.Second

// SyncAPI is the pull side of the Nash client: REST queries and trading
// calls. The session token obtained on login is attached to every later
// request.
type SyncAPI struct {
	http *resty.Client
}

func NewSyncAPI(endpoint string) *SyncAPI {
	return &SyncAPI{
		http: resty.New().
			SetBaseURL(endpoint).
			SetTimeout(requestTimeout).
			SetHeader("Content-Type", "application/json"),
	}
}

// Amounts come nested on the wire: { "amount": "0.25", "currency": "btc" }.
type currencyAmount struct {
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
}

type wireBookEntry struct {
	Price  currencyAmount `json:"price"`
	Amount currencyAmount `json:"amount"`
}

type wireTrade struct {
	ID         string         `json:"id"`
	ExecutedAt string         `json:"executedAt"`
	Amount     currencyAmount `json:"amount"`
	LimitPrice currencyAmount `json:"limitPrice"`
	Direction  string         `json:"direction"`
}

type loginResponse struct {
	Token string `json:"token"`
}

type bookSnapshotResponse struct {
	Asks []wireBookEntry `json:"asks"`
	Bids []wireBookEntry `json:"bids"`
}

type tradePageResponse struct {
	Trades []wireTrade `json:"trades"`
	Next   string      `json:"next"`
}

type balanceResponse struct {
	Available currencyAmount `json:"available"`
	InOrders  currencyAmount `json:"inOrders"`
}

type orderResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (api *SyncAPI) Login(creds interfaces.Credentials) error {
	data := &loginResponse{}
	resp, err := api.http.R().
		SetBody(map[string]string{"apiKey": creds.APIKey, "secret": creds.Secret}).
		SetResult(data).
		Post("/sessions")
	if err != nil {
		return fmt.Errorf("login request failed: %w", err)
	}
	if err := statusErr(resp); err != nil {
		return err
	}

	api.http.SetAuthToken(data.Token)
	logger.Println("session established")
	return nil
}

func (api *SyncAPI) OrderBookSnapshot(symbol *domain.MarketSymbol) (*interfaces.OrderBookSnapshotResult, error) {
	data := &bookSnapshotResponse{}
	resp, err := api.http.R().
		SetResult(data).
		Get(fmt.Sprintf("/markets/%s/book", symbol.String()))
	if err != nil {
		return nil, fmt.Errorf("failed to get order book snapshot: %w", err)
	}
	if err := statusErr(resp); err != nil {
		return nil, err
	}

	return &interfaces.OrderBookSnapshotResult{
		Asks: toBookEntries(data.Asks),
		Bids: toBookEntries(data.Bids),
	}, nil
}

func (api *SyncAPI) TradeHistory(symbol *domain.MarketSymbol, before string) (*interfaces.TradeHistoryPage, error) {
	data := &tradePageResponse{}
	req := api.http.R().SetResult(data)
	if before != "" {
		req.SetQueryParam("before", before)
	}

	resp, err := req.Get(fmt.Sprintf("/markets/%s/trades", symbol.String()))
	if err != nil {
		return nil, fmt.Errorf("failed to get trade history: %w", err)
	}
	if err := statusErr(resp); err != nil {
		return nil, err
	}

	return &interfaces.TradeHistoryPage{
		Trades: toRawTrades(data.Trades),
		Next:   data.Next,
	}, nil
}

func (api *SyncAPI) AccountBalance(currency string) (*interfaces.Balance, error) {
	data := &balanceResponse{}
	resp, err := api.http.R().
		SetResult(data).
		Get(fmt.Sprintf("/accounts/balances/%s", currency))
	if err != nil {
		return nil, fmt.Errorf("failed to get account balance: %w", err)
	}
	if err := statusErr(resp); err != nil {
		return nil, err
	}

	return &interfaces.Balance{
		Available: data.Available.Amount,
		Hold:      data.InOrders.Amount,
	}, nil
}

func (api *SyncAPI) PlaceLimitOrder(req interfaces.LimitOrderRequest) (*interfaces.OrderAck, error) {
	data := &orderResponse{}
	resp, err := api.http.R().
		SetBody(map[string]interface{}{
			"marketName":         req.Symbol.String(),
			"buyOrSell":          string(req.Side),
			"amount":             req.Size,
			"limitPrice":         req.Price,
			"allowTaker":         !req.PostOnly,
			"cancellationPolicy": "GOOD_TIL_CANCELLED",
		}).
		SetResult(data).
		Post("/orders/limit")
	if err != nil {
		return nil, fmt.Errorf("limit order request failed: %w", err)
	}
	if err := placementErr(resp); err != nil {
		return nil, err
	}

	return &interfaces.OrderAck{ID: data.ID}, nil
}

func (api *SyncAPI) PlaceMarketOrder(req interfaces.MarketOrderRequest) (*interfaces.OrderAck, error) {
	data := &orderResponse{}
	resp, err := api.http.R().
		SetBody(map[string]interface{}{
			"marketName": req.Symbol.String(),
			"buyOrSell":  string(req.Side),
			"amount":     req.Size,
		}).
		SetResult(data).
		Post("/orders/market")
	if err != nil {
		return nil, fmt.Errorf("market order request failed: %w", err)
	}
	if err := placementErr(resp); err != nil {
		return nil, err
	}

	return &interfaces.OrderAck{ID: data.ID}, nil
}

func (api *SyncAPI) CancelOrder(orderID string) error {
	resp, err := api.http.R().Delete(fmt.Sprintf("/orders/%s", orderID))
	if err != nil {
		return fmt.Errorf("cancel order request failed: %w", err)
	}
	return statusErr(resp)
}

func (api *SyncAPI) OrderStatus(orderID string) (domain.ExchangeOrderStatus, error) {
	data := &orderResponse{}
	resp, err := api.http.R().
		SetResult(data).
		Get(fmt.Sprintf("/orders/%s", orderID))
	if err != nil {
		return "", fmt.Errorf("failed to get order status: %w", err)
	}
	if err := statusErr(resp); err != nil {
		return "", err
	}

	return domain.ExchangeOrderStatus(data.Status), nil
}

// statusErr wraps a non-success response into a transport error carrying
// the status code and the raw body.
func statusErr(resp *resty.Response) error {
	if resp.IsError() {
		return domain.NewStatusError(resp.StatusCode(), string(resp.Body()))
	}
	return nil
}

// placementErr classifies a failed order placement: a 4xx with an error
// payload is a business rejection, anything else a transport error.
func placementErr(resp *resty.Response) error {
	if !resp.IsError() {
		return nil
	}

	if resp.StatusCode() >= 400 && resp.StatusCode() < 500 {
		data := &errorResponse{}
		if err := json.Unmarshal(resp.Body(), data); err == nil && data.Code != "" {
			return &domain.RejectionError{Code: data.Code, Reason: data.Message}
		}
		return &domain.RejectionError{Code: "REJECTED", Reason: string(resp.Body())}
	}

	return domain.NewStatusError(resp.StatusCode(), string(resp.Body()))
}

func toBookEntries(entries []wireBookEntry) []domain.BookEntry {
	result := make([]domain.BookEntry, len(entries))
	for i, entry := range entries {
		result[i] = domain.BookEntry{
			Price: entry.Price.Amount,
			Size:  entry.Amount.Amount,
		}
	}
	return result
}

func toRawTrades(trades []wireTrade) []domain.RawTrade {
	result := make([]domain.RawTrade, len(trades))
	for i, trade := range trades {
		result[i] = domain.RawTrade{
			ID:         trade.ID,
			ExecutedAt: trade.ExecutedAt,
			Amount:     trade.Amount.Amount,
			LimitPrice: trade.LimitPrice.Amount,
			Direction:  trade.Direction,
		}
	}
	return result
}
