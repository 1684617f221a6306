package nash

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/recws-org/recws"
	"github.com/spooky-finn/go-nashio-adapter/domain/interfaces"
)

const pingInterval = time.Second * 30

type subscriptionEntry struct {
	ch              chan []byte
	subscriberCount int
}

type wsRequest struct {
	ReqID   int    `json:"id"`
	Type    string `json:"type"`
	Channel string `json:"channel"`
}

type wsFrame struct {
	Channel string          `json:"channel"`
	Payload json.RawMessage `json:"payload"`
}

// StreamClient multiplexes one reconnecting websocket connection between
// channel subscriptions. The connection is dialed once, after login.
type StreamClient struct {
	endpoint      string
	conn          *recws.RecConn
	subscriptions map[string]*subscriptionEntry
	mu            sync.Mutex
}

func NewStreamClient(endpoint string) *StreamClient {
	return &StreamClient{
		endpoint:      endpoint,
		subscriptions: make(map[string]*subscriptionEntry),
	}
}

func (c *StreamClient) Connect() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn != nil {
		return nil
	}

	conn := &recws.RecConn{
		Proxy:            http.ProxyFromEnvironment,
		HandshakeTimeout: 5 * time.Second,
		NonVerbose:       false,
	}

	conn.Dial(c.endpoint, nil)
	c.conn = conn
	logger.Println("connected to the nash stream websocket")

	go c.read()
	go c.keepAlive()
	return nil
}

func (c *StreamClient) Subscribe(channel string) (*interfaces.Subscription[[]byte], error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return nil, fmt.Errorf("stream client is not connected")
	}

	entry, ok := c.subscriptions[channel]
	ch := make(chan []byte)

	if ok {
		entry.subscriberCount++
		ch = entry.ch
	} else {
		c.subscriptions[channel] = &subscriptionEntry{
			ch:              ch,
			subscriberCount: 1,
		}

		logger.Println("subscribing to the ", channel)

		err := c.conn.WriteJSON(wsRequest{
			Type:    "subscribe",
			ReqID:   getRandomReqID(),
			Channel: channel,
		})
		if err != nil {
			delete(c.subscriptions, channel)
			return nil, fmt.Errorf("failed to send subscribe msg for channel=%s", channel)
		}
	}

	return &interfaces.Subscription[[]byte]{
		Stream: ch,
		Unsubscribe: func() {
			c.unSubscribe(channel)
		},
		Topic: channel,
	}, nil
}

func (c *StreamClient) unSubscribe(channel string) error {
	logger.Println("unsubscribing from channel ", channel)
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.subscriptions[channel]
	if !ok {
		return nil
	}

	if entry.subscriberCount > 1 {
		entry.subscriberCount--
		return nil
	}

	close(entry.ch)
	delete(c.subscriptions, channel)

	if c.conn == nil {
		return nil
	}
	return c.conn.WriteJSON(wsRequest{
		Type:    "unsubscribe",
		ReqID:   getRandomReqID(),
		Channel: channel,
	})
}

func (c *StreamClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn != nil {
		c.conn.Close()
	}
}

func (c *StreamClient) read() {
	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			logger.Printf("error while reading from connection: %v", err)
			continue
		}

		frame := &wsFrame{}
		if err := json.Unmarshal(msg, frame); err != nil {
			logger.Printf("malformed frame: %v message %s", err, string(msg))
			continue
		}

		// frames without a channel are subscription acks
		if frame.Channel == "" {
			continue
		}

		c.dispatch(frame.Channel, msg)
	}
}

// dispatch hands a frame to the channel's subscribers. The send happens under
// the registry lock, so unSubscribe cannot close the channel mid-send; frames
// for a channel nobody subscribes to anymore are dropped.
func (c *StreamClient) dispatch(channel string, msg []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.subscriptions[channel]
	if !ok {
		return
	}
	entry.ch <- msg
}

func (c *StreamClient) keepAlive() {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for range ticker.C {
		if !c.conn.IsConnected() {
			continue
		}
		if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
			logger.Printf("failed to send ping: %v", err)
		}
	}
}

func getRandomReqID() int {
	min := 10000
	max := 9999999
	return min + rand.Intn(max-min)
}
