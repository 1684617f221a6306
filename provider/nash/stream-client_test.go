package nash

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStreamClient_DispatchAfterUnsubscribeDropsFrame(t *testing.T) {
	client := NewStreamClient("wss://unused")

	ch := make(chan []byte, 1)
	client.subscriptions["new_trades:btc_usdc"] = &subscriptionEntry{
		ch:              ch,
		subscriberCount: 1,
	}

	assert.NoError(t, client.unSubscribe("new_trades:btc_usdc"))

	// a frame read off the wire after the last unsubscribe must be dropped,
	// not sent into the closed channel
	assert.NotPanics(t, func() {
		client.dispatch("new_trades:btc_usdc", []byte(`{"channel":"new_trades:btc_usdc"}`))
	})

	_, open := <-ch
	assert.False(t, open, "the subscriber channel is closed and stays empty")
}

func TestStreamClient_UnsubscribeKeepsSharedChannel(t *testing.T) {
	client := NewStreamClient("wss://unused")

	ch := make(chan []byte, 1)
	client.subscriptions["updated_order_book:btc_usdc"] = &subscriptionEntry{
		ch:              ch,
		subscriberCount: 2,
	}

	assert.NoError(t, client.unSubscribe("updated_order_book:btc_usdc"))

	client.dispatch("updated_order_book:btc_usdc", []byte(`{}`))
	select {
	case msg := <-ch:
		assert.Equal(t, []byte(`{}`), msg)
	default:
		t.Fatal("the remaining subscriber must keep receiving frames")
	}
}

func TestStreamClient_SubscribeRequiresConnection(t *testing.T) {
	client := NewStreamClient("wss://unused")

	_, err := client.Subscribe("new_trades:btc_usdc")
	assert.Error(t, err)
}
