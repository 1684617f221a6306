package interfaces

// Subscription is a standing push subscription to one topic. Messages are
// delivered on Stream until Unsubscribe is called.
type Subscription[T any] struct {
	Stream      chan T
	Unsubscribe func()
	Topic       string
}
