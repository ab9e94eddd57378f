package events

// Subscription is one observer's view of a topic. Receive until C closes,
// then reconcile current state via pull (registry / download listing) —
// events are not replayed.
type Subscription struct {
	C <-chan []byte

	close func()
}

// Close detaches the observer; events published after this are dropped
// for it.
func (s *Subscription) Close() {
	s.close()
}

// Broadcaster fans installation & download events out to currently
// connected observers. Delivery is best effort: there is no buffer replay
// and no guarantee across reconnects. Observers that reconnect must
// re-derive current state from pull-based reads, never from missed events.
type Broadcaster interface {
	// Publish an event to everyone currently subscribed to the topic.
	// The payload is JSON-encoded.
	Publish(topic string, event interface{}) error

	// Subscribe to a topic.
	Subscribe(topic string) (*Subscription, error)

	Close() error
}
