package events

import (
	"encoding/json"
	"sync"
)

// Memory is an in-process Broadcaster for single-binary runs & tests.
// Same contract as the redis implementation: best effort, no replay.
type Memory struct {
	lock   sync.Mutex
	nextID int
	subs   map[string]map[int]chan []byte
}

func NewMemory() *Memory {
	return &Memory{subs: map[string]map[int]chan []byte{}}
}

// Publish an event to current subscribers of the topic.
func (m *Memory) Publish(topic string, event interface{}) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	m.lock.Lock()
	defer m.lock.Unlock()
	for _, ch := range m.subs[topic] {
		select {
		case ch <- data:
		default:
			// observer is too slow; drop
		}
	}
	return nil
}

// Subscribe to a topic.
func (m *Memory) Subscribe(topic string) (*Subscription, error) {
	m.lock.Lock()
	defer m.lock.Unlock()

	id := m.nextID
	m.nextID++

	ch := make(chan []byte, subBuffer)
	topicSubs, ok := m.subs[topic]
	if !ok {
		topicSubs = map[int]chan []byte{}
		m.subs[topic] = topicSubs
	}
	topicSubs[id] = ch

	return &Subscription{C: ch, close: func() {
		m.lock.Lock()
		defer m.lock.Unlock()
		if _, ok := m.subs[topic][id]; ok {
			delete(m.subs[topic], id)
			close(ch)
		}
	}}, nil
}

func (m *Memory) Close() error {
	m.lock.Lock()
	defer m.lock.Unlock()
	for _, topicSubs := range m.subs {
		for id, ch := range topicSubs {
			delete(topicSubs, id)
			close(ch)
		}
	}
	return nil
}
