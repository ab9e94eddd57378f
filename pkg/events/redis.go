package events

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"strings"

	"github.com/redis/go-redis/v9"
)

const subBuffer = 32

// Redis is a Broadcaster over redis pub/sub. Redis gives us the exact
// semantics we document on the interface for free: subscribers present at
// publish time get the event, everyone else misses it.
type Redis struct {
	rdb *redis.Client
}

func NewRedis(url string, tlsCfg *tls.Config) (*Redis, error) {
	var ropts *redis.Options
	if strings.Contains(url, "://") {
		parsed, err := redis.ParseURL(url)
		if err != nil {
			return nil, err
		}
		ropts = parsed
	} else {
		ropts = &redis.Options{Addr: url}
	}
	if tlsCfg != nil {
		ropts.TLSConfig = tlsCfg
	}
	return &Redis{rdb: redis.NewClient(ropts)}, nil
}

// Publish an event to current subscribers of the topic.
func (r *Redis) Publish(topic string, event interface{}) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return r.rdb.Publish(context.Background(), topic, data).Err()
}

// Subscribe to a topic. Slow observers have events dropped rather than
// blocking the publisher.
func (r *Redis) Subscribe(topic string) (*Subscription, error) {
	ps := r.rdb.Subscribe(context.Background(), topic)
	if _, err := ps.Receive(context.Background()); err != nil {
		ps.Close()
		return nil, err
	}

	out := make(chan []byte, subBuffer)
	go func() {
		defer close(out)
		for msg := range ps.Channel() {
			select {
			case out <- []byte(msg.Payload):
			default:
				// observer is too slow; drop
			}
		}
	}()

	return &Subscription{C: out, close: func() { ps.Close() }}, nil
}

func (r *Redis) Close() error {
	return r.rdb.Close()
}
