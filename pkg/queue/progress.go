package queue

import (
	"context"
	"crypto/tls"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	progressKeyPrefix = "nomad:progress:"
	progressTTL       = 7 * 24 * time.Hour
)

// progressStore keeps per-job progress in redis, alongside the queue itself.
// Handlers write it; job listings read it back. It rides the same redis the
// queue uses so listings reflect queue state exactly at call time.
type progressStore struct {
	rdb *redis.Client
}

func newProgressStore(url string, tlsCfg *tls.Config) (*progressStore, error) {
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
	return &progressStore{rdb: redis.NewClient(ropts)}, nil
}

func progressKey(queue, id string) string {
	return fmt.Sprintf("%s%s:%s", progressKeyPrefix, queue, id)
}

// Init records a freshly enqueued job (progress 0, enqueue time now).
func (p *progressStore) Init(queue, id string) error {
	ctx := context.Background()
	key := progressKey(queue, id)
	err := p.rdb.HSet(ctx, key, "progress", 0, "enqueued_at", time.Now().Unix()).Err()
	if err != nil {
		return err
	}
	return p.rdb.Expire(ctx, key, progressTTL).Err()
}

// Set stores the current progress percentage for a job.
func (p *progressStore) Set(queue, id string, pct int) error {
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	return p.rdb.HSet(context.Background(), progressKey(queue, id), "progress", pct).Err()
}

// Get returns (progress, enqueuedAt) for a job. Missing entries read as
// zero; progress is advisory, the queue remains the source of job state.
func (p *progressStore) Get(queue, id string) (int, int64) {
	vals, err := p.rdb.HGetAll(context.Background(), progressKey(queue, id)).Result()
	if err != nil || len(vals) == 0 {
		return 0, 0
	}
	var pct int
	var at int64
	fmt.Sscanf(vals["progress"], "%d", &pct)
	fmt.Sscanf(vals["enqueued_at"], "%d", &at)
	return pct, at
}

func (p *progressStore) Close() error {
	return p.rdb.Close()
}
