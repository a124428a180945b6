package redisad

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/kezar0001-cpu/Mawjood/internal/adapters/observability"
	"github.com/kezar0001-cpu/Mawjood/internal/domain"
)

const keyPrefix = "session:"

// Store keeps issued sessions in Redis. Deleting a key is forced
// sign-out: the token can never authenticate again.
type Store struct{ c *redis.Client }

func New(addr, pass string, db int) *Store {
	return &Store{c: redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db})}
}

func NewFromClient(c *redis.Client) *Store { return &Store{c: c} }

func (s *Store) Put(ctx context.Context, sess domain.Session, ttl time.Duration) error {
	b, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	observability.ObserveSession("issue")
	return s.c.Set(ctx, keyPrefix+sess.Token, b, ttl).Err()
}

func (s *Store) Get(ctx context.Context, token string) (domain.Session, bool, error) {
	v, err := s.c.Get(ctx, keyPrefix+token).Bytes()
	if err == redis.Nil {
		observability.ObserveSession("miss")
		return domain.Session{}, false, nil
	}
	if err != nil {
		return domain.Session{}, false, err
	}
	var sess domain.Session
	if err := json.Unmarshal(v, &sess); err != nil {
		return domain.Session{}, false, err
	}
	observability.ObserveSession("hit")
	return sess, true, nil
}

func (s *Store) Del(ctx context.Context, token string) error {
	observability.ObserveSession("revoke")
	return s.c.Del(ctx, keyPrefix+token).Err()
}
