package assessment

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/m-mizutani/goerr/v2"
)

// DefaultKeyPrefix namespaces session keys in a shared Redis.
const DefaultKeyPrefix = "tcm-intake:session:"

// RedisRepository keeps each session as one JSON value whose Redis TTL
// ends with the session.
type RedisRepository struct {
	client *redis.Client
	prefix string
	now    func() time.Time
}

func NewRedisRepository(client *redis.Client, prefix string) *RedisRepository {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &RedisRepository{client: client, prefix: prefix, now: time.Now}
}

func (r *RedisRepository) key(id string) string {
	return r.prefix + id
}

func (r *RedisRepository) Create(ctx context.Context, s *Session) error {
	ttl := s.ExpiresAt.Sub(r.now())
	if ttl <= 0 {
		return goerr.New("session already expired", goerr.V("session_id", s.ID))
	}
	data, err := json.Marshal(toStored(s))
	if err != nil {
		return goerr.Wrap(err, "failed to encode session", goerr.V("session_id", s.ID))
	}
	if err := r.client.Set(ctx, r.key(s.ID), data, ttl).Err(); err != nil {
		return goerr.Wrap(err, "failed to store session", goerr.V("session_id", s.ID))
	}
	return nil
}

func (r *RedisRepository) Get(ctx context.Context, id string) (*Session, error) {
	st, err := r.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return st.toSession(), nil
}

func (r *RedisRepository) load(ctx context.Context, id string) (storedSession, error) {
	val, err := r.client.Get(ctx, r.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return storedSession{}, goerr.Wrap(ErrSessionNotFound, "session not in redis", goerr.V("session_id", id))
		}
		return storedSession{}, goerr.Wrap(err, "failed to read session", goerr.V("session_id", id))
	}
	var st storedSession
	if err := json.Unmarshal(val, &st); err != nil {
		return storedSession{}, goerr.Wrap(err, "failed to decode session", goerr.V("session_id", id))
	}
	return st, nil
}

// Save overwrites the session only if its key still exists, keeping the
// original expiry.
func (r *RedisRepository) Save(ctx context.Context, s *Session) error {
	prev, err := r.load(ctx, s.ID)
	if err != nil {
		return err
	}
	st := toStored(s)
	st.ExpiresAt = prev.ExpiresAt
	ttl := st.ExpiresAt.Sub(r.now())
	if ttl <= 0 {
		return goerr.Wrap(ErrSessionNotFound, "session expired", goerr.V("session_id", s.ID))
	}

	data, err := json.Marshal(st)
	if err != nil {
		return goerr.Wrap(err, "failed to encode session", goerr.V("session_id", s.ID))
	}
	ok, err := r.client.SetXX(ctx, r.key(s.ID), data, ttl).Result()
	if err != nil {
		return goerr.Wrap(err, "failed to store session", goerr.V("session_id", s.ID))
	}
	if !ok {
		return goerr.Wrap(ErrSessionNotFound, "session expired during save", goerr.V("session_id", s.ID))
	}
	return nil
}

func (r *RedisRepository) Delete(ctx context.Context, id string) error {
	if err := r.client.Del(ctx, r.key(id)).Err(); err != nil {
		return goerr.Wrap(err, "failed to delete session", goerr.V("session_id", id))
	}
	return nil
}
