package repo

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
)

type Redis struct{ C *redis.Client }

func NewRedis(addr string) *Redis {
	return &Redis{C: redis.NewClient(&redis.Options{Addr: addr})}
}

func (r *Redis) Ping(ctx context.Context) error { return r.C.Ping(ctx).Err() }
func (r *Redis) Close() error                   { return r.C.Close() }

// Allow implements a fixed one-minute window counter per key, used to
// throttle signup/login attempts by client IP. Errors allow the request
// through: the limiter must not take auth down with redis.
func (r *Redis) Allow(ctx context.Context, key string, perMin int) bool {
	if perMin <= 0 {
		return true
	}
	n, err := r.C.Incr(ctx, "rl:"+key).Result()
	if err != nil {
		return true
	}
	if n == 1 {
		r.C.Expire(ctx, "rl:"+key, time.Minute)
	}
	return n <= int64(perMin)
}
