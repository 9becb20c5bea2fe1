package redis

import (
	"context"

	"github.com/redis/rueidis"

	"github.com/protoguide/protoguide/internal/db"
)

// EvalInt runs a Lua script with EVAL and returns its integer reply.
// The script runs atomically on the server.
func (s *Store) EvalInt(ctx context.Context, script string, keys []string, args ...string) (int64, error) {
	cmd := s.b().Eval().Script(script).Numkeys(int64(len(keys))).Key(keys...).Arg(args...).Build()
	n, err := s.do(ctx, cmd).AsInt64()
	if err != nil {
		return 0, &db.Error{Op: db.OpEval, Err: err}
	}
	return n, nil
}

// HGetAll returns all fields of a hash. A missing key yields db.ErrNotFound.
func (s *Store) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	cmd := s.b().Hgetall().Key(key).Build()
	m, err := s.do(ctx, cmd).AsStrMap()
	if err != nil {
		if rueidis.IsRedisNil(err) {
			return nil, db.ErrNotFound
		}
		return nil, &db.Error{Op: db.OpHGetAll, Err: err}
	}
	if len(m) == 0 {
		return nil, db.ErrNotFound
	}
	return m, nil
}
