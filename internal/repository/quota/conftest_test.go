package quota

import (
	"context"
	"strconv"
	"sync"

	"github.com/protoguide/protoguide/internal/db"
)

// mockScriptStore is an in-memory stand-in that mirrors incrementScript.
type mockScriptStore struct {
	mu      sync.Mutex
	hashes  map[string]map[string]string
	evalErr error
	getErr  error

	lastKeys []string
	lastArgs []string
}

func newMockScriptStore() *mockScriptStore {
	return &mockScriptStore{hashes: make(map[string]map[string]string)}
}

func (m *mockScriptStore) EvalInt(_ context.Context, _ string, keys []string, args ...string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastKeys, m.lastArgs = keys, args
	if m.evalErr != nil {
		return 0, m.evalErr
	}

	h, ok := m.hashes[keys[0]]
	if !ok || h["day"] != args[0] {
		m.hashes[keys[0]] = map[string]string{"count": "1", "day": args[0]}
		return 1, nil
	}
	n, _ := strconv.Atoi(h["count"])
	n++
	h["count"] = strconv.Itoa(n)
	return int64(n), nil
}

func (m *mockScriptStore) HGetAll(_ context.Context, key string) (map[string]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	h, ok := m.hashes[key]
	if !ok {
		return nil, db.ErrNotFound
	}
	out := make(map[string]string, len(h))
	for k, v := range h {
		out[k] = v
	}
	return out, nil
}
