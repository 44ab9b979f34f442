package middleware

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rentable/internal/app/commands"
)

type echoCommand struct {
	ID   string
	Idem string
}

func (c echoCommand) Key() string            { return "test.echo" }
func (c echoCommand) IdempotencyKey() string { return c.Idem }
func (c echoCommand) ResultPrototype() any   { return &echoResult{} }

type echoResult struct {
	Value string `json:"value"`
}

type mapStore struct {
	mu    sync.Mutex
	items map[string]IdempotencyRecord
}

func newMapStore() *mapStore {
	return &mapStore{items: map[string]IdempotencyRecord{}}
}

func (s *mapStore) Get(ctx context.Context, key string) (IdempotencyRecord, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.items[key]
	return rec, ok, nil
}

func (s *mapStore) Save(ctx context.Context, rec IdempotencyRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[rec.Key] = rec
	return nil
}

type countingHandler struct {
	calls int
	err   error
}

func (h *countingHandler) Handle(ctx context.Context, cmd echoCommand) (*echoResult, error) {
	h.calls++
	if h.err != nil {
		return nil, h.err
	}
	return &echoResult{Value: cmd.ID}, nil
}

func newTestBus(h *countingHandler, store IdempotencyStore) commands.Bus {
	base := commands.NewInMemoryBus()
	commands.RegisterHandler(base, echoCommand{}.Key(), h)
	return ChainCommands(base, Idempotency(store))
}

func TestIdempotencyReplaysStoredResult(t *testing.T) {
	handler := &countingHandler{}
	bus := newTestBus(handler, newMapStore())

	first, err := commands.Dispatch[echoCommand, *echoResult](context.Background(), bus, echoCommand{ID: "a", Idem: "k1"})
	require.NoError(t, err)
	second, err := commands.Dispatch[echoCommand, *echoResult](context.Background(), bus, echoCommand{ID: "b", Idem: "k1"})
	require.NoError(t, err)

	assert.Equal(t, 1, handler.calls)
	assert.Equal(t, first.Value, second.Value)
}

func TestIdempotencyReplaysErrors(t *testing.T) {
	handler := &countingHandler{err: errors.New("boom")}
	bus := newTestBus(handler, newMapStore())

	_, err := commands.Dispatch[echoCommand, *echoResult](context.Background(), bus, echoCommand{ID: "a", Idem: "k1"})
	require.EqualError(t, err, "boom")
	_, err = commands.Dispatch[echoCommand, *echoResult](context.Background(), bus, echoCommand{ID: "a", Idem: "k1"})
	require.EqualError(t, err, "boom")

	assert.Equal(t, 1, handler.calls)
}

func TestIdempotencyPassesThroughWithoutKey(t *testing.T) {
	handler := &countingHandler{}
	bus := newTestBus(handler, newMapStore())

	for i := 0; i < 3; i++ {
		_, err := commands.Dispatch[echoCommand, *echoResult](context.Background(), bus, echoCommand{ID: "a"})
		require.NoError(t, err)
	}
	assert.Equal(t, 3, handler.calls)
}
