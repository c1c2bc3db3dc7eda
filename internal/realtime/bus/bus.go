package bus

import (
	"context"
	"sync"

	"github.com/yungbote/netinv-backend/internal/realtime"
)

type Bus interface {
	Publish(ctx context.Context, msg realtime.Message) error
	Close() error
}

type nopBus struct{}

// NewNopBus drops every message; used when REDIS_ADDR is not configured.
func NewNopBus() Bus { return nopBus{} }

func (nopBus) Publish(context.Context, realtime.Message) error { return nil }
func (nopBus) Close() error                                    { return nil }

// MemoryBus keeps published messages in order. Used by tests and the CLI.
type MemoryBus struct {
	mu   sync.Mutex
	msgs []realtime.Message
}

func NewMemoryBus() *MemoryBus { return &MemoryBus{} }

func (b *MemoryBus) Publish(_ context.Context, msg realtime.Message) error {
	b.mu.Lock()
	b.msgs = append(b.msgs, msg)
	b.mu.Unlock()
	return nil
}

func (b *MemoryBus) Messages() []realtime.Message {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]realtime.Message, len(b.msgs))
	copy(out, b.msgs)
	return out
}

func (b *MemoryBus) Close() error { return nil }
