package broker

import (
	"sync"

	"nereid/pkg/broker/events"
	"nereid/pkg/util/context"
)

const (
	// InMemoryType Broker type InMemory.
	InMemoryType Type = "inmemory"

	defaultBuffer = 256
)

func init() {
	f := func(ctx context.Context, c interface{}) (Broker, error) {
		asConf, isConf := c.(*InMemoryConfig)
		if !isConf {
			return NewInMemoryBroker(defaultBuffer), nil
		}
		return NewInMemoryBroker(asConf.Buffer), nil
	}
	register(InMemoryType, f, &InMemoryConfig{})
}

// InMemoryConfig is configuration for the in-memory broker implementation.
type InMemoryConfig struct {
	Buffer int `json:"buffer" mapstructure:"buffer" env:"BROKER_INMEMORY_BUFFER" envDefault:"256"`
}

// InMemory is a channel-backed Broker used by the CLI live view and tests.
// When the buffer is full, events are dropped rather than blocking the
// execution that publishes them.
type InMemory struct {
	ch     chan events.Event
	mu     sync.Mutex
	closed bool
}

// NewInMemoryBroker returns an in-process Broker with the given buffer size.
func NewInMemoryBroker(buffer int) *InMemory {
	if buffer <= 0 {
		buffer = defaultBuffer
	}
	return &InMemory{
		ch: make(chan events.Event, buffer),
	}
}

// Events exposes the published events for consumption. The channel is
// closed when the broker is closed.
func (b *InMemory) Events() <-chan events.Event {
	return b.ch
}

func (b *InMemory) Publish(ctx context.Context, evt events.Event) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	select {
	case b.ch <- evt:
	default:
		ctx.Logger().Warnf("event buffer full, dropping event %s", evt)
	}
	return nil
}

func (b *InMemory) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.closed {
		b.closed = true
		close(b.ch)
	}
	return nil
}
