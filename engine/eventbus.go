package engine

import (
	"context"
	"sync"
	"sync/atomic"

	"rankboard/core"
)

type DispatchMode int

const (
	DispatchSync DispatchMode = iota
	DispatchAsync
)

const (
	DefaultQueueSize = 2048
	DefaultWorkers   = 4
)

// BusOption tunes an async EventBus.
type BusOption func(*EventBus)

// WithQueueSize bounds the async queue. Non-positive sizes keep the default.
func WithQueueSize(n int) BusOption {
	return func(e *EventBus) {
		if n > 0 {
			e.queueSize = n
		}
	}
}

// WithWorkers sets the async worker count. Non-positive counts keep the default.
func WithWorkers(n int) BusOption {
	return func(e *EventBus) {
		if n > 0 {
			e.workers = n
		}
	}
}

type handler func(context.Context, core.Event)

// EventBus is a typed pub/sub. Sync buses run handlers on the publishing
// goroutine; async buses hand events to a worker pool through a bounded
// queue and drop on overflow.
type EventBus struct {
	mode      DispatchMode
	queueSize int
	workers   int

	mu     sync.RWMutex
	subs   map[core.EventType]map[int64]handler
	nextID int64

	queue   chan core.Event
	done    chan struct{}
	once    sync.Once
	wg      sync.WaitGroup
	dropped atomic.Int64
}

func NewEventBus(mode DispatchMode, opts ...BusOption) *EventBus {
	eb := &EventBus{
		mode:      mode,
		queueSize: DefaultQueueSize,
		workers:   DefaultWorkers,
		subs:      make(map[core.EventType]map[int64]handler),
		done:      make(chan struct{}),
	}
	for _, o := range opts {
		o(eb)
	}
	if mode == DispatchAsync {
		eb.queue = make(chan core.Event, eb.queueSize)
		eb.wg.Add(eb.workers)
		for i := 0; i < eb.workers; i++ {
			go eb.work()
		}
	}
	return eb
}

func (e *EventBus) work() {
	defer e.wg.Done()
	for {
		select {
		case ev := <-e.queue:
			e.dispatch(context.Background(), ev)
		case <-e.done:
			// deliver whatever was queued before Close
			for {
				select {
				case ev := <-e.queue:
					e.dispatch(context.Background(), ev)
				default:
					return
				}
			}
		}
	}
}

// Close stops the workers after they drain the queue and waits for them.
// Safe to call more than once.
func (e *EventBus) Close() {
	e.once.Do(func() { close(e.done) })
	e.wg.Wait()
}

// Dropped reports how many async events were discarded on a full queue.
func (e *EventBus) Dropped() int64 { return e.dropped.Load() }

// Subscribe registers a handler for an event type. Returns unsubscribe func.
func (e *EventBus) Subscribe(typ core.EventType, fn func(context.Context, core.Event)) func() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.nextID++
	id := e.nextID
	if e.subs[typ] == nil {
		e.subs[typ] = make(map[int64]handler)
	}
	e.subs[typ][id] = fn
	return func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		delete(e.subs[typ], id)
	}
}

// Publish sends an event to subscribers. Events published to a closed async
// bus are counted as dropped.
func (e *EventBus) Publish(ctx context.Context, ev core.Event) {
	if e.mode != DispatchAsync {
		e.dispatch(ctx, ev)
		return
	}
	select {
	case <-e.done:
		e.dropped.Add(1)
		return
	default:
	}
	select {
	case e.queue <- ev:
	default:
		e.dropped.Add(1)
	}
}

func (e *EventBus) dispatch(ctx context.Context, ev core.Event) {
	e.mu.RLock()
	handlers := make([]handler, 0, len(e.subs[ev.Type]))
	for _, h := range e.subs[ev.Type] {
		handlers = append(handlers, h)
	}
	e.mu.RUnlock()
	for _, h := range handlers {
		h(ctx, ev)
	}
}
