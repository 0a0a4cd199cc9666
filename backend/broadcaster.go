package backend

import (
	"context"
	"sync"

	"github.com/b0bbywan/go-powermenu/events"
	"github.com/b0bbywan/go-powermenu/logger"
)

const subscriberBuffer = 32

type subscriber struct {
	filter func(events.Event) bool
}

func (s subscriber) wants(e events.Event) bool {
	return s.filter == nil || s.filter(e)
}

// Broadcaster fans out the merged backend events to every subscriber. Once
// menu.closed has gone through, late subscribers receive it on subscription
// so a page loaded while the menu shuts down does not wait forever.
type Broadcaster struct {
	mu      sync.RWMutex
	clients map[chan events.Event]subscriber
	closed  *events.Event
}

// NewBroadcaster reads upstream until it is closed or ctx is cancelled.
func NewBroadcaster(ctx context.Context, upstream <-chan events.Event) *Broadcaster {
	b := &Broadcaster{clients: map[chan events.Event]subscriber{}}
	go b.run(ctx, upstream)
	return b
}

// NewBroadcaster wires the event channels of every enabled backend.
func (b *Backend) NewBroadcaster(ctx context.Context) *Broadcaster {
	return newBroadcasterFromBackend(ctx, b)
}

func (b *Broadcaster) Subscribe() chan events.Event {
	return b.SubscribeFunc(nil)
}

// SubscribeFunc is Subscribe with a filter. A nil filter passes everything.
func (b *Broadcaster) SubscribeFunc(filter func(events.Event) bool) chan events.Event {
	ch := make(chan events.Event, subscriberBuffer)
	sub := subscriber{filter: filter}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.clients[ch] = sub
	if b.closed != nil && sub.wants(*b.closed) {
		ch <- *b.closed
	}
	return ch
}

// Unsubscribe removes a subscriber and closes its channel. Calling it twice is harmless.
func (b *Broadcaster) Unsubscribe(ch chan events.Event) {
	b.mu.Lock()
	_, ok := b.clients[ch]
	delete(b.clients, ch)
	b.mu.Unlock()
	if ok {
		close(ch)
	}
}

// broadcast delivers e to every matching subscriber, then acknowledges it.
func (b *Broadcaster) broadcast(e events.Event) {
	defer e.Ack()
	b.mu.Lock()
	defer b.mu.Unlock()
	if e.Type == events.TypeMenuClosed {
		b.closed = &e
	}
	for ch, sub := range b.clients {
		if !sub.wants(e) {
			continue
		}
		select {
		case ch <- e:
		default:
			logger.Warn("[sse] subscriber too slow, dropping %s", e.Type)
		}
	}
}

func (b *Broadcaster) run(ctx context.Context, upstream <-chan events.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-upstream:
			if !ok {
				return
			}
			b.broadcast(e)
		}
	}
}

func newBroadcasterFromBackend(ctx context.Context, b *Backend) *Broadcaster {
	var srcs []<-chan events.Event
	if b.Power != nil {
		srcs = append(srcs, b.Power.Events())
	}
	if b.Theme != nil {
		srcs = append(srcs, b.Theme.Events())
	}
	return NewBroadcaster(ctx, fanIn(ctx, srcs...))
}

// fanIn merges sources into one channel, closed once every source is
// drained or ctx is done. Nil sources are skipped.
func fanIn(ctx context.Context, sources ...<-chan events.Event) <-chan events.Event {
	merged := make(chan events.Event, 64)
	var wg sync.WaitGroup

	forward := func(src <-chan events.Event) {
		defer wg.Done()
		for {
			var e events.Event
			var ok bool
			select {
			case <-ctx.Done():
				return
			case e, ok = <-src:
				if !ok {
					return
				}
			}
			select {
			case merged <- e:
			case <-ctx.Done():
				return
			}
		}
	}

	for _, src := range sources {
		if src != nil {
			wg.Add(1)
			go forward(src)
		}
	}
	go func() {
		wg.Wait()
		close(merged)
	}()

	return merged
}
