package broadcast

import (
	"context"
	"fmt"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/ayyushutup/boxbox/log"
)

//nolint:lll // by design
// see https://betterprogramming.pub/how-to-broadcast-messages-in-go-using-channels-b68f42bdf32e
//
// A slow listener here is never simply skipped: its pending message is
// coalesced with whatever arrives next, per the session's back-pressure
// contract ("keep the newest, drop intermediates, but fold the dropped
// snapshot's event records into the one that is finally sent").

// Coalescable lets a value absorb one that couldn't be delivered before it,
// so a listener that falls behind misses the intermediate snapshot but
// keeps whatever the implementation folds forward from it.
type Coalescable[T any] interface {
	Coalesce(skipped T) T
}

type BroadcastServer[T Coalescable[T]] interface {
	Subscribe() <-chan T
	CancelSubscription(<-chan T)
	Close()
}

type listenerSlot[T Coalescable[T]] struct {
	ch chan T
	mu sync.Mutex
}

type broadcastServer[T Coalescable[T]] struct {
	name           string
	source         <-chan T
	listeners      []*listenerSlot[T]
	addListener    chan chan T
	removeListener chan (<-chan T)
	ctx            context.Context
	cancel         context.CancelFunc
	numRcv         int
	numSnd         int
	numCoalesced   int
	eventKey       string
	queueDepth     int
}

type Option[T Coalescable[T]] func(*broadcastServer[T])

func WithTelemetry[T Coalescable[T]](eventKey string) Option[T] {
	return func(b *broadcastServer[T]) {
		b.eventKey = eventKey
	}
}

// WithQueueDepth sets the per-listener buffer depth before back-pressure
// starts coalescing. Defaults to 1.
func WithQueueDepth[T Coalescable[T]](depth int) Option[T] {
	return func(b *broadcastServer[T]) {
		if depth > 0 {
			b.queueDepth = depth
		}
	}
}

func (b *broadcastServer[T]) Subscribe() <-chan T {
	ch := make(chan T, b.queueDepth)
	b.addListener <- ch
	return ch
}

func (b *broadcastServer[T]) CancelSubscription(ch <-chan T) {
	b.removeListener <- ch
}

func (b *broadcastServer[T]) Close() {
	log.Info("closing broadcast server",
		log.String("name", b.name),
		log.Int("rcv", b.numRcv), log.Int("snd", b.numSnd), log.Int("coalesced", b.numCoalesced))
	b.cancel()
}

//nolint:whitespace // false positive
func NewBroadcastServer[T Coalescable[T]](
	eventKey, name string,
	source <-chan T,
	opts ...Option[T],
) BroadcastServer[T] {
	ctx, cancel := context.WithCancel(context.Background())
	b := &broadcastServer[T]{
		eventKey:       eventKey,
		name:           name,
		source:         source,
		addListener:    make(chan chan T),
		removeListener: make(chan (<-chan T)),
		ctx:            ctx,
		cancel:         cancel,
		queueDepth:     1,
	}
	for _, o := range opts {
		o(b)
	}
	b.setupMetrics()
	go b.serve()
	return b
}

//nolint:lll,funlen // readability
func (b *broadcastServer[T]) setupMetrics() {
	meter := otel.GetMeterProvider().Meter(fmt.Sprintf("rsim.broadcast.%s", b.name))
	register := func(metricName, desc, unit string, valueProvider func() int64) {
		if _, err := meter.Int64ObservableGauge(
			metricName,
			metric.WithDescription(desc),
			metric.WithUnit(unit),
			metric.WithInt64Callback(func(_ context.Context, o metric.Int64Observer) error {
				o.Observe(valueProvider(),
					metric.WithAttributes(
						attribute.String("name", b.name),
						attribute.String("event", b.eventKey),
					),
				)
				return nil
			})); err != nil {
			log.Error("failed to register metric",
				log.String("metric", metricName),
				log.ErrorField(err))
		}
	}
	type data struct {
		name  string
		desc  string
		unit  string
		value func() int64
	}
	for _, d := range []*data{
		{
			"rsim.broadcast.rcv", "Number of received snapshots", "{count}",
			func() int64 { return int64(b.numRcv) },
		},
		{
			"rsim.broadcast.snd", "Number of delivered snapshots", "{count}",
			func() int64 { return int64(b.numSnd) },
		},
		{
			"rsim.broadcast.coalesced", "Number of coalesced (back-pressured) snapshots", "{count}",
			func() int64 { return int64(b.numCoalesced) },
		},
		{
			"rsim.broadcast.listener", "Number of listeners", "{count}",
			func() int64 { return int64(len(b.listeners)) },
		},
	} {
		register(d.name, d.desc, d.unit, d.value)
	}
}

//nolint:funlen,cyclop,gocognit // by design
func (b *broadcastServer[T]) serve() {
	defer func() {
		log.Info("closing listeners", log.String("name", b.name))
		for _, l := range b.listeners {
			close(l.ch)
		}
	}()
	m := sync.Mutex{}
	for {
		select {
		case <-b.ctx.Done():
			log.Info("broadcast server about to be closed", log.String("name", b.name))
			return
		case ch := <-b.addListener:
			m.Lock()
			b.listeners = append(b.listeners, &listenerSlot[T]{ch: ch})
			m.Unlock()
		case ch := <-b.removeListener:
			m.Lock()
			for i, l := range b.listeners {
				var asRecv <-chan T = l.ch
				if asRecv == ch {
					b.listeners = append(b.listeners[:i], b.listeners[i+1:]...)
					close(l.ch)
					break
				}
			}
			m.Unlock()
		case msg, ok := <-b.source:
			if !ok {
				return
			}
			m.Lock()
			b.numRcv++
			for _, l := range b.listeners {
				b.deliver(l, msg)
			}
			m.Unlock()
		}
	}
}

// deliver sends msg to l, coalescing with whatever is already buffered
// (and not yet read by the listener) instead of blocking the broadcaster
// or dropping the message outright.
func (b *broadcastServer[T]) deliver(l *listenerSlot[T], msg T) {
	l.mu.Lock()
	defer l.mu.Unlock()

	select {
	case l.ch <- msg:
		b.numSnd++
		return
	default:
	}

	select {
	case pending := <-l.ch:
		l.ch <- msg.Coalesce(pending)
		b.numCoalesced++
	default:
		// listener drained its buffer between the two selects above.
		l.ch <- msg
		b.numSnd++
	}
}
