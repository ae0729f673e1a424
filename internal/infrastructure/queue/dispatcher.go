package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/medicarepro/booking-system/internal/api/metrics"
	"github.com/medicarepro/booking-system/internal/core/domain"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Processor applies a single gateway event.
type Processor interface {
	Process(ctx context.Context, event domain.GatewayEvent) error
}

// Dispatcher routes gateway webhook events to a fixed set of workers using
// consistent hashing on the gateway order id, so events for the same order
// are applied in arrival order.
type Dispatcher struct {
	workers   []chan domain.GatewayEvent
	processor Processor
	log       zerolog.Logger
	wg        sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, processor Processor, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers:   make([]chan domain.GatewayEvent, numWorkers),
		processor: processor,
		log:       log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.GatewayEvent, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Wait blocks until every worker has returned.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Enqueue sends an event to the worker responsible for its order. It blocks
// once the worker's buffer is full.
func (d *Dispatcher) Enqueue(event domain.GatewayEvent) {
	idx := d.shardIndex(shardKey(event))
	d.workers[idx] <- event
	metrics.WebhookQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
}

// shardKey falls back to the event id for events without an order.
func shardKey(event domain.GatewayEvent) string {
	if event.OrderID != "" {
		return event.OrderID
	}
	return event.ID
}

// shardIndex maps a key deterministically to a worker index.
func (d *Dispatcher) shardIndex(key string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.GatewayEvent) {
	defer d.wg.Done()
	label := strconv.Itoa(id)
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			metrics.WebhookQueueDepth.WithLabelValues(label).Set(float64(len(ch)))

			start := time.Now()
			err := d.processor.Process(ctx, event)
			metrics.WebhookProcessingDuration.WithLabelValues(metrics.Outcome(err)).Observe(time.Since(start).Seconds())
			if err != nil {
				d.log.Error().Err(err).
					Str("event_id", event.ID).
					Str("order_id", event.OrderID).
					Int("worker_id", id).
					Msg("webhook processing failed")
			}
		}
	}
}
