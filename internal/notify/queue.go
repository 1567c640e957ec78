// Package notify delivers user notifications off the request path through a
// bounded in-process queue drained by a single consumer goroutine.
package notify

import (
	"context"
	"sync"

	"github.com/JonnyWalker81/habitrack/backend/internal/logger"
	"github.com/JonnyWalker81/habitrack/backend/internal/metrics"
)

// DefaultQueueSize is used when a non-positive size is given
const DefaultQueueSize = 64

// Deliverer sends a notification to its user
type Deliverer interface {
	Deliver(ctx context.Context, n Notification) error
}

// Sink accepts notifications without blocking
type Sink interface {
	Enqueue(n Notification) bool
}

// Queue is a bounded notification queue with one consumer
type Queue struct {
	ch        chan Notification
	deliverer Deliverer
	log       logger.Logger

	mu      sync.RWMutex
	closed  bool
	started bool
	done    chan struct{}
}

// NewQueue creates a queue of the given capacity; call Start to begin delivery
func NewQueue(size int, d Deliverer, log logger.Logger) *Queue {
	if size <= 0 {
		size = DefaultQueueSize
	}
	return &Queue{
		ch:        make(chan Notification, size),
		deliverer: d,
		log:       log,
		done:      make(chan struct{}),
	}
}

// Start launches the consumer goroutine. Calling it more than once has no effect.
func (q *Queue) Start(ctx context.Context) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.started || q.closed {
		return
	}
	q.started = true

	go q.run(ctx)
}

func (q *Queue) run(ctx context.Context) {
	defer close(q.done)
	for n := range q.ch {
		metrics.SetNotificationQueueDepth(len(q.ch))
		if err := q.deliverer.Deliver(ctx, n); err != nil {
			metrics.RecordNotificationFailed(string(n.Kind))
			q.log.Warn("notification delivery failed",
				logger.String("kind", string(n.Kind)),
				logger.String("user_id", n.UserID),
				logger.String("habit_id", n.HabitID),
				logger.Err(err),
			)
		}
	}
}

// Enqueue queues n for delivery and never blocks. It returns false when the
// queue is full or closed; the notification is then dropped.
func (q *Queue) Enqueue(n Notification) bool {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		q.drop(n, "queue closed")
		return false
	}

	select {
	case q.ch <- n:
		metrics.RecordNotificationEnqueued(string(n.Kind))
		metrics.SetNotificationQueueDepth(len(q.ch))
		return true
	default:
		q.drop(n, "queue full")
		return false
	}
}

func (q *Queue) drop(n Notification, reason string) {
	metrics.RecordNotificationDropped(string(n.Kind))
	q.log.Warn("notification dropped",
		logger.String("reason", reason),
		logger.String("kind", string(n.Kind)),
		logger.String("user_id", n.UserID),
		logger.String("habit_id", n.HabitID),
	)
}

// Close stops accepting notifications and waits for queued ones to be delivered
func (q *Queue) Close() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	started := q.started
	close(q.ch)
	q.mu.Unlock()

	if started {
		<-q.done
	}
}

// LogDeliverer writes notifications to the log. It stands in for a push
// provider, which is outside this service.
type LogDeliverer struct {
	Log logger.Logger
}

func (d LogDeliverer) Deliver(_ context.Context, n Notification) error {
	d.Log.Info("notification delivered",
		logger.String("kind", string(n.Kind)),
		logger.String("user_id", n.UserID),
		logger.String("habit_id", n.HabitID),
		logger.String("message", n.Message),
	)
	return nil
}

// Discard drops every notification; used when notifications are disabled
type Discard struct{}

func (Discard) Enqueue(Notification) bool { return false }
