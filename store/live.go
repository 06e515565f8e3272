package store

import (
	"context"
	"errors"
	"sync"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/mbevents/dashboard-go/models"
)

// ErrSubscriptionClosed terminates a snapshot stream whose change feed ended
// without the subscriber cancelling it.
var ErrSubscriptionClosed = errors.New("subscription closed")

// Snapshot is one complete, ordered replacement view of a collection.
// Consumers must treat Docs as authoritative and never patch incrementally.
// Err, when set, is terminal: no snapshot follows it.
type Snapshot[T any] struct {
	Docs []T
	Err  error
}

// LiveQuery streams ordered snapshots of a collection. A fresh snapshot is
// produced for every change to the collection, by any writer including this
// process. Delivery is last-snapshot-wins: if the consumer lags, undelivered
// intermediate snapshots are dropped.
type LiveQuery[T any] struct {
	out  chan Snapshot[T]
	stop context.CancelFunc

	mu       sync.Mutex
	canceled bool
}

// newLiveQuery starts the snapshot loop. fetch returns the full ordered
// collection contents; notify yields a tick per collection change and reports
// terminal feed errors.
func newLiveQuery[T any](
	ctx context.Context,
	fetch func(context.Context) ([]T, error),
	notify func(context.Context) (<-chan struct{}, <-chan error),
) *LiveQuery[T] {
	ctx, cancel := context.WithCancel(ctx)
	q := &LiveQuery[T]{
		out:  make(chan Snapshot[T], 1),
		stop: cancel,
	}
	go q.run(ctx, fetch, notify)
	return q
}

// Snapshots is the stream of replacement states. It is closed after
// cancellation or after a terminal error snapshot.
func (q *LiveQuery[T]) Snapshots() <-chan Snapshot[T] { return q.out }

// Cancel releases the subscription. It is idempotent, and no snapshot is
// observable after it returns; an undelivered buffered snapshot is discarded.
func (q *LiveQuery[T]) Cancel() {
	q.mu.Lock()
	if q.canceled {
		q.mu.Unlock()
		return
	}
	q.canceled = true
	select {
	case <-q.out:
	default:
	}
	q.mu.Unlock()
	q.stop()
}

// emit delivers s, dropping a stale undelivered snapshot if the consumer has
// not caught up. Reports false once the query is cancelled.
func (q *LiveQuery[T]) emit(s Snapshot[T]) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.canceled {
		return false
	}
	for {
		select {
		case q.out <- s:
			return true
		default:
			select {
			case <-q.out:
			default:
			}
		}
	}
}

func (q *LiveQuery[T]) run(
	ctx context.Context,
	fetch func(context.Context) ([]T, error),
	notify func(context.Context) (<-chan struct{}, <-chan error),
) {
	defer close(q.out)

	ticks, errs := notify(ctx)

	docs, err := fetch(ctx)
	if err != nil {
		if ctx.Err() == nil {
			q.emit(Snapshot[T]{Err: err})
		}
		return
	}
	if !q.emit(Snapshot[T]{Docs: docs}) {
		return
	}

	for {
		select {
		case <-ctx.Done():
			return
		case err := <-errs:
			q.emit(Snapshot[T]{Err: err})
			return
		case _, ok := <-ticks:
			if !ok {
				if ctx.Err() == nil {
					// The feed goroutine closes ticks after reporting its
					// failure, so prefer the real error when there is one.
					select {
					case err := <-errs:
						q.emit(Snapshot[T]{Err: err})
					default:
						q.emit(Snapshot[T]{Err: ErrSubscriptionClosed})
					}
				}
				return
			}
			docs, err := fetch(ctx)
			if err != nil {
				if ctx.Err() == nil {
					q.emit(Snapshot[T]{Err: err})
				}
				return
			}
			if !q.emit(Snapshot[T]{Docs: docs}) {
				return
			}
		}
	}
}

// LiveEvents subscribes to the events collection ordered by orderKey.
// The events page uses createdAt descending.
func (m *Mongo) LiveEvents(ctx context.Context, orderKey string, dir SortDirection) *LiveQuery[models.Event] {
	return newLiveQuery(ctx,
		func(ctx context.Context) ([]models.Event, error) {
			return m.FindEvents(ctx, orderKey, dir)
		},
		m.watch(EventsCollection),
	)
}

// LiveCategories subscribes to the categories collection ordered by orderKey.
// The categories page and the event form use name ascending.
func (m *Mongo) LiveCategories(ctx context.Context, orderKey string, dir SortDirection) *LiveQuery[models.Category] {
	return newLiveQuery(ctx,
		func(ctx context.Context) ([]models.Category, error) {
			return m.FindCategories(ctx, orderKey, dir)
		},
		m.watch(CategoriesCollection),
	)
}

// watch adapts a Mongo change stream into the tick/error feed consumed by
// the snapshot loop. Every change event becomes one tick; the change payload
// itself is ignored since each tick triggers a full re-query.
func (m *Mongo) watch(collection string) func(context.Context) (<-chan struct{}, <-chan error) {
	return func(ctx context.Context) (<-chan struct{}, <-chan error) {
		ticks := make(chan struct{})
		errs := make(chan error, 1)
		go func() {
			defer close(ticks)
			cs, err := m.db.Collection(collection).Watch(ctx, mongo.Pipeline{})
			if err != nil {
				errs <- mapMongoErr("watch "+collection, err)
				return
			}
			defer cs.Close(context.Background())
			for cs.Next(ctx) {
				select {
				case ticks <- struct{}{}:
				case <-ctx.Done():
					return
				}
			}
			if err := cs.Err(); err != nil && ctx.Err() == nil {
				errs <- mapMongoErr("watch "+collection, err)
			}
		}()
		return ticks, errs
	}
}
