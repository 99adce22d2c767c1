package analytics

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Recorder is the part of Store the tracker writes through.
type Recorder interface {
	Record(ctx context.Context, v View) error
}

// Tracker records views off the request path. Enqueue never blocks; when
// the buffer is full the view is dropped.
type Tracker struct {
	rec    Recorder
	log    *zap.Logger
	queue  chan View
	closed chan struct{}
}

// NewTracker buffers up to size pending views.
func NewTracker(rec Recorder, log *zap.Logger, size int) *Tracker {
	if size < 1 {
		size = 1
	}
	return &Tracker{
		rec:    rec,
		log:    log,
		queue:  make(chan View, size),
		closed: make(chan struct{}),
	}
}

// Enqueue schedules v and reports whether it was accepted.
func (t *Tracker) Enqueue(v View) bool {
	if v.Timestamp.IsZero() {
		v.Timestamp = time.Now()
	}
	select {
	case t.queue <- v:
		return true
	default:
		t.log.Debug("dropping page view, queue full", zap.String("path", v.Path))
		return false
	}
}

// Run writes queued views until ctx is cancelled, then drains what is
// already buffered.
func (t *Tracker) Run(ctx context.Context) {
	defer close(t.closed)
	for {
		select {
		case v := <-t.queue:
			t.record(context.WithoutCancel(ctx), v)
		case <-ctx.Done():
			for {
				select {
				case v := <-t.queue:
					t.record(context.WithoutCancel(ctx), v)
				default:
					return
				}
			}
		}
	}
}

// Done is closed once Run has returned.
func (t *Tracker) Done() <-chan struct{} {
	return t.closed
}

func (t *Tracker) record(ctx context.Context, v View) {
	if err := t.rec.Record(ctx, v); err != nil {
		t.log.Warn("recording page view", zap.String("path", v.Path), zap.Error(err))
	}
}

// RunCleanup deletes views older than retention once immediately and then
// every interval until ctx is cancelled.
func RunCleanup(ctx context.Context, s *Store, log *zap.Logger, retention, interval time.Duration) {
	clean := func() {
		n, err := s.Cleanup(ctx, retention)
		if err != nil {
			log.Warn("privacy cleanup", zap.Error(err))
			return
		}
		if n > 0 {
			log.Info("privacy cleanup removed old views", zap.Int64("rows", n), zap.Duration("retention", retention))
		}
	}

	clean()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			clean()
		}
	}
}
