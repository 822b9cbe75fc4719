package recorder

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"linkrelay/internal/config"
	"linkrelay/internal/model"
	"linkrelay/internal/visitor"
	"linkrelay/pkg/util"

	"github.com/rs/zerolog/log"
)

const (
	defaultQueueSize    = 1024
	defaultWorkers      = 4
	defaultWriteTimeout = 3 * time.Second
	maxReferrerLen      = 512
)

// Stats is a snapshot of the recorder counters
type Stats struct {
	Enqueued uint64 `json:"enqueued"`
	Dropped  uint64 `json:"dropped"`
	Written  uint64 `json:"written"`
	Failed   uint64 `json:"failed"`
	Pending  int    `json:"pending"`
}

// Recorder records visits off the request path. Events go onto a bounded
// queue drained by a fixed pool of workers; a full queue drops the event.
type Recorder struct {
	sink         Sink
	queue        chan *model.ClickEvent
	workers      int
	writeTimeout time.Duration
	now          func() time.Time

	mu      sync.RWMutex
	stopped bool
	done    chan struct{}
	wg      sync.WaitGroup
	started atomic.Bool

	enqueued atomic.Uint64
	dropped  atomic.Uint64
	written  atomic.Uint64
	failed   atomic.Uint64
}

// NewRecorder creates a recorder writing to sink
func NewRecorder(sink Sink, cfg config.RecorderConfig) *Recorder {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = defaultQueueSize
	}
	if cfg.Workers <= 0 {
		cfg.Workers = defaultWorkers
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = defaultWriteTimeout
	}

	return &Recorder{
		sink:         sink,
		queue:        make(chan *model.ClickEvent, cfg.QueueSize),
		workers:      cfg.Workers,
		writeTimeout: cfg.WriteTimeout,
		now:          time.Now,
		done:         make(chan struct{}),
	}
}

// Start launches the workers. Cancelling ctx has the same effect as Stop.
func (r *Recorder) Start(ctx context.Context) {
	if !r.started.CompareAndSwap(false, true) {
		return
	}

	log.Info().Int("workers", r.workers).Int("queue_size", cap(r.queue)).Msg("Click recorder starting")

	for i := 0; i < r.workers; i++ {
		r.wg.Add(1)
		go r.work()
	}

	go func() {
		select {
		case <-ctx.Done():
			r.Stop()
		case <-r.done:
		}
	}()
}

// Stop closes the queue, lets the workers drain it and waits for them
func (r *Recorder) Stop() {
	r.mu.Lock()
	if r.stopped {
		r.mu.Unlock()
		r.wg.Wait()
		return
	}
	r.stopped = true
	close(r.queue)
	close(r.done)
	r.mu.Unlock()

	r.wg.Wait()

	s := r.Stats()
	log.Info().
		Uint64("written", s.Written).
		Uint64("dropped", s.Dropped).
		Uint64("failed", s.Failed).
		Msg("Click recorder stopped")
}

// Record enqueues a click for linkID without blocking. It reports whether the
// event was accepted.
func (r *Recorder) Record(linkID int64, info visitor.Info) bool {
	event := r.newEvent(linkID, info)

	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.stopped {
		r.dropped.Add(1)
		return false
	}

	select {
	case r.queue <- event:
		r.enqueued.Add(1)
		return true
	default:
		n := r.dropped.Add(1)
		log.Warn().Int64("link_id", linkID).Uint64("dropped_total", n).Msg("Click queue full, dropping click event")
		return false
	}
}

// Stats returns the current counters
func (r *Recorder) Stats() Stats {
	return Stats{
		Enqueued: r.enqueued.Load(),
		Dropped:  r.dropped.Load(),
		Written:  r.written.Load(),
		Failed:   r.failed.Load(),
		Pending:  len(r.queue),
	}
}

func (r *Recorder) work() {
	defer r.wg.Done()
	for event := range r.queue {
		r.write(event)
	}
}

// write runs under its own deadline so a cancelled request never aborts a
// started write
func (r *Recorder) write(event *model.ClickEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), r.writeTimeout)
	defer cancel()

	if err := r.sink.Write(ctx, event); err != nil {
		r.failed.Add(1)
		log.Error().Err(err).
			Int64("link_id", event.LinkID).
			Str("event_id", event.EventID).
			Msg("Failed to record click")
		return
	}
	r.written.Add(1)
}

func (r *Recorder) newEvent(linkID int64, info visitor.Info) *model.ClickEvent {
	clickedAt := info.Now
	if clickedAt.IsZero() {
		clickedAt = r.now()
	}

	referrer := util.Truncate(info.Referrer, maxReferrerLen)

	return &model.ClickEvent{
		EventID:     util.GenerateUUID(),
		LinkID:      linkID,
		ClickedAt:   clickedAt.UTC(),
		DeviceType:  info.Device,
		Referrer:    referrer,
		CountryCode: info.Region.Country,
		VisitorHash: info.VisitorID,
	}
}
