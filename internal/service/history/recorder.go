package history

import (
	"context"
	"sync"
	"time"

	"github.com/iamasit07/cube4/internal/repository/sqldb"
	"github.com/rs/zerolog/log"
)

type Store interface {
	Insert(ctx context.Context, d *sqldb.DecisionRecord) error
}

// Recorder persists decisions off the request path. Record never blocks:
// when the buffer is full the record is dropped and counted.
type Recorder struct {
	store   Store
	queue   chan *sqldb.DecisionRecord
	wg      sync.WaitGroup
	once    sync.Once
	mu      sync.Mutex
	closed  bool
	dropped uint64
}

func NewRecorder(store Store, bufferSize int) *Recorder {
	if bufferSize < 1 {
		bufferSize = 1
	}
	return &Recorder{
		store: store,
		queue: make(chan *sqldb.DecisionRecord, bufferSize),
	}
}

// Start launches the writer goroutine.
func (r *Recorder) Start() {
	r.wg.Add(1)
	go r.run()
	log.Info().Str("component", "history").Int("buffer", cap(r.queue)).Msg("decision recorder started")
}

func (r *Recorder) run() {
	defer r.wg.Done()
	for d := range r.queue {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := r.store.Insert(ctx, d); err != nil {
			log.Error().Str("component", "history").Str("decision_id", d.DecisionID).Err(err).Msg("failed to record decision")
		}
		cancel()
	}
}

// Record queues d and reports whether it was accepted.
func (r *Recorder) Record(d *sqldb.DecisionRecord) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return false
	}
	select {
	case r.queue <- d:
		return true
	default:
		r.dropped++
		log.Warn().Str("component", "history").Uint64("dropped", r.dropped).Msg("history buffer full, decision dropped")
		return false
	}
}

func (r *Recorder) Dropped() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.dropped
}

// Stop stops accepting records and waits for the queue to drain.
func (r *Recorder) Stop() {
	r.once.Do(func() {
		r.mu.Lock()
		r.closed = true
		close(r.queue)
		r.mu.Unlock()
	})
	r.wg.Wait()
}
