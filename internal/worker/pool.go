// Package worker provides background processing for track-record
// persistence. Recommendation quality never depends on these writes, so
// they run off the request path and failures are logged, not surfaced.
package worker

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/cedricxu312/MoodTune/internal/core/domain"
	"github.com/cedricxu312/MoodTune/internal/core/ports"
)

const saveTimeout = 5 * time.Second

// Job is one track record to persist against a saved mood.
type Job struct {
	MoodID int64
	Track  domain.ValidatedTrack
}

// Pool manages background workers draining a bounded job queue.
type Pool struct {
	repo ports.MoodRepository
	jobs chan Job
	wg   sync.WaitGroup
	log  *zap.Logger
}

// NewPool creates a pool with the given queue size.
func NewPool(repo ports.MoodRepository, queueSize int, log *zap.Logger) *Pool {
	if queueSize < 1 {
		queueSize = 1
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Pool{repo: repo, jobs: make(chan Job, queueSize), log: log}
}

// Start launches the worker goroutines.
func (p *Pool) Start(workers int) {
	if workers < 1 {
		workers = 1
	}
	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for job := range p.jobs {
				p.processJob(job)
			}
		}()
	}
}

// Stop closes the queue and waits for in-flight jobs to drain.
func (p *Pool) Stop() {
	close(p.jobs)
	p.wg.Wait()
}

// Submit queues a job without blocking; a full queue drops the job.
func (p *Pool) Submit(job Job) {
	select {
	case p.jobs <- job:
	default:
		p.log.Warn("worker: queue full, dropping track save",
			zap.Int64("mood_id", job.MoodID), zap.String("track", job.Track.Name))
	}
}

func (p *Pool) processJob(job Job) {
	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()

	if err := p.repo.SaveTrack(ctx, job.MoodID, job.Track); err != nil {
		p.log.Warn("worker: failed to save track",
			zap.Int64("mood_id", job.MoodID), zap.String("track", job.Track.Name), zap.Error(err))
	}
}
