package extraction

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"yt-ingest/models"
)

var ErrQueueFull = errors.New("job queue is full")

// JobQueue serializes extraction work onto a bounded worker pool so a burst
// of requests cannot stack up unbounded yt-dlp and whisper processes. The
// origin rate gate already forces one-at-a-time origin access; the pool cap
// bounds everything else (CPU, disk, memory).
type JobQueue struct {
	jobs        chan *extractionJob
	workerCount int
	service     Service
	logger      zerolog.Logger

	mu   sync.Mutex
	quit chan struct{}
	wg   sync.WaitGroup
}

type extractionJob struct {
	req    models.ExtractRequest
	ctx    context.Context
	result chan JobResult
}

// JobResult is the terminal outcome of one queued extraction.
type JobResult struct {
	Result *models.ExtractResult
	Err    error
}

func NewJobQueue(service Service, workerCount, maxQueueSize int, logger zerolog.Logger) *JobQueue {
	return &JobQueue{
		jobs:        make(chan *extractionJob, maxQueueSize),
		workerCount: workerCount,
		service:     service,
		logger:      logger.With().Str("component", "job_queue").Logger(),
		quit:        make(chan struct{}),
	}
}

// Start launches the worker pool.
func (q *JobQueue) Start() {
	for i := 0; i < q.workerCount; i++ {
		q.wg.Add(1)
		go q.worker(i)
	}
}

// Submit enqueues a request and returns a channel that receives exactly one
// JobResult. Returns ErrQueueFull instead of blocking when at capacity.
func (q *JobQueue) Submit(ctx context.Context, req models.ExtractRequest) (<-chan JobResult, error) {
	job := &extractionJob{
		req:    req,
		ctx:    ctx,
		result: make(chan JobResult, 1),
	}

	select {
	case q.jobs <- job:
		return job.result, nil
	default:
		return nil, ErrQueueFull
	}
}

func (q *JobQueue) worker(id int) {
	defer q.wg.Done()

	log := q.logger.With().Int("worker_id", id).Logger()
	log.Info().Msg("Starting worker")

	for {
		select {
		case <-q.quit:
			log.Info().Msg("Worker shutting down")
			return
		case job := <-q.jobs:
			start := time.Now()
			result, err := q.service.Extract(job.ctx, job.req)
			if err != nil {
				log.Error().Err(err).Str("url", job.req.URL).
					Int64("duration_ms", time.Since(start).Milliseconds()).
					Msg("Extraction job failed")
			} else {
				log.Info().Str("url", job.req.URL).
					Int64("duration_ms", time.Since(start).Milliseconds()).
					Msg("Extraction job finished")
			}

			job.result <- JobResult{Result: result, Err: err}
		}
	}
}

// Close stops the workers after their current jobs complete. Queued but
// unstarted jobs are abandoned; their submitters see context expiry.
func (q *JobQueue) Close() {
	q.mu.Lock()
	select {
	case <-q.quit:
	default:
		close(q.quit)
	}
	q.mu.Unlock()
	q.wg.Wait()
}
