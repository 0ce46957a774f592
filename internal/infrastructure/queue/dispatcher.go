package queue

import (
	"context"
	"hash/fnv"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/eagl/fieldops-api/internal/api/metrics"
	"github.com/eagl/fieldops-api/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 64
)

// JobKind distinguishes the two task types the workers execute.
type JobKind string

const (
	KindImport JobKind = "import"
	KindExport JobKind = "export"
)

// Job is a queued unit of bulk work.
type Job struct {
	Kind   JobKind
	ID     string
	Entity string
}

// Dispatcher routes bulk jobs to a fixed set of workers using consistent
// hashing on the entity name, so at most one import per entity runs at a
// time and jobs for an entity execute in submission order.
type Dispatcher struct {
	workers []chan Job
	runner  ports.BulkRunner
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, runner ports.BulkRunner, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan Job, numWorkers),
		runner:  runner,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan Job, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// EnqueueImport queues an import job run. Non-blocking up to channelBuffer.
func (d *Dispatcher) EnqueueImport(jobID, entity string) {
	d.enqueue(Job{Kind: KindImport, ID: jobID, Entity: entity})
}

// EnqueueExport queues an export job run.
func (d *Dispatcher) EnqueueExport(jobID, entity string) {
	d.enqueue(Job{Kind: KindExport, ID: jobID, Entity: entity})
}

func (d *Dispatcher) enqueue(job Job) {
	idx := d.shardIndex(job.Entity)
	d.workers[idx] <- job
	metrics.BulkQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
}

// shardIndex maps an entity deterministically to a worker index.
func (d *Dispatcher) shardIndex(entity string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(entity))
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan Job) {
	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-ch:
			if !ok {
				return
			}
			metrics.BulkQueueDepth.WithLabelValues(strconv.Itoa(id)).Set(float64(len(ch)))
			var err error
			switch job.Kind {
			case KindImport:
				err = d.runner.RunImport(ctx, job.ID)
			case KindExport:
				err = d.runner.RunExport(ctx, job.ID)
			}
			if err != nil {
				d.log.Error().Err(err).
					Str("job_id", job.ID).
					Str("kind", string(job.Kind)).
					Int("worker_id", id).
					Msg("bulk job failed")
			}
		}
	}
}
