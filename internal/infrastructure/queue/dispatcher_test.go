package queue

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

type recordingRunner struct {
	mu      sync.Mutex
	imports []string
	exports []string
	done    chan struct{}
}

func newRecordingRunner(expected int) *recordingRunner {
	return &recordingRunner{done: make(chan struct{}, expected)}
}

func (r *recordingRunner) RunImport(_ context.Context, jobID string) error {
	r.mu.Lock()
	r.imports = append(r.imports, jobID)
	r.mu.Unlock()
	r.done <- struct{}{}
	return nil
}

func (r *recordingRunner) RunExport(_ context.Context, jobID string) error {
	r.mu.Lock()
	r.exports = append(r.exports, jobID)
	r.mu.Unlock()
	r.done <- struct{}{}
	return nil
}

func waitForJobs(t *testing.T, r *recordingRunner, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		select {
		case <-r.done:
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for job %d of %d", i+1, n)
		}
	}
}

func TestDispatcher_RunsQueuedJobs(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	runner := newRecordingRunner(3)
	d := NewDispatcher(2, runner, zerolog.Nop())
	d.Start(ctx)

	d.EnqueueImport("j1", "clients")
	d.EnqueueImport("j2", "assets")
	d.EnqueueExport("e1", "work_orders")
	waitForJobs(t, runner, 3)

	runner.mu.Lock()
	defer runner.mu.Unlock()
	if len(runner.imports) != 2 {
		t.Errorf("imports = %v, want 2 jobs", runner.imports)
	}
	if len(runner.exports) != 1 || runner.exports[0] != "e1" {
		t.Errorf("exports = %v, want [e1]", runner.exports)
	}
}

func TestDispatcher_SameEntityKeepsOrder(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	const jobs = 20
	runner := newRecordingRunner(jobs)
	d := NewDispatcher(4, runner, zerolog.Nop())
	d.Start(ctx)

	ids := make([]string, jobs)
	for i := range ids {
		ids[i] = string(rune('a' + i))
		d.EnqueueImport(ids[i], "clients")
	}
	waitForJobs(t, runner, jobs)

	runner.mu.Lock()
	defer runner.mu.Unlock()
	for i, id := range ids {
		if runner.imports[i] != id {
			t.Fatalf("job %d ran out of order: got %v", i, runner.imports)
		}
	}
}

func TestDispatcher_ShardIsStablePerEntity(t *testing.T) {
	d := NewDispatcher(4, nil, zerolog.Nop())

	first := d.shardIndex("clients")
	for i := 0; i < 100; i++ {
		if got := d.shardIndex("clients"); got != first {
			t.Fatalf("shard index changed: %d != %d", got, first)
		}
	}
}

func TestDispatcher_DefaultWorkerCount(t *testing.T) {
	d := NewDispatcher(0, nil, zerolog.Nop())
	if len(d.workers) != defaultWorkers {
		t.Errorf("workers = %d, want %d", len(d.workers), defaultWorkers)
	}
}
