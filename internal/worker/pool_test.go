package worker

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

type testJob struct {
	executed *int32
}

func (j *testJob) Name() string { return "test" }

func (j *testJob) Process(ctx context.Context) error {
	atomic.AddInt32(j.executed, 1)
	return nil
}

func TestPool(t *testing.T) {
	var executed int32
	pool := NewPool(2, 10)
	pool.Start()

	job := &testJob{executed: &executed}
	pool.Enqueue(job)
	pool.Enqueue(job)

	// Wait a bit for workers to process
	time.Sleep(100 * time.Millisecond)

	pool.Stop()

	if atomic.LoadInt32(&executed) != 2 {
		t.Errorf("Expected 2 jobs executed, got %d", executed)
	}
}

func TestJobFunc(t *testing.T) {
	var ran bool
	job := NewJob("refresh", func(ctx context.Context) error {
		ran = true
		return nil
	})

	if job.Name() != "refresh" {
		t.Errorf("Expected job name refresh, got %s", job.Name())
	}
	if err := job.Process(context.Background()); err != nil {
		t.Fatalf("Process returned error: %v", err)
	}
	if !ran {
		t.Error("Expected wrapped function to run")
	}
}
