// ABOUTME: Tests for the worker pool
// ABOUTME: Verifies all tasks run, errors are joined, and Wait can be reused

package pool

import (
	"errors"
	"sync/atomic"
	"testing"
)

func TestWorkerPool_RunsAllTasks(t *testing.T) {
	p := NewWorkerPool(4)
	defer p.Close()

	var count atomic.Int64
	for range 100 {
		p.Submit(func() error {
			count.Add(1)

			return nil
		})
	}

	if err := p.Wait(); err != nil {
		t.Fatalf("Wait returned %v", err)
	}

	if count.Load() != 100 {
		t.Errorf("ran %d tasks, want 100", count.Load())
	}
}

func TestWorkerPool_JoinsErrors(t *testing.T) {
	p := NewWorkerPool(2)
	defer p.Close()

	errBoom := errors.New("boom")
	for i := range 10 {
		p.Submit(func() error {
			if i%5 == 0 {
				return errBoom
			}

			return nil
		})
	}

	err := p.Wait()
	if !errors.Is(err, errBoom) {
		t.Fatalf("Wait = %v, want errBoom", err)
	}

	// errors are reset between batches
	p.Submit(func() error { return nil })
	if err := p.Wait(); err != nil {
		t.Errorf("second Wait = %v, want nil", err)
	}
}

func TestNewWorkerPool_DefaultSize(t *testing.T) {
	p := NewWorkerPool(0)
	defer p.Close()

	if p.Workers() < 1 {
		t.Errorf("Workers() = %d, want at least 1", p.Workers())
	}
}
