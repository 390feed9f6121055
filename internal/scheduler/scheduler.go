// Package scheduler runs delayed tasks that can be awaited or cancelled on shutdown.
package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

var ErrStopped = errors.New("scheduler stopped")

type Scheduler struct {
	ctx    context.Context
	cancel context.CancelFunc
	logger *slog.Logger

	mtx     sync.Mutex
	wg      sync.WaitGroup
	tasks   map[uint64]*Task
	nextID  uint64
	stopped bool
}

// Task is a single scheduled function.
type Task struct {
	id    uint64
	name  string
	timer *time.Timer
	s     *Scheduler
	once  sync.Once
	done  chan struct{}
}

func New(logger *slog.Logger) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		ctx:    ctx,
		cancel: cancel,
		logger: logger,
		tasks:  make(map[uint64]*Task),
	}
}

// After runs fn once delay has elapsed. The context passed to fn is cancelled by Stop.
func (s *Scheduler) After(delay time.Duration, name string, fn func(ctx context.Context)) (*Task, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if s.stopped {
		return nil, ErrStopped
	}

	s.nextID++
	t := &Task{
		id:   s.nextID,
		name: name,
		s:    s,
		done: make(chan struct{}),
	}
	s.tasks[t.id] = t
	s.wg.Add(1)

	t.timer = time.AfterFunc(delay, func() {
		defer t.finish()
		if s.ctx.Err() != nil {
			return
		}
		s.logger.Debug("running scheduled task", "task", name)
		fn(s.ctx)
	})

	return t, nil
}

// Pending returns the number of tasks that have not completed yet.
func (s *Scheduler) Pending() int {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	return len(s.tasks)
}

// Wait blocks until every scheduled task has completed or ctx is done.
func (s *Scheduler) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop cancels tasks that have not fired, cancels the context of running
// ones and waits for them to return.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mtx.Lock()
	s.stopped = true
	pending := make([]*Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		pending = append(pending, t)
	}
	s.mtx.Unlock()

	cancelled := 0
	for _, t := range pending {
		if t.Cancel() {
			cancelled++
		}
	}
	s.cancel()

	if cancelled > 0 {
		s.logger.Info("cancelled scheduled tasks", "count", cancelled)
	}
	return s.Wait(ctx)
}

// Cancel prevents the task from running. It reports false if the task already fired.
func (t *Task) Cancel() bool {
	if !t.timer.Stop() {
		return false
	}
	t.finish()
	return true
}

// Done is closed once the task has run or was cancelled.
func (t *Task) Done() <-chan struct{} {
	return t.done
}

func (t *Task) finish() {
	t.once.Do(func() {
		t.s.mtx.Lock()
		delete(t.s.tasks, t.id)
		t.s.mtx.Unlock()
		close(t.done)
		t.s.wg.Done()
	})
}
