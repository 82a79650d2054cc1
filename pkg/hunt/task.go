package hunt

import "context"

// Task is a deferred step outcome. It settles exactly once.
type Task struct {
	done   chan struct{}
	result StepResult
	err    error
}

func newTask() *Task {
	return &Task{done: make(chan struct{})}
}

func (t *Task) settle(res StepResult, err error) {
	t.result = res
	t.err = err
	close(t.done)
}

// Done is closed once the task has settled
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Await blocks until the task settles or ctx ends.
// A rejected step is reported through the result, not the error; the error
// is only set when the wait itself was cut short.
func (t *Task) Await(ctx context.Context) (StepResult, error) {
	select {
	case <-t.done:
		return t.result, t.err
	case <-ctx.Done():
		return StepResult{}, ctx.Err()
	}
}
