// Package async moves blocking work off the UI goroutine and hands the
// result back to it as a completion closure.
package async

import "context"

// Job performs blocking work and returns the closure that applies its
// result. The closure must run on the owner's goroutine.
type Job func(ctx context.Context) func()

// Runner schedules jobs and delivers their completions one at a time
type Runner interface {
	Run(job Job)
}

// Call runs work through r and passes its result to done
func Call[T any](r Runner, work func(context.Context) (T, error), done func(T, error)) {
	r.Run(func(ctx context.Context) func() {
		v, err := work(ctx)
		return func() { done(v, err) }
	})
}

// Inline runs the job and its completion immediately on the caller
type Inline struct {
	Ctx context.Context
}

func (i Inline) Run(job Job) {
	ctx := i.Ctx
	if ctx == nil {
		ctx = context.Background()
	}
	if complete := job(ctx); complete != nil {
		complete()
	}
}

// Queue runs jobs immediately but holds their completions until delivered.
// It lets callers reorder replies.
type Queue struct {
	Ctx     context.Context
	pending []func()
}

func (q *Queue) Run(job Job) {
	ctx := q.Ctx
	if ctx == nil {
		ctx = context.Background()
	}
	q.pending = append(q.pending, job(ctx))
}

// Len returns the number of undelivered completions
func (q *Queue) Len() int {
	return len(q.pending)
}

// Deliver applies the i-th pending completion and removes it
func (q *Queue) Deliver(i int) {
	complete := q.pending[i]
	q.pending = append(q.pending[:i:i], q.pending[i+1:]...)
	if complete != nil {
		complete()
	}
}

// Flush applies every pending completion in scheduling order, including
// ones scheduled by the completions themselves.
func (q *Queue) Flush() {
	for len(q.pending) > 0 {
		q.Deliver(0)
	}
}
