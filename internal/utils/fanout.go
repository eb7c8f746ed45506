package utils

import (
	"context"
	"sync"
)

// Outcome is the settled result of one concurrent task: a value or an error,
// never both consulted together.
type Outcome[T any] struct {
	Value T
	Err   error
}

// SettleAll runs every task concurrently and waits for all of them. Each
// task's failure is captured in its own Outcome slot; one failing or slow
// task never blocks or aborts its siblings. Results keep task order.
func SettleAll[T any](ctx context.Context, tasks []func(context.Context) (T, error)) []Outcome[T] {
	out := make([]Outcome[T], len(tasks))
	var wg sync.WaitGroup
	wg.Add(len(tasks))
	for i, task := range tasks {
		go func(i int, task func(context.Context) (T, error)) {
			defer wg.Done()
			out[i].Value, out[i].Err = task(ctx)
		}(i, task)
	}
	wg.Wait()
	return out
}

// RunConcurrent is the heterogeneous variant of SettleAll: each call writes
// its result into variables it closes over and reports only an error.
// Returns one error slot per call, in call order.
func RunConcurrent(ctx context.Context, calls ...func(context.Context) error) []error {
	errs := make([]error, len(calls))
	var wg sync.WaitGroup
	wg.Add(len(calls))
	for i, call := range calls {
		go func(i int, call func(context.Context) error) {
			defer wg.Done()
			errs[i] = call(ctx)
		}(i, call)
	}
	wg.Wait()
	return errs
}
