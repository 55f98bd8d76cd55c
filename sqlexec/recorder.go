package sqlexec

import (
	"context"
	"sync"
)

// Recorder is an in-memory Executor. It records every statement it receives
// and answers queries with canned results. Useful for dry runs and tests.
type Recorder struct {
	mu         sync.Mutex
	statements []string
	results    map[string]*ResultSet
	failures   map[string]error
}

// NewRecorder creates an empty Recorder. Queries without a canned result
// return an empty ResultSet.
func NewRecorder() *Recorder {
	return &Recorder{
		results:  make(map[string]*ResultSet),
		failures: make(map[string]error),
	}
}

// SetResult registers the result returned for statement.
func (r *Recorder) SetResult(statement string, result *ResultSet) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.results[statement] = result
}

// FailOn makes Execute or Query return err for statement.
func (r *Recorder) FailOn(statement string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.failures[statement] = err
}

// Statements returns the statements received so far, in order.
func (r *Recorder) Statements() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]string, len(r.statements))
	copy(out, r.statements)

	return out
}

// Execute implements Executor.
func (r *Recorder) Execute(_ context.Context, statement string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.statements = append(r.statements, statement)

	return r.failures[statement]
}

// Query implements Executor.
func (r *Recorder) Query(_ context.Context, statement string) (*ResultSet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.statements = append(r.statements, statement)

	if err, ok := r.failures[statement]; ok {
		return nil, err
	}

	if result, ok := r.results[statement]; ok {
		return result, nil
	}

	return &ResultSet{}, nil
}
