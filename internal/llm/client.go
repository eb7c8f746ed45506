// Package llm wraps the text-completion provider. The transport is a black
// box to the rest of the pipeline: callers hand over prompts and receive
// text plus token usage, or a fatal error when the call itself cannot be
// completed. Malformed response *content* is not this package's concern.
package llm

import (
	"context"
	"fmt"
	"sync"
)

// Request is one completion call.
type Request struct {
	Model       string
	System      string
	User        string
	MaxTokens   int
	Temperature float64
}

// TokenCount is the per-call token cost reported by the provider.
type TokenCount struct {
	Input  int `json:"inputTokens"`
	Output int `json:"outputTokens"`
}

func (t TokenCount) Total() int { return t.Input + t.Output }

// Completion is the raw provider response text plus the usage side channel.
type Completion struct {
	Text  string
	Usage TokenCount
}

// Client is the completion transport.
type Client interface {
	Complete(ctx context.Context, req Request) (Completion, error)
}

// APIError is a fatal provider failure: auth, quota, or a non-2xx status.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("llm api error: status=%d body=%s", e.Status, e.Body)
}

// UsageRecorder accumulates token spend per calling service. Recording is
// fire-and-forget telemetry, not part of any return contract.
type UsageRecorder interface {
	Record(service string, usage TokenCount)
}

// MemoryUsage is an in-process UsageRecorder for tests and single-node
// deployments without a metrics backend.
type MemoryUsage struct {
	mu       sync.Mutex
	requests map[string]int
	tokens   map[string]int
}

func NewMemoryUsage() *MemoryUsage {
	return &MemoryUsage{requests: map[string]int{}, tokens: map[string]int{}}
}

func (m *MemoryUsage) Record(service string, usage TokenCount) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests[service]++
	m.tokens[service] += usage.Total()
}

// Tokens returns the accumulated token count for a service.
func (m *MemoryUsage) Tokens(service string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tokens[service]
}

// Requests returns the recorded call count for a service.
func (m *MemoryUsage) Requests(service string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.requests[service]
}
