package graphexport

import (
	"context"
	"sync"
)

// Statement is a Cypher statement a MemoryClient received.
type Statement struct {
	Cypher string
	Params map[string]any
}

// MemoryClient records statements instead of executing them.
type MemoryClient struct {
	mu      sync.Mutex
	writes  []Statement
	reads   []Statement
	results []Result
	err     error
	// writes beyond failAfter fail with err when err is set
	failAfter int
}

// NewMemoryClient creates an empty recording client.
func NewMemoryClient() *MemoryClient {
	return &MemoryClient{}
}

// FailWrites makes writes fail with err once n writes have succeeded.
func (m *MemoryClient) FailWrites(n int, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failAfter = n
	m.err = err
}

// PushReadResult queues a result for the next read.
func (m *MemoryClient) PushReadResult(res Result) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results = append(m.results, res)
}

func (m *MemoryClient) ExecuteWrite(_ context.Context, cypher string, params map[string]any) (Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil && len(m.writes) >= m.failAfter {
		return Result{}, m.err
	}
	m.writes = append(m.writes, Statement{Cypher: cypher, Params: params})
	return Result{}, nil
}

func (m *MemoryClient) ExecuteRead(_ context.Context, cypher string, params map[string]any) (Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.reads = append(m.reads, Statement{Cypher: cypher, Params: params})
	if len(m.results) == 0 {
		return Result{}, nil
	}
	res := m.results[0]
	m.results = m.results[1:]
	return res, nil
}

func (m *MemoryClient) VerifyConnectivity(context.Context) error {
	return nil
}

func (m *MemoryClient) Close(context.Context) error {
	return nil
}

// Writes returns the recorded writes in order.
func (m *MemoryClient) Writes() []Statement {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Statement(nil), m.writes...)
}

// Reads returns the recorded reads in order.
func (m *MemoryClient) Reads() []Statement {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Statement(nil), m.reads...)
}
