package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	mdsafe "github.com/alnah/go-mdsafe"
)

// ---------------------------------------------------------------------------
// Mock Implementations
// ---------------------------------------------------------------------------

// mockConverter records inputs and returns a canned result or error.
type mockConverter struct {
	mu       sync.Mutex
	inputs   []mdsafe.Input
	pdf      []byte
	strategy string
	err      error
}

func (m *mockConverter) Convert(_ context.Context, in mdsafe.Input) (*mdsafe.Result, error) {
	m.mu.Lock()
	m.inputs = append(m.inputs, in)
	m.mu.Unlock()

	attempt := mdsafe.Attempt{Strategy: m.strategy, Err: m.err, Duration: time.Millisecond}
	res := &mdsafe.Result{Markdown: "safe: " + in.Markdown, Attempts: []mdsafe.Attempt{attempt}}
	if m.err != nil {
		return res, m.err
	}
	res.PDF = m.pdf
	res.Strategy = m.strategy
	res.Pages = 1
	return res, nil
}

func (m *mockConverter) recorded() []mdsafe.Input {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]mdsafe.Input(nil), m.inputs...)
}

// mockPool hands out a single shared mockConverter.
type mockPool struct {
	conv       CLIConverter
	size       int
	acquireErr error

	mu       sync.Mutex
	acquired int
	released int
	closed   bool
}

func (p *mockPool) Acquire(context.Context) (CLIConverter, error) {
	if p.acquireErr != nil {
		return nil, p.acquireErr
	}
	p.mu.Lock()
	p.acquired++
	p.mu.Unlock()
	return p.conv, nil
}

func (p *mockPool) Release(CLIConverter) {
	p.mu.Lock()
	p.released++
	p.mu.Unlock()
}

func (p *mockPool) Size() int { return p.size }

func (p *mockPool) Close() error {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()
	return nil
}

// testEnv wires buffers and a mock pool into an Environment.
type testEnv struct {
	*Environment
	stdout   *bytes.Buffer
	stderr   *bytes.Buffer
	pool     *mockPool
	poolSize int
	poolOpts []mdsafe.Option
}

func newTestEnv(conv CLIConverter) *testEnv {
	te := &testEnv{
		stdout: &bytes.Buffer{},
		stderr: &bytes.Buffer{},
		pool:   &mockPool{conv: conv, size: 2},
	}
	te.Environment = &Environment{
		Now:    func() time.Time { return time.Date(2025, time.July, 4, 0, 0, 0, 0, time.UTC) },
		Stdin:  &bytes.Buffer{},
		Stdout: te.stdout,
		Stderr: te.stderr,
		NewPool: func(size int, opts ...mdsafe.Option) Pool {
			te.poolSize = size
			te.poolOpts = opts
			return te.pool
		},
	}
	return te
}

// writeTree creates files (relative path -> content) under a temp dir.
func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(dir, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}
