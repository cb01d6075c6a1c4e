package testutil

import (
	"fmt"
	"sync"
)

// FixedRunIDGenerator generates predictable run IDs for ledger tests.
//
// IDs have the form "<prefix>-0001", "<prefix>-0002", ... so that runs
// recorded in one test are distinct yet byte-identical across test runs.
//
// Thread-safety: all methods are safe for concurrent use.
type FixedRunIDGenerator struct {
	mu     sync.Mutex
	prefix string
	seq    int
}

// NewFixedRunIDGenerator creates a generator.
//
// If prefix is empty, IDs use "test-run".
func NewFixedRunIDGenerator(prefix string) *FixedRunIDGenerator {
	if prefix == "" {
		prefix = "test-run"
	}
	return &FixedRunIDGenerator{prefix: prefix}
}

// Generate returns the next run ID.
//
// Implements store.RunIDGenerator.
func (g *FixedRunIDGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seq++
	return fmt.Sprintf("%s-%04d", g.prefix, g.seq)
}

// Reset restarts the sequence. The next ID ends in -0001.
func (g *FixedRunIDGenerator) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seq = 0
}
