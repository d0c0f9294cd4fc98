package graph

import (
	"context"
	"sync"

	"github.com/agentcore/runtime/ids"
)

// PauseOptions configures pause().
type PauseOptions struct {
	Before         bool
	After          bool
	Between        bool
	AutoCheckpoint bool
	// Branches, if non-empty, adds these node ids to pausedBranches
	// instead of (or in addition to) the global before/after/between
	// flags.
	Branches []ids.NodeId
}

// pauseGate implements the global wait-for-resume barrier: a closed
// channel means "running", an open (unclosed) one means "paused". The
// owner goroutine is the only writer (via pause/resume); node goroutines
// only read the current channel, guarded by mu so a replacement during
// pause()/resume() is never observed half-written.
type pauseGate struct {
	mu sync.Mutex
	ch chan struct{}
}

func newPauseGate() *pauseGate {
	ch := make(chan struct{})
	close(ch) // not paused initially
	return &pauseGate{ch: ch}
}

func (g *pauseGate) current() chan struct{} {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.ch
}

func (g *pauseGate) isPaused() bool {
	select {
	case <-g.current():
		return false
	default:
		return true
	}
}

func (g *pauseGate) pause() {
	g.mu.Lock()
	defer g.mu.Unlock()
	select {
	case <-g.ch:
		g.ch = make(chan struct{})
	default:
		// already paused
	}
}

func (g *pauseGate) resume() {
	g.mu.Lock()
	defer g.mu.Unlock()
	select {
	case <-g.ch:
		// already running
	default:
		close(g.ch)
	}
}

// wait blocks until resumed or ctx is canceled.
func (g *pauseGate) wait(ctx context.Context) error {
	select {
	case <-g.current():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
