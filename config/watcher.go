package config

import (
	"context"
	"fmt"

	"github.com/fsnotify/fsnotify"

	"github.com/agentcore/runtime/graph"
	"github.com/agentcore/runtime/telemetry"
)

// Watcher reloads a graph definition file on write and applies it to a
// running GraphAgent, but only while that agent is paused. Grounded on the hot-reload watch loop in
// gateway/internal/infrastructure/plugin/loader.go
// (None9527-NGOClaw): fsnotify.NewWatcher + watcher.Add(path), a single
// goroutine selecting on Events/Errors/ctx.Done.
type Watcher struct {
	path    string
	agent   *graph.Agent
	logger  telemetry.Logger
	watcher *fsnotify.Watcher
}

// NewWatcher creates a Watcher for path, bound to agent. Call Start to
// begin watching.
func NewWatcher(path string, agent *graph.Agent, logger telemetry.Logger) (*Watcher, error) {
	if logger == nil {
		logger = telemetry.NoopLogger{}
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("config: create watcher: %w", err)
	}
	return &Watcher{path: path, agent: agent, logger: logger, watcher: fw}, nil
}

// Start watches path for writes, reloading and applying the graph
// definition on each one. Updates observed while the agent is running
// are deferred: UpdateGraphConfiguration itself rejects them, so the
// watcher simply logs and waits for the next write after a pause.
func (w *Watcher) Start(ctx context.Context) error {
	if err := w.watcher.Add(w.path); err != nil {
		return fmt.Errorf("config: watch %s: %w", w.path, err)
	}

	go func() {
		defer w.watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-w.watcher.Events:
				if !ok {
					return
				}
				if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
					w.reload(ctx)
				}
			case err, ok := <-w.watcher.Errors:
				if !ok {
					return
				}
				w.logger.Error(ctx, "config: watcher error", "error", err)
			}
		}
	}()
	return nil
}

func (w *Watcher) reload(ctx context.Context) {
	doc, err := LoadGraphFile(w.path)
	if err != nil {
		w.logger.Error(ctx, "config: reload failed", "path", w.path, "error", err)
		return
	}
	nodes, edges := doc.ToNodesAndEdges()
	if err := w.agent.UpdateGraphConfiguration(graph.GraphPatch{UpsertNodes: nodes, UpsertEdges: edges}); err != nil {
		w.logger.Warn(ctx, "config: reload deferred, agent not paused", "path", w.path, "error", err)
		return
	}
	w.logger.Info(ctx, "config: graph configuration reloaded", "path", w.path)
}

// Stop closes the underlying fsnotify watcher directly, for callers not
// using ctx cancellation.
func (w *Watcher) Stop() error {
	return w.watcher.Close()
}
