package watch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
)

// Manager keeps at most one folder watch running and retargets it on demand.
type Manager struct {
	ctx    context.Context
	logger *slog.Logger
	cb     Callback

	mu     sync.Mutex
	folder string
	cancel context.CancelFunc
	done   chan struct{}
}

// NewManager creates a manager whose watches live no longer than ctx.
func NewManager(ctx context.Context, logger *slog.Logger, cb Callback) *Manager {
	return &Manager{ctx: ctx, logger: logger, cb: cb}
}

// Set stops the current watch, if any, and starts watching folder. Setting the
// folder already being watched is a no-op. An empty folder only stops.
func (m *Manager) Set(folder string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if folder != "" && folder == m.folder && m.running() {
		return nil
	}
	m.stopLocked()
	if folder == "" {
		return nil
	}
	info, err := os.Stat(folder)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("watch: not a directory: %s", folder)
	}

	ctx, cancel := context.WithCancel(m.ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := Watch(ctx, folder, m.logger, m.cb); err != nil {
			m.logger.Warn("watcher: failed", slog.String("folder", folder), slog.String("error", err.Error()))
		}
	}()
	m.folder, m.cancel, m.done = folder, cancel, done
	return nil
}

func (m *Manager) running() bool {
	if m.done == nil {
		return false
	}
	select {
	case <-m.done:
		return false
	default:
		return true
	}
}

// Folder returns the folder currently being watched.
func (m *Manager) Folder() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.folder
}

// Close stops the current watch and waits for it to exit.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopLocked()
}

func (m *Manager) stopLocked() {
	if m.cancel != nil {
		m.cancel()
		<-m.done
	}
	m.folder, m.cancel, m.done = "", nil, nil
}
