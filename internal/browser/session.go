// Package browser manages scoped headless browser sessions used to load listing and job pages.
package browser

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jonathan/job-scout/internal/antiblock"
)

// Driver is a live browser tab.
type Driver interface {
	// Navigate loads url and waits for the document to be ready.
	Navigate(ctx context.Context, url string) error
	// HTML returns the rendered page source.
	HTML(ctx context.Context) (string, error)
	// Close releases the tab and the browser process behind it.
	Close() error
}

// Launcher starts a browser presenting the given identity.
type Launcher interface {
	Launch(ctx context.Context, id antiblock.Identity) (Driver, error)
}

// LauncherFunc adapts a function to Launcher.
type LauncherFunc func(ctx context.Context, id antiblock.Identity) (Driver, error)

// Launch calls f.
func (f LauncherFunc) Launch(ctx context.Context, id antiblock.Identity) (Driver, error) {
	return f(ctx, id)
}

// DriverInitializationError means no browser could be started. It is fatal for
// the current scrape attempt and is not retried here.
type DriverInitializationError struct {
	Cause error
}

func (e *DriverInitializationError) Error() string {
	return fmt.Sprintf("browser driver initialization failed: %v", e.Cause)
}

func (e *DriverInitializationError) Unwrap() error {
	return e.Cause
}

// Manager hands out browser sessions and guarantees they are released.
type Manager struct {
	launcher Launcher
	logger   *zap.Logger
}

// NewManager creates a Manager backed by launcher.
func NewManager(launcher Launcher, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{launcher: launcher, logger: logger}
}

// Open starts a session. The caller owns the returned Driver and must pass it to Release.
func (m *Manager) Open(ctx context.Context, id antiblock.Identity) (Driver, error) {
	d, err := m.launcher.Launch(ctx, id)
	if err != nil {
		return nil, &DriverInitializationError{Cause: err}
	}
	if d == nil {
		return nil, &DriverInitializationError{Cause: fmt.Errorf("launcher returned no driver")}
	}
	m.logger.Debug("browser session opened")
	return d, nil
}

// Release closes d. A close failure is logged and swallowed so it never masks
// the error that ended the session.
func (m *Manager) Release(d Driver) {
	if d == nil {
		return
	}
	if err := d.Close(); err != nil {
		m.logger.Warn("failed to release browser session", zap.Error(err))
		return
	}
	m.logger.Debug("browser session released")
}

// WithSession opens a session, runs fn with it and releases it on every exit
// path, including a panic inside fn.
func (m *Manager) WithSession(ctx context.Context, id antiblock.Identity, fn func(Driver) error) error {
	d, err := m.Open(ctx, id)
	if err != nil {
		return err
	}
	defer m.Release(d)

	return fn(d)
}
