package internal

import (
	"io"
	"log/slog"

	"github.com/starford/memopad/internal/dialog"
)

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config    *Config
	picker    dialog.Picker
	logOutput io.Writer
	version   string
}

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithPicker replaces the native folder and file pickers.
func WithPicker(p dialog.Picker) Option {
	return func(a *application) {
		a.picker = p
	}
}

// WithLogOutput sends the JSON log stream to w instead of the default.
func WithLogOutput(w io.Writer) Option {
	return func(a *application) {
		a.logOutput = w
	}
}

// WithVersion sets the version reported by the MCP server.
func WithVersion(v string) Option {
	return func(a *application) {
		a.version = v
	}
}

func (a *application) logger(def io.Writer) *slog.Logger {
	out := a.logOutput
	if out == nil {
		out = def
	}
	return slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{
		Level: a.config.App.LogLevel,
	}))
}

func (a *application) dialogPicker() dialog.Picker {
	if a.picker != nil {
		return a.picker
	}
	if !a.config.Dialog.Enabled {
		return dialog.Disabled{}
	}
	return dialog.NewNative()
}
