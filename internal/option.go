package internal

import (
	"fmt"
	"io"
)

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config  *Config
	version string
	output  string
	full    bool
	stdout  io.Writer
}

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithVersion sets the version reported by the MCP server.
func WithVersion(v string) Option {
	return func(a *application) {
		a.version = v
	}
}

// WithOutput sets the build output path; "-" writes to stdout.
func WithOutput(path string) Option {
	return func(a *application) {
		a.output = path
	}
}

// WithFull makes Build include MDX bodies.
func WithFull(full bool) Option {
	return func(a *application) {
		a.full = full
	}
}

// WithStdout redirects output written to "-".
func WithStdout(w io.Writer) Option {
	return func(a *application) {
		a.stdout = w
	}
}

func newApplication(opts []Option) (*application, error) {
	app := &application{version: "dev", output: "-"}
	for _, opt := range opts {
		opt(app)
	}
	if app.config == nil {
		return nil, fmt.Errorf("config is required")
	}
	return app, nil
}
