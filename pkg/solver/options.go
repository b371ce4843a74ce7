package solver

import (
	"io"
	"io/fs"
	"log/slog"
	"os"
)

// StatFunc reports file information; os.Stat by default.
type StatFunc func(name string) (fs.FileInfo, error)

type settings struct {
	stat        StatFunc
	logger      *slog.Logger
	hooks       Hooks
	extensions  []string
	searchPaths []string
}

// Option configures a Discovery or an Adapter. Options that do not apply to
// the component being built are ignored.
type Option func(*settings)

// WithStat replaces the file system probe (tests use it to fake installs).
func WithStat(stat StatFunc) Option {
	return func(s *settings) {
		s.stat = stat
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *settings) {
		s.logger = logger
	}
}

// WithHooks registers observability hooks on the Adapter.
func WithHooks(h Hooks) Option {
	return func(s *settings) {
		s.hooks = h
	}
}

// WithExtensions sets the accepted input file extensions (default ".inp").
func WithExtensions(exts ...string) Option {
	return func(s *settings) {
		s.extensions = exts
	}
}

// WithSearchPaths adds paths probed by Discovery before the well-known ones.
func WithSearchPaths(paths ...string) Option {
	return func(s *settings) {
		s.searchPaths = append(s.searchPaths, paths...)
	}
}

func newSettings(opts []Option) settings {
	s := settings{
		stat:       os.Stat,
		extensions: []string{".inp"},
	}
	for _, opt := range opts {
		opt(&s)
	}
	if s.logger == nil {
		s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return s
}
