package modtree

import (
	"fmt"
	"runtime"

	"github.com/mwantia/modtree/log"
)

// DefaultSeparators is the separator set used when none is configured.
const DefaultSeparators = "/"

type RepositoryOptions struct {
	Separators  string
	Absolute    bool
	Concurrency int

	Logger        *log.Logger
	LogLevel      log.LogLevel
	LogFile       string
	NoTerminalLog bool
}

type RepositoryOption func(*RepositoryOptions) error

func newDefaultRepositoryOptions() *RepositoryOptions {
	return &RepositoryOptions{
		Separators:  DefaultSeparators,
		Concurrency: runtime.GOMAXPROCS(0),
		LogLevel:    log.Info,
	}
}

// WithSeparators sets the characters treated as segment boundaries.
// The first character is used when composing relative paths.
func WithSeparators(separators string) RepositoryOption {
	return func(opts *RepositoryOptions) error {
		if separators == "" {
			return fmt.Errorf("%w: at least one separator is required", ErrInvalidSeparators)
		}
		opts.Separators = separators
		return nil
	}
}

// WithAbsolute starts the root repository in absolute mode.
func WithAbsolute(absolute bool) RepositoryOption {
	return func(opts *RepositoryOptions) error {
		opts.Absolute = absolute
		return nil
	}
}

// WithConcurrency bounds the number of child containers enumerated in parallel
// per level of a recursive listing.
func WithConcurrency(n int) RepositoryOption {
	return func(opts *RepositoryOptions) error {
		if n > 0 {
			opts.Concurrency = n
		}
		return nil
	}
}

// WithLogger uses an existing logger instead of creating one from the log options.
func WithLogger(logger *log.Logger) RepositoryOption {
	return func(opts *RepositoryOptions) error {
		opts.Logger = logger
		return nil
	}
}

func WithLogLevel(logLevel log.LogLevel) RepositoryOption {
	return func(opts *RepositoryOptions) error {
		opts.LogLevel = logLevel
		return nil
	}
}

func WithoutTerminalLog() RepositoryOption {
	return func(opts *RepositoryOptions) error {
		opts.NoTerminalLog = true
		return nil
	}
}

func WithLogFile(logFile string) RepositoryOption {
	return func(opts *RepositoryOptions) error {
		opts.LogFile = logFile
		return nil
	}
}
