package ports

import "context"

// Command describes a child process to spawn.
type Command struct {
	Path string
	Args []string
	Dir  string // Working directory; empty means the caller's
	Env  []string
}

// ProcessResult is the captured outcome of a finished process.
// A non-zero ExitCode is a normal result, not an error.
type ProcessResult struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// ProcessRunner spawns a process, waits for it and returns its buffered
// output. Implementations must release every OS handle before returning and
// must kill the child when ctx is done.
type ProcessRunner interface {
	Run(ctx context.Context, cmd Command) (ProcessResult, error)
}
