package solver

import (
	"context"
	"sync"

	"github.com/aretw0/lama/pkg/ports"
)

// spyRunner records every command and returns a canned result.
type spyRunner struct {
	mu     sync.Mutex
	calls  []ports.Command
	result ports.ProcessResult
	err    error
	block  bool // wait for ctx before returning
}

func (s *spyRunner) Run(ctx context.Context, cmd ports.Command) (ports.ProcessResult, error) {
	s.mu.Lock()
	s.calls = append(s.calls, cmd)
	s.mu.Unlock()

	if s.block {
		<-ctx.Done()
		return ports.ProcessResult{ExitCode: -1}, ctx.Err()
	}
	return s.result, s.err
}

func (s *spyRunner) Calls() []ports.Command {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]ports.Command(nil), s.calls...)
}
