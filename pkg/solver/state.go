package solver

import (
	"context"
	"time"

	"github.com/aretw0/lama/pkg/ports"
)

// State is a step of a single solver run.
//
//	Idle -> Validating -> Launching -> Running -> Completed
//	                 \            \           \-> Failed
//	                  \------------\-------------> Failed
type State int

const (
	Idle State = iota
	Validating
	Launching
	Running
	Completed
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Validating:
		return "validating"
	case Launching:
		return "launching"
	case Running:
		return "running"
	case Completed:
		return "completed"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// Terminal reports whether no further transition can happen.
func (s State) Terminal() bool {
	return s == Completed || s == Failed
}

// Request describes one solver invocation.
type Request struct {
	Executable string
	Input      string // Path to the input deck, extension included
	WorkDir    string // Optional; defaults to the input's directory
}

// Result is the captured outcome of a completed run.
// ExitCode is passed through verbatim; the adapter does not interpret it.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
	Command  ports.Command
	Duration time.Duration
}

// Transition is emitted every time a run changes state.
type Transition struct {
	From, To State
	Request  Request
}

// Hooks observe runs. All fields are optional.
type Hooks struct {
	OnTransition func(ctx context.Context, t Transition)
	OnFinish     func(ctx context.Context, req Request, res Result, err error)
}

// run tracks the state of one invocation; it is never shared.
type run struct {
	ctx   context.Context
	req   Request
	state State
	hooks Hooks
}

func (r *run) to(next State) {
	prev := r.state
	r.state = next
	if r.hooks.OnTransition != nil {
		r.hooks.OnTransition(r.ctx, Transition{From: prev, To: next, Request: r.req})
	}
}

// MergeHooks returns Hooks calling each non-nil hook of hs in order.
func MergeHooks(hs ...Hooks) Hooks {
	return Hooks{
		OnTransition: func(ctx context.Context, t Transition) {
			for _, h := range hs {
				if h.OnTransition != nil {
					h.OnTransition(ctx, t)
				}
			}
		},
		OnFinish: func(ctx context.Context, req Request, res Result, err error) {
			for _, h := range hs {
				if h.OnFinish != nil {
					h.OnFinish(ctx, req, res, err)
				}
			}
		},
	}
}
