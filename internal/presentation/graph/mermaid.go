package graph

import (
	"context"
	"fmt"
	"strings"

	"github.com/aretw0/lama/pkg/solver"
)

// Edges lists every transition a solver run can take.
var Edges = [][2]solver.State{
	{solver.Idle, solver.Validating},
	{solver.Validating, solver.Launching},
	{solver.Launching, solver.Running},
	{solver.Running, solver.Completed},
	{solver.Validating, solver.Failed},
	{solver.Launching, solver.Failed},
	{solver.Running, solver.Failed},
}

// RunOverlay marks the path a concrete run took.
type RunOverlay struct {
	Visited []solver.State
	Current solver.State
}

// GenerateMermaid produces a Mermaid state diagram of the solver run lifecycle.
// Terminal states point at [*]. With an overlay, visited states and the last
// one reached are styled and the taken edges are drawn thick.
func GenerateMermaid(overlay *RunOverlay) string {
	var sb strings.Builder
	sb.WriteString("stateDiagram-v2\n")
	fmt.Fprintf(&sb, "    [*] --> %s\n", stateID(solver.Idle))

	taken := map[[2]solver.State]bool{}
	if overlay != nil {
		for i := 1; i < len(overlay.Visited); i++ {
			taken[[2]solver.State{overlay.Visited[i-1], overlay.Visited[i]}] = true
		}
	}

	for _, e := range Edges {
		label := ""
		if e[1] == solver.Failed {
			label = " : error"
		}
		if taken[e] {
			label = " : taken"
		}
		fmt.Fprintf(&sb, "    %s --> %s%s\n", stateID(e[0]), stateID(e[1]), label)
	}
	fmt.Fprintf(&sb, "    %s --> [*]\n", stateID(solver.Completed))
	fmt.Fprintf(&sb, "    %s --> [*]\n", stateID(solver.Failed))

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for contrast on both light and dark themes
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000\n")

		seen := map[solver.State]bool{}
		for _, s := range overlay.Visited {
			if s == overlay.Current || seen[s] {
				continue
			}
			seen[s] = true
			fmt.Fprintf(&sb, "    class %s visited\n", stateID(s))
		}
		fmt.Fprintf(&sb, "    class %s current\n", stateID(overlay.Current))
	}

	return sb.String()
}

// Trace records the states of one run; use OnTransition as a solver hook.
type Trace struct {
	states []solver.State
}

// Hooks returns solver hooks feeding the trace.
func (t *Trace) Hooks() solver.Hooks {
	return solver.Hooks{
		OnTransition: func(_ context.Context, tr solver.Transition) {
			if len(t.states) == 0 {
				t.states = append(t.states, tr.From)
			}
			t.states = append(t.states, tr.To)
		},
	}
}

// Overlay returns the recorded path, or nil when no transition happened.
func (t *Trace) Overlay() *RunOverlay {
	if len(t.states) == 0 {
		return nil
	}
	return &RunOverlay{Visited: t.states, Current: t.states[len(t.states)-1]}
}

func stateID(s solver.State) string {
	name := s.String()
	return strings.ToUpper(name[:1]) + name[1:]
}
