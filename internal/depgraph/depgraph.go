// Package depgraph validates dependency references between tasks and
// repairs the graph until it is provably acyclic.
//
// The validator is a pure function over explicit local state: it never
// raises, and identical input always yields identical edges and warnings,
// which keeps downstream ordering and user-facing messages reproducible.
package depgraph

import (
	"fmt"
	"strings"

	"github.com/ganttd/ganttd/internal/ident"
)

// Declared is one task's raw dependency declaration, in row order.
type Declared struct {
	From   string
	Tokens []string
}

// Result is the cleaned dependency set plus everything that was repaired
// along the way.
type Result struct {
	// Deps maps a task id to its kept dependencies, declaration order
	// preserved, duplicates and self-references removed.
	Deps map[string][]string
	// Warnings describe dropped dangling references and broken cycles,
	// in detection order.
	Warnings []string
	// Dangling counts distinct references to unknown tasks.
	Dangling int
	// CyclesBroken counts removed edges; one edge is removed per cycle.
	CyclesBroken int
}

// Resolve normalizes and filters the declared dependencies against the set
// of known task ids, then breaks any cycles. The returned dependency
// subgraph is always acyclic.
func Resolve(declared []Declared, known map[string]bool) Result {
	res := Result{Deps: make(map[string][]string)}

	// Fast path: nothing declares a dependency, no graph to build.
	empty := true
	for _, d := range declared {
		if len(d.Tokens) > 0 {
			empty = false
			break
		}
	}
	if empty {
		return res
	}

	order := make([]string, 0, len(declared))
	warned := make(map[string]bool)
	for _, d := range declared {
		if _, ok := res.Deps[d.From]; !ok {
			order = append(order, d.From)
			res.Deps[d.From] = nil
		}
		kept := res.Deps[d.From]
		seen := make(map[string]bool, len(d.Tokens))
		for _, prev := range kept {
			seen[prev] = true
		}
		for _, tok := range d.Tokens {
			target := ident.NormalizeString(tok)
			if target == "" || target == d.From || seen[target] {
				continue
			}
			if !known[target] {
				key := d.From + "\x00" + target
				if !warned[key] {
					warned[key] = true
					res.Dangling++
					res.Warnings = append(res.Warnings, fmt.Sprintf(
						"task %q depends on unknown task %q; dependency dropped", d.From, target))
				}
				continue
			}
			seen[target] = true
			kept = append(kept, target)
		}
		res.Deps[d.From] = kept
	}

	breakCycles(&res, order)
	return res
}

// dfs coloring states.
const (
	white = iota // unvisited
	gray         // on the current path
	black        // fully explored
)

// breakCycles runs depth-first passes over the dependency edges, removing
// the back-edge that closes each detected cycle. The traversal visits nodes
// in declaration order, so the removed edge is deterministic. Each pass is
// O(V+E); passes repeat until one completes with no back-edge.
func breakCycles(res *Result, order []string) {
	for {
		removed := false
		color := make(map[string]int, len(order))
		var stack []string

		var visit func(node string) bool
		visit = func(node string) bool {
			color[node] = gray
			stack = append(stack, node)
			for i, dep := range res.Deps[node] {
				switch color[dep] {
				case gray:
					// Back-edge: node -> dep closes a cycle. Drop it.
					res.Deps[node] = append(res.Deps[node][:i:i], res.Deps[node][i+1:]...)
					res.CyclesBroken++
					res.Warnings = append(res.Warnings, cycleWarning(stack, dep, node))
					return true
				case white:
					if visit(dep) {
						return true
					}
				}
			}
			stack = stack[:len(stack)-1]
			color[node] = black
			return false
		}

		for _, node := range order {
			if color[node] != white {
				continue
			}
			if visit(node) {
				removed = true
				break
			}
		}
		if !removed {
			return
		}
	}
}

// cycleWarning renders the cycle participants from the DFS stack. The stack
// runs root..from; the cycle is the suffix starting at the back-edge target.
func cycleWarning(stack []string, target, from string) string {
	start := 0
	for i, id := range stack {
		if id == target {
			start = i
			break
		}
	}
	participants := append(append([]string{}, stack[start:]...), target)
	return fmt.Sprintf("dependency cycle detected (%s); dropped dependency of %q on %q",
		strings.Join(participants, " -> "), from, target)
}
