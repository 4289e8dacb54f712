// Package planner builds the forward-computable assignment system the
// Evaluator executes — the CSE-level next-state and alias definitions,
// still in the full input operator set — and orders it with Kahn's
// algorithm so each equation's free names are always satisfied by prior
// entries, state inputs, or external inputs by the time it runs.
package planner

import (
	"fmt"
	"sort"

	"github.com/bits-and-blooms/bitset"

	"github.com/diophantus-project/diophantus/internal/compileerr"
	"github.com/diophantus-project/diophantus/internal/cse"
	"github.com/diophantus-project/diophantus/internal/expr"
)

// Assignment is one entry of the forward-computable assignment system:
// lhs is a plain name (a next-tick state variable, written x[t+1], or a
// CSE alias C_n); rhs is the full expression defining it, still carrying
// comparisons, boolean connectives, and the If multiplexer — this is the
// artifact the Evaluator actually runs, distinct from the Polynomial
// Reducer's witness-laden pure-arithmetic system, which is report-only
// (see internal/reducer and DESIGN.md).
type Assignment struct {
	LHS string
	RHS expr.Expr
}

// Build assembles the unreduced assignment system from CSE output: alias
// definitions followed by next-state definitions, in an arbitrary but
// deterministic order (Schedule reorders it topologically regardless).
func Build(res cse.Result) []Assignment {
	out := make([]Assignment, 0, res.Aliases.Len()+len(res.F))
	for _, alias := range res.Aliases.Names() {
		out = append(out, Assignment{LHS: alias, RHS: res.Aliases.Def(alias)})
	}
	names := make([]string, 0, len(res.F))
	for name := range res.F {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		out = append(out, Assignment{LHS: name + "[t+1]", RHS: res.F[name]})
	}
	return out
}

// FreeNames collects every Var name referenced anywhere in e, including
// duplicates.
func FreeNames(e expr.Expr) []string {
	switch n := e.(type) {
	case *expr.Var:
		return []string{n.Name}
	case *expr.Const:
		return nil
	case *expr.Neg:
		return FreeNames(n.X)
	case *expr.Bin:
		return append(FreeNames(n.Left), FreeNames(n.Right)...)
	case *expr.If:
		out := FreeNames(n.Cond)
		out = append(out, FreeNames(n.Then)...)
		out = append(out, FreeNames(n.Else)...)
		return out
	default:
		return nil
	}
}

// Schedule orders assignments with Kahn's algorithm over the defined-name
// dependency graph: an edge runs from each definition to every definition
// that references its name. References to external inputs or to a bare
// (prior-tick) state variable name never count as edges, since those are
// always already available. Node sets are tracked with bitset (per
// spec.md §9's graph/bitset idiom) over interned indices rather than
// repeated map-of-string membership tests.
func Schedule(assignments []Assignment) ([]Assignment, error) {
	n := len(assignments)
	index := make(map[string]int, n)
	for i, a := range assignments {
		index[a.LHS] = i
	}

	// adj[i] = set of nodes that depend on node i (edges i -> j).
	adj := make([]*bitset.BitSet, n)
	indeg := make([]int, n)
	for i := range adj {
		adj[i] = bitset.New(uint(n))
	}

	for j, a := range assignments {
		seen := bitset.New(uint(n))
		for _, name := range FreeNames(a.RHS) {
			i, ok := index[name]
			if !ok || i == j || seen.Test(uint(i)) {
				continue
			}
			seen.Set(uint(i))
			adj[i].Set(uint(j))
			indeg[j]++
		}
	}

	queue := make([]int, 0, n)
	inQueue := bitset.New(uint(n))
	for i := 0; i < n; i++ {
		if indeg[i] == 0 {
			queue = append(queue, i)
			inQueue.Set(uint(i))
		}
	}
	sort.Ints(queue)

	schedule := make([]Assignment, 0, n)
	visited := bitset.New(uint(n))
	for len(queue) > 0 {
		i := queue[0]
		queue = queue[1:]
		visited.Set(uint(i))
		schedule = append(schedule, assignments[i])

		var ready []int
		for j, ok := adj[i].NextSet(0); ok; j, ok = adj[i].NextSet(j + 1) {
			jj := int(j)
			indeg[jj]--
			if indeg[jj] == 0 {
				ready = append(ready, jj)
			}
		}
		sort.Ints(ready)
		queue = append(queue, ready...)
	}

	if len(schedule) != n {
		var unresolved []string
		for i, a := range assignments {
			if !visited.Test(uint(i)) {
				unresolved = append(unresolved, a.LHS)
			}
		}
		sort.Strings(unresolved)
		return nil, compileerr.ErrCycle.New(fmt.Sprint(unresolved))
	}

	return schedule, nil
}
