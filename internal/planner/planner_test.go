package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diophantus-project/diophantus/internal/compileerr"
	"github.com/diophantus-project/diophantus/internal/expr"
)

func idxOf(t *testing.T, schedule []Assignment, lhs string) int {
	t.Helper()
	for i, a := range schedule {
		if a.LHS == lhs {
			return i
		}
	}
	t.Fatalf("lhs %q not found in schedule", lhs)
	return -1
}

// A state equation referencing an alias must be scheduled after that
// alias's own definition.
func TestScheduleOrdersAliasBeforeUse(t *testing.T) {
	assignments := []Assignment{
		{LHS: "x[t+1]", RHS: &expr.Var{Name: "C_0"}},
		{LHS: "C_0", RHS: &expr.Bin{Op: expr.Add, Left: &expr.Var{Name: "a"}, Right: &expr.Var{Name: "b"}}},
	}
	schedule, err := Schedule(assignments)
	require.NoError(t, err)
	require.Len(t, schedule, 2)
	assert.Less(t, idxOf(t, schedule, "C_0"), idxOf(t, schedule, "x[t+1]"))
}

// References to a bare (prior-tick) state variable or an external input do
// not create a scheduling edge: only references to another *defined* LHS
// name do.
func TestBareStateAndInputsDoNotBlock(t *testing.T) {
	assignments := []Assignment{
		{LHS: "x[t+1]", RHS: &expr.Bin{Op: expr.Add, Left: &expr.Var{Name: "x"}, Right: &expr.Var{Name: "k"}}},
	}
	schedule, err := Schedule(assignments)
	require.NoError(t, err)
	require.Len(t, schedule, 1)
}

// A genuine cycle between two aliases is reported as compileerr.ErrCycle
// naming both unresolved nodes.
func TestScheduleDetectsCycle(t *testing.T) {
	assignments := []Assignment{
		{LHS: "C_0", RHS: &expr.Var{Name: "C_1"}},
		{LHS: "C_1", RHS: &expr.Var{Name: "C_0"}},
	}
	_, err := Schedule(assignments)
	require.Error(t, err)
	assert.True(t, compileerr.ErrCycle.Is(err))
}

// The schedule is a valid topological order: |schedule| == |assignments|
// whenever the graph is acyclic, for an arbitrary chain of dependencies.
func TestScheduleIsCompleteForChain(t *testing.T) {
	assignments := []Assignment{
		{LHS: "C_2", RHS: &expr.Var{Name: "C_1"}},
		{LHS: "C_1", RHS: &expr.Var{Name: "C_0"}},
		{LHS: "C_0", RHS: &expr.Const{Value: 1}},
		{LHS: "x[t+1]", RHS: &expr.Var{Name: "C_2"}},
	}
	schedule, err := Schedule(assignments)
	require.NoError(t, err)
	require.Len(t, schedule, len(assignments))
	assert.Less(t, idxOf(t, schedule, "C_0"), idxOf(t, schedule, "C_1"))
	assert.Less(t, idxOf(t, schedule, "C_1"), idxOf(t, schedule, "C_2"))
	assert.Less(t, idxOf(t, schedule, "C_2"), idxOf(t, schedule, "x[t+1]"))
}
