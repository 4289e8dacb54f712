package evaluator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Scenario 1: identity step.
func TestIdentityStep(t *testing.T) {
	ev, err := New("x[t+1] := x\n")
	require.NoError(t, err)

	next, err := ev.Step(State{"x": 7}, nil)
	require.NoError(t, err)
	assert.Equal(t, State{"x": 7}, next)
}

// Scenario 2: unconditional counter, 5 steps.
func TestUnconditionalCounterFiveSteps(t *testing.T) {
	ev, err := New("x[t+1] := +(x, 1)\n")
	require.NoError(t, err)

	history, err := ev.Run(5, State{"x": 0}, nil)
	require.NoError(t, err)
	require.Len(t, history, 5)
	for i, st := range history {
		assert.Equal(t, int64(i+1), st["x"])
	}
}

// Scenario 3: conditional clamp via the if-ternary and boolean connective.
func TestConditionalClamp(t *testing.T) {
	ev, err := New("p[t+1] := if(&&(==(k, 119), >(p, 1)), -(p, 1), p)\n")
	require.NoError(t, err)

	next, err := ev.Step(State{"p": 5}, Inputs{"k": 119})
	require.NoError(t, err)
	assert.Equal(t, int64(4), next["p"])

	next, err = ev.Step(State{"p": 1}, Inputs{"k": 119})
	require.NoError(t, err)
	assert.Equal(t, int64(1), next["p"])

	next, err = ev.Step(State{"p": 5}, Inputs{"k": 115})
	require.NoError(t, err)
	assert.Equal(t, int64(5), next["p"])
}

// Aliases are intermediates: only v[t+1]-named bindings are projected into
// the next-state mapping.
func TestAliasNotProjectedIntoNextState(t *testing.T) {
	ev, err := New("C_0 := +(a, b)\nx[t+1] := *(C_0, 2)\n")
	require.NoError(t, err)

	next, err := ev.Step(State{"x": 0}, Inputs{"a": 3, "b": 4})
	require.NoError(t, err)
	assert.Equal(t, State{"x": 14}, next)
	assert.NotContains(t, next, "C_0")
}

// Integer division truncates toward zero.
func TestTruncatingDivision(t *testing.T) {
	ev, err := New("x[t+1] := /(x, y)\n")
	require.NoError(t, err)

	next, err := ev.Step(State{"x": -7}, Inputs{"y": 2})
	require.NoError(t, err)
	assert.Equal(t, int64(-3), next["x"])
}

// neg is an explicit, supported unary form (spec.md §9).
func TestNegOperator(t *testing.T) {
	ev, err := New("x[t+1] := neg(x)\n")
	require.NoError(t, err)

	next, err := ev.Step(State{"x": 5}, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(-5), next["x"])
}

// An undefined name surfaces as an evaluation error, aborting the step.
func TestUndefinedNameIsEvaluationError(t *testing.T) {
	ev, err := New("x[t+1] := +(x, ghost)\n")
	require.NoError(t, err)

	_, err = ev.Step(State{"x": 1}, nil)
	require.Error(t, err)
}

// A malformed machine file is rejected at parse time.
func TestParseErrorOnMalformedFile(t *testing.T) {
	_, err := New("x[t+1] := +(x, \n")
	require.Error(t, err)
}
