package report

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diophantus-project/diophantus/internal/cse"
	"github.com/diophantus-project/diophantus/internal/evaluator"
	"github.com/diophantus-project/diophantus/internal/expr"
	"github.com/diophantus-project/diophantus/internal/flatten"
	"github.com/diophantus-project/diophantus/internal/planner"
	"github.com/diophantus-project/diophantus/internal/reducer"
)

// Comparisons and multiplication render with the math glyphs spec.md §6
// names, and aliases expand recursively through every report section.
func TestRenderSections(t *testing.T) {
	shared := func() expr.Expr {
		return &expr.Bin{Op: expr.Add,
			Left:  &expr.Bin{Op: expr.Mul, Left: &expr.Var{Name: "beta"}, Right: &expr.Var{Name: "delta"}},
			Right: &expr.Var{Name: "k"},
		}
	}
	f := flatten.FDict{"x": shared(), "y": shared()}
	res := cse.Extract(f)

	rep := &Report{
		StateVars:   []string{"x", "y"},
		InputVars:   []string{"k"},
		Unoptimized: f,
		CSE:         res,
		Reduced:     reducer.Reduce(res),
	}

	out := rep.Render()
	assert.Contains(t, out, "=== Executive Summary ===")
	assert.Contains(t, out, "State variables: x, y")
	assert.Contains(t, out, "Input variables: k")
	assert.Contains(t, out, "=== Next-State Equations (Fully Expanded) ===")
	assert.Contains(t, out, "x[t+1] = ((beta · delta) + k)")
	assert.Contains(t, out, "=== Common Subexpression Definitions ===")
	assert.Contains(t, out, "C_0 = ((beta · delta) + k)")
	assert.Contains(t, out, "=== Next-State Equations (CSE-Optimized) ===")
	assert.Contains(t, out, "x[t+1] = C_0")
	assert.Contains(t, out, "=== Pure-Arithmetic Assignment System ===")
	assert.Contains(t, out, "=== Sum-of-Squares Master Equation ===")
}

// A comparison or boolean connective renders with the math glyph table,
// not the bare operator symbol.
func TestMathGlyphsForComparisons(t *testing.T) {
	e := &expr.Bin{Op: expr.Lte, Left: &expr.Var{Name: "a"}, Right: &expr.Var{Name: "b"}}
	assert.Equal(t, "(a ≤ b)", mathString(e, nil))

	e2 := &expr.Bin{Op: expr.Mul, Left: &expr.Var{Name: "a"}, Right: &expr.Var{Name: "b"}}
	assert.Equal(t, "(a · b)", mathString(e2, nil))
}

// The equation file EquationFile renders round-trips through the
// Evaluator's own grammar: the Planner's unreduced, full-operator system
// is what the Evaluator actually runs (see internal/planner, DESIGN.md).
func TestEquationFileParsesBackThroughEvaluator(t *testing.T) {
	f := flatten.FDict{
		"p": &expr.If{
			Cond: &expr.Bin{Op: expr.Gt, Left: &expr.Var{Name: "p"}, Right: &expr.Const{Value: 0}},
			Then: &expr.Bin{Op: expr.Sub, Left: &expr.Var{Name: "p"}, Right: &expr.Const{Value: 1}},
			Else: &expr.Var{Name: "p"},
		},
	}
	res := cse.Extract(f)
	assignments := planner.Build(res)
	schedule, err := planner.Schedule(assignments)
	require.NoError(t, err)

	text := EquationFile(schedule)
	assert.True(t, strings.HasSuffix(strings.TrimSpace(text), ")"))

	ev, err := evaluator.New(text)
	require.NoError(t, err)

	next, err := ev.Step(evaluator.State{"p": 5}, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(4), next["p"])

	next, err = ev.Step(evaluator.State{"p": 0}, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(0), next["p"])
}

// Size matches the materialized Render/EquationFile length exactly: the
// counting sink and the text sink walk the identical structure.
func TestSizeMatchesRenderedLength(t *testing.T) {
	shared := func() expr.Expr {
		return &expr.Bin{Op: expr.Add,
			Left:  &expr.Bin{Op: expr.Mul, Left: &expr.Var{Name: "beta"}, Right: &expr.Var{Name: "delta"}},
			Right: &expr.Var{Name: "k"},
		}
	}
	f := flatten.FDict{"x": shared(), "y": shared()}
	res := cse.Extract(f)
	rep := &Report{
		StateVars:   []string{"x", "y"},
		InputVars:   []string{"k"},
		Unoptimized: f,
		CSE:         res,
		Reduced:     reducer.Reduce(res),
	}

	assert.Equal(t, len(rep.Render()), rep.Size())

	assignments := planner.Build(res)
	schedule, err := planner.Schedule(assignments)
	require.NoError(t, err)
	assert.Equal(t, len(EquationFile(schedule)), EquationFileSize(schedule))
}
