package report

import (
	"sort"
	"strconv"
	"strings"

	"github.com/diophantus-project/diophantus/internal/cse"
	"github.com/diophantus-project/diophantus/internal/flatten"
	"github.com/diophantus-project/diophantus/internal/reducer"
)

// Report holds everything the typeset human report (spec.md §6) is built
// from: every intermediate artifact of the pipeline, not just the final
// one, since the report exists precisely to show the reader the whole
// derivation.
type Report struct {
	StateVars []string
	InputVars []string
	// Unoptimized is the Flattener's output, before CSE: one expression per
	// state variable, fully substituted, with no C_n references.
	Unoptimized flatten.FDict
	CSE         cse.Result
	Reduced     reducer.Result
}

// Render produces the typeset report text in the section order spec.md §6
// fixes: executive summary; fully expanded next-state equations; alias
// definitions; alias-referencing next-state equations; the pure-arithmetic
// assignment system; the sum-of-squares master equation.
func (rep *Report) Render() string {
	var b strings.Builder
	rep.writeSummary(&b)
	rep.writeExpanded(&b)
	rep.writeAliasDefs(&b)
	rep.writeOptimized(&b)
	rep.writeReduced(&b)
	rep.writeMasterEquation(&b)
	return b.String()
}

func sortedStateVars(rep *Report) []string {
	out := append([]string(nil), rep.StateVars...)
	sort.Strings(out)
	return out
}

func (rep *Report) writeSummary(b sink) {
	b.WriteString("=== Executive Summary ===\n")
	state := sortedStateVars(rep)
	b.WriteString("State variables: " + strings.Join(state, ", ") + "\n")
	if len(rep.InputVars) == 0 {
		b.WriteString("Input variables: none detected\n\n")
		return
	}
	inputs := append([]string(nil), rep.InputVars...)
	sort.Strings(inputs)
	b.WriteString("Input variables: " + strings.Join(inputs, ", ") + "\n\n")
}

// writeExpanded renders the fully expanded next-state equations: the
// Flattener's pre-CSE form, one self-contained equation per state
// variable, dependent only on prior state and inputs.
func (rep *Report) writeExpanded(b sink) {
	b.WriteString("=== Next-State Equations (Fully Expanded) ===\n")
	for _, name := range sortedStateVars(rep) {
		e, ok := rep.Unoptimized[name]
		if !ok {
			continue
		}
		b.WriteString(name + "[t+1] = " + mathString(e, nil) + "\n")
	}
	b.WriteString("\n")
}

// writeAliasDefs renders the `C_n = ...` definitions, in discovery order,
// each shown unexpanded (an alias's own definition may reference another
// alias).
func (rep *Report) writeAliasDefs(b sink) {
	if rep.CSE.Aliases.Len() == 0 {
		return
	}
	b.WriteString("=== Common Subexpression Definitions ===\n")
	for _, name := range rep.CSE.Aliases.Names() {
		b.WriteString(name + " = " + mathString(rep.CSE.Aliases.Def(name), nil) + "\n")
	}
	b.WriteString("\n")
}

// writeOptimized renders the alias-referencing next-state equations: the
// CSE-rewritten form, compact but readable, naming C_n where it applies.
func (rep *Report) writeOptimized(b sink) {
	b.WriteString("=== Next-State Equations (CSE-Optimized) ===\n")
	for _, name := range sortedStateVars(rep) {
		e, ok := rep.CSE.F[name]
		if !ok {
			continue
		}
		b.WriteString(name + "[t+1] = " + mathString(e, nil) + "\n")
	}
	b.WriteString("\n")
}

// writeReduced renders the pure-arithmetic assignment system the
// Polynomial Reducer produced: every row printed as the classical
// Diophantine equation it represents, `LHS - RHS = 0`, except the
// reducer.ConstraintLHS rows, which already print bare (`RHS = 0`).
func (rep *Report) writeReduced(b sink) {
	b.WriteString("=== Pure-Arithmetic Assignment System ===\n")
	for _, line := range reducedEquationStrings(rep.Reduced) {
		b.WriteString(line + "\n")
	}
	b.WriteString("\n")
	b.WriteString("Witnesses introduced: ")
	b.WriteString(strconv.Itoa(rep.Reduced.WitnessCount))
	b.WriteString(", equations emitted: ")
	b.WriteString(strconv.Itoa(rep.Reduced.EquationCount))
	b.WriteString("\n\n")
}

// reducedEquationStrings renders each reducer.Assignment as the `... = 0`
// form the report and the master equation both need: the polynomial whose
// vanishing the row asserts.
func reducedEquationStrings(res reducer.Result) []string {
	out := make([]string, 0, len(res.Assignments))
	for _, a := range res.Assignments {
		out = append(out, equationPolynomial(a)+" = 0")
	}
	return out
}

// equationPolynomial renders the left-hand polynomial of one reduced
// row's `... = 0` form, without the trailing " = 0": `lhs - rhs` normally,
// or bare `rhs` for a reducer.ConstraintLHS row, which already reads
// `rhs = 0`.
func equationPolynomial(a reducer.Assignment) string {
	if a.LHS == reducer.ConstraintLHS {
		return mathString(a.RHS, nil)
	}
	return "(" + cleanName(a.LHS) + " - " + mathString(a.RHS, nil) + ")"
}

// writeMasterEquation renders the sum-of-squares master equation (spec.md
// §6, glossary): the single equation formed by summing the square of
// every row's left-hand polynomial, whose integer zeros are exactly the
// solutions of the full system.
func (rep *Report) writeMasterEquation(b sink) {
	b.WriteString("=== Sum-of-Squares Master Equation ===\n")
	polys := make([]string, 0, len(rep.Reduced.Assignments))
	for _, a := range rep.Reduced.Assignments {
		polys = append(polys, equationPolynomial(a))
	}
	if len(polys) == 0 {
		b.WriteString("= 0\n")
		return
	}
	terms := make([]string, len(polys))
	for i, p := range polys {
		terms[i] = "(" + p + ")^2"
	}
	b.WriteString(strings.Join(terms, " + ") + " = 0\n")
}
