// Package reducer implements the Polynomial Reducer: it eliminates every
// non-arithmetic operator (equality, ordering, boolean connectives, the
// conditional multiplexer) by introducing existential witness variables and
// emitting constraint equations, leaving only the pure-arithmetic operators
// {+, -, *, neg} plus integer constants and names.
package reducer

import (
	"fmt"
	"sort"

	"github.com/diophantus-project/diophantus/internal/cse"
	"github.com/diophantus-project/diophantus/internal/expr"
)

// Assignment is one `LHS = RHS` equation in the output polynomial system.
// RHS is restricted to {Const, Var, Bin(+|-|*), Neg} plus structural
// nesting — the "pure arithmetic" subset.
type Assignment struct {
	LHS string
	RHS expr.Expr
}

// Result is the full output of one reduction pass: the ordered assignment
// list plus the accounting the reducer is required to report.
type Result struct {
	Assignments  []Assignment
	WitnessCount int
	EquationCount int
}

// reducer carries the fresh-witness counter (spec.md §9: a global mutable
// counter in the source becomes a field of the pass object here, seeded
// fresh per compilation rather than from a module-level variable) and
// accumulates the emitted assignment list in order.
type reducer struct {
	witnessN int
	out      []Assignment
}

// Reduce lowers a CSE-rewritten F-dictionary and its alias table into a
// pure-arithmetic assignment list. Aliases are lowered first, in discovery
// order, then state variables in sorted name order, per spec.md §4.3.
func Reduce(res cse.Result) Result {
	r := &reducer{}

	for _, alias := range res.Aliases.Names() {
		r.lowerInto(alias, res.Aliases.Def(alias))
	}

	names := make([]string, 0, len(res.F))
	for name := range res.F {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		r.lowerInto(nextTick(name), res.F[name])
	}

	return Result{
		Assignments:   r.out,
		WitnessCount:  r.witnessN,
		EquationCount: len(r.out),
	}
}

// nextTick renders a state variable's LHS with the next-tick marker the
// machine format requires: x[t+1].
func nextTick(name string) string { return name + "[t+1]" }

func (r *reducer) freshWitness() string {
	name := fmt.Sprintf("e_%d", r.witnessN)
	r.witnessN++
	return name
}

func (r *reducer) emit(lhs string, rhs expr.Expr) {
	r.out = append(r.out, Assignment{LHS: lhs, RHS: rhs})
}

// operand resolves e to a leaf (Const or Var) usable inline in a parent
// equation. Leaves pass through unchanged — leaves must never be
// substituted by witnesses, since that would churn witness numbering for
// no reason. A compound subtree gets a fresh witness and is lowered into
// it recursively before the witness name is handed back.
func (r *reducer) operand(e expr.Expr) expr.Expr {
	switch e.(type) {
	case *expr.Const, *expr.Var:
		return e
	}
	w := r.freshWitness()
	r.lowerInto(w, e)
	return &expr.Var{Name: w}
}

// lowerInto lowers e and binds the result to target, appending whatever
// constraint equations the operator requires. target is a plain name: a
// state variable's next-tick name, a CSE alias, or a witness.
func (r *reducer) lowerInto(target string, e expr.Expr) {
	switch n := e.(type) {
	case *expr.Const, *expr.Var:
		r.emitArithmetic(target, n)
	case *expr.Neg:
		x := r.operand(n.X)
		r.emit(target, negOf(x))
	case *expr.If:
		r.lowerIf(target, n)
	case *expr.Bin:
		r.lowerBin(target, n)
	default:
		panic(fmt.Sprintf("reducer: unreachable expression kind %T", e))
	}
}

// emitArithmetic handles the trivial case: a leaf assigned directly to its
// target, e.g. `target - x = 0`.
func (r *reducer) emitArithmetic(target string, leaf expr.Expr) {
	r.emit(target, leaf)
}

func negOf(x expr.Expr) expr.Expr { return &expr.Neg{X: x} }

func (r *reducer) lowerBin(target string, n *expr.Bin) {
	switch n.Op {
	case expr.Add, expr.Sub, expr.Mul:
		a := r.operand(n.Left)
		b := r.operand(n.Right)
		r.emit(target, &expr.Bin{Op: n.Op, Left: a, Right: b})
	case expr.Eq:
		r.lowerEq(target, n.Left, n.Right)
	case expr.Neq:
		r.lowerNeq(target, n.Left, n.Right)
	case expr.Lte:
		r.lowerLte(target, n.Left, n.Right)
	case expr.Lt:
		// a < b  ==  a <= b-1
		r.lowerLte(target, n.Left, &expr.Bin{Op: expr.Sub, Left: n.Right, Right: &expr.Const{Value: 1}})
	case expr.Gte:
		// a >= b  ==  b <= a
		r.lowerLte(target, n.Right, n.Left)
	case expr.Gt:
		// a > b  ==  b < a
		r.lowerBin(target, &expr.Bin{Op: expr.Lt, Left: n.Right, Right: n.Left})
	case expr.And:
		a := r.operand(n.Left)
		b := r.operand(n.Right)
		r.emit(target, &expr.Bin{Op: expr.Mul, Left: a, Right: b})
	case expr.Or:
		// target = a + b - a*b
		a := r.operand(n.Left)
		b := r.operand(n.Right)
		ab := r.freshWitness()
		r.emit(ab, &expr.Bin{Op: expr.Mul, Left: a, Right: b})
		sum := &expr.Bin{Op: expr.Add, Left: a, Right: b}
		r.emit(target, &expr.Bin{Op: expr.Sub, Left: sum, Right: &expr.Var{Name: ab}})
	default:
		panic(fmt.Sprintf("reducer: unreachable binary operator %q", n.Op))
	}
}

func one() expr.Expr  { return &expr.Const{Value: 1} }
func tv(n string) expr.Expr { return &expr.Var{Name: n} }

// lowerIf encodes target = c*t + (1-c)*f, per spec.md §4.3. c is guaranteed
// boolean because it was produced by a comparison chain that already
// constrains it to {0,1}; the reducer does not re-check that here.
func (r *reducer) lowerIf(target string, n *expr.If) {
	c := r.operand(n.Cond)
	t := r.operand(n.Then)
	f := r.operand(n.Else)

	ct := r.freshWitness()
	r.emit(ct, &expr.Bin{Op: expr.Mul, Left: c, Right: t})

	oneMinusC := &expr.Bin{Op: expr.Sub, Left: one(), Right: c}
	omcf := r.freshWitness()
	r.emit(omcf, &expr.Bin{Op: expr.Mul, Left: oneMinusC, Right: f})

	r.emit(target, &expr.Bin{Op: expr.Add, Left: tv(ct), Right: tv(omcf)})
}

// ConstraintLHS is the sentinel LHS name for a pure constraint equation
// (one that pins down a name already bound elsewhere rather than defining
// one forward). Such rows print as `RHS = 0` with no witness of their own:
// an equality/inequality lowering constrains target and its witnesses
// mathematically, it does not compute them — that happens, if at all, in
// the unreduced assignment system the Evaluator actually runs (spec.md §9
// notes no solver is shipped for this system). Exported so internal/report
// can recognize these rows when rendering the `... = 0` equation form.
const ConstraintLHS = "0"

func (r *reducer) constrain(poly expr.Expr) {
	r.emit(ConstraintLHS, poly)
}

// lowerEq encodes `target = (a == b)` with the corrected, balanced form
// from spec.md §4.3 (the Open Question noting the source's unbalanced
// duplicate is deliberately not reproduced here):
//
//	target*(1 - target) = 0
//	target*(a - b) = 0
//	(a - b)*w - (1 - target) = 0
//
// w is the witness: the inverse of (a-b) when a != b, forcing target = 0.
func (r *reducer) lowerEq(target string, left, right expr.Expr) {
	a := r.operand(left)
	b := r.operand(right)
	w := r.freshWitness()

	diff := &expr.Bin{Op: expr.Sub, Left: a, Right: b}

	r.constrain(boolConstraint(target))
	r.constrain(&expr.Bin{Op: expr.Mul, Left: tv(target), Right: diff})
	r.constrain(&expr.Bin{
		Op:    expr.Sub,
		Left:  &expr.Bin{Op: expr.Mul, Left: diff, Right: tv(w)},
		Right: &expr.Bin{Op: expr.Sub, Left: one(), Right: tv(target)},
	})
}

// boolConstraint builds target*(1-target), whose vanishing forces
// target in {0,1}.
func boolConstraint(target string) expr.Expr {
	return &expr.Bin{Op: expr.Mul, Left: tv(target), Right: &expr.Bin{Op: expr.Sub, Left: one(), Right: tv(target)}}
}

// lowerNeq encodes target = 1 - (a == b): reuse the equality witness w,
// then `target - (1 - w) = 0`.
func (r *reducer) lowerNeq(target string, left, right expr.Expr) {
	w := r.freshWitness()
	r.lowerEq(w, left, right)
	r.emit(target, &expr.Bin{Op: expr.Sub, Left: one(), Right: tv(w)})
}

// lowerLte encodes `target = (a <= b)` via Lagrange four-square witnesses,
// per spec.md §4.3:
//
//	target*(1-target) = 0
//	target*((b-a) - (s1²+s2²+s3²+s4²)) = 0
//	(1-target)*((a-b-1) - (t1²+t2²+t3²+t4²)) = 0
func (r *reducer) lowerLte(target string, left, right expr.Expr) {
	a := r.operand(left)
	b := r.operand(right)

	r.constrain(boolConstraint(target))

	sq := func() expr.Expr {
		s := r.freshWitness()
		return &expr.Bin{Op: expr.Mul, Left: tv(s), Right: tv(s)}
	}
	sumOfFourSquares := func() expr.Expr {
		s1, s2, s3, s4 := sq(), sq(), sq(), sq()
		return &expr.Bin{Op: expr.Add,
			Left:  &expr.Bin{Op: expr.Add, Left: s1, Right: s2},
			Right: &expr.Bin{Op: expr.Add, Left: s3, Right: s4}}
	}

	bMinusA := &expr.Bin{Op: expr.Sub, Left: b, Right: a}
	nonNeg1 := &expr.Bin{Op: expr.Sub, Left: bMinusA, Right: sumOfFourSquares()}
	r.constrain(&expr.Bin{Op: expr.Mul, Left: tv(target), Right: nonNeg1})

	aMinusBMinus1 := &expr.Bin{Op: expr.Sub,
		Left:  &expr.Bin{Op: expr.Sub, Left: a, Right: b},
		Right: one(),
	}
	nonNeg2 := &expr.Bin{Op: expr.Sub, Left: aMinusBMinus1, Right: sumOfFourSquares()}
	oneMinusTarget := &expr.Bin{Op: expr.Sub, Left: one(), Right: tv(target)}
	r.constrain(&expr.Bin{Op: expr.Mul, Left: oneMinusTarget, Right: nonNeg2})
}
