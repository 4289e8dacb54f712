// Package flatten implements the symbolic executor that eliminates control
// flow, sequential assignment, auxiliary variables, and compound update
// from the restricted input program by substitution, leaving one
// expression per state variable over prior-iteration state and
// per-iteration inputs.
package flatten

import (
	"fmt"

	"github.com/diophantus-project/diophantus/internal/cast"
	"github.com/diophantus-project/diophantus/internal/compileerr"
	"github.com/diophantus-project/diophantus/internal/expr"
)

// FDict maps each declared state variable to the Expression giving its
// next-iteration value. Every state variable has an entry; a variable
// never touched by the loop body maps to its own identity.
type FDict map[string]expr.Expr

// Result is everything the Flattener produces from one loop body.
type Result struct {
	F        FDict
	Inputs   map[string]bool
	Warnings []compileerr.Warning
}

// Flattener carries the two scopes the symbolic executor threads through
// the traversal: current holds every name's live symbolic value, aux is
// the subset of current corresponding to locally declared (non-state)
// names, consulted at finalization to eliminate auxiliary references.
type Flattener struct {
	stateVars map[string]bool
	current   map[string]expr.Expr
	aux       map[string]bool
	inputs    map[string]bool
	warnings  []compileerr.Warning
}

// New creates a Flattener seeded with current[v] = Var(v) for each
// declared state variable.
func New(stateVars []cast.StateVar) *Flattener {
	f := &Flattener{
		stateVars: make(map[string]bool, len(stateVars)),
		current:   make(map[string]expr.Expr, len(stateVars)),
		aux:       make(map[string]bool),
		inputs:    make(map[string]bool),
	}
	for _, sv := range stateVars {
		f.stateVars[sv.Name] = true
		f.current[sv.Name] = expr.Identity(sv.Name)
	}
	return f
}

// Flatten runs the symbolic executor over the loop body and returns the
// finalized F-dictionary, the discovered input names, and any
// unsupported-construct warnings.
func (f *Flattener) Flatten(loop []cast.Stmt) Result {
	f.visitStmtList(loop)

	auxDefs := make(map[string]expr.Expr, len(f.aux))
	for name := range f.aux {
		auxDefs[name] = f.current[name]
	}

	fdict := make(FDict, len(f.stateVars))
	for name := range f.stateVars {
		fdict[name] = substitute(f.current[name], auxDefs)
	}

	return Result{F: fdict, Inputs: f.inputs, Warnings: f.warnings}
}

func (f *Flattener) visitStmtList(stmts []cast.Stmt) {
	for _, s := range stmts {
		f.visitStmt(s)
	}
}

func (f *Flattener) visitStmt(s cast.Stmt) {
	switch n := s.(type) {
	case *cast.Block:
		f.visitStmtList(n.Stmts)
	case *cast.Declare:
		var val expr.Expr
		if n.Init != nil {
			val = f.evalExpr(n.Init)
		} else {
			val = &expr.Const{Value: 0}
		}
		f.current[n.Name] = val
		f.aux[n.Name] = true
	case *cast.Assign:
		f.visitAssign(n)
	case *cast.Update:
		one := &expr.Const{Value: 1}
		var op expr.Op
		if n.Op == cast.UpdateInc {
			op = expr.Add
		} else {
			op = expr.Sub
		}
		f.store(n.Target, &expr.Bin{Op: op, Left: f.currentOf(n.Target), Right: one})
	case *cast.If:
		f.visitIf(n)
	default:
		f.warnings = append(f.warnings, compileerr.UnsupportedConstruct(
			fmt.Sprintf("%T", s), "not a recognized statement kind; treated as a no-op"))
	}
}

func (f *Flattener) visitAssign(n *cast.Assign) {
	v := f.evalExpr(n.Value)
	var newVal expr.Expr
	switch n.Op {
	case cast.AssignSet:
		newVal = v
	case cast.AssignAdd:
		newVal = &expr.Bin{Op: expr.Add, Left: f.currentOf(n.Target), Right: v}
	case cast.AssignSub:
		newVal = &expr.Bin{Op: expr.Sub, Left: f.currentOf(n.Target), Right: v}
	default:
		f.warnings = append(f.warnings, compileerr.UnsupportedConstruct(
			"Assign", fmt.Sprintf("unrecognized compound-assignment operator %q", n.Op)))
		newVal = v
	}
	f.store(n.Target, newVal)
}

// store writes a new symbolic value for target, recording it as an
// auxiliary binding when target is not a declared state variable — a
// bare Assign to an undeclared name in the restricted grammar is still a
// local, single-scope binding.
func (f *Flattener) store(target string, val expr.Expr) {
	f.current[target] = val
	if !f.stateVars[target] {
		f.aux[target] = true
	}
}

// currentOf resolves a name's live value for use on the right-hand side of
// a compound update. A name the symbolic executor has never seen is
// treated as an external input read for the first time.
func (f *Flattener) currentOf(name string) expr.Expr {
	if v, ok := f.current[name]; ok {
		return v
	}
	f.inputs[name] = true
	return &expr.Var{Name: name}
}

func (f *Flattener) visitIf(n *cast.If) {
	condExpr := f.evalExpr(n.Cond)

	pre := cloneExprMap(f.current)
	preAux := cloneBoolMap(f.aux)

	f.current = cloneExprMap(pre)
	f.visitStmtList(n.Then)
	postThen := f.current

	f.current = cloneExprMap(pre)
	f.aux = cloneBoolMap(preAux)
	if n.Else != nil {
		f.visitStmtList(n.Else)
	}
	postElse := f.current

	merged := cloneExprMap(pre)
	for name, preVal := range pre {
		thenVal, ok := postThen[name]
		if !ok {
			thenVal = preVal
		}
		elseVal, ok := postElse[name]
		if !ok {
			elseVal = preVal
		}
		if thenVal.Equal(preVal) && elseVal.Equal(preVal) {
			continue
		}
		if thenVal.Equal(elseVal) {
			merged[name] = thenVal
			continue
		}
		merged[name] = &expr.If{Cond: condExpr, Then: thenVal, Else: elseVal}
	}

	f.current = merged
	f.aux = preAux
}

func (f *Flattener) evalExpr(e cast.Expr) expr.Expr {
	switch n := e.(type) {
	case *cast.Constant:
		return &expr.Const{Value: n.Value}
	case *cast.Var:
		return f.currentOf(n.Name)
	case *cast.Call:
		f.inputs[n.Name] = true
		return &expr.Var{Name: n.Name}
	case *cast.BinaryOp:
		return &expr.Bin{Op: expr.Op(n.Op), Left: f.evalExpr(n.Left), Right: f.evalExpr(n.Right)}
	case *cast.UnaryOp:
		return &expr.Neg{X: f.evalExpr(n.X)}
	default:
		f.warnings = append(f.warnings, compileerr.UnsupportedConstruct(
			fmt.Sprintf("%T", e), "not a recognized expression kind; treated as an opaque input"))
		name := fmt.Sprintf("__unsupported_%d", len(f.warnings))
		f.inputs[name] = true
		return &expr.Var{Name: name}
	}
}

// substitute recursively resolves auxiliary-variable references through
// auxDefs until the expression contains only state-variable references,
// input references, and constants. Auxiliary bindings are acyclic by
// construction (each declaration is single-assignment within its scope in
// source order), so the recursion terminates.
func substitute(e expr.Expr, auxDefs map[string]expr.Expr) expr.Expr {
	switch n := e.(type) {
	case *expr.Const:
		return n
	case *expr.Var:
		if def, ok := auxDefs[n.Name]; ok {
			return substitute(def, auxDefs)
		}
		return n
	case *expr.Bin:
		return &expr.Bin{Op: n.Op, Left: substitute(n.Left, auxDefs), Right: substitute(n.Right, auxDefs)}
	case *expr.Neg:
		return &expr.Neg{X: substitute(n.X, auxDefs)}
	case *expr.If:
		return &expr.If{
			Cond: substitute(n.Cond, auxDefs),
			Then: substitute(n.Then, auxDefs),
			Else: substitute(n.Else, auxDefs),
		}
	default:
		return n
	}
}

func cloneExprMap(m map[string]expr.Expr) map[string]expr.Expr {
	out := make(map[string]expr.Expr, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func cloneBoolMap(m map[string]bool) map[string]bool {
	out := make(map[string]bool, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
