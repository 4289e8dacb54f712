// Package cse implements common subexpression elimination over a flattened
// F-dictionary: every repeated, non-trivial subtree is lifted into a named
// alias and every occurrence, including occurrences nested inside other
// aliases, is rewritten to reference it.
package cse

import (
	"fmt"
	"sort"

	"github.com/diophantus-project/diophantus/internal/flatten"

	"github.com/diophantus-project/diophantus/internal/expr"
)

// minOccurrences is the lowest repeat count that makes a subtree worth
// naming; a subtree seen once has nothing to share.
const minOccurrences = 2

// minComplexity is the shortest canonical rendering worth aliasing. Leaves
// (Const, Var) never reach this path at all; this threshold keeps small
// compounds like (x + 1) inline instead of hiding them behind a name.
const minComplexity = 10

// AliasTable is the ordered set of extracted aliases, C_0, C_1, ... in
// discovery order. An alias's definition may itself reference another
// alias; because parents are discovered before their children, that is a
// later-numbered one. Aliases never reference themselves, directly or
// transitively, because every definition is built from subtrees captured
// before any aliasing took place.
type AliasTable struct {
	names []string
	defs  map[string]expr.Expr
}

// Names returns the aliases in discovery (assignment) order.
func (t *AliasTable) Names() []string {
	return append([]string(nil), t.names...)
}

// Def returns the (possibly alias-referencing) definition of name.
func (t *AliasTable) Def(name string) expr.Expr {
	return t.defs[name]
}

// Len reports how many aliases were extracted.
func (t *AliasTable) Len() int {
	return len(t.names)
}

// Result is the output of one extraction pass.
type Result struct {
	F       flatten.FDict
	Aliases *AliasTable
}

// class groups every structurally-equal subtree encountered during
// discovery under one representative.
type class struct {
	rep   expr.Expr
	count int
	alias string
}

// registry buckets classes by structural hash for fast lookup and keeps a
// separate discovery-ordered slice, since map iteration order is not
// deterministic and alias numbering must be.
type registry struct {
	buckets map[uint64][]*class
	order   []*class
}

func newRegistry() *registry {
	return &registry{buckets: make(map[uint64][]*class)}
}

func (r *registry) find(e expr.Expr) *class {
	for _, c := range r.buckets[e.Hash()] {
		if c.rep.Equal(e) {
			return c
		}
	}
	return nil
}

// register records one occurrence of e, returning its class. The first
// occurrence of a given structural shape creates the class and appends it
// to discovery order; later occurrences only bump its count.
func (r *registry) register(e expr.Expr) *class {
	if c := r.find(e); c != nil {
		c.count++
		return c
	}
	c := &class{rep: e, count: 1}
	h := e.Hash()
	r.buckets[h] = append(r.buckets[h], c)
	r.order = append(r.order, c)
	return c
}

// Extract runs one CSE pass over f. Only compound nodes (Bin, Neg, If) are
// candidates; Const and Var are leaves and never worth naming.
func Extract(f flatten.FDict) Result {
	r := newRegistry()

	names := make([]string, 0, len(f))
	for name := range f {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		discover(f[name], r)
	}

	table := &AliasTable{defs: make(map[string]expr.Expr)}
	n := 0
	for _, c := range r.order {
		if c.count >= minOccurrences && len(c.rep.String()) >= minComplexity {
			c.alias = fmt.Sprintf("C_%d", n)
			n++
			table.names = append(table.names, c.alias)
		}
	}
	for _, c := range r.order {
		if c.alias != "" {
			table.defs[c.alias] = rewriteChildren(c.rep, r)
		}
	}

	out := make(flatten.FDict, len(f))
	for _, name := range names {
		out[name] = rewrite(f[name], r)
	}

	return Result{F: out, Aliases: table}
}

// discover walks every compound subtree of e, registering an occurrence of
// each. Parents are registered before their children, matching the
// depth-first, parent-first discovery order spec.md requires.
func discover(e expr.Expr, r *registry) {
	switch n := e.(type) {
	case *expr.Const, *expr.Var:
		return
	case *expr.Bin:
		r.register(e)
		discover(n.Left, r)
		discover(n.Right, r)
	case *expr.Neg:
		r.register(e)
		discover(n.X, r)
	case *expr.If:
		r.register(e)
		discover(n.Cond, r)
		discover(n.Then, r)
		discover(n.Else, r)
	}
}

// rewrite replaces any node matching an aliased class with a reference to
// that alias, recursing into children only when the node itself doesn't
// qualify. A node fully replaced by an alias is not descended into here —
// its interior is rewritten once, when the alias's own definition is built.
func rewrite(e expr.Expr, r *registry) expr.Expr {
	switch e.(type) {
	case *expr.Const, *expr.Var:
		return e
	}
	if c := r.find(e); c != nil && c.alias != "" {
		return &expr.Var{Name: c.alias}
	}
	return rewriteChildren(e, r)
}

// rewriteChildren rebuilds a compound node with its children passed through
// rewrite, without checking the node itself against the alias table. It is
// used both by rewrite's fallthrough case and to build an alias's own
// definition, where the top-level subtree must keep its shape (it *is* the
// alias) while any nested repeats it contains still get extracted.
func rewriteChildren(e expr.Expr, r *registry) expr.Expr {
	switch n := e.(type) {
	case *expr.Bin:
		return &expr.Bin{Op: n.Op, Left: rewrite(n.Left, r), Right: rewrite(n.Right, r)}
	case *expr.Neg:
		return &expr.Neg{X: rewrite(n.X, r)}
	case *expr.If:
		return &expr.If{Cond: rewrite(n.Cond, r), Then: rewrite(n.Then, r), Else: rewrite(n.Else, r)}
	default:
		return e
	}
}
