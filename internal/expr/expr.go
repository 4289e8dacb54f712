// Package expr defines the tagged expression tree shared by every pass of
// the compiler, from the Flattener's symbolic values through the Polynomial
// Reducer's pure-arithmetic output.
package expr

import (
	"fmt"

	"github.com/mitchellh/hashstructure"
)

// Op is a binary or unary operator tag. The set is closed: these are the
// only operators the Flattener ever emits from the restricted input
// language, and the only operators the Polynomial Reducer knows how to
// lower.
type Op string

const (
	Add Op = "+"
	Sub Op = "-"
	Mul Op = "*"
	Div Op = "/"
	Eq  Op = "=="
	Neq Op = "!="
	Lt  Op = "<"
	Lte Op = "<="
	Gt  Op = ">"
	Gte Op = ">="
	And Op = "&&"
	Or  Op = "||"
)

// Arithmetic reports whether op is one of the pure-arithmetic operators
// that survive Polynomial Reduction untouched.
func (op Op) Arithmetic() bool {
	switch op {
	case Add, Sub, Mul:
		return true
	default:
		return false
	}
}

// Expr is a node in the expression tree. The set of implementations is
// closed: Const, Var, Bin, Neg, If. Every non-leaf node holds fully
// constructed children, and trees are never mutated once built.
type Expr interface {
	isExpr()
	// Equal reports structural equality: same tag, same leaf data, and
	// recursively equal children.
	Equal(Expr) bool
	// Hash returns a Merkle-style structural hash, used by the CSE
	// extractor to bucket candidate subtrees before falling back to
	// Equal for collision resolution.
	Hash() uint64
	String() string
}

// Const is an integer literal. Character literals are reduced to their
// code point before reaching this tree.
type Const struct {
	Value int64
}

// Var is a named reference: a state variable, an input, a CSE alias
// (C_n), or an existential witness (e_n). The tree itself does not
// distinguish these; that's contextual, tracked by the pass that
// introduced the name.
type Var struct {
	Name string
}

// Bin is a binary operation.
type Bin struct {
	Op          Op
	Left, Right Expr
}

// Neg is unary arithmetic negation.
type Neg struct {
	X Expr
}

// If is the ternary conditional-expression multiplexer.
type If struct {
	Cond, Then, Else Expr
}

func (*Const) isExpr() {}
func (*Var) isExpr()   {}
func (*Bin) isExpr()   {}
func (*Neg) isExpr()   {}
func (*If) isExpr()    {}

func (c *Const) String() string { return fmt.Sprintf("%d", c.Value) }
func (v *Var) String() string   { return v.Name }
func (b *Bin) String() string   { return fmt.Sprintf("(%s %s %s)", b.Left, b.Op, b.Right) }
func (n *Neg) String() string   { return fmt.Sprintf("(-%s)", n.X) }
func (i *If) String() string {
	return fmt.Sprintf("if(%s, %s, %s)", i.Cond, i.Then, i.Else)
}

func (c *Const) Equal(o Expr) bool {
	oc, ok := o.(*Const)
	return ok && oc.Value == c.Value
}

func (v *Var) Equal(o Expr) bool {
	ov, ok := o.(*Var)
	return ok && ov.Name == v.Name
}

func (b *Bin) Equal(o Expr) bool {
	ob, ok := o.(*Bin)
	return ok && ob.Op == b.Op && ob.Left.Equal(b.Left) && ob.Right.Equal(b.Right)
}

func (n *Neg) Equal(o Expr) bool {
	on, ok := o.(*Neg)
	return ok && on.X.Equal(n.X)
}

func (i *If) Equal(o Expr) bool {
	oi, ok := o.(*If)
	return ok && oi.Cond.Equal(i.Cond) && oi.Then.Equal(i.Then) && oi.Else.Equal(i.Else)
}

// hashOf computes the structural hash of a value shaped like an Expr leaf
// by reflecting over its fields. Nested Expr fields recurse through their
// own Hash() first so the result is a true Merkle hash: a parent's hash
// depends on its children's hashes, not their raw contents.
func hashOf(v any) uint64 {
	h, err := hashstructure.Hash(v, nil)
	if err != nil {
		// hashstructure only errors on unsupported field kinds (channels,
		// funcs); the expression tree never contains either.
		panic(fmt.Sprintf("expr: unhashable node: %v", err))
	}
	return h
}

func (c *Const) Hash() uint64 {
	return hashOf(struct {
		Tag   string
		Value int64
	}{"const", c.Value})
}

func (v *Var) Hash() uint64 {
	return hashOf(struct {
		Tag  string
		Name string
	}{"var", v.Name})
}

func (b *Bin) Hash() uint64 {
	return hashOf(struct {
		Tag         string
		Op          Op
		Left, Right uint64
	}{"bin", b.Op, b.Left.Hash(), b.Right.Hash()})
}

func (n *Neg) Hash() uint64 {
	return hashOf(struct {
		Tag string
		X   uint64
	}{"neg", n.X.Hash()})
}

func (i *If) Hash() uint64 {
	return hashOf(struct {
		Tag                    string
		Cond, Then, ElseBranch uint64
	}{"if", i.Cond.Hash(), i.Then.Hash(), i.Else.Hash()})
}

// Identity is the expression a state variable evaluates to when the loop
// body never touches it: x[t+1] = x.
func Identity(name string) Expr { return &Var{Name: name} }
