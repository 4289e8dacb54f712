// Package cast (C abstract syntax tree) defines the restricted structural
// syntax tree the compiler consumes from its external front end, and loads
// it from the JSON encoding that front end emits. It is the boundary named
// in the purpose-and-scope of the compiler: the front end that parses real
// C source is someone else's problem; this package only needs to decode
// the tree it leaves behind.
package cast

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/diophantus-project/diophantus/internal/compileerr"
)

// VarKind is the declared type of a state variable. Character literals
// are reduced to their code point before they ever reach an Expr, so the
// distinction only matters for reporting.
type VarKind string

const (
	KindInt  VarKind = "int"
	KindChar VarKind = "char"
)

// StateVar is a global declared outside any function; its value persists
// across loop iterations.
type StateVar struct {
	Name string  `json:"name"`
	Type VarKind `json:"type"`
}

// Document is the top-level artifact handed to the compiler: the declared
// state and the body of the single unconditional infinite loop inside the
// entry function. I/O-invoking statements are elided by the front end
// before the tree reaches here.
type Document struct {
	StateVars []StateVar `json:"state_vars"`
	Loop      []Stmt     `json:"-"`
}

// Stmt is a statement node. The set is closed: Block, If, Declare, Assign,
// Update.
type Stmt interface {
	isStmt()
}

// Expr is an expression node in the input tree. The set is closed:
// BinaryOp, UnaryOp, Constant, Var, Call. This is distinct from
// internal/expr.Expr, which models the compiler's internal, already-
// flattened arithmetic tree; cast.Expr is what the front end hands in.
type Expr interface {
	isExpr()
}

type Block struct{ Stmts []Stmt }

// If is a conditional statement. Else is nil when the source has no else
// branch.
type If struct {
	Cond Expr
	Then []Stmt
	Else []Stmt
}

// Declare introduces a locally scoped auxiliary variable. Init is nil when
// the declaration has no initializer, in which case the Flattener binds it
// to Const(0).
type Declare struct {
	Name string
	Init Expr
}

// AssignOp is one of the three recognized compound-assignment forms.
type AssignOp string

const (
	AssignSet AssignOp = "="
	AssignAdd AssignOp = "+="
	AssignSub AssignOp = "-="
)

type Assign struct {
	Target string
	Op     AssignOp
	Value  Expr
}

// UpdateOp is increment or decrement.
type UpdateOp string

const (
	UpdateInc UpdateOp = "++"
	UpdateDec UpdateOp = "--"
)

type Update struct {
	Target string
	Op     UpdateOp
}

// BinaryOp's Op ranges over the full operator set in spec.md §3: arithmetic,
// comparison, and boolean connectives.
type BinaryOp struct {
	Op          string
	Left, Right Expr
}

// UnaryOp is unary arithmetic negation; Op is always "-".
type UnaryOp struct {
	Op string
	X  Expr
}

type Constant struct{ Value int64 }

type Var struct{ Name string }

// Call is a symbolic input: the front end elides actual I/O calls, but a
// call to an unrecognized function is treated as an opaque per-iteration
// input named after the callee.
type Call struct{ Name string }

func (*Block) isStmt()   {}
func (*If) isStmt()      {}
func (*Declare) isStmt() {}
func (*Assign) isStmt()  {}
func (*Update) isStmt()  {}

func (*BinaryOp) isExpr() {}
func (*UnaryOp) isExpr()  {}
func (*Constant) isExpr() {}
func (*Var) isExpr()      {}
func (*Call) isExpr()     {}

// LoadDocument reads and decodes a Document from path, classifying failures
// per the compiler's error taxonomy: a missing file is ErrInputNotFound, a
// tree that doesn't decode is ErrInputSyntax.
func LoadDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, compileerr.ErrInputNotFound.New(path)
		}
		return nil, compileerr.ErrInputNotFound.New(fmt.Sprintf("%s: %s", path, err))
	}
	doc, err := decodeDocument(data)
	if err != nil {
		return nil, compileerr.ErrInputSyntax.New(err.Error())
	}
	return doc, nil
}

type wireDocument struct {
	StateVars []StateVar        `json:"state_vars"`
	Loop      []json.RawMessage `json:"loop"`
}

func decodeDocument(data []byte) (*Document, error) {
	var wd wireDocument
	if err := json.Unmarshal(data, &wd); err != nil {
		return nil, err
	}
	stmts := make([]Stmt, 0, len(wd.Loop))
	for _, raw := range wd.Loop {
		s, err := decodeStmt(raw)
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, s)
	}
	return &Document{StateVars: wd.StateVars, Loop: stmts}, nil
}

func peekKind(raw json.RawMessage) (string, error) {
	var probe struct {
		Kind string `json:"kind"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return "", err
	}
	if probe.Kind == "" {
		return "", fmt.Errorf("cast: node missing \"kind\" field: %s", raw)
	}
	return probe.Kind, nil
}

func decodeStmt(raw json.RawMessage) (Stmt, error) {
	kind, err := peekKind(raw)
	if err != nil {
		return nil, err
	}
	switch kind {
	case "Block":
		var w struct {
			Stmts []json.RawMessage `json:"stmts"`
		}
		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, err
		}
		stmts, err := decodeStmtList(w.Stmts)
		if err != nil {
			return nil, err
		}
		return &Block{Stmts: stmts}, nil
	case "If":
		var w struct {
			Cond json.RawMessage   `json:"cond"`
			Then []json.RawMessage `json:"then"`
			Else []json.RawMessage `json:"else"`
		}
		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, err
		}
		cond, err := decodeExpr(w.Cond)
		if err != nil {
			return nil, err
		}
		then, err := decodeStmtList(w.Then)
		if err != nil {
			return nil, err
		}
		var els []Stmt
		if w.Else != nil {
			els, err = decodeStmtList(w.Else)
			if err != nil {
				return nil, err
			}
		}
		return &If{Cond: cond, Then: then, Else: els}, nil
	case "Declare":
		var w struct {
			Name string           `json:"name"`
			Init *json.RawMessage `json:"init"`
		}
		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, err
		}
		var init Expr
		if w.Init != nil {
			init, err = decodeExpr(*w.Init)
			if err != nil {
				return nil, err
			}
		}
		return &Declare{Name: w.Name, Init: init}, nil
	case "Assign":
		var w struct {
			Target string          `json:"target"`
			Op     AssignOp        `json:"op"`
			Value  json.RawMessage `json:"value"`
		}
		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, err
		}
		value, err := decodeExpr(w.Value)
		if err != nil {
			return nil, err
		}
		return &Assign{Target: w.Target, Op: w.Op, Value: value}, nil
	case "Update":
		var w struct {
			Target string   `json:"target"`
			Op     UpdateOp `json:"op"`
		}
		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, err
		}
		return &Update{Target: w.Target, Op: w.Op}, nil
	default:
		return nil, fmt.Errorf("cast: unrecognized statement kind %q", kind)
	}
}

func decodeStmtList(raws []json.RawMessage) ([]Stmt, error) {
	stmts := make([]Stmt, 0, len(raws))
	for _, raw := range raws {
		s, err := decodeStmt(raw)
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, s)
	}
	return stmts, nil
}

func decodeExpr(raw json.RawMessage) (Expr, error) {
	kind, err := peekKind(raw)
	if err != nil {
		return nil, err
	}
	switch kind {
	case "BinaryOp":
		var w struct {
			Op    string          `json:"op"`
			Left  json.RawMessage `json:"left"`
			Right json.RawMessage `json:"right"`
		}
		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, err
		}
		left, err := decodeExpr(w.Left)
		if err != nil {
			return nil, err
		}
		right, err := decodeExpr(w.Right)
		if err != nil {
			return nil, err
		}
		return &BinaryOp{Op: w.Op, Left: left, Right: right}, nil
	case "UnaryOp":
		var w struct {
			Op string          `json:"op"`
			X  json.RawMessage `json:"x"`
		}
		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, err
		}
		x, err := decodeExpr(w.X)
		if err != nil {
			return nil, err
		}
		return &UnaryOp{Op: w.Op, X: x}, nil
	case "Constant":
		var w struct {
			Value int64 `json:"value"`
		}
		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, err
		}
		return &Constant{Value: w.Value}, nil
	case "Var":
		var w struct {
			Name string `json:"name"`
		}
		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, err
		}
		return &Var{Name: w.Name}, nil
	case "Call":
		var w struct {
			Name string `json:"name"`
		}
		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, err
		}
		return &Call{Name: w.Name}, nil
	default:
		return nil, fmt.Errorf("cast: unrecognized expression kind %q", kind)
	}
}
