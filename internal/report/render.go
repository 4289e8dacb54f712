// Package report renders the two compiled artifacts spec.md §6 names: the
// human-readable typeset report and the machine equation file. Both share
// one recursive expression walker, parameterized over a sink, so the size
// safeguard (spec.md §5, §9) can estimate an artifact's byte count without
// ever materializing its text (see Report.Size and EquationFileSize).
package report

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/diophantus-project/diophantus/internal/cse"
	"github.com/diophantus-project/diophantus/internal/expr"
)

// sink is the minimal surface render needs: strings.Builder and byteCounter
// both implement it, so the same walk either produces text or only counts
// it.
type sink interface {
	WriteString(string) (int, error)
}

// byteCounter discards everything written to it and keeps only the
// cumulative length, in UTF-8 bytes. It lets Report.Size and
// EquationFileSize reuse the exact
// rendering logic the report and equation file use without allocating the
// strings themselves.
type byteCounter struct {
	n int
}

func (c *byteCounter) WriteString(s string) (int, error) {
	c.n += len(s)
	return len(s), nil
}

// mathGlyphs maps comparison and boolean operators to the math symbols the
// human report renders them with (spec.md §6): "Operators render with
// multiplication as ·, equality/comparison with standard math symbols".
var mathGlyphs = map[expr.Op]string{
	expr.Eq:  "=",
	expr.Neq: "≠",
	expr.Lt:  "<",
	expr.Lte: "≤",
	expr.Gt:  ">",
	expr.Gte: "≥",
	expr.And: "∧",
	expr.Or:  "∨",
}

// cleanName strips the CSE bookkeeping braces that never reach the tree in
// this implementation but mirrors the original exporter's defensive
// name-cleaning step (original_source/compiler/equation_exporter.py).
func cleanName(name string) string {
	return strings.NewReplacer("{", "", "}", "").Replace(name)
}

// writeMath renders e in the typeset, math-glyph form used by the human
// report's equation sections. aliases, when non-nil, is consulted to
// recursively expand C_n references in place; pass nil to leave alias
// references as bare names (the optimized, alias-referencing form).
func writeMath(w sink, e expr.Expr, aliases *cse.AliasTable) {
	switch n := e.(type) {
	case *expr.Const:
		w.WriteString(strconv.FormatInt(n.Value, 10))
	case *expr.Var:
		if aliases != nil {
			if def := aliases.Def(n.Name); def != nil {
				writeMath(w, def, aliases)
				return
			}
		}
		w.WriteString(cleanName(n.Name))
	case *expr.Neg:
		w.WriteString("(-")
		writeMath(w, n.X, aliases)
		w.WriteString(")")
	case *expr.If:
		w.WriteString("(")
		writeMath(w, n.Cond, aliases)
		w.WriteString(" · ")
		writeMath(w, n.Then, aliases)
		w.WriteString(" + (1 - ")
		writeMath(w, n.Cond, aliases)
		w.WriteString(") · ")
		writeMath(w, n.Else, aliases)
		w.WriteString(")")
	case *expr.Bin:
		writeMathBin(w, n, aliases)
	default:
		panic(fmt.Sprintf("report: unreachable expression kind %T", e))
	}
}

func writeMathBin(w sink, n *expr.Bin, aliases *cse.AliasTable) {
	if glyph, ok := mathGlyphs[n.Op]; ok {
		w.WriteString("(")
		writeMath(w, n.Left, aliases)
		w.WriteString(" " + glyph + " ")
		writeMath(w, n.Right, aliases)
		w.WriteString(")")
		return
	}
	glyph := string(n.Op)
	if n.Op == expr.Mul {
		glyph = "·"
	}
	w.WriteString("(")
	writeMath(w, n.Left, aliases)
	w.WriteString(" " + glyph + " ")
	writeMath(w, n.Right, aliases)
	w.WriteString(")")
}

// writeGeneric renders e as `OP(arg, arg, ...)`, the format the machine
// equation file and the Evaluator's grammar both use (spec.md §6), mirroring
// original_source/compiler/equation_exporter.py's _tuple_to_generic_string.
func writeGeneric(w sink, e expr.Expr) {
	switch n := e.(type) {
	case *expr.Const:
		w.WriteString(strconv.FormatInt(n.Value, 10))
	case *expr.Var:
		w.WriteString(cleanName(n.Name))
	case *expr.Neg:
		w.WriteString("neg(")
		writeGeneric(w, n.X)
		w.WriteString(")")
	case *expr.If:
		w.WriteString("if(")
		writeGeneric(w, n.Cond)
		w.WriteString(", ")
		writeGeneric(w, n.Then)
		w.WriteString(", ")
		writeGeneric(w, n.Else)
		w.WriteString(")")
	case *expr.Bin:
		w.WriteString(string(n.Op))
		w.WriteString("(")
		writeGeneric(w, n.Left)
		w.WriteString(", ")
		writeGeneric(w, n.Right)
		w.WriteString(")")
	default:
		panic(fmt.Sprintf("report: unreachable expression kind %T", e))
	}
}

// mathString renders e in one call, expanding aliases when aliases != nil.
func mathString(e expr.Expr, aliases *cse.AliasTable) string {
	var b strings.Builder
	writeMath(&b, e, aliases)
	return b.String()
}
