// Package evaluator implements the Evaluator: given a scheduled assignment
// system parsed from the machine equation file, a current-state mapping,
// and a per-step inputs mapping, it produces the next-state mapping.
//
// The machine-file grammar (spec.md §6) is parsed with a real recursive-
// descent grammar instead of the regex-then-patch approach the original
// source used (spec.md §9's Open Question), via the teacher's own parser
// combinator library.
package evaluator

import (
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// machineLexer tokenizes one machine-file line. Multi-character operators
// are listed before their single-character prefixes so the regex
// alternation prefers the longer match (mirroring
// kanso/grammar/lexer.go's "order matters" operator rule).
var machineLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Assign", Pattern: `:=`},
	{Name: "Name", Pattern: `[A-Za-z_][A-Za-z0-9_]*(\[t\+1\])?`},
	{Name: "Int", Pattern: `-?[0-9]+`},
	{Name: "Operator", Pattern: `==|!=|<=|>=|&&|\|\||[-+*/<>]`},
	{Name: "Punct", Pattern: `[(),]`},
	{Name: "Whitespace", Pattern: `[ \t\r\n]+`},
})

// RHS is int | name | OP '(' RHS (',' RHS)* ')', per spec.md §6.
type RHS struct {
	Int  *int64 `  @Int`
	Call *Call  `| @@`
	Name *string `| @Name`
}

// Call is the one compound RHS shape: an operator applied to a
// comma-separated, parenthesized argument list. Nested parentheses
// balance by construction because Args recurses through RHS, not through
// a hand-patched scanner.
type Call struct {
	Op string `@( "+" | "-" | "*" | "/" | "neg" | "if" |
		"==" | "!=" | "<=" | "<" | ">=" | ">" | "&&" | "||" )`
	Args []*RHS `"(" @@ ( "," @@ )* ")"`
}

// Line is one `LHS := RHS` equation.
type Line struct {
	LHS string `@Name Assign`
	RHS *RHS   `@@`
}

// Program is the full parsed machine equation file: every non-empty line,
// in file order. The Evaluator schedules and runs these in the order they
// appear — the machine file is written already topologically sorted by
// the Planner, so no further reordering happens here.
type Program struct {
	Lines []*Line `@@*`
}

func buildParser() *participle.Parser[Program] {
	p, err := participle.Build[Program](
		participle.Lexer(machineLexer),
		participle.Elide("Whitespace"),
		participle.UseLookahead(2),
	)
	if err != nil {
		// The grammar is fixed at compile time; a build failure here is a
		// programming error, not a runtime condition.
		panic("evaluator: grammar failed to build: " + err.Error())
	}
	return p
}

var parser = buildParser()

// Parse decodes the text of a machine equation file into a Program.
func Parse(text string) (*Program, error) {
	return parser.ParseString("", text)
}
