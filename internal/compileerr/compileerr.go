// Package compileerr declares the error taxonomy from the compiler's
// error-handling design: one typed kind per category the CLI reports on
// the error stream, plus the warnings that do not affect exit status.
package compileerr

import (
	errors "gopkg.in/src-d/go-errors.v1"
)

var (
	// ErrInputNotFound: the input program file is missing.
	ErrInputNotFound = errors.NewKind("input-not-found: %s")

	// ErrInputSyntax: the front-end's syntax tree could not be decoded.
	ErrInputSyntax = errors.NewKind("input-syntax: %s")

	// ErrCycle: the Equation Planner found a cycle in the defined-name
	// dependency graph. The argument is the set of unresolved node names.
	ErrCycle = errors.NewKind("cycle: unresolved nodes %v")

	// ErrSizeLimit: the estimated size of an output artifact exceeds the
	// configured safeguard.
	ErrSizeLimit = errors.NewKind("size-limit: %s would be %d bytes, exceeding the %d byte limit")

	// ErrEvaluation: the Evaluator hit an undefined name or a malformed
	// RHS while parsing or executing a machine equation file.
	ErrEvaluation = errors.NewKind("evaluation: %s")
)

// Warning is a non-fatal diagnostic: the unsupported-construct case. The
// Flattener treats the offending node as an opaque input and keeps going;
// the warning is surfaced on the error stream without affecting the exit
// code.
type Warning struct {
	Kind    string
	Message string
}

func (w Warning) String() string {
	return w.Kind + ": " + w.Message
}

// UnsupportedConstruct builds the one warning kind the spec defines.
func UnsupportedConstruct(nodeKind, detail string) Warning {
	return Warning{Kind: "unsupported-construct", Message: nodeKind + ": " + detail}
}
