package evaluator

import (
	"sort"
	"strings"

	"github.com/diophantus-project/diophantus/internal/compileerr"
)

// State is a current-state mapping: state-variable name to value.
type State map[string]int64

// Inputs is a per-step inputs mapping: input name to the value supplied
// for that iteration.
type Inputs map[string]int64

// Clone returns a shallow copy, used so callers can keep their own map
// alive across Step calls without the Evaluator mutating it.
func (s State) Clone() State {
	out := make(State, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// InputFeed supplies the Inputs mapping for a given 1-indexed step number,
// letting a caller vary per-iteration inputs across a multi-step Run.
type InputFeed func(step int) Inputs

// Evaluator executes a parsed machine equation file. It is re-entrant
// across different programs, but a given instance is not intended for
// concurrent use (spec.md §5).
type Evaluator struct {
	program *Program
}

// New parses text as a machine equation file.
func New(text string) (*Evaluator, error) {
	prog, err := Parse(text)
	if err != nil {
		return nil, compileerr.ErrEvaluation.New(err.Error())
	}
	return &Evaluator{program: prog}, nil
}

// NewFromProgram wraps an already-parsed Program, e.g. one built directly
// from a planner.Assignment schedule without a text round-trip.
func NewFromProgram(prog *Program) *Evaluator {
	return &Evaluator{program: prog}
}

// Step processes the schedule once: seeds a working context with state
// and inputs, evaluates each line's RHS against that context in order,
// binds the LHS, and projects v[t+1]-named bindings into the next-state
// mapping, keyed by v (spec.md §4.5).
func (e *Evaluator) Step(state State, inputs Inputs) (State, error) {
	ctx := make(map[string]int64, len(state)+len(inputs)+len(e.program.Lines))
	for k, v := range state {
		ctx[k] = v
	}
	for k, v := range inputs {
		ctx[k] = v
	}

	next := make(State)
	for _, line := range e.program.Lines {
		val, err := evalRHS(line.RHS, ctx)
		if err != nil {
			return nil, compileerr.ErrEvaluation.New(line.LHS + ": " + err.Error())
		}
		ctx[line.LHS] = val
		if name, ok := strings.CutSuffix(line.LHS, "[t+1]"); ok {
			next[name] = val
		}
	}
	return next, nil
}

// Run steps the compiled system repeatedly, starting from initial,
// pulling each iteration's inputs from feed. It exposes the compiled
// system to callers (tests, or a future non-rendering CLI subcommand)
// without any terminal rendering, which stays out of scope (spec.md §1).
func (e *Evaluator) Run(steps int, initial State, feed InputFeed) ([]State, error) {
	history := make([]State, 0, steps)
	state := initial.Clone()
	for i := 1; i <= steps; i++ {
		var inputs Inputs
		if feed != nil {
			inputs = feed(i)
		}
		next, err := e.Step(state, inputs)
		if err != nil {
			return history, err
		}
		history = append(history, next)
		state = next
	}
	return history, nil
}

func evalRHS(r *RHS, ctx map[string]int64) (int64, error) {
	switch {
	case r.Int != nil:
		return *r.Int, nil
	case r.Name != nil:
		v, ok := ctx[*r.Name]
		if !ok {
			return 0, undefinedNameError(*r.Name)
		}
		return v, nil
	case r.Call != nil:
		return evalCall(r.Call, ctx)
	default:
		return 0, malformedRHSError()
	}
}

func evalCall(c *Call, ctx map[string]int64) (int64, error) {
	args := make([]int64, len(c.Args))
	for i, a := range c.Args {
		v, err := evalRHS(a, ctx)
		if err != nil {
			return 0, err
		}
		args[i] = v
	}

	boolOf := func(b bool) int64 {
		if b {
			return 1
		}
		return 0
	}
	arity := func(want int) error {
		if len(args) != want {
			return arityError(c.Op, want, len(args))
		}
		return nil
	}

	switch c.Op {
	case "+":
		if err := arity(2); err != nil {
			return 0, err
		}
		return args[0] + args[1], nil
	case "-":
		if err := arity(2); err != nil {
			return 0, err
		}
		return args[0] - args[1], nil
	case "*":
		if err := arity(2); err != nil {
			return 0, err
		}
		return args[0] * args[1], nil
	case "/":
		if err := arity(2); err != nil {
			return 0, err
		}
		if args[1] == 0 {
			return 0, divisionByZeroError()
		}
		// Go's integer division already truncates toward zero, matching
		// the C semantics spec.md §4.5 requires.
		return args[0] / args[1], nil
	case "neg":
		if err := arity(1); err != nil {
			return 0, err
		}
		return -args[0], nil
	case "if":
		if err := arity(3); err != nil {
			return 0, err
		}
		if args[0] != 0 {
			return args[1], nil
		}
		return args[2], nil
	case "==":
		if err := arity(2); err != nil {
			return 0, err
		}
		return boolOf(args[0] == args[1]), nil
	case "!=":
		if err := arity(2); err != nil {
			return 0, err
		}
		return boolOf(args[0] != args[1]), nil
	case "<":
		if err := arity(2); err != nil {
			return 0, err
		}
		return boolOf(args[0] < args[1]), nil
	case "<=":
		if err := arity(2); err != nil {
			return 0, err
		}
		return boolOf(args[0] <= args[1]), nil
	case ">":
		if err := arity(2); err != nil {
			return 0, err
		}
		return boolOf(args[0] > args[1]), nil
	case ">=":
		if err := arity(2); err != nil {
			return 0, err
		}
		return boolOf(args[0] >= args[1]), nil
	case "&&":
		if err := arity(2); err != nil {
			return 0, err
		}
		return boolOf(args[0] != 0 && args[1] != 0), nil
	case "||":
		if err := arity(2); err != nil {
			return 0, err
		}
		return boolOf(args[0] != 0 || args[1] != 0), nil
	default:
		return 0, unknownOperatorError(c.Op)
	}
}

// StateVarNames returns the sorted set of state-variable names the
// program defines (the LHS names carrying the [t+1] marker, stripped).
func (e *Evaluator) StateVarNames() []string {
	seen := make(map[string]bool)
	for _, line := range e.program.Lines {
		if name, ok := strings.CutSuffix(line.LHS, "[t+1]"); ok {
			seen[name] = true
		}
	}
	names := make([]string, 0, len(seen))
	for n := range seen {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
