package report

import (
	"strings"

	"github.com/diophantus-project/diophantus/internal/planner"
)

// EquationFile renders a scheduled planner.Assignment list as the machine
// equation file text the Evaluator's grammar parses: one `LHS := RHS` line
// per entry, in schedule order (spec.md §6). schedule must already be
// topologically ordered — this writer does not reorder it.
func EquationFile(schedule []planner.Assignment) string {
	var b strings.Builder
	for _, a := range schedule {
		b.WriteString(cleanName(a.LHS))
		b.WriteString(" := ")
		writeGeneric(&b, a.RHS)
		b.WriteString("\n")
	}
	return b.String()
}
