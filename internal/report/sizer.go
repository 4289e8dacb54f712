package report

import "github.com/diophantus-project/diophantus/internal/planner"

// Size returns the byte length Render would produce, computed by running
// the identical section-writing logic against a byteCounter instead of a
// strings.Builder. This is the safeguard check spec.md §5 and §9 require:
// the report is never fully materialized just to learn whether it exceeds
// the configured limit.
func (rep *Report) Size() int {
	var c byteCounter
	rep.writeSummary(&c)
	rep.writeExpanded(&c)
	rep.writeAliasDefs(&c)
	rep.writeOptimized(&c)
	rep.writeReduced(&c)
	rep.writeMasterEquation(&c)
	return c.n
}

// EquationFileSize returns the byte length EquationFile would produce for
// schedule, without building the string.
func EquationFileSize(schedule []planner.Assignment) int {
	var c byteCounter
	for _, a := range schedule {
		c.WriteString(cleanName(a.LHS))
		c.WriteString(" := ")
		writeGeneric(&c, a.RHS)
		c.WriteString("\n")
	}
	return c.n
}
