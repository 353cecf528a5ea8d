package format

import (
	"fmt"
	"strings"
	"time"

	"gps/pkg/gps"
)

// PlanTable renders a plan as a numbered step table with each operation's
// effects in compact notation: +added -removed ~modified.
func PlanTable(m Mode, plan []*gps.Operation) string {
	t := NewTable(m)
	t.Header("#", "Operation", "Effects")
	for i, op := range plan {
		t.Row(i+1, op.Name(), effectsSummary(op))
	}
	t.Columns(ColumnConfig{Number: 1, Align: AlignRight})
	return t.String()
}

// StateTable renders a world state sorted by fact name. Symbol facts show
// a dash in the value column: their only information is presence.
func StateTable(m Mode, s *gps.StateSet) string {
	t := NewTable(m)
	t.Header("Fact", "Value")
	for _, f := range s.Facts() {
		if n, ok := f.Value.Int(); ok {
			t.Row(f.Name, n)
		} else {
			t.Row(f.Name, "-")
		}
	}
	return t.String()
}

func effectsSummary(op *gps.Operation) string {
	var parts []string
	for _, f := range op.Adds() {
		parts = append(parts, "+"+f.String())
	}
	for _, name := range op.Removes() {
		parts = append(parts, "-"+name)
	}
	for _, m := range op.Modifies() {
		parts = append(parts, "~"+m.Fact())
	}
	return strings.Join(parts, " ")
}

// FmtDuration formats a duration as "Xm Ys", "Ys", or milliseconds for
// sub-second runs, which is where most solves land.
func FmtDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	s := int(d.Seconds())
	if s >= 60 {
		return fmt.Sprintf("%dm %ds", s/60, s%60)
	}
	return fmt.Sprintf("%ds", s)
}

// Truncate shortens s to maxLen characters, appending "..." if truncated.
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}

// BoolMark returns "✓" for true and "✗" for false.
func BoolMark(v bool) string {
	if v {
		return "✓"
	}
	return "✗"
}
