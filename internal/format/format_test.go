package format_test

import (
	"strings"
	"testing"
	"time"

	"gps/internal/format"
	"gps/pkg/gps"
)

func samplePlan() []*gps.Operation {
	return []*gps.Operation{
		gps.NewOperation("give-shop-money").
			Require(gps.Contain("have-money")).
			Add(gps.Symbol("shop-has-money")).
			Remove("have-money").
			Build(),
		gps.NewOperation("drive-son-to-school").
			Add(gps.Symbol("son-at-school")).
			Remove("son-at-home").
			Build(),
	}
}

func TestPlanTable_ASCII(t *testing.T) {
	out := format.PlanTable(format.ASCII, samplePlan())

	if !strings.Contains(out, "give-shop-money") {
		t.Errorf("expected operation name in output:\n%s", out)
	}
	if !strings.Contains(out, "+shop-has-money -have-money") {
		t.Errorf("expected compact effects in output:\n%s", out)
	}
	// ASCII mode uses StyleLight box-drawing characters.
	if !strings.Contains(out, "───") {
		t.Errorf("expected box-drawing characters in ASCII output:\n%s", out)
	}
}

func TestPlanTable_Markdown(t *testing.T) {
	out := format.PlanTable(format.Markdown, samplePlan())

	if !strings.Contains(out, "| Operation") {
		t.Errorf("expected markdown header in output:\n%s", out)
	}
	if !strings.Contains(out, "---") {
		t.Errorf("expected markdown separator in output:\n%s", out)
	}
	if !strings.Contains(out, "drive-son-to-school") {
		t.Errorf("expected operation name in output:\n%s", out)
	}
}

func TestStateTable(t *testing.T) {
	s := gps.NewStateSet(gps.Symbol("son-at-school"), gps.Integer("balance", 10))
	out := format.StateTable(format.ASCII, s)

	if !strings.Contains(out, "son-at-school") {
		t.Errorf("expected fact name in output:\n%s", out)
	}
	if !strings.Contains(out, "10") {
		t.Errorf("expected integer value in output:\n%s", out)
	}
}

func TestParseMode(t *testing.T) {
	for _, tok := range []string{"", "table", "ascii", "ASCII"} {
		if m, err := format.ParseMode(tok); err != nil || m != format.ASCII {
			t.Errorf("ParseMode(%q) = (%v, %v), want ASCII", tok, m, err)
		}
	}
	for _, tok := range []string{"markdown", "md"} {
		if m, err := format.ParseMode(tok); err != nil || m != format.Markdown {
			t.Errorf("ParseMode(%q) = (%v, %v), want Markdown", tok, m, err)
		}
	}
	if _, err := format.ParseMode("html"); err == nil {
		t.Error("expected error for unknown mode")
	}
}

func TestFmtDuration(t *testing.T) {
	cases := []struct {
		in   time.Duration
		want string
	}{
		{250 * time.Millisecond, "250ms"},
		{3 * time.Second, "3s"},
		{90 * time.Second, "1m 30s"},
	}
	for _, tc := range cases {
		if got := format.FmtDuration(tc.in); got != tc.want {
			t.Errorf("FmtDuration(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := format.Truncate("short", 10); got != "short" {
		t.Errorf("Truncate(short, 10) = %q", got)
	}
	if got := format.Truncate("a longer description", 10); got != "a longe..." {
		t.Errorf("Truncate = %q, want %q", got, "a longe...")
	}
}

func TestBoolMark(t *testing.T) {
	if format.BoolMark(true) != "✓" || format.BoolMark(false) != "✗" {
		t.Error("BoolMark marks are wrong")
	}
}
