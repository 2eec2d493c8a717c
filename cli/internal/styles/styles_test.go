package styles

import (
	"strings"
	"testing"
)

func TestTable_RendersHeadersAndRows(t *testing.T) {
	out := Table([]string{"Component", "Cores"}, [][]string{
		{"APM", "32"},
		{"Database", "24"},
	}, 1)

	for _, want := range []string{"Component", "Cores", "APM", "32", "Database", "24"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
	if lines := strings.Count(out, "\n"); lines < 4 {
		t.Errorf("expected bordered table over several lines, got %d", lines)
	}
}

func TestTable_Empty(t *testing.T) {
	out := Table([]string{"Test"}, nil)
	if !strings.Contains(out, "Test") {
		t.Errorf("expected header in empty table:\n%s", out)
	}
}
