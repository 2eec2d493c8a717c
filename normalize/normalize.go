// ABOUTME: Best-effort extraction of counts and core numbers from free text
// ABOUTME: Every helper is total: unparsable input falls back instead of failing

package normalize

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// countPattern matches the first number with at most one decimal separator,
// optionally followed directly by a thousand/million suffix.
var countPattern = regexp.MustCompile(`(?i)(\d+(?:[.,]\d+)?)([km])?`)

// corePattern matches "<n> VCPU", "<n>CPU", "<n> cores" and similar.
var corePattern = regexp.MustCompile(`(?i)(\d+)\s*(?:vcpu|cpu|core)`)

// affirmatives are the accepted spellings of "yes" in inventory sheets and forms.
var affirmatives = map[string]bool{
	"si":   true,
	"sí":   true,
	"yes":  true,
	"true": true,
	"1":    true,
}

// Count extracts a positive count from a number or free text such as
// "2000 usuarios", "1.5k" or "3M". The boolean is false when no positive
// count can be recovered.
func Count(value any) (int, bool) {
	switch v := value.(type) {
	case nil:
		return 0, false
	case string:
		return countFromText(v)
	case json.Number:
		if f, err := v.Float64(); err == nil {
			return countFromFloat(f)
		}
		return countFromText(v.String())
	case float64:
		return countFromFloat(v)
	case float32:
		return countFromFloat(float64(v))
	case int:
		return countFromFloat(float64(v))
	case int32:
		return countFromFloat(float64(v))
	case int64:
		return countFromFloat(float64(v))
	case uint:
		return countFromFloat(float64(v))
	case uint32:
		return countFromFloat(float64(v))
	case uint64:
		return countFromFloat(float64(v))
	default:
		return 0, false
	}
}

// CountPtr is Count for optional record fields: nil means "unknown".
func CountPtr(value any) *int {
	n, ok := Count(value)
	if !ok {
		return nil
	}
	return &n
}

func countFromFloat(f float64) (int, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f <= 0 {
		return 0, false
	}
	n := int(f)
	if n <= 0 {
		return 0, false
	}
	return n, true
}

func countFromText(s string) (int, bool) {
	m := countPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}

	f, err := strconv.ParseFloat(strings.Replace(m[1], ",", ".", 1), 64)
	if err != nil {
		return 0, false
	}

	switch strings.ToLower(m[2]) {
	case "k":
		f *= 1_000
	case "m":
		f *= 1_000_000
	}

	return countFromFloat(f)
}

// CoreCount sums every integer tagged with a CPU unit in text like
// "ASCS 2 VCPU, Primario APP Server 16 VCPU" and multiplies by nodes.
// Without any tagged integer it returns nodes * defaultPerNode.
func CoreCount(text string, defaultPerNode, nodes int) int {
	matches := corePattern.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nodes * defaultPerNode
	}

	sum := 0
	for _, m := range matches {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		sum += n
	}
	return sum * nodes
}

// PositiveInt reads a node, core, interval or agent count. Values like
// "4", "4.0", 4 or 4.0 yield 4; anything else, including zero and
// negatives, yields fallback.
func PositiveInt(value any, fallback int) int {
	var f float64
	switch v := value.(type) {
	case nil:
		return fallback
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return fallback
		}
		f = parsed
	case json.Number:
		parsed, err := v.Float64()
		if err != nil {
			return fallback
		}
		f = parsed
	case float64:
		f = v
	case float32:
		f = float64(v)
	case int:
		f = float64(v)
	case int32:
		f = float64(v)
	case int64:
		f = float64(v)
	default:
		return fallback
	}

	if math.IsNaN(f) || math.IsInf(f, 0) || f < 1 {
		return fallback
	}
	return int(f)
}

// Affirmative reports whether a form or sheet value means "yes".
func Affirmative(value any) bool {
	switch v := value.(type) {
	case bool:
		return v
	case string:
		return affirmatives[strings.ToLower(strings.TrimSpace(v))]
	case json.Number:
		return affirmatives[v.String()]
	case float64:
		return v == 1
	case int:
		return v == 1
	default:
		return false
	}
}

// Cell trims a spreadsheet cell and blanks the textual null markers that
// exports leave behind.
func Cell(value string) string {
	s := strings.TrimSpace(value)
	switch strings.ToLower(s) {
	case "nan", "none", "null":
		return ""
	}
	return s
}
