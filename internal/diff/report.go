package diff

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/fatih/color"
)

// summaryKeys fixes the summary section order for deterministic reports.
var summaryKeys = []string{
	"objects_added",
	"objects_removed",
	"objects_modified",
	"total_field_changes",
	"breaking_candidates",
	"fields_added",
	"fields_removed",
	"type_changes",
	"relationship_changes",
}

func severityMarker(s Severity) string {
	switch s {
	case SeverityBreaking:
		return "!!"
	case SeverityNonBreaking:
		return " +"
	}
	return "  "
}

func formatValue(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return "none"
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case []string:
		return "[" + strings.Join(val, ", ") + "]"
	}
	return fmt.Sprintf("%v", v)
}

// TextReport renders the diff as a deterministic multi-line report with a
// fixed section order: summary, added objects, removed objects, modified
// objects, breaking-change candidates.
func (r *Result) TextReport() string {
	lines := []string{"Schema Diff Report", strings.Repeat("=", 60)}

	lines = append(lines, "", "Summary:")
	for _, key := range summaryKeys {
		lines = append(lines, fmt.Sprintf("  %s: %d", key, r.Summary[key]))
	}

	if len(r.AddedObjects) > 0 {
		lines = append(lines, "", "Added Objects:")
		for _, name := range sortedStrings(r.AddedObjects) {
			lines = append(lines, "  + "+name)
		}
	}

	if len(r.RemovedObjects) > 0 {
		lines = append(lines, "", "Removed Objects:")
		for _, name := range sortedStrings(r.RemovedObjects) {
			lines = append(lines, "  - "+name)
		}
	}

	if len(r.ModifiedObjects) > 0 {
		lines = append(lines, "", "Modified Objects:")
		for _, name := range sortedDiffKeys(r.ModifiedObjects) {
			lines = append(lines, "  "+name+":")
			for _, c := range r.ModifiedObjects[name].AllChanges() {
				lines = append(lines, fmt.Sprintf("    %s %s: %s (%s -> %s)",
					severityMarker(c.Severity), c.FieldName, c.ChangeType,
					formatValue(c.OldValue), formatValue(c.NewValue)))
			}
		}
	}

	if len(r.BreakingCandidates) > 0 {
		lines = append(lines, "", "Breaking Change Candidates:")
		for _, c := range r.BreakingCandidates {
			lines = append(lines, fmt.Sprintf("  !! %s.%s: %s (%s -> %s)",
				c.ObjectName, c.FieldName, c.ChangeType,
				formatValue(c.OldValue), formatValue(c.NewValue)))
		}
	}

	return strings.Join(lines, "\n")
}

// ColorReport renders the same report with severity highlighting for
// terminals. Color output honors the global color.NoColor switch.
func (r *Result) ColorReport() string {
	var buf bytes.Buffer

	red := color.New(color.FgRed)
	green := color.New(color.FgGreen)
	cyan := color.New(color.FgCyan)

	for _, line := range strings.Split(r.TextReport(), "\n") {
		trimmed := strings.TrimLeft(line, " ")
		switch {
		case strings.HasPrefix(trimmed, "!!"):
			red.Fprintln(&buf, line)
		case strings.HasPrefix(trimmed, "+"):
			green.Fprintln(&buf, line)
		case strings.HasSuffix(line, ":") && !strings.HasPrefix(line, " "):
			cyan.Fprintln(&buf, line)
		default:
			fmt.Fprintln(&buf, line)
		}
	}

	return buf.String()
}

func sortedStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	sort.Strings(out)
	return out
}

func sortedDiffKeys(m map[string]*ObjectDiff) []string {
	keys := make([]string, 0, len(m))
	for name := range m {
		keys = append(keys, name)
	}
	sort.Strings(keys)
	return keys
}
