package diagram

import (
	"fmt"
	"strings"

	"github.com/orglens/orglens/internal/graph"
	"github.com/orglens/orglens/internal/schema"
)

var plantumlRelSymbol = map[schema.FieldType]string{
	schema.TypeReference:    `"1" -- "*"`,
	schema.TypeMasterDetail: `"1" *-- "*"`,
}

const plantumlRelFallback = `"*" -- "*"`

// plantumlFieldLine formats one field as a class attribute line. Markers
// stack: a field can be PK, UK, and FK at once.
func plantumlFieldLine(f *schema.Field) string {
	var markers []string
	if f.Name == "Id" {
		markers = append(markers, "<<PK>>")
	}
	if f.ExternalID {
		markers = append(markers, "<<UK>>")
	}
	if f.IsRelationship() {
		markers = append(markers, "<<FK>>")
	}
	if f.Required && f.Name != "Id" {
		markers = append(markers, "{not null}")
	}

	line := fmt.Sprintf("  %s : %s", f.Name, f.Type)
	if len(markers) > 0 {
		line += "  " + strings.Join(markers, " ")
	}
	return line
}

func renderPlantUML(entities map[string]*schema.Entity, edges []graph.Edge, opts Options) string {
	lines := []string{"@startuml"}

	for _, name := range sortedNames(entities) {
		entity := entities[name]
		nodeID := safeID(name)
		lines = append(lines, fmt.Sprintf("class %s as %q {", nodeID, entity.DisplayLabel()))
		if opts.IncludeFields {
			selected, truncated, total := SelectFields(entity, opts.FieldFilter, opts.MaxFields)
			for _, f := range selected {
				lines = append(lines, plantumlFieldLine(f))
			}
			if truncated {
				shown := len(selected)
				lines = append(lines, fmt.Sprintf("  .. %d shown, %d omitted (%d total) ..", shown, total-shown, total))
			}
		}
		lines = append(lines, "}")
	}

	lines = append(lines, "")

	seen := make(map[edgePairKey]bool)
	var selfRefNotes []string
	for _, e := range edges {
		if e.SelfRef {
			label := labelFor(entities, e.Source)
			selfRefNotes = append(selfRefNotes, fmt.Sprintf(
				`note "%s.%s -> %s (self-referencing)" as N_%s_%s`,
				label, e.Field, label, safeID(e.Source), e.Field))
			continue
		}
		key := pairKey(e)
		if seen[key] {
			continue
		}
		seen[key] = true
		symbol, ok := plantumlRelSymbol[e.Kind]
		if !ok {
			symbol = plantumlRelFallback
		}
		// Parent on the left so the cardinality reads naturally.
		lines = append(lines, fmt.Sprintf("%s %s %s : %s",
			safeID(e.Target), symbol, safeID(e.Source), e.Field))
	}

	if len(selfRefNotes) > 0 {
		lines = append(lines, "")
		lines = append(lines, selfRefNotes...)
	}

	lines = append(lines, "", "@enduml")
	return strings.Join(lines, "\n")
}
