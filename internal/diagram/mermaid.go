package diagram

import (
	"fmt"
	"strings"

	"github.com/orglens/orglens/internal/graph"
	"github.com/orglens/orglens/internal/schema"
)

var mermaidRelSymbol = map[schema.FieldType]string{
	schema.TypeReference:    "||--o{",
	schema.TypeMasterDetail: "||--|{",
}

const mermaidRelFallback = "}o--o{"

// mermaidFieldLine formats one field as an entity attribute line: a short
// uppercase type code, the field name, an optional PK/UK/FK tag, and an
// optional quoted annotation.
func mermaidFieldLine(f *schema.Field) string {
	var tag string
	switch {
	case f.Name == "Id":
		tag = "PK"
	case f.ExternalID:
		tag = "UK"
	case f.IsRelationship():
		tag = "FK"
	}

	var comment string
	switch {
	case f.IsRelationship():
		refs := strings.Join(f.ReferenceTo, "_")
		if len(refs) > 24 {
			refs = refs[:24]
		}
		comment = "FK_" + refs
	case f.Required && f.Name != "Id":
		comment = "NOT_NULL"
	case f.ExternalID:
		comment = "EXT_ID"
	}

	typeCode := strings.ToUpper(string(f.Type))
	if len(typeCode) > 12 {
		typeCode = typeCode[:12]
	}
	name := strings.ReplaceAll(f.Name, "__c", "_c")

	line := "        " + typeCode + " " + name
	if tag != "" {
		line += " " + tag
	}
	if comment != "" {
		line += fmt.Sprintf(" %q", comment)
	}
	return line
}

func renderMermaid(entities map[string]*schema.Entity, edges []graph.Edge, opts Options) string {
	lines := []string{"erDiagram"}
	var truncationNotes []string

	for _, name := range sortedNames(entities) {
		entity := entities[name]
		nodeID := safeID(name)
		if !opts.IncludeFields {
			lines = append(lines, fmt.Sprintf("    %s { string Id PK }", nodeID))
			continue
		}

		selected, truncated, total := SelectFields(entity, opts.FieldFilter, opts.MaxFields)
		if len(selected) > 0 {
			lines = append(lines, fmt.Sprintf("    %s {", nodeID))
			for _, f := range selected {
				lines = append(lines, mermaidFieldLine(f))
			}
			if truncated {
				shown := len(selected)
				lines = append(lines, fmt.Sprintf(
					`        string _note "Key fields only: %d shown, %d omitted (%d total)"`,
					shown, total-shown, total))
			}
			lines = append(lines, "    }")
		} else {
			lines = append(lines, fmt.Sprintf("    %s { string Id PK }", nodeID))
		}
		if truncated {
			truncationNotes = append(truncationNotes, fmt.Sprintf(
				"    %%%% %s (%s): showing %d of %d fields (PK + ExternalId + Required + FK)",
				entity.DisplayLabel(), name, len(selected), total))
		}
	}

	lines = append(lines, "")

	seen := make(map[edgePairKey]bool)
	var selfRefs []string
	for _, e := range edges {
		if e.SelfRef {
			label := labelFor(entities, e.Source)
			selfRefs = append(selfRefs, fmt.Sprintf(
				"    %%%% SELF-REF: %s.%s -> %s (hierarchical lookup)", label, e.Field, label))
			continue
		}
		key := pairKey(e)
		if seen[key] {
			continue
		}
		seen[key] = true
		symbol, ok := mermaidRelSymbol[e.Kind]
		if !ok {
			symbol = mermaidRelFallback
		}
		lines = append(lines, fmt.Sprintf("    %s %s %s : %q",
			safeID(e.Source), symbol, safeID(e.Target), e.Field))
	}

	if len(selfRefs) > 0 {
		lines = append(lines, "", "    %% -- Self-Referencing (Hierarchical) Objects --")
		lines = append(lines, selfRefs...)
	}

	if len(truncationNotes) > 0 {
		lines = append(lines, "", "    %% -- Field Truncation Summary --")
		lines = append(lines, truncationNotes...)
	}

	return strings.Join(lines, "\n")
}
