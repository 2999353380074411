package diagram

import (
	"fmt"
	"strings"

	"github.com/orglens/orglens/internal/schema"
)

// Hierarchy renders a level diagram for a self-referencing entity: maxLevels+1
// sequential level nodes and one edge per (self-referencing field, consecutive
// level pair). When the entity is missing or has no self-referencing
// relationship fields, a descriptive message is returned instead of a diagram.
func Hierarchy(entityName string, entities map[string]*schema.Entity, maxLevels int, format Format) string {
	entity, ok := entities[entityName]
	if !ok || entity == nil {
		return fmt.Sprintf("Object '%s' not found in the loaded snapshot.", entityName)
	}

	selfRefs := entity.SelfReferencingFields()
	if len(selfRefs) == 0 {
		return fmt.Sprintf(
			"Object '%s' has no self-referencing lookup fields. Use an ER diagram instead.",
			entityName)
	}

	label := entity.DisplayLabel()
	nameFields := displayFields(entity)

	if format == FormatPlantUML {
		return hierarchyPlantUML(label, selfRefs, maxLevels)
	}
	return hierarchyMermaid(entityName, label, selfRefs, nameFields, maxLevels)
}

// displayFields picks up to three fields worth showing on each level node:
// the conventional name-ish fields, then required scalar fields.
func displayFields(entity *schema.Entity) []string {
	var out []string
	for i := range entity.Fields {
		f := &entity.Fields[i]
		nameish := f.Name == "Name" || f.Name == "Subject" || f.Name == "Title"
		requiredScalar := f.Required && f.Name != "Id" && !f.Type.IsRelationship()
		if nameish || requiredScalar {
			out = append(out, f.Name)
			if len(out) == 3 {
				break
			}
		}
	}
	return out
}

func relKindLabel(t schema.FieldType) string {
	if t == schema.TypeMasterDetail {
		return "Master-Detail"
	}
	return "Lookup"
}

func hierarchyMermaid(entityName, label string, selfRefs []*schema.Field, nameFields []string, maxLevels int) string {
	fieldNames := make([]string, len(selfRefs))
	for i, f := range selfRefs {
		fieldNames[i] = f.Name
	}

	lines := []string{
		"flowchart TD",
		fmt.Sprintf("    %%%% Hierarchy diagram: %s (%s)", label, entityName),
		fmt.Sprintf("    %%%% Self-referencing fields: %s", strings.Join(fieldNames, ", ")),
		"",
	}

	for level := 0; level <= maxLevels; level++ {
		var levelLabel string
		switch level {
		case 0:
			levelLabel = label + `\n(Root / Top Level)`
		case maxLevels:
			levelLabel = fmt.Sprintf(`%s\n(Level %d - Leaf)`, label, level)
		default:
			levelLabel = fmt.Sprintf(`%s\n(Level %d)`, label, level)
		}
		if len(nameFields) > 0 {
			levelLabel += `\nFields: ` + strings.Join(nameFields, " | ")
		}
		lines = append(lines, fmt.Sprintf(`    L%d["%s"]`, level, levelLabel))
	}

	lines = append(lines, "")

	for _, f := range selfRefs {
		kind := relKindLabel(f.Type)
		for level := 0; level < maxLevels; level++ {
			lines = append(lines, fmt.Sprintf(`    L%d -->|"%s (%s)"| L%d`, level, f.Name, kind, level+1))
		}
	}

	lines = append(lines, "")
	lines = append(lines, "    style L0 fill:#1a73e8,color:#fff,stroke:#1557b0")
	lines = append(lines, fmt.Sprintf("    style L%d fill:#34a853,color:#fff,stroke:#1e7e34", maxLevels))
	for level := 1; level < maxLevels; level++ {
		lines = append(lines, fmt.Sprintf("    style L%d fill:#f8f9fa,stroke:#dadce0,color:#202124", level))
	}

	return strings.Join(lines, "\n")
}

func hierarchyPlantUML(label string, selfRefs []*schema.Field, maxLevels int) string {
	lines := []string{"@startuml"}

	for level := 0; level <= maxLevels; level++ {
		var levelLabel string
		switch level {
		case 0:
			levelLabel = label + " (Root)"
		case maxLevels:
			levelLabel = fmt.Sprintf("%s (Level %d - Leaf)", label, level)
		default:
			levelLabel = fmt.Sprintf("%s (Level %d)", label, level)
		}
		lines = append(lines, fmt.Sprintf("rectangle %q as L%d", levelLabel, level))
	}

	lines = append(lines, "")

	for _, f := range selfRefs {
		kind := relKindLabel(f.Type)
		for level := 0; level < maxLevels; level++ {
			lines = append(lines, fmt.Sprintf("L%d --> L%d : %s (%s)", level, level+1, f.Name, kind))
		}
	}

	for _, f := range selfRefs {
		lines = append(lines, fmt.Sprintf(
			`note "%s.%s is a self-referencing %s" as N_%s`, label, f.Name, f.Type, f.Name))
	}

	lines = append(lines, "", "@enduml")
	return strings.Join(lines, "\n")
}
