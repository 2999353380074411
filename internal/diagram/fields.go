package diagram

import "github.com/orglens/orglens/internal/schema"

// Field types that never earn a slot in the fill tier; they render poorly
// and carry no relational meaning.
func isNoiseType(t schema.FieldType) bool {
	switch t {
	case schema.TypeCalculated, schema.TypeEncryptedString, schema.TypeBase64, schema.TypeAddress:
		return true
	}
	return false
}

// SelectFields chooses which fields to render inside an entity block.
//
// Priority order:
//  1. Id (primary key)
//  2. External Id fields
//  3. Relationship fields (lookup, master-detail)
//  4. Required fields other than Id
//  5. Fill to maxFields with the remainder when filter is "all"
//
// Small entities short-circuit: when the filter is not "relationships" and
// the field count fits the budget, the per-filter fields are returned
// directly in declaration order. Returns the selection, whether anything was
// left out, and the total field count.
func SelectFields(entity *schema.Entity, filter FieldFilter, maxFields int) ([]*schema.Field, bool, int) {
	total := len(entity.Fields)

	if filter != FilterRelationships && total <= maxFields {
		switch filter {
		case FilterAll:
			all := make([]*schema.Field, total)
			for i := range entity.Fields {
				all[i] = &entity.Fields[i]
			}
			return all, false, total
		case FilterRequired:
			var chosen []*schema.Field
			for i := range entity.Fields {
				f := &entity.Fields[i]
				if f.Required || f.Type.IsRelationship() || f.Name == "Id" {
					chosen = append(chosen, f)
				}
			}
			return chosen, false, total
		}
	}

	seen := make(map[string]bool)
	var selected []*schema.Field
	add := func(f *schema.Field) {
		if !seen[f.Name] {
			seen[f.Name] = true
			selected = append(selected, f)
		}
	}

	// Tier 1: primary key.
	for i := range entity.Fields {
		if entity.Fields[i].Name == "Id" {
			add(&entity.Fields[i])
		}
	}

	// Tier 2: external identifiers.
	for i := range entity.Fields {
		if entity.Fields[i].ExternalID {
			add(&entity.Fields[i])
		}
	}

	// Tier 3: relationship fields with targets.
	for i := range entity.Fields {
		if entity.Fields[i].IsRelationship() {
			add(&entity.Fields[i])
		}
	}

	// Tier 4: required fields.
	for i := range entity.Fields {
		f := &entity.Fields[i]
		if f.Required && f.Name != "Id" {
			add(f)
		}
	}

	// Tier 5: fill the remaining budget.
	if len(selected) < maxFields && filter == FilterAll {
		for i := range entity.Fields {
			if len(selected) >= maxFields {
				break
			}
			if isNoiseType(entity.Fields[i].Type) {
				continue
			}
			add(&entity.Fields[i])
		}
	}

	truncated := total > len(selected)
	return selected, truncated, total
}
