package diff

import (
	"sort"

	"github.com/orglens/orglens/internal/schema"
)

// Compare computes the structural diff between two snapshots. Empty or fully
// disjoint snapshots degrade to empty result sets; entities present in both
// are compared field by field in name-sorted order.
func Compare(oldSnap, newSnap schema.Snapshot) *Result {
	oldNames := oldSnap.Names()
	newNames := newSnap.Names()

	result := &Result{
		AddedObjects:        setDifference(newNames, oldNames),
		RemovedObjects:      setDifference(oldNames, newNames),
		ModifiedObjects:     map[string]*ObjectDiff{},
		AddedFields:         map[string][]FieldChange{},
		RemovedFields:       map[string][]FieldChange{},
		TypeChanges:         map[string][]FieldChange{},
		RelationshipChanges: map[string][]FieldChange{},
		BreakingCandidates:  []FieldChange{},
	}

	for _, name := range setIntersection(oldNames, newNames) {
		changes := diffFields(name, oldSnap[name].Fields, newSnap[name].Fields)
		if len(changes) == 0 {
			continue
		}

		objDiff := newObjectDiff(name)
		for _, c := range changes {
			switch c.ChangeType {
			case ChangeAdded:
				objDiff.AddedFields = append(objDiff.AddedFields, c)
				result.AddedFields[name] = append(result.AddedFields[name], c)
			case ChangeRemoved:
				objDiff.RemovedFields = append(objDiff.RemovedFields, c)
				result.RemovedFields[name] = append(result.RemovedFields[name], c)
			case ChangeTypeChanged:
				objDiff.TypeChanges = append(objDiff.TypeChanges, c)
				result.TypeChanges[name] = append(result.TypeChanges[name], c)
			case ChangeRefChanged:
				objDiff.RelationshipChanges = append(objDiff.RelationshipChanges, c)
				result.RelationshipChanges[name] = append(result.RelationshipChanges[name], c)
			default:
				objDiff.OtherChanges = append(objDiff.OtherChanges, c)
			}

			if c.Severity == SeverityBreaking {
				result.BreakingCandidates = append(result.BreakingCandidates, c)
			}
		}
		result.ModifiedObjects[name] = objDiff
	}

	result.Summary = summarize(result)
	return result
}

// diffFields compares two field lists keyed by name. A field present in both
// versions is checked independently for type, target-list, and required-flag
// changes and may produce several records in one pass.
func diffFields(objectName string, oldFields, newFields []schema.Field) []FieldChange {
	oldByName := fieldsByName(oldFields)
	newByName := fieldsByName(newFields)

	oldKeys := sortedKeys(oldByName)
	newKeys := sortedKeys(newByName)

	var changes []FieldChange

	for _, name := range setDifference(oldKeys, newKeys) {
		old := oldByName[name]
		changes = append(changes, fieldChange(objectName, name, ChangeRemoved, string(old.Type), nil))
	}

	for _, name := range setDifference(newKeys, oldKeys) {
		added := newByName[name]
		changes = append(changes, fieldChange(objectName, name, ChangeAdded, nil, string(added.Type)))
	}

	for _, name := range setIntersection(oldKeys, newKeys) {
		old, updated := oldByName[name], newByName[name]

		if old.Type != updated.Type {
			changes = append(changes, fieldChange(objectName, name, ChangeTypeChanged, string(old.Type), string(updated.Type)))
		}

		oldRefs := sortedCopy(old.ReferenceTo)
		newRefs := sortedCopy(updated.ReferenceTo)
		if !stringSlicesEqual(oldRefs, newRefs) {
			changes = append(changes, fieldChange(objectName, name, ChangeRefChanged, oldRefs, newRefs))
		}

		if old.Required != updated.Required {
			changes = append(changes, fieldChange(objectName, name, ChangeRequiredChanged, old.Required, updated.Required))
		}
	}

	return changes
}

func fieldChange(objectName, fieldName string, change ChangeType, oldValue, newValue interface{}) FieldChange {
	return FieldChange{
		ObjectName: objectName,
		FieldName:  fieldName,
		ChangeType: change,
		OldValue:   oldValue,
		NewValue:   newValue,
		Severity:   Classify(change, oldValue, newValue),
	}
}

func summarize(r *Result) map[string]int {
	totalChanges := 0
	for _, od := range r.ModifiedObjects {
		totalChanges += len(od.AllChanges())
	}
	return map[string]int{
		"objects_added":        len(r.AddedObjects),
		"objects_removed":      len(r.RemovedObjects),
		"objects_modified":     len(r.ModifiedObjects),
		"total_field_changes":  totalChanges,
		"breaking_candidates":  len(r.BreakingCandidates),
		"fields_added":         countChanges(r.AddedFields),
		"fields_removed":       countChanges(r.RemovedFields),
		"type_changes":         countChanges(r.TypeChanges),
		"relationship_changes": countChanges(r.RelationshipChanges),
	}
}

func countChanges(byObject map[string][]FieldChange) int {
	total := 0
	for _, changes := range byObject {
		total += len(changes)
	}
	return total
}

func fieldsByName(fields []schema.Field) map[string]*schema.Field {
	byName := make(map[string]*schema.Field, len(fields))
	for i := range fields {
		byName[fields[i].Name] = &fields[i]
	}
	return byName
}

func sortedKeys(byName map[string]*schema.Field) []string {
	keys := make([]string, 0, len(byName))
	for name := range byName {
		keys = append(keys, name)
	}
	sort.Strings(keys)
	return keys
}

func sortedCopy(list []string) []string {
	out := make([]string, len(list))
	copy(out, list)
	sort.Strings(out)
	return out
}

func stringSlicesEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func setDifference(a, b []string) []string {
	mb := make(map[string]bool)
	for _, x := range b {
		mb[x] = true
	}

	diff := []string{}
	for _, x := range a {
		if !mb[x] {
			diff = append(diff, x)
		}
	}
	return diff
}

func setIntersection(a, b []string) []string {
	mb := make(map[string]bool)
	for _, x := range b {
		mb[x] = true
	}

	var inter []string
	for _, x := range a {
		if mb[x] {
			inter = append(inter, x)
		}
	}
	return inter
}
