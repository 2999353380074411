// Package diff computes deterministic structural diffs between two schema
// snapshots: added/removed entities, field-level changes, and rule-based
// severity classification of each change.
package diff

// ChangeType categorizes a field-level change.
type ChangeType string

const (
	ChangeAdded           ChangeType = "ADDED"
	ChangeRemoved         ChangeType = "REMOVED"
	ChangeTypeChanged     ChangeType = "TYPE_CHANGED"
	ChangeRefChanged      ChangeType = "REF_CHANGED"
	ChangeRequiredChanged ChangeType = "REQUIRED_CHANGED"
)

// Severity is the rule-based impact classification of a change.
type Severity string

const (
	SeverityBreaking    Severity = "BREAKING"
	SeverityNonBreaking Severity = "NON_BREAKING"
	SeverityInfo        Severity = "INFO"
)

// FieldChange is a single field-level change between two snapshot versions.
// Old and new values depend on the change type: type names for ADDED,
// REMOVED and TYPE_CHANGED, sorted target lists for REF_CHANGED, booleans
// for REQUIRED_CHANGED. Immutable once constructed.
type FieldChange struct {
	ObjectName string      `json:"object_name"`
	FieldName  string      `json:"field_name"`
	ChangeType ChangeType  `json:"change_type"`
	OldValue   interface{} `json:"old_value"`
	NewValue   interface{} `json:"new_value"`
	Severity   Severity    `json:"severity"`
}

// ObjectDiff aggregates the changes for a single modified entity, bucketed
// by change type.
type ObjectDiff struct {
	ObjectName          string        `json:"object_name"`
	AddedFields         []FieldChange `json:"added_fields"`
	RemovedFields       []FieldChange `json:"removed_fields"`
	TypeChanges         []FieldChange `json:"type_changes"`
	RelationshipChanges []FieldChange `json:"relationship_changes"`
	OtherChanges        []FieldChange `json:"other_changes"`
}

func newObjectDiff(name string) *ObjectDiff {
	return &ObjectDiff{
		ObjectName:          name,
		AddedFields:         []FieldChange{},
		RemovedFields:       []FieldChange{},
		TypeChanges:         []FieldChange{},
		RelationshipChanges: []FieldChange{},
		OtherChanges:        []FieldChange{},
	}
}

// AllChanges returns every change for the entity, concatenated in bucket
// order: added, removed, type, relationship, other.
func (d *ObjectDiff) AllChanges() []FieldChange {
	out := make([]FieldChange, 0,
		len(d.AddedFields)+len(d.RemovedFields)+len(d.TypeChanges)+
			len(d.RelationshipChanges)+len(d.OtherChanges))
	out = append(out, d.AddedFields...)
	out = append(out, d.RemovedFields...)
	out = append(out, d.TypeChanges...)
	out = append(out, d.RelationshipChanges...)
	out = append(out, d.OtherChanges...)
	return out
}

// Result is the full diff between two snapshots: object-level lists, the
// per-entity diffs, flat per-kind indexes by entity name, summary counts,
// and every breaking change across all entities in name-sorted entity order.
// Ephemeral and recomputed per comparison, never persisted.
type Result struct {
	AddedObjects        []string                 `json:"added_objects"`
	RemovedObjects      []string                 `json:"removed_objects"`
	ModifiedObjects     map[string]*ObjectDiff   `json:"modified_objects"`
	AddedFields         map[string][]FieldChange `json:"added_fields"`
	RemovedFields       map[string][]FieldChange `json:"removed_fields"`
	TypeChanges         map[string][]FieldChange `json:"type_changes"`
	RelationshipChanges map[string][]FieldChange `json:"relationship_changes"`
	Summary             map[string]int           `json:"summary"`
	BreakingCandidates  []FieldChange            `json:"breaking_candidates"`
}

// HasBreakingChanges reports whether any change was classified BREAKING.
func (r *Result) HasBreakingChanges() bool {
	return len(r.BreakingCandidates) > 0
}

// Empty reports whether the two snapshots were structurally identical.
func (r *Result) Empty() bool {
	return len(r.AddedObjects) == 0 && len(r.RemovedObjects) == 0 && len(r.ModifiedObjects) == 0
}
