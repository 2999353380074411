// Package schema defines the normalized Salesforce object model: entities,
// their fields, and the relationships between them. Entities are produced by
// normalization from raw describe payloads and are immutable once loaded into
// a snapshot.
package schema

// FieldType is the semantic type of a field, lowercased from the describe
// payload ("reference" and "masterdetail" denote relationship fields).
type FieldType string

// Field type vocabulary.
const (
	TypeID              FieldType = "id"
	TypeString          FieldType = "string"
	TypeTextarea        FieldType = "textarea"
	TypeDouble          FieldType = "double"
	TypeInt             FieldType = "int"
	TypeBoolean         FieldType = "boolean"
	TypeDate            FieldType = "date"
	TypeDatetime        FieldType = "datetime"
	TypeReference       FieldType = "reference"
	TypeMasterDetail    FieldType = "masterdetail"
	TypePicklist        FieldType = "picklist"
	TypeMultipicklist   FieldType = "multipicklist"
	TypeCurrency        FieldType = "currency"
	TypePercent         FieldType = "percent"
	TypeCalculated      FieldType = "calculated"
	TypeEncryptedString FieldType = "encryptedstring"
	TypeBase64          FieldType = "base64"
	TypeAddress         FieldType = "address"
)

// IsRelationship reports whether the type denotes a relationship field.
func (t FieldType) IsRelationship() bool {
	return t == TypeReference || t == TypeMasterDetail
}

// Field is one attribute of an Entity. ReferenceTo is non-empty only for
// reference/masterdetail types; each target name denotes an outbound
// relationship edge.
type Field struct {
	Name           string    `json:"name"`
	Label          string    `json:"label"`
	Type           FieldType `json:"type"`
	Required       bool      `json:"required"`
	ExternalID     bool      `json:"external_id"`
	ReferenceTo    []string  `json:"reference_to,omitempty"`
	PicklistValues []string  `json:"picklist_values,omitempty"`
}

// IsRelationship reports whether the field is a relationship field with at
// least one target.
func (f *Field) IsRelationship() bool {
	return f.Type.IsRelationship() && len(f.ReferenceTo) > 0
}

// RefersTo reports whether name appears in the field's target list.
func (f *Field) RefersTo(name string) bool {
	for _, ref := range f.ReferenceTo {
		if ref == name {
			return true
		}
	}
	return false
}

// ChildRelationship is an inbound relationship declared on the parent side:
// a child entity whose named field points back at this entity. The
// relationship name may be empty.
type ChildRelationship struct {
	ChildSObject     string `json:"child_sobject"`
	Field            string `json:"field"`
	RelationshipName string `json:"relationship_name"`
}

// Entity is one object definition: its fields in describe order and the
// child relationships discoverable only from the parent side.
type Entity struct {
	Name               string              `json:"name"`
	Label              string              `json:"label"`
	LabelPlural        string              `json:"label_plural"`
	Custom             bool                `json:"custom"`
	Fields             []Field             `json:"fields"`
	ChildRelationships []ChildRelationship `json:"child_relationships"`
}

// Field returns the field with the given name, or nil.
func (e *Entity) Field(name string) *Field {
	for i := range e.Fields {
		if e.Fields[i].Name == name {
			return &e.Fields[i]
		}
	}
	return nil
}

// HasField reports whether a field with the given name exists.
func (e *Entity) HasField(name string) bool {
	return e.Field(name) != nil
}

// RelationshipFields returns the fields that carry outbound relationship
// edges, in declaration order.
func (e *Entity) RelationshipFields() []*Field {
	var out []*Field
	for i := range e.Fields {
		if e.Fields[i].IsRelationship() {
			out = append(out, &e.Fields[i])
		}
	}
	return out
}

// SelfReferencingFields returns the relationship fields that point back at
// the entity itself (hierarchical lookups).
func (e *Entity) SelfReferencingFields() []*Field {
	var out []*Field
	for i := range e.Fields {
		f := &e.Fields[i]
		if f.Type.IsRelationship() && f.RefersTo(e.Name) {
			out = append(out, f)
		}
	}
	return out
}

// DisplayLabel returns the label, falling back to the API name.
func (e *Entity) DisplayLabel() string {
	if e.Label != "" {
		return e.Label
	}
	return e.Name
}
