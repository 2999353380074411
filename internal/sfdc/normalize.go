package sfdc

import (
	"strings"

	"github.com/orglens/orglens/internal/schema"
)

// Describe is the subset of a Salesforce object describe document this
// tool reads.
type Describe struct {
	Name               string             `json:"name"`
	Label              string             `json:"label"`
	LabelPlural        string             `json:"labelPlural"`
	Custom             bool               `json:"custom"`
	Fields             []DescribeField    `json:"fields"`
	ChildRelationships []DescribeChildRel `json:"childRelationships"`
}

// DescribeField is one raw field definition.
type DescribeField struct {
	Name              string          `json:"name"`
	Label             string          `json:"label"`
	Type              string          `json:"type"`
	Nillable          bool            `json:"nillable"`
	DefaultedOnCreate bool            `json:"defaultedOnCreate"`
	ExternalID        bool            `json:"externalId"`
	ReferenceTo       []string        `json:"referenceTo"`
	PicklistValues    []PicklistValue `json:"picklistValues"`
}

// PicklistValue is one raw picklist entry.
type PicklistValue struct {
	Value  string `json:"value"`
	Active bool   `json:"active"`
}

// DescribeChildRel is one raw child relationship.
type DescribeChildRel struct {
	ChildSObject     string `json:"childSObject"`
	Field            string `json:"field"`
	RelationshipName string `json:"relationshipName"`
}

// Normalize converts a describe document into the snapshot entity model.
// Types are lowercased, a field is required when it is neither nillable nor
// defaulted on create, only active picklist values are kept, and child
// relationships without both a child object and a field are dropped.
func Normalize(d *Describe) *schema.Entity {
	entity := &schema.Entity{
		Name:        d.Name,
		Label:       d.Label,
		LabelPlural: d.LabelPlural,
		Custom:      d.Custom,
		Fields:      make([]schema.Field, 0, len(d.Fields)),
	}
	if entity.Label == "" {
		entity.Label = d.Name
	}

	for _, raw := range d.Fields {
		field := schema.Field{
			Name:       raw.Name,
			Label:      raw.Label,
			Type:       schema.FieldType(strings.ToLower(raw.Type)),
			Required:   !raw.Nillable && !raw.DefaultedOnCreate,
			ExternalID: raw.ExternalID,
		}
		if field.Label == "" {
			field.Label = raw.Name
		}
		if len(raw.ReferenceTo) > 0 {
			field.ReferenceTo = append([]string(nil), raw.ReferenceTo...)
		}
		for _, pv := range raw.PicklistValues {
			if pv.Active {
				field.PicklistValues = append(field.PicklistValues, pv.Value)
			}
		}
		entity.Fields = append(entity.Fields, field)
	}

	for _, rel := range d.ChildRelationships {
		if rel.ChildSObject == "" || rel.Field == "" {
			continue
		}
		entity.ChildRelationships = append(entity.ChildRelationships, schema.ChildRelationship{
			ChildSObject:     rel.ChildSObject,
			Field:            rel.Field,
			RelationshipName: rel.RelationshipName,
		})
	}

	return entity
}
