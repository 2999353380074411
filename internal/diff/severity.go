package diff

import (
	"strings"

	"github.com/orglens/orglens/internal/schema"
)

func typeSet(types ...schema.FieldType) map[schema.FieldType]bool {
	s := make(map[schema.FieldType]bool, len(types))
	for _, t := range types {
		s[t] = true
	}
	return s
}

// breakingTypeChanges maps an old field type to the set of new types that
// break existing consumers. The table is asymmetric and deliberately
// literal; a future config-driven classifier can replace it behind Classify
// without changing the contract.
var breakingTypeChanges = map[schema.FieldType]map[schema.FieldType]bool{
	schema.TypeString:        typeSet(schema.TypeBoolean, schema.TypeDouble, schema.TypeInt, schema.TypeDate, schema.TypeDatetime),
	schema.TypeTextarea:      typeSet(schema.TypeBoolean, schema.TypeDouble, schema.TypeInt, schema.TypeDate, schema.TypeDatetime, schema.TypeString),
	schema.TypeDouble:        typeSet(schema.TypeBoolean, schema.TypeString, schema.TypeDate, schema.TypeDatetime),
	schema.TypeInt:           typeSet(schema.TypeBoolean, schema.TypeString, schema.TypeDate, schema.TypeDatetime),
	schema.TypeCurrency:      typeSet(schema.TypeBoolean, schema.TypeString, schema.TypeDate, schema.TypeDatetime),
	schema.TypePercent:       typeSet(schema.TypeBoolean, schema.TypeString, schema.TypeDate, schema.TypeDatetime),
	schema.TypeDate:          typeSet(schema.TypeBoolean, schema.TypeString, schema.TypeDouble, schema.TypeInt),
	schema.TypeDatetime:      typeSet(schema.TypeBoolean, schema.TypeString, schema.TypeDouble, schema.TypeInt),
	schema.TypeBoolean:       typeSet(schema.TypeString, schema.TypeDouble, schema.TypeInt, schema.TypeDate, schema.TypeDatetime),
	schema.TypeReference:     typeSet(schema.TypeString, schema.TypeBoolean, schema.TypeDouble, schema.TypeInt),
	schema.TypeMasterDetail:  typeSet(schema.TypeString, schema.TypeBoolean, schema.TypeDouble, schema.TypeInt),
	schema.TypePicklist:      typeSet(schema.TypeBoolean, schema.TypeDouble, schema.TypeInt, schema.TypeDate, schema.TypeDatetime),
	schema.TypeMultipicklist: typeSet(schema.TypeBoolean, schema.TypeDouble, schema.TypeInt, schema.TypeDate, schema.TypeDatetime, schema.TypeString),
}

// Classify applies the severity rules to one change:
//
//	BREAKING:     field removed, incompatible type change, or a field
//	              tightened from optional to required.
//	NON_BREAKING: field added, compatible type change, target-list change,
//	              required loosened.
//	INFO:         anything unclassified.
func Classify(change ChangeType, oldValue, newValue interface{}) Severity {
	switch change {
	case ChangeRemoved:
		return SeverityBreaking

	case ChangeTypeChanged:
		oldT := fieldTypeOf(oldValue)
		newT := fieldTypeOf(newValue)
		if breakingTypeChanges[oldT][newT] {
			return SeverityBreaking
		}
		return SeverityNonBreaking

	case ChangeRequiredChanged:
		oldReq, _ := oldValue.(bool)
		newReq, _ := newValue.(bool)
		if newReq && !oldReq {
			return SeverityBreaking
		}
		return SeverityNonBreaking

	case ChangeRefChanged, ChangeAdded:
		return SeverityNonBreaking
	}

	return SeverityInfo
}

func fieldTypeOf(v interface{}) schema.FieldType {
	s, _ := v.(string)
	return schema.FieldType(strings.ToLower(s))
}
