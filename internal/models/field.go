package models

import (
	"cmp"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Field names an incident attribute usable for sorting and aggregation.
type Field string

const (
	FieldID              Field = "id"
	FieldDataset         Field = "dataset"
	FieldCaseNumber      Field = "firNumber"
	FieldType            Field = "type"
	FieldComplainantName Field = "complainant.name"
	FieldComplainantAge  Field = "complainant.age"
	FieldAccusedName     Field = "accused.name"
	FieldStatus          Field = "status"
	FieldPriority        Field = "priority"
	FieldDate            Field = "date"
	FieldArea            Field = "location.area"
	FieldOfficer         Field = "officer"
	FieldTimestamp       Field = "timestamp"
)

// Fields lists every supported field in a stable order.
var Fields = []Field{
	FieldID, FieldDataset, FieldCaseNumber, FieldType, FieldComplainantName, FieldComplainantAge,
	FieldAccusedName, FieldStatus, FieldPriority, FieldDate, FieldArea, FieldOfficer, FieldTimestamp,
}

// ParseField resolves a field name. Unknown names return ErrUnknownField.
func ParseField(name string) (Field, error) {
	f := Field(strings.TrimSpace(name))
	if !f.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	return f, nil
}

// IsValid reports whether f is a supported field.
func (f Field) IsValid() bool {
	for _, known := range Fields {
		if f == known {
			return true
		}
	}
	return false
}

// FieldValue is the value of a field on one incident. Numeric values order numerically,
// others order by their string form.
type FieldValue struct {
	key     string
	num     float64
	numeric bool
}

// Key is the display and grouping form of the value.
func (v FieldValue) Key() string { return v.key }

// Compare orders two values of the same field.
func (v FieldValue) Compare(o FieldValue) int {
	if v.numeric && o.numeric {
		return cmp.Compare(v.num, o.num)
	}
	return strings.Compare(v.key, o.key)
}

func stringValue(s string) FieldValue { return FieldValue{key: s} }

func numericValue(key string, n float64) FieldValue {
	return FieldValue{key: key, num: n, numeric: true}
}

// Value extracts f from inc. Priority orders by severity and timestamps chronologically.
func (f Field) Value(inc *Incident) FieldValue {
	switch f {
	case FieldID:
		return stringValue(inc.ID)
	case FieldDataset:
		return stringValue(inc.Dataset)
	case FieldCaseNumber:
		return stringValue(inc.CaseNumber)
	case FieldType:
		return stringValue(inc.Type)
	case FieldComplainantName:
		return stringValue(inc.Complainant.Name)
	case FieldComplainantAge:
		return numericValue(strconv.Itoa(inc.Complainant.Age), float64(inc.Complainant.Age))
	case FieldAccusedName:
		return stringValue(inc.Accused.Name)
	case FieldStatus:
		return stringValue(string(inc.Status))
	case FieldPriority:
		return numericValue(string(inc.Priority), float64(inc.Priority.rank()))
	case FieldDate:
		return stringValue(inc.Date.String())
	case FieldArea:
		return stringValue(inc.Location.Area)
	case FieldOfficer:
		return stringValue(inc.Officer)
	case FieldTimestamp:
		return numericValue(inc.Timestamp.UTC().Format(time.RFC3339), float64(inc.Timestamp.UnixNano()))
	}
	return FieldValue{}
}
