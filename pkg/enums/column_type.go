package enums

import "fmt"

// ColumnType enumerates the value types a dynamic product column may carry.
type ColumnType string

const (
	ColumnTypeText    ColumnType = "text"
	ColumnTypeNumber  ColumnType = "number"
	ColumnTypeBoolean ColumnType = "boolean"
	ColumnTypeArray   ColumnType = "array"
	ColumnTypeJSON    ColumnType = "json"
	ColumnTypeDate    ColumnType = "date"
	ColumnTypeURL     ColumnType = "url"
)

var validColumnTypes = []ColumnType{
	ColumnTypeText,
	ColumnTypeNumber,
	ColumnTypeBoolean,
	ColumnTypeArray,
	ColumnTypeJSON,
	ColumnTypeDate,
	ColumnTypeURL,
}

// String implements fmt.Stringer.
func (c ColumnType) String() string {
	return string(c)
}

// IsValid reports whether the value is a known ColumnType.
func (c ColumnType) IsValid() bool {
	for _, candidate := range validColumnTypes {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseColumnType converts raw input into a ColumnType.
func ParseColumnType(value string) (ColumnType, error) {
	for _, candidate := range validColumnTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid column type %q", value)
}
