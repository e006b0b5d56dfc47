package dbtypes

import (
	"database/sql/driver"
	"fmt"
)

// JSONRaw stores pre-marshaled JSON in a jsonb column without reshaping it.
// A nil value round-trips as SQL NULL.
type JSONRaw []byte

func (j *JSONRaw) Scan(src any) error {
	if src == nil {
		*j = nil
		return nil
	}

	switch v := src.(type) {
	case []byte:
		buf := make([]byte, len(v))
		copy(buf, v)
		*j = buf
		return nil
	case string:
		*j = JSONRaw(v)
		return nil
	default:
		return fmt.Errorf("JSONRaw: unsupported Scan type %T", src)
	}
}

func (j JSONRaw) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return string(j), nil
}

// GormDataType tells GORM which column type to use when auto-migrating.
func (JSONRaw) GormDataType() string {
	return "jsonb"
}
