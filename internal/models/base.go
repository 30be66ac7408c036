// internal/models/base.go
package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// JSONValue marshals v for storage in a JSON/text column.
func JSONValue(v interface{}) (driver.Value, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// ScanJSON unmarshals a JSON column into dst. Postgres hands back []byte,
// sqlite may hand back a string.
func ScanJSON(src interface{}, dst interface{}, name string) error {
	var b []byte
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return fmt.Errorf("%s: expected []byte or string, got %T", name, src)
	}
	if len(b) == 0 {
		return nil
	}
	return json.Unmarshal(b, dst)
}
