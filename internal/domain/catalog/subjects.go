package catalog

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
)

// Subjects is a course's subject list, stored as JSONB.
type Subjects []string

// Value implements driver.Valuer for JSONB storage
func (s Subjects) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	return json.Marshal(s)
}

// Scan implements sql.Scanner for JSONB retrieval
func (s *Subjects) Scan(value interface{}) error {
	if value == nil {
		*s = Subjects{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to scan Subjects: unsupported type")
	}

	if len(bytes) == 0 {
		*s = Subjects{}
		return nil
	}

	return json.Unmarshal(bytes, s)
}

// Contains reports whether the subject list includes the given name.
func (s Subjects) Contains(name string) bool {
	for _, sub := range s {
		if sub == name {
			return true
		}
	}
	return false
}
