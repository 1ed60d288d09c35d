package repository

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// jsonColumn maps a Go value onto a JSONB column.
type jsonColumn[T any] struct {
	v *T
}

func asJSON[T any](v *T) jsonColumn[T] { return jsonColumn[T]{v: v} }

func (j jsonColumn[T]) Value() (driver.Value, error) {
	b, err := json.Marshal(j.v)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (j jsonColumn[T]) Scan(src interface{}) error {
	var raw []byte
	switch s := src.(type) {
	case nil:
		return nil
	case []byte:
		raw = s
	case string:
		raw = []byte(s)
	default:
		return fmt.Errorf("unsupported json column source %T", src)
	}
	return json.Unmarshal(raw, j.v)
}

// stringList stores a non-nil slice so the column never holds JSON null.
func stringList(v *[]string) jsonColumn[[]string] {
	if *v == nil {
		*v = []string{}
	}
	return asJSON(v)
}
