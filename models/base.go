package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strconv"
)

// BoolFromInt - custom type для bool значений, которые в БД хранятся как 0/1,
// а в JSON (например, в старых бэкапах) могут прийти числом или строкой.
type BoolFromInt bool

// UnmarshalJSON реализует custom unmarshaling для BoolFromInt
func (b *BoolFromInt) UnmarshalJSON(data []byte) error {
	var value interface{}
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}

	switch v := value.(type) {
	case bool:
		*b = BoolFromInt(v)
	case float64:
		*b = BoolFromInt(v != 0)
	case string:
		*b = BoolFromInt(v == "true" || v == "1")
	default:
		*b = false
	}

	return nil
}

// MarshalJSON реализует custom marshaling для BoolFromInt
func (b BoolFromInt) MarshalJSON() ([]byte, error) {
	return json.Marshal(bool(b))
}

// Scan реализует sql.Scanner: SQLite отдает INTEGER 0/1.
func (b *BoolFromInt) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*b = false
	case int64:
		*b = v != 0
	case bool:
		*b = BoolFromInt(v)
	case []byte:
		return b.scanString(string(v))
	case string:
		return b.scanString(v)
	default:
		return fmt.Errorf("BoolFromInt: неподдерживаемый тип %T", src)
	}
	return nil
}

func (b *BoolFromInt) scanString(s string) error {
	parsed, err := strconv.ParseBool(s)
	if err != nil {
		return fmt.Errorf("BoolFromInt: не удалось разобрать %q: %w", s, err)
	}
	*b = BoolFromInt(parsed)
	return nil
}

// Value реализует driver.Valuer, в БД пишем 0 или 1.
func (b BoolFromInt) Value() (driver.Value, error) {
	if b {
		return int64(1), nil
	}
	return int64(0), nil
}
