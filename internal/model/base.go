package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Base contains common fields for all models
type Base struct {
	ID        uuid.UUID `json:"id" db:"id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// Pagination represents common pagination parameters
type Pagination struct {
	Page  int `json:"page" form:"page"`
	Limit int `json:"limit" form:"limit"`
}

// UUIDArray maps a Postgres uuid[] column onto a uuid slice
type UUIDArray []uuid.UUID

func (a UUIDArray) Value() (driver.Value, error) {
	strs := make(pq.StringArray, len(a))
	for i, id := range a {
		strs[i] = id.String()
	}
	return strs.Value()
}

func (a *UUIDArray) Scan(src interface{}) error {
	var strs pq.StringArray
	if err := strs.Scan(src); err != nil {
		return err
	}
	out := make(UUIDArray, len(strs))
	for i, s := range strs {
		id, err := uuid.Parse(s)
		if err != nil {
			return fmt.Errorf("invalid uuid in array: %w", err)
		}
		out[i] = id
	}
	*a = out
	return nil
}

// JSONList maps a Postgres jsonb array of objects onto a slice of maps
type JSONList []map[string]interface{}

func (l JSONList) Value() (driver.Value, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(l)
}

func (l *JSONList) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*l = nil
		return nil
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("unsupported jsonb source type %T", src)
	}
}
