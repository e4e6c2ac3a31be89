package models

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const DateLayout = "2006-01-02"

// Date is a calendar date without time of day, serialized as YYYY-MM-DD.
type Date struct {
	time.Time
}

func NewDate(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Time: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return Date{Time: t}, nil
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*d = Date{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d *Date) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*d = Date{}
	case time.Time:
		*d = NewDate(v)
	case []byte:
		parsed, err := ParseDate(string(v[:min(len(v), len(DateLayout))]))
		if err != nil {
			return err
		}
		*d = parsed
	case string:
		parsed, err := ParseDate(v[:min(len(v), len(DateLayout))])
		if err != nil {
			return err
		}
		*d = parsed
	default:
		return fmt.Errorf("cannot scan %T into Date", src)
	}
	return nil
}

func (d Date) Value() (driver.Value, error) {
	if d.IsZero() {
		return nil, nil
	}
	return d.String(), nil
}

// OptionalID is a tri-state foreign key patch: absent keeps the stored
// value, null / "" / "none" clears it, a UUID sets it.
type OptionalID struct {
	Set bool
	ID  uuid.NullUUID
}

// ClearSentinel is the string form a client may send to unlink a parent.
const ClearSentinel = "none"

func SetID(id uuid.UUID) OptionalID {
	return OptionalID{Set: true, ID: uuid.NullUUID{UUID: id, Valid: true}}
}

func ClearID() OptionalID {
	return OptionalID{Set: true}
}

func ParseOptionalID(s string) (OptionalID, error) {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "", "null", ClearSentinel:
		return ClearID(), nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return OptionalID{}, fmt.Errorf("invalid id %q", s)
	}
	return SetID(id), nil
}

func (o *OptionalID) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*o = ClearID()
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseOptionalID(s)
	if err != nil {
		return err
	}
	*o = parsed
	return nil
}

func (o OptionalID) MarshalJSON() ([]byte, error) {
	if !o.ID.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(o.ID.UUID.String())
}

// Changes reports whether applying o to current would change it.
func (o OptionalID) Changes(current uuid.NullUUID) bool {
	if !o.Set {
		return false
	}
	return o.ID != current
}

// Apply returns the value stored after patching current with o.
func (o OptionalID) Apply(current uuid.NullUUID) uuid.NullUUID {
	if !o.Set {
		return current
	}
	return o.ID
}

// Coalesce returns patch when it is present and non-empty, else current.
func Coalesce(current string, patch *string) string {
	if patch == nil || strings.TrimSpace(*patch) == "" {
		return current
	}
	return *patch
}

// StringPtr is a small helper for building patches.
func StringPtr(s string) *string {
	return &s
}
