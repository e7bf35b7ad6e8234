package siswa

import (
	"fmt"
	"sort"
	"strings"
)

// Field names used in validation reports. They match the JSON document keys.
const (
	FieldName    = "nama"
	FieldAddress = "alamat"
	FieldPhone   = "telpon"
)

const maxPhoneLen = 20

// ValidationError reports every field that failed local validation.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	if e == nil || len(e.Fields) == 0 {
		return "invalid record"
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "invalid record: " + strings.Join(parts, "; ")
}

// Field returns the message for name, or "" when the field is valid.
func (e *ValidationError) Field(name string) string {
	if e == nil {
		return ""
	}
	return e.Fields[name]
}

// Validate checks the trimmed fields of r. The ID is not validated.
func Validate(r Record) error {
	r = r.Normalized()
	fields := map[string]string{}

	if r.Name == "" {
		fields[FieldName] = "required"
	}
	if r.Address == "" {
		fields[FieldAddress] = "required"
	}
	switch {
	case r.Phone == "":
		fields[FieldPhone] = "required"
	case len(r.Phone) > maxPhoneLen:
		fields[FieldPhone] = fmt.Sprintf("at most %d characters", maxPhoneLen)
	case !isPhone(r.Phone):
		fields[FieldPhone] = "digits only, optional leading +"
	}

	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}

func isPhone(s string) bool {
	digits := strings.TrimPrefix(s, "+")
	if digits == "" {
		return false
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
