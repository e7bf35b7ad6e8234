// Package siswa defines the student record shared by every layer of the client
// and the reference store.
package siswa

import "strings"

// Record is a single student document. Two records with equal fields are
// interchangeable; ID is assigned by the store on insert and never changes.
type Record struct {
	ID      string `json:"id"`
	Name    string `json:"nama"`
	Address string `json:"alamat"`
	Phone   string `json:"telpon"`
}

// HasID reports whether the record has been created in the store.
func (r Record) HasID() bool {
	return strings.TrimSpace(r.ID) != ""
}

// Normalized returns the trimmed copy that gets persisted.
func (r Record) Normalized() Record {
	return Record{
		ID:      strings.TrimSpace(r.ID),
		Name:    strings.TrimSpace(r.Name),
		Address: strings.TrimSpace(r.Address),
		Phone:   strings.TrimSpace(r.Phone),
	}
}

// WithID returns a copy of r addressed at id.
func (r Record) WithID(id string) Record {
	r.ID = id
	return r
}

// Clone copies a slice of records so callers can't alias a published snapshot.
func Clone(records []Record) []Record {
	if records == nil {
		return nil
	}
	dup := make([]Record, len(records))
	copy(dup, records)
	return dup
}
