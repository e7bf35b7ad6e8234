// Package route names the client's screens and encodes the record id each
// detail or edit screen is opened with.
package route

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Destination identifies a screen.
type Destination string

const (
	Home   Destination = "home"
	Entry  Destination = "item_entry"
	Detail Destination = "detail_siswa"
	Edit   Destination = "item_edit"
)

// ErrMissingID means a detail or edit screen was opened without an id. It is
// a caller bug, not a gateway failure.
var ErrMissingID = errors.New("route: missing record id")

// ErrUnknown is returned by Parse for paths that name no destination.
var ErrUnknown = errors.New("route: unknown destination")

// Title is the heading shown for d.
func (d Destination) Title() string {
	switch d {
	case Home:
		return "Siswa"
	case Entry:
		return "Entry Siswa"
	case Detail:
		return "Detail Siswa"
	case Edit:
		return "Edit Siswa"
	default:
		return string(d)
	}
}

// NeedsID reports whether d is addressed by a record id.
func (d Destination) NeedsID() bool {
	return d == Detail || d == Edit
}

// DetailPath is the path of the detail screen for id.
func DetailPath(id string) string {
	return withID(Detail, id)
}

// EditPath is the path of the edit screen for id.
func EditPath(id string) string {
	return withID(Edit, id)
}

func withID(d Destination, id string) string {
	return string(d) + "/" + url.PathEscape(id)
}

// Parse splits path into its destination and id.
func Parse(path string) (Destination, string, error) {
	name, rawID, _ := strings.Cut(strings.Trim(path, "/"), "/")
	d := Destination(name)
	switch d {
	case Home, Entry:
		return d, "", nil
	case Detail, Edit:
		id, err := url.PathUnescape(rawID)
		if err != nil {
			return d, "", fmt.Errorf("route: decode id in %q: %w", path, err)
		}
		if strings.TrimSpace(id) == "" {
			return d, "", fmt.Errorf("%w: %s", ErrMissingID, d)
		}
		return d, id, nil
	}
	return "", "", fmt.Errorf("%w: %q", ErrUnknown, path)
}
