// Package group implements the editing operations shared by every repeating
// group of an application document.
//
// Records are addressed by position. Removing a record shifts every later
// record down by one, so an index captured before a removal may name a
// different record afterwards. Callers that need a stable handle pair the
// records with an Order.
package group

import "github.com/boilerrat/grant-attestoor/application"

// Record is a group entry that can produce a copy of itself with one named
// field replaced.
type Record[R any] interface {
	WithField(name, value string) (R, error)
}

// Append returns a new sequence holding records followed by blank.
func Append[R any](records []R, blank R) []R {
	out := make([]R, len(records), len(records)+1)
	copy(out, records)
	return append(out, blank)
}

// RemoveAt returns a new sequence with the record at index excised.
func RemoveAt[R any](records []R, index int) ([]R, error) {
	if index < 0 || index >= len(records) {
		return nil, application.IndexOutOfRange(index, len(records))
	}
	out := make([]R, 0, len(records)-1)
	out = append(out, records[:index]...)
	return append(out, records[index+1:]...), nil
}

// UpdateField returns a new sequence identical to records except that the
// named field of the record at index is set to value.
func UpdateField[R Record[R]](records []R, index int, field, value string) ([]R, error) {
	if index < 0 || index >= len(records) {
		return nil, application.IndexOutOfRange(index, len(records))
	}
	updated, err := records[index].WithField(field, value)
	if err != nil {
		return nil, err
	}
	out := make([]R, len(records))
	copy(out, records)
	out[index] = updated
	return out, nil
}
