// Package id generates the step identifiers used as journal keys.
package id

import "github.com/oklog/ulid/v2"

// New returns a time-sortable ULID string. IDs generated within the same
// millisecond are monotonically increasing, so journal insertion order
// and ID order agree.
func New() string {
	return ulid.Make().String()
}
