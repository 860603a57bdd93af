// Package uuid generates UUIDv7 identifiers for primary keys.
// UUIDv7 is time-ordered, so rows created later sort later, which keeps
// B-tree inserts append-mostly compared to random v4 keys.
package uuid

import (
	googleuuid "github.com/google/uuid"
)

// New returns a new UUIDv7 string. If the random source fails it falls
// back to a UUIDv4 so callers never receive an empty ID.
func New() string {
	id, err := googleuuid.NewV7()
	if err != nil {
		return googleuuid.New().String()
	}
	return id.String()
}

// IsValid reports whether s parses as a UUID of any version.
func IsValid(s string) bool {
	_, err := googleuuid.Parse(s)
	return err == nil
}
