// Package idgen generates short unique ids for tasks.
package idgen

import (
	"strings"

	"github.com/google/uuid"

	"github.com/runoshun/della/internal/domain"
)

// Ensure UUID implements domain.IDGenerator.
var _ domain.IDGenerator = (*UUID)(nil)

// DefaultLength is the number of hex characters kept from a UUID.
const DefaultLength = 8

// UUID generates ids from random (version 4) UUIDs.
type UUID struct {
	length int
}

// New creates a generator keeping length hex characters (DefaultLength when <= 0).
func New(length int) *UUID {
	if length <= 0 || length > 32 {
		length = DefaultLength
	}
	return &UUID{length: length}
}

// NewID returns a fresh id such as "3f9a1c2e".
func (g *UUID) NewID() string {
	hex := strings.ReplaceAll(uuid.NewString(), "-", "")
	return hex[:g.length]
}
