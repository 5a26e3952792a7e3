package gen

import (
	"github.com/google/uuid"
)

// IDGenerator produces opaque unique identifiers for stored records.
// Tests swap in deterministic generators.
type IDGenerator func() string

func UUID() IDGenerator {
	return func() string {
		return uuid.NewString()
	}
}

func (g IDGenerator) Next() string {
	if g == nil {
		return uuid.NewString()
	}

	return g()
}
