package store

import (
	"strings"

	"github.com/google/uuid"
)

// NewID returns prefix-<uuid v4>. Random ids do not collide when several entities are
// created within the same clock tick.
func NewID(prefix string) string {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return uuid.NewString()
	}
	return prefix + "-" + uuid.NewString()
}

// IDGenerator produces entity ids. Tests swap in deterministic generators.
type IDGenerator func(prefix string) string
