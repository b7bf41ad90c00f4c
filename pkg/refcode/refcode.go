// Package refcode generates short booking references: the hex digits of a
// random UUID, uppercased, truncated to a fixed length. Uniqueness is
// enforced by the database; callers retry on collision.
package refcode

import (
	"strings"

	"github.com/google/uuid"
)

const Length = 12

func New() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return strings.ToUpper(raw[:Length])
}
