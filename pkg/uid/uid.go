package uid

import (
	"github.com/google/uuid"
)

// New returns a new random identifier.
func New() string {
	return uuid.NewString()
}
