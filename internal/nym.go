package internal

import (
	"strings"

	"github.com/google/uuid"
)

// RandomNym returns six hex characters, used when no nym is configured.
func RandomNym() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:6]
}
