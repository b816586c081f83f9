package interview

import (
	"strings"

	"github.com/google/uuid"
)

// NewUserID mints the opaque client identity sent as user_id on every
// engine call. One identity per running client process; never persisted.
func NewUserID() string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "user_" + suffix[:8]
}
