package entities

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewID returns identifier of form <prefix>_<unix ms>_<random suffix>.
func NewID(prefix string, now time.Time) string {
	suffix := strings.ReplaceAll(uuid.New().String(), "-", "")[:9]
	return fmt.Sprintf("%s_%d_%s", prefix, now.UnixNano()/int64(time.Millisecond), suffix)
}
