package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Email returns a short stable token for an address so logs can correlate
// submissions without carrying the address itself. Case and surrounding
// whitespace do not change the result.
func Email(email string) string {
	normalized := strings.ToLower(strings.TrimSpace(email))
	if normalized == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(sum[:])[:12]
}
