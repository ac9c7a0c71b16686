package auth

import (
	"crypto/sha256"
	"encoding/hex"
)

// TokenDigest returns the hex SHA-256 digest of a token string. The
// revocation ledger is keyed by this digest: matching stays exact string
// equality without persisting raw tokens, and it works for tokens the
// signing key can no longer verify.
func TokenDigest(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
