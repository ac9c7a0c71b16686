package models

// Revocation reasons recorded in the ledger. Entries match by exact token
// string (stored as a SHA-256 digest), not by decoding, so revocation holds
// even for tokens the signing key can no longer verify. Rows are purged once
// past their token's expiry.
const (
	RevokeReasonLogout         = "logout"
	RevokeReasonRotation       = "rotation"
	RevokeReasonSecurity       = "security"
	RevokeReasonPasswordChange = "password_change"
)
