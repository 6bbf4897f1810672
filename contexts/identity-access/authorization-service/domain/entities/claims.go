package entities

import "time"

// TokenMode selects how the subject claim is interpreted.
type TokenMode string

const (
	TokenModeSelfIssued TokenMode = "self_issued"
	TokenModeExternal   TokenMode = "external"
)

func (m TokenMode) Valid() bool {
	return m == TokenModeSelfIssued || m == TokenModeExternal
}

// Claims is the verified token payload. RoleHint is informational only and
// must never feed an authorization decision.
type Claims struct {
	Subject   string
	Email     string
	Issuer    string
	IssuedAt  time.Time
	ExpiresAt time.Time
	RoleHint  string
	Mode      TokenMode
}
