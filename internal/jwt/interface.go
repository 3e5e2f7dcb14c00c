package jwt

import "time"

type TokenManager interface {
	GenerateClientToken(pathname string, tokenPayload string) (string, error)
	ValidateToken(tokenString string) (*Claims, error)
	GetTokenExpiry() time.Duration
	MaxUploadBytes() int64
}

// CallbackVerifier checks signatures of blob completion callbacks.
type CallbackVerifier interface {
	SignCallback(body []byte) string
	VerifyCallback(body []byte, signature string) error
}
