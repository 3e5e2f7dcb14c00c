package jwt

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"

	app_errors "github.com/lumiforge/video-bridge/internal/errors"
)

// SignatureHeader carries the hex HMAC-SHA256 of a completion callback body.
const SignatureHeader = "x-blob-signature"

// SignCallback returns the hex HMAC-SHA256 of body keyed by the blob credential.
func (j *JWTManager) SignCallback(body []byte) string {
	mac := hmac.New(sha256.New, []byte(j.secretKey))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func (j *JWTManager) VerifyCallback(body []byte, signature string) error {
	got, err := hex.DecodeString(strings.TrimSpace(signature))
	if err != nil || len(got) == 0 {
		return app_errors.ErrInvalidCallbackSignature
	}
	mac := hmac.New(sha256.New, []byte(j.secretKey))
	mac.Write(body)
	if !hmac.Equal(got, mac.Sum(nil)) {
		return app_errors.ErrInvalidCallbackSignature
	}
	return nil
}
