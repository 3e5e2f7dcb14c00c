package jwt

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/lumiforge/video-bridge/internal/config"
	app_errors "github.com/lumiforge/video-bridge/internal/errors"
	"github.com/lumiforge/video-bridge/internal/validation"
)

// Claims представляет структуру claims в клиентском upload-токене
type Claims struct {
	Pathname            string   `json:"pathname"`
	AllowedContentTypes []string `json:"allowedContentTypes"`
	TokenPayload        string   `json:"tokenPayload"`
	MaximumSizeInBytes  int64    `json:"maximumSizeInBytes,omitempty"`
	jwt.RegisteredClaims
}

// JWTManager выдаёт и проверяет клиентские upload-токены
type JWTManager struct {
	secretKey   string
	tokenExpiry time.Duration
	maxSize     int64
}

// NewJWTManager создает новый менеджер; nil, если ключ blob-хранилища не задан
func NewJWTManager(cfg *config.Config) *JWTManager {
	if cfg.BlobReadWriteToken == "" {
		return nil
	}
	return &JWTManager{
		secretKey:   cfg.BlobReadWriteToken,
		tokenExpiry: cfg.ClientTokenTTL,
		maxSize:     cfg.MaxUploadBytes,
	}
}

// GenerateClientToken подписывает токен, разрешающий загрузку одного pathname
func (j *JWTManager) GenerateClientToken(pathname string, tokenPayload string) (string, error) {
	if pathname == "" {
		return "", app_errors.ErrPathnameRequired
	}

	now := time.Now()
	claims := Claims{
		Pathname:            pathname,
		AllowedContentTypes: append([]string(nil), validation.AllowedVideoContentTypes...),
		TokenPayload:        tokenPayload,
		MaximumSizeInBytes:  j.maxSize,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   pathname,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.tokenExpiry)),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(j.secretKey))
	if err != nil {
		return "", app_errors.ErrFailedToGenerateClientToken
	}
	return signed, nil
}

// ValidateToken валидирует токен и возвращает claims
func (j *JWTManager) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, app_errors.ErrUnexpectedSigningMethod
		}
		return []byte(j.secretKey), nil
	})

	if err != nil {
		return nil, app_errors.ErrFailedToParseToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, app_errors.ErrInvalidToken
	}

	return claims, nil
}

func (j *JWTManager) GetTokenExpiry() time.Duration {
	return j.tokenExpiry
}

// MaxUploadBytes is the size limit granted to client tokens; 0 means none.
func (j *JWTManager) MaxUploadBytes() int64 {
	return j.maxSize
}
