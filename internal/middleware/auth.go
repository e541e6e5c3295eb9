// Package middleware содержит HTTP middleware бэк-офиса barberpos.
package middleware

import (
	"context"
	"crypto/rand"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type contextKey string

const tenantIDKey contextKey = "tenantID"

const (
	authCookieName = "auth_token"
	authTokenTTL   = 30 * 24 * time.Hour
)

var errNoToken = errors.New("auth token not found")

// AuthMiddleware проверяет JWT владельца (HS256) и кладёт его идентификатор в контекст.
// Идентификатор владельца передаётся в claim "sub".
type AuthMiddleware struct {
	secretKey []byte
	ttl       time.Duration
}

// NewAuthMiddleware создаёт новый экземпляр AuthMiddleware с указанным секретным ключом.
// При пустом ключе генерируется случайный, выданные ранее токены перестают действовать.
func NewAuthMiddleware(secret string) *AuthMiddleware {
	key := []byte(secret)
	if len(key) == 0 {
		randomKey := make([]byte, 32)
		if _, err := rand.Read(randomKey); err == nil {
			key = randomKey
		} else {
			key = []byte("default-secret-key")
		}
	}

	return &AuthMiddleware{
		secretKey: key,
		ttl:       authTokenTTL,
	}
}

// Middleware извлекает токен из заголовка Authorization или cookie и проверяет его.
func (a *AuthMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, err := tokenFromRequest(r)
		if err != nil {
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
			return
		}

		tenantID, err := a.ParseToken(raw)
		if err != nil {
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithTenantID(r.Context(), tenantID)))
	})
}

func tokenFromRequest(r *http.Request) (string, error) {
	if h := r.Header.Get("Authorization"); h != "" {
		scheme, token, ok := strings.Cut(h, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
			return "", errNoToken
		}
		return strings.TrimSpace(token), nil
	}

	cookie, err := r.Cookie(authCookieName)
	if err != nil || cookie.Value == "" {
		return "", errNoToken
	}
	return cookie.Value, nil
}

// IssueToken выпускает подписанный токен для владельца tenantID.
func (a *AuthMiddleware) IssueToken(tenantID uuid.UUID) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   tenantID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(a.ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secretKey)
}

// ParseToken проверяет подпись и срок действия токена и возвращает идентификатор владельца.
func (a *AuthMiddleware) ParseToken(raw string) (uuid.UUID, error) {
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		return a.secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return uuid.Nil, err
	}

	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, err
	}
	if id == uuid.Nil {
		return uuid.Nil, errNoToken
	}
	return id, nil
}

// SetAuthCookie устанавливает cookie авторизации для указанного владельца.
func (a *AuthMiddleware) SetAuthCookie(w http.ResponseWriter, tenantID uuid.UUID) error {
	token, err := a.IssueToken(tenantID)
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     authCookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(a.ttl),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// WithTenantID возвращает контекст с идентификатором владельца.
func WithTenantID(ctx context.Context, tenantID uuid.UUID) context.Context {
	return context.WithValue(ctx, tenantIDKey, tenantID)
}

// GetTenantIDFromContext извлекает идентификатор владельца из контекста запроса.
func GetTenantIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(tenantIDKey).(uuid.UUID)
	return id, ok
}
