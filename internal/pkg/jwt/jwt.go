package jwt

import (
	"net/http"
	"sync"
	"time"

	"github.com/cmlabs-hris/hr-attendance-kanban/internal/domain/user"
	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

// Values of the "type" claim.
const (
	TypeAccess  = "access"
	TypeRefresh = "refresh"
	TypeSSE     = "sse"
)

// SSETokenTTL is the lifetime of a board stream token.
const SSETokenTTL = 5 * time.Minute

type Service interface {
	GenerateAccessToken(userID string, email string, employeeID *string, role user.Role) (token string, expiresAt int64, err error)
	GenerateRefreshToken(userID string) (token string, expiresAt int64, err error)
	GenerateSSEToken(userID string) (token string, expiresIn int, err error)
	ValidateSSEToken(tokenString string) (userID string, err error)
	JWTAuth() *jwtauth.JWTAuth
	RefreshTokenCookie(token string, expiresAt int64) *http.Cookie
	RevokeToken(token string)
	IsTokenRevoked(token string) bool
}

type JWTService struct {
	accessTTL  string
	refreshTTL string
	tokenAuth  *jwtauth.JWTAuth

	mu      sync.RWMutex
	revoked map[string]time.Time // token -> when it can be forgotten
}

func NewJWTService(secretKey string, accessTTL string, refreshTTL string) Service {
	return &JWTService{
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		tokenAuth:  jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
		revoked:    make(map[string]time.Time),
	}
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func (j *JWTService) encode(ttl time.Duration, claims map[string]interface{}) (string, int64, error) {
	expiresAt := time.Now().Add(ttl).Unix()
	claims["exp"] = expiresAt
	_, tokenString, err := j.tokenAuth.Encode(claims)
	return tokenString, expiresAt, err
}

func (j *JWTService) GenerateAccessToken(userID string, email string, employeeID *string, role user.Role) (string, int64, error) {
	ttl, err := time.ParseDuration(j.accessTTL)
	if err != nil {
		return "", 0, err
	}

	var employee interface{}
	if employeeID != nil {
		employee = *employeeID
	}
	return j.encode(ttl, map[string]interface{}{
		"user_id":     userID,
		"email":       email,
		"employee_id": employee,
		"role":        string(role),
		"type":        TypeAccess,
	})
}

func (j *JWTService) GenerateRefreshToken(userID string) (string, int64, error) {
	ttl, err := time.ParseDuration(j.refreshTTL)
	if err != nil {
		return "", 0, err
	}
	return j.encode(ttl, map[string]interface{}{
		"user_id": userID,
		"type":    TypeRefresh,
	})
}

// GenerateSSEToken issues a short-lived token for the kanban event stream.
// EventSource cannot set headers, so it travels in the query string.
func (j *JWTService) GenerateSSEToken(userID string) (string, int, error) {
	token, _, err := j.encode(SSETokenTTL, map[string]interface{}{
		"user_id": userID,
		"type":    TypeSSE,
	})
	if err != nil {
		return "", 0, err
	}
	return token, int(SSETokenTTL / time.Second), nil
}

func (j *JWTService) ValidateSSEToken(tokenString string) (string, error) {
	token, err := jwtauth.VerifyToken(j.tokenAuth, tokenString)
	if err != nil {
		return "", err
	}

	if tokenType, _ := token.Get("type"); tokenType != TypeSSE {
		return "", jwt.ErrInvalidJWT()
	}
	userID, _ := token.Get("user_id")
	id, ok := userID.(string)
	if !ok || id == "" {
		return "", jwt.ErrInvalidJWT()
	}
	return id, nil
}

func (j *JWTService) RefreshTokenCookie(token string, expiresAt int64) *http.Cookie {
	return &http.Cookie{
		Name:     "refresh_token",
		Value:    token,
		Path:     "/api/v1/auth",
		Expires:  time.Unix(expiresAt, 0),
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	}
}

// RevokeToken blocks an access token until it expires on its own. Entries
// past their expiry are dropped on every call.
func (j *JWTService) RevokeToken(token string) {
	now := time.Now()
	forgetAt := now.Add(24 * time.Hour)
	if parsed, err := jwt.ParseString(token, jwt.WithVerify(false), jwt.WithValidate(false)); err == nil && !parsed.Expiration().IsZero() {
		forgetAt = parsed.Expiration()
	}

	j.mu.Lock()
	defer j.mu.Unlock()
	for t, at := range j.revoked {
		if now.After(at) {
			delete(j.revoked, t)
		}
	}
	j.revoked[token] = forgetAt
}

func (j *JWTService) IsTokenRevoked(token string) bool {
	j.mu.RLock()
	defer j.mu.RUnlock()
	_, revoked := j.revoked[token]
	return revoked
}
