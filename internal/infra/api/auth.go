package api

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"soulsync/internal/infra/logging"
)

var (
	errTokenMissing = errors.New("missing token")
	errTokenInvalid = errors.New("invalid token")
)

// ===== Session/JWT primitives =====

// AuthManager mints and verifies HS256 bearer tokens. The subject is the user
// id and the token id (jti) names the counselor session.
type AuthManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewAuthManager(secret string, ttl time.Duration) *AuthManager {
	return &AuthManager{secret: []byte(secret), ttl: ttl, now: time.Now}
}

type Claims struct {
	jwt.RegisteredClaims
}

func (c *Claims) UserID() string    { return c.Subject }
func (c *Claims) SessionID() string { return c.ID }

// Mint issues a token for userID with a fresh session id.
func (a *AuthManager) Mint(userID string) (token, sessionID string, err error) {
	now := a.now()
	sessionID = uuid.NewString()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sessionID,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return "", "", err
	}
	return signed, sessionID, nil
}

func (a *AuthManager) ParseFromRequest(r *http.Request) (*Claims, error) {
	// Authorization: Bearer <jwt>
	hdr := strings.TrimSpace(r.Header.Get("Authorization"))
	if hdr == "" {
		return nil, errTokenMissing
	}
	if len(hdr) < 7 || !strings.EqualFold(hdr[:7], "bearer ") {
		return nil, errTokenInvalid
	}
	return a.parse(strings.TrimSpace(hdr[7:]))
}

func (a *AuthManager) parse(tok string) (*Claims, error) {
	claims := &Claims{}
	tkn, err := jwt.ParseWithClaims(tok, claims, func(t *jwt.Token) (any, error) {
		return a.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(a.now))
	if err != nil || !tkn.Valid || claims.Subject == "" || claims.ID == "" {
		return nil, errTokenInvalid
	}
	return claims, nil
}

type ctxKey int

const (
	ctxUser ctxKey = iota
	ctxSession
)

// RequireAuth rejects requests without a valid bearer token and exposes the
// user and session ids to handlers.
func (s *Server) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := s.auth.ParseFromRequest(r)
		if err != nil {
			key := "token_invalid"
			if errors.Is(err, errTokenMissing) {
				key = "token_missing"
			}
			s.fail(w, http.StatusUnauthorized, key)
			return
		}
		ctx := context.WithValue(r.Context(), ctxUser, claims.UserID())
		ctx = context.WithValue(ctx, ctxSession, claims.SessionID())
		ctx = logging.WithUserID(ctx, claims.UserID())
		ctx = logging.WithSessID(ctx, claims.SessionID())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func userIDFrom(ctx context.Context) string {
	v, _ := ctx.Value(ctxUser).(string)
	return v
}

func sessionIDFrom(ctx context.Context) string {
	v, _ := ctx.Value(ctxSession).(string)
	return v
}
