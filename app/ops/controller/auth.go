package controller

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const sessionCookie = "pw_session"

func bearer(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return ""
}

// ValidateToken checks the Authorization header against the static admin token.
func (c *Controller) ValidateToken(r *http.Request) bool {
	if c.AdminToken == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(bearer(r)), []byte(c.AdminToken)) == 1
}

// ValidateJWT accepts an HS256 token signed with the session secret, from the
// Authorization header or the session cookie.
func (c *Controller) ValidateJWT(r *http.Request) bool {
	if len(c.JWTSecret) == 0 {
		return false
	}
	raw := bearer(r)
	if raw == "" {
		if cookie, err := r.Cookie(sessionCookie); err == nil {
			raw = cookie.Value
		}
	}
	if raw == "" {
		return false
	}
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return c.JWTSecret, nil
	})
	return err == nil && tok.Valid
}

// authDisabled is true when neither a token nor a secret is configured.
func (c *Controller) authDisabled() bool {
	return c.AdminToken == "" && len(c.JWTSecret) == 0
}

// RequireAuth middleware
func (c *Controller) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/token" || c.authDisabled() || c.ValidateToken(r) || c.ValidateJWT(r) {
			next.ServeHTTP(w, r)
			return
		}
		writeError(w, http.StatusUnauthorized, "unauthorized")
	})
}

// IssueToken signs a session token for subject valid for ttl.
func (c *Controller) IssueToken(subject string, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": subject,
		"iat": now.Unix(),
		"exp": now.Add(ttl).Unix(),
	})
	return token.SignedString(c.JWTSecret)
}

// HandleIssueToken exchanges the static admin token for a session JWT.
func (c *Controller) HandleIssueToken(w http.ResponseWriter, r *http.Request) {
	if len(c.JWTSecret) == 0 {
		writeError(w, http.StatusNotFound, "sessions disabled")
		return
	}
	if !c.ValidateToken(r) {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	ttl := 8 * time.Hour
	ss, err := c.IssueToken("api-token", ttl)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "sign token")
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    ss,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   int(ttl.Seconds()),
	})
	writeJSON(w, http.StatusOK, map[string]any{"token": ss, "expires_in": int(ttl.Seconds())})
}
