package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"nolsaf-admin/internal/admin-console/adapters/driver/myhttp/handle"
	"nolsaf-admin/internal/apiclient"

	"github.com/golang-jwt/jwt"
)

const tokenCookie = "nolsaf_token"

// AuthMiddleware admits ADMIN tokens and forwards them to the backend. With an
// empty secret signatures are left to the backend to verify.
type AuthMiddleware struct {
	accessSecret string
	now          func() time.Time
}

func NewAuthMiddleware(accessSecret string) *AuthMiddleware {
	return &AuthMiddleware{
		accessSecret: accessSecret,
		now:          time.Now,
	}
}

func (am *AuthMiddleware) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString := bearer(r)
		if tokenString == "" {
			handle.JsonError(w, http.StatusUnauthorized, fmt.Errorf("Empty JWT-Token"))
			return
		}

		if am.accessSecret != "" {
			if err := am.verify(tokenString); err != nil {
				handle.JsonError(w, http.StatusUnauthorized, err)
				return
			}
		}

		claims, err := apiclient.ParseClaims(tokenString)
		if err != nil {
			handle.JsonError(w, http.StatusUnauthorized, fmt.Errorf("Failed to parse JWT-Token"))
			return
		}
		if claims.Expired(am.now()) {
			handle.JsonError(w, http.StatusUnauthorized, fmt.Errorf("token expired"))
			return
		}
		if claims.Role != "ADMIN" {
			handle.JsonError(w, http.StatusForbidden, fmt.Errorf("only admins allowed to use this console"))
			return
		}

		ctx := apiclient.WithToken(r.Context(), tokenString)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (am *AuthMiddleware) verify(tokenString string) error {
	parser := &jwt.Parser{SkipClaimsValidation: true}
	token, err := parser.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(am.accessSecret), nil
	})
	if err != nil || !token.Valid {
		return errors.New("Invalid JWT-Token")
	}
	return nil
}

// bearer reads the token from the Authorization header, then the session cookie.
func bearer(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	if c, err := r.Cookie(tokenCookie); err == nil {
		return c.Value
	}
	return ""
}
