package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"shelfwise/internal/apierror"
	"shelfwise/internal/repository"
)

const ClaimsKey = "claims"

// Claims are the id-token claims attached to every request.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Caller is the resolved identity of the requester.
type Caller struct {
	UserID string
	Email  string
}

// Identity resolves the caller from the Authorization header and stores the
// claims in the request context. It never aborts: each item handler applies
// its own status code when no identity is present. The header is accepted
// both bare and with a "Bearer " prefix — the web client sends the raw
// id token.
func Identity(secret string, denylist repository.TokenDenylist) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		if tokenStr == "" {
			c.Next()
			return
		}

		claims := &Claims{}
		token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid || claims.Subject == "" {
			c.Next()
			return
		}

		// A signed-out token is as good as no token.
		if claims.ID != "" {
			revoked, err := denylist.IsRevoked(c.Request.Context(), claims.ID)
			if err != nil || revoked {
				c.Next()
				return
			}
		}

		c.Set(ClaimsKey, claims)
		c.Next()
	}
}

// RequireAuth aborts with 401 when Identity resolved no caller. Used only on
// the identity-provider endpoints; item handlers keep their own codes.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := ResolveCaller(c); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("Unauthorized"))
			return
		}
		c.Next()
	}
}

// ResolveCaller returns the authenticated identity, if any.
func ResolveCaller(c *gin.Context) (Caller, bool) {
	claims, ok := GetClaims(c)
	if !ok {
		return Caller{}, false
	}
	return Caller{UserID: claims.Subject, Email: claims.Email}, true
}

// GetClaims retrieves the typed claims from the Gin context.
func GetClaims(c *gin.Context) (*Claims, bool) {
	v, exists := c.Get(ClaimsKey)
	if !exists {
		return nil, false
	}
	claims, ok := v.(*Claims)
	return claims, ok && claims != nil
}
