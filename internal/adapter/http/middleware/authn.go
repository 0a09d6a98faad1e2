package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/PabloIb21/teslo-orders-api/configs"
	domain "github.com/PabloIb21/teslo-orders-api/internal/entity"
)

const (
	ctxUserID   = "userID"
	ctxUserRole = "userRole"
)

// Authn resolves a bearer token to an authenticated identity. Handlers only
// ever see the resolved user id and role, never the token internals.
type Authn struct {
	cfg configs.Config
}

func NewAuthn(cfg configs.Config) *Authn {
	return &Authn{cfg: cfg}
}

func (a *Authn) Require() gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") {
			unauth(c, "invalid_request", "missing bearer token")
			return
		}

		raw := strings.TrimPrefix(auth, "Bearer ")
		token, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(a.cfg.Security.JWTSecret), nil
		}, jwt.WithLeeway(30*time.Second)) // small clock skew

		if err != nil || !token.Valid {
			unauth(c, "invalid_token", "invalid jwt")
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			unauth(c, "invalid_token", "claims parsing error")
			return
		}
		if claims["iss"] != a.cfg.Security.Issuer || claims["aud"] != a.cfg.Security.Audience {
			unauth(c, "invalid_token", "iss/aud mismatch")
			return
		}

		sub, _ := claims["sub"].(string)
		if sub == "" {
			unauth(c, "invalid_token", "missing subject")
			return
		}
		role, _ := claims["role"].(string)

		c.Set(ctxUserID, sub)
		c.Set(ctxUserRole, role)
		c.Next()
	}
}

// RequireAdmin must be chained after Require.
func (a *Authn) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, role := Identity(c); role != domain.RoleAdmin {
			forbidden(c, "insufficient_role", "admin role required")
			return
		}
		c.Next()
	}
}

// Identity returns the resolved user id and role for the current request.
func Identity(c *gin.Context) (string, domain.Role) {
	return c.GetString(ctxUserID), domain.Role(c.GetString(ctxUserRole))
}

// IssueToken mints the HS256 bearer token handed out at login/register.
func IssueToken(cfg configs.Config, user *domain.User, now time.Time) (string, error) {
	claims := jwt.MapClaims{
		"iss":  cfg.Security.Issuer,
		"aud":  cfg.Security.Audience,
		"iat":  now.Unix(),
		"nbf":  now.Unix(),
		"exp":  now.Add(cfg.Security.TTL).Unix(),
		"sub":  user.ID,
		"role": string(user.Role),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.Security.JWTSecret))
}

func unauth(c *gin.Context, code, desc string) {
	c.Header("WWW-Authenticate", `Bearer error="`+code+`", error_description="`+desc+`"`)
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": code, "error_description": desc})
}

func forbidden(c *gin.Context, code, desc string) {
	c.Header("WWW-Authenticate", `Bearer error="`+code+`", error_description="`+desc+`"`)
	c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": code, "error_description": desc})
}
