package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/iuriAvil4/SistemaGestaoDeEventos/pkg/response"
)

const (
	// ContextKeyUserID is the context key for the authenticated user ID
	ContextKeyUserID = "user_id"
	// ContextKeyUserEmail is the context key for the authenticated user email
	ContextKeyUserEmail = "user_email"
	// ContextKeyUserRole is the context key for the authenticated user role
	ContextKeyUserRole = "user_role"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// AuthConfig holds JWT authentication configuration
type AuthConfig struct {
	Secret string
}

// Claims holds the identity extracted from a validated token
type Claims struct {
	UserID string
	Email  string
	Role   string
}

// ValidateToken parses and validates an HMAC-signed JWT
func ValidateToken(tokenString, secret string) (*Claims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	userID, ok := mapClaims["user_id"].(string)
	if !ok || userID == "" {
		return nil, ErrInvalidToken
	}

	claims := &Claims{UserID: userID}
	if email, ok := mapClaims["email"].(string); ok {
		claims.Email = email
	}
	if role, ok := mapClaims["role"].(string); ok {
		claims.Role = role
	}

	return claims, nil
}

// Auth returns a Gin middleware that requires a valid Bearer token and puts
// the caller's identity into the request context.
func Auth(cfg *AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Unauthorized(c, "missing authorization header")
			c.Abort()
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			response.Unauthorized(c, "invalid authorization header")
			c.Abort()
			return
		}

		claims, err := ValidateToken(parts[1], cfg.Secret)
		if err != nil {
			if errors.Is(err, ErrTokenExpired) {
				response.Unauthorized(c, "token expired")
			} else {
				response.Unauthorized(c, "invalid token")
			}
			c.Abort()
			return
		}

		c.Set(ContextKeyUserID, claims.UserID)
		c.Set(ContextKeyUserEmail, claims.Email)
		c.Set(ContextKeyUserRole, claims.Role)
		c.Next()
	}
}

// RequireRole returns a middleware that rejects callers without the given role.
// Must run after Auth.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(ContextKeyUserRole) != role {
			response.Error(c, 403, "FORBIDDEN", "insufficient permissions", "")
			c.Abort()
			return
		}
		c.Next()
	}
}

// UserID returns the authenticated user ID from the Gin context
func UserID(c *gin.Context) string {
	return c.GetString(ContextKeyUserID)
}
