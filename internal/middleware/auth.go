package middleware

import (
	"cmp"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sjperalta/cobuy-api/internal/models"
)

// Context keys set by Auth
const (
	ctxUserID = "userID"
	ctxEmail  = "userEmail"
	ctxRole   = "userRole"
	ctxClaims = "claims"
)

var (
	errMissingToken  = errors.New("authorization header is required")
	errBadHeader     = errors.New("invalid authorization header format")
	errTokenExpired  = errors.New("token has expired")
	errInvalidToken  = errors.New("invalid token")
	errMissingUserID = errors.New("token has no user_id")
)

// Claims is the payload of access tokens issued for co-buyers
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email,omitempty"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Auth validates the bearer token and stores the caller in the context.
// Receipt download links may carry the token as ?token= instead.
func Auth(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := bearerToken(c)
		if err == nil {
			var claims *Claims
			if claims, err = parseClaims(raw, jwtSecret); err == nil {
				c.Set(ctxUserID, claims.UserID)
				c.Set(ctxEmail, claims.Email)
				c.Set(ctxRole, claims.Role)
				c.Set(ctxClaims, claims)
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	}
}

func bearerToken(c *gin.Context) (string, error) {
	header := c.GetHeader("Authorization")
	if header == "" {
		if token := c.Query("token"); token != "" {
			return token, nil
		}
		return "", errMissingToken
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "bearer") || token == "" {
		return "", errBadHeader
	}
	return token, nil
}

func parseClaims(raw, secret string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims,
		func(*jwt.Token) (any, error) { return []byte(secret), nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, errTokenExpired
	case err != nil:
		return nil, errInvalidToken
	case claims.UserID == "":
		return nil, errMissingUserID
	}
	return claims, nil
}

// GetUserID returns the authenticated user's id, or "" on public routes
func GetUserID(c *gin.Context) string {
	return c.GetString(ctxUserID)
}

// GetUserRole returns the authenticated user's role
func GetUserRole(c *gin.Context) string {
	return c.GetString(ctxRole)
}

// IsAdmin reports whether the caller is a platform admin
func IsAdmin(c *gin.Context) bool {
	return GetUserRole(c) == models.RoleAdmin
}

// RequireAdmin lets only admins through
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !IsAdmin(c) {
			forbid(c, "admin access required")
			return
		}
		c.Next()
	}
}

// RequireAdminOrOwner lets admins through, and members whose id matches
// the user_id (or id) path parameter
func RequireAdminOrOwner() gin.HandlerFunc {
	return func(c *gin.Context) {
		target := cmp.Or(c.Param("user_id"), c.Param("id"))
		if IsAdmin(c) || (target != "" && target == GetUserID(c)) {
			c.Next()
			return
		}
		forbid(c, "not allowed to access this resource")
	}
}

func forbid(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": msg})
}
