package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"horas-backend/internal/utils"
)

const identityKey = "identity"

// Identity is the acting user for the current request, derived once from the
// verified bearer token. Handlers read it with IdentityFrom and never trust
// ids or roles coming from request bodies.
type Identity struct {
	ID        string
	Email     string
	Role      string
	FirstName string
	LastName  string
	Avatar    string
}

func (i *Identity) IsAdmin() bool { return i.Role == "admin" }

func (i *Identity) FullName() string {
	name := strings.TrimSpace(i.FirstName + " " + i.LastName)
	if name == "" {
		return i.Email
	}
	return name
}

// IdentityLoader resolves a verified token subject to a live user. Unknown,
// soft-deleted and deactivated users must come back as an error.
type IdentityLoader interface {
	LoadIdentity(ctx context.Context, userID string) (*Identity, error)
}

// Authorize validates the Bearer token and stores the acting identity in the
// request context.
func Authorize(secret string, loader IdentityLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		userID, err := utils.ParseAccessToken(secret, strings.TrimPrefix(auth, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		ident, err := loader.LoadIdentity(c.Request.Context(), userID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "usuario no autorizado"})
			return
		}

		c.Set(identityKey, ident)
		c.Next()
	}
}

// RequireRole aborts with 403 unless the acting identity has one of the
// given roles. Must run after Authorize.
func RequireRole(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(c *gin.Context) {
		ident, ok := IdentityFrom(c)
		if !ok || !allowed[ident.Role] {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		c.Next()
	}
}

func IdentityFrom(c *gin.Context) (*Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return nil, false
	}
	ident, ok := v.(*Identity)
	return ident, ok
}
