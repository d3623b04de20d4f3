package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"etatcivil/internal/services"
)

const (
	ctxUserID      = "user_id"
	ctxRoleID      = "role_id"
	ctxTokenString = "token_string"
)

// StaffAuth validates the Bearer token on staff routes: signature, expiry,
// and the Redis revocation list (a logged-out jti is rejected even though
// the token itself is still valid).
func StaffAuth(auth *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		tokenStr := bearerToken(c)
		if tokenStr == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "En-tête Authorization manquant ou invalide"})
			return
		}

		claims, err := auth.ParseToken(tokenStr)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token invalide ou expiré"})
			return
		}

		revoked, err := auth.IsRevoked(c.Request.Context(), claims.ID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "Vérification du token indisponible"})
			return
		}
		if revoked {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token révoqué"})
			return
		}

		c.Set(ctxUserID, claims.UserID)
		c.Set(ctxRoleID, claims.RoleID)
		c.Set(ctxTokenString, tokenStr)
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// UserID returns the authenticated staff id set by StaffAuth.
func UserID(c *gin.Context) (int, bool) {
	v, ok := c.Get(ctxUserID)
	if !ok {
		return 0, false
	}
	id, ok := v.(int)
	return id, ok
}

// TokenString returns the raw bearer token set by StaffAuth.
func TokenString(c *gin.Context) string {
	v, _ := c.Get(ctxTokenString)
	s, _ := v.(string)
	return s
}
