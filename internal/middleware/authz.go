package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"etatcivil/internal/repositories"
)

// RequirePermissions lets the request through only when the authenticated
// staff member holds every listed permission code. Must run after StaffAuth.
func RequirePermissions(perms repositories.PermissionRepository, codes ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := UserID(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Non authentifié"})
			return
		}
		granted, err := perms.CodesForUser(userID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Vérification des permissions impossible"})
			return
		}
		set := make(map[string]struct{}, len(granted))
		for _, g := range granted {
			set[g] = struct{}{}
		}
		for _, code := range codes {
			if _, ok := set[code]; !ok {
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Accès refusé"})
				return
			}
		}
		c.Next()
	}
}
