package middleware

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/nulzo/model-capability-api/internal/store"
	"github.com/nulzo/model-capability-api/pkg/api"
)

// Auth checks for a valid Bearer token in the Authorization header. Tokens are
// matched against the static keys from config first, then against the hashed
// keys in the database. A nil repo disables database lookups.
func Auth(repo store.Repository, staticKeys []string) gin.HandlerFunc {
	staticMap := make(map[string]bool)
	for _, k := range staticKeys {
		if k != "" {
			staticMap[k] = true
		}
	}

	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")

		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, api.UnauthorizedError("Missing Authorization header"))
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, api.UnauthorizedError("Invalid Authorization header format"))
			return
		}

		token := parts[1]

		if staticMap[token] {
			c.Next()
			return
		}

		if repo == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, api.UnauthorizedError("Invalid API Key"))
			return
		}

		hash := sha256.Sum256([]byte(token))
		hashedHex := hex.EncodeToString(hash[:])

		key, err := repo.APIKeys().GetByHash(c.Request.Context(), hashedHex)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, api.UnauthorizedError("Invalid API Key"))
			return
		}

		// Expose the key to downstream handlers (logging)
		c.Set("api_key_id", key.ID)
		c.Set("api_key_name", key.Name)

		// Update last used timestamp (async)
		go func() {
			_ = repo.APIKeys().Touch(context.Background(), key.ID)
		}()

		c.Next()
	}
}
