package middleware

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"nomadlink/internal/models"
	"nomadlink/pkg/cache"
	"nomadlink/pkg/token"
)

const userKey = "auth.user"

// Auth validates the Bearer access token and loads the account onto the
// context. Lookups are cached briefly to keep the middleware off the hot
// path of the database.
func Auth(db *gorm.DB, tokens *token.Issuer, userCache cache.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		claims, err := tokens.ParseAccess(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		user, err := loadUser(c, db, userCache, claims.WalletAddress)
		if err != nil || !user.IsActive {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "account unavailable"})
			return
		}

		c.Set(userKey, user)
		c.Next()
	}
}

// AdminRequired allows only staff accounts through. Must run after Auth.
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok || !user.IsStaff {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin privileges required"})
			return
		}
		c.Next()
	}
}

// CurrentUser returns the authenticated account set by Auth.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	v, ok := c.Get(userKey)
	if !ok {
		return nil, false
	}
	user, ok := v.(*models.User)
	return user, ok
}

func loadUser(c *gin.Context, db *gorm.DB, userCache cache.Cache, wallet string) (*models.User, error) {
	cacheKey := "user:" + wallet
	if userCache != nil {
		if v, ok := userCache.Get(c.Request.Context(), cacheKey); ok {
			if user := decodeCachedUser(v); user != nil {
				return user, nil
			}
		}
	}

	var user models.User
	if err := db.WithContext(c.Request.Context()).Where("wallet_address = ?", wallet).First(&user).Error; err != nil {
		return nil, err
	}
	if userCache != nil {
		_ = userCache.Set(c.Request.Context(), cacheKey, &user, time.Minute)
	}
	return &user, nil
}

// decodeCachedUser accepts both cache backends: the local backend hands the
// stored pointer back, the redis backend returns decoded JSON maps.
func decodeCachedUser(v interface{}) *models.User {
	if user, ok := v.(*models.User); ok {
		return user
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	var user models.User
	if err := json.Unmarshal(raw, &user); err != nil || user.ID == 0 {
		return nil
	}
	return &user
}
