package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/agrohub-unirv/edital-hub/internal/modules/model"
	"github.com/agrohub-unirv/edital-hub/internal/modules/serializer"
)

const userKey = "user"

// OptionalUser resolves the bearer API key to a user when one is presented.
// Requests without credentials pass through as anonymous; only a key that
// is present but wrong is rejected.
func OptionalUser(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") {
			c.Next()
			return
		}
		raw := strings.TrimPrefix(auth, "Bearer ")

		var user model.User
		if err := db.WithContext(c.Request.Context()).Where(&model.User{APIKey: raw}).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, serializer.AuthErr("Unauthorized"))
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, serializer.DBErr("", err))
			return
		}

		// Tag the current span so traces can be filtered per user.
		span := trace.SpanFromContext(c.Request.Context())
		if span.SpanContext().IsValid() {
			span.SetAttributes(attribute.String("user.class", model.ViewerClass(&user)))
		}

		c.Set(userKey, &user)
		c.Next()
	}
}

// RequireAuthor admits only authorized authors (staff users).
func RequireAuthor() gin.HandlerFunc {
	return func(c *gin.Context) {
		u := CurrentUser(c)
		if u == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, serializer.AuthErr("Unauthorized"))
			return
		}
		if !u.IsStaff {
			c.AbortWithStatusJSON(http.StatusForbidden, serializer.Err(http.StatusForbidden, "staff privilege required", nil))
			return
		}
		c.Next()
	}
}

// RequireUser admits any authenticated user.
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUser(c) == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, serializer.AuthErr("Unauthorized"))
			return
		}
		c.Next()
	}
}

// CurrentUser returns the authenticated user on the context, nil when
// anonymous.
func CurrentUser(c *gin.Context) *model.User {
	v, ok := c.Get(userKey)
	if !ok {
		return nil
	}
	u, ok := v.(*model.User)
	if !ok {
		return nil
	}
	return u
}
