package middleware

import (
	"go-timesheet/internal/featureflag"
	"go-timesheet/internal/shared/apperror"

	"github.com/gin-gonic/gin"
)

const featureFlagsKey = "feature_flags"

// FeatureFlags makes the process flag snapshot available through both the gin
// context and the request context.
func FeatureFlags(flags *featureflag.Flags) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(featureFlagsKey, flags)
		c.Request = c.Request.WithContext(featureflag.WithFlags(c.Request.Context(), flags))
		c.Next()
	}
}

// Flags returns the snapshot stored by FeatureFlags, or nil.
func Flags(c *gin.Context) *featureflag.Flags {
	if v, ok := c.Get(featureFlagsKey); ok {
		if f, ok := v.(*featureflag.Flags); ok {
			return f
		}
	}
	return featureflag.FromContext(c.Request.Context())
}

// RequireFeature hides a route behind a flag by answering 404 when it is off.
func RequireFeature(name featureflag.Name) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !Flags(c).Enabled(name) {
			abortWith(c, apperror.ErrFeatureDisabled.WithDetails(gin.H{"feature": string(name)}))
			return
		}
		c.Next()
	}
}
