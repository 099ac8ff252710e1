package middleware

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"go-timesheet/internal/shared/apperror"
	"go-timesheet/internal/shared/contextutil"
	"go-timesheet/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrTokenMissing = apperror.New(apperror.KindUnauthenticated, apperror.CodeUnauthorized, "Token not found")
	ErrTokenInvalid = apperror.New(apperror.KindUnauthenticated, apperror.CodeUnauthorized, "Invalid token")
	ErrTokenExpired = apperror.New(apperror.KindUnauthenticated, apperror.CodeUnauthorized, "Token has expired")
)

// AuthMiddleware verifies an HS256 bearer token (header or access_token
// cookie) and exposes the user_id and role claims to later handlers.
func AuthMiddleware(secret string) gin.HandlerFunc {
	key := []byte(secret)

	return func(c *gin.Context) {
		tokenString, found := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !found {
			tokenString = ""
		}

		if tokenString == "" {
			if cookie, err := c.Cookie("access_token"); err == nil {
				tokenString = cookie
			}
		}

		if tokenString == "" {
			abortWith(c, ErrTokenMissing)
			return
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
			}
			return key, nil
		})

		if err != nil || !token.Valid {
			errObj := ErrTokenInvalid
			if errors.Is(err, jwt.ErrTokenExpired) {
				errObj = ErrTokenExpired
			}
			abortWith(c, errObj)
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			abortWith(c, ErrTokenInvalid)
			return
		}

		userID, ok := claims["user_id"].(string)
		if !ok || userID == "" {
			abortWith(c, ErrTokenInvalid.WithDetails("user_id claim missing"))
			return
		}

		role, _ := claims["role"].(string)
		role = strings.ToLower(role)

		c.Set("user_id", userID)
		c.Set("role", role)

		ctx := contextutil.WithUserID(c.Request.Context(), userID)
		ctx = contextutil.WithRole(ctx, role)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// RoleMiddleware admits only the listed roles.
func RoleMiddleware(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString("role")
		if role == "" || !slices.Contains(allowedRoles, role) {
			abortWith(c, apperror.ErrForbidden)
			return
		}
		c.Next()
	}
}

func abortWith(c *gin.Context, err *apperror.AppError) {
	httpErr := apperror.ToHTTP(err, c.GetBool(response.DevModeKey))
	c.AbortWithStatusJSON(httpErr.Status, response.ErrorBody{
		Error:   httpErr.Code,
		Message: httpErr.Message,
		Details: httpErr.Details,
	})
}
