package rbac

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeService struct {
	permissionsFn func(role string) (PermissionsResponse, error)
}

func (f *fakeService) Enforce(req EnforceRequest) (bool, error) { return false, nil }

func (f *fakeService) CanReadAll(role, resource string) bool { return false }

func (f *fakeService) Permissions(role string) (PermissionsResponse, error) {
	return f.permissionsFn(role)
}

func TestHandler_Permissions(t *testing.T) {
	gin.SetMode(gin.TestMode)

	newRouter := func(svc Service) *gin.Engine {
		r := gin.New()
		r.GET("/permissions", func(c *gin.Context) {
			c.Set("role", "employee")
			c.Next()
		}, NewHandler(svc).Permissions)
		return r
	}

	t.Run("success", func(t *testing.T) {
		svc := &fakeService{permissionsFn: func(role string) (PermissionsResponse, error) {
			assert.Equal(t, "employee", role)
			return PermissionsResponse{
				Role:        role,
				Permissions: []PermissionResponse{{Resource: "leave", Action: "read"}},
			}, nil
		}}

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/permissions", nil)
		newRouter(svc).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var body map[string]PermissionsResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "employee", body["permissions"].Role)
		assert.Len(t, body["permissions"].Permissions, 1)
	})

	t.Run("negative service error", func(t *testing.T) {
		svc := &fakeService{permissionsFn: func(role string) (PermissionsResponse, error) {
			return PermissionsResponse{}, errors.New("casbin down")
		}}

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/permissions", nil)
		newRouter(svc).ServeHTTP(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, w.Body.String(), "INTERNAL_ERROR")
	})
}
