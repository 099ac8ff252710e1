package leavebalance_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"go-timesheet/internal/leavebalance"
	leavebalanceerrors "go-timesheet/internal/leavebalance/errors"
	"go-timesheet/internal/rbac"
	"go-timesheet/internal/rbac/infra"
	"go-timesheet/internal/shared/apperror"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	apperror.Init()
	os.Exit(m.Run())
}

type fakeBalanceService struct {
	upsertFn  func(ctx context.Context, actorID string, req leavebalance.UpsertLeaveBalanceRequest) (leavebalance.LeaveBalanceResponse, error)
	listFn    func(ctx context.Context, actorID string, canReadAll bool, query leavebalance.ListQuery) ([]leavebalance.LeaveBalanceResponse, error)
	currentFn func(ctx context.Context, actorID string, canReadAll bool, query leavebalance.ListQuery) ([]leavebalance.LeaveBalanceResponse, error)
}

func (f *fakeBalanceService) Upsert(ctx context.Context, actorID string, req leavebalance.UpsertLeaveBalanceRequest) (leavebalance.LeaveBalanceResponse, error) {
	return f.upsertFn(ctx, actorID, req)
}

func (f *fakeBalanceService) List(ctx context.Context, actorID string, canReadAll bool, query leavebalance.ListQuery) ([]leavebalance.LeaveBalanceResponse, error) {
	return f.listFn(ctx, actorID, canReadAll, query)
}

func (f *fakeBalanceService) Current(ctx context.Context, actorID string, canReadAll bool, query leavebalance.ListQuery) ([]leavebalance.LeaveBalanceResponse, error) {
	return f.currentFn(ctx, actorID, canReadAll, query)
}

func newBalanceRouter(t *testing.T, svc leavebalance.Service, userID, role string) *gin.Engine {
	t.Helper()

	enforcer, err := infra.NewDefaultEnforcer()
	require.NoError(t, err)

	r := gin.New()
	group := r.Group("/balances", func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Set("role", role)
		c.Next()
	})
	leavebalance.RegisterRoutes(group, leavebalance.NewHandler(svc), rbac.NewService(enforcer))
	return r
}

func serve(r *gin.Engine, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestLeaveBalanceHandler_Upsert(t *testing.T) {
	admin := uuid.NewString()
	target := uuid.NewString()
	payload := `{"user_id":"` + target + `","leave_type":"Casual Leave","financial_year":"2024-25","opening_balance":12,"availed":3,"lapse":1}`

	t.Run("admin upserts", func(t *testing.T) {
		svc := &fakeBalanceService{
			upsertFn: func(ctx context.Context, actorID string, req leavebalance.UpsertLeaveBalanceRequest) (leavebalance.LeaveBalanceResponse, error) {
				assert.Equal(t, admin, actorID)
				assert.Equal(t, 12.0, req.OpeningBalance)
				return leavebalance.LeaveBalanceResponse{UserID: req.UserID, Balance: 8, Version: 1}, nil
			},
		}

		w := serve(newBalanceRouter(t, svc, admin, "admin"), http.MethodPut, "/balances", payload)

		assert.Equal(t, http.StatusOK, w.Code)
		var body map[string]leavebalance.LeaveBalanceResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, 8.0, body["leave_balance"].Balance)
	})

	t.Run("negative employee is forbidden", func(t *testing.T) {
		w := serve(newBalanceRouter(t, &fakeBalanceService{}, uuid.NewString(), "employee"), http.MethodPut, "/balances", payload)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("negative availed is rejected", func(t *testing.T) {
		body := strings.Replace(payload, `"availed":3`, `"availed":-1`, 1)
		w := serve(newBalanceRouter(t, &fakeBalanceService{}, admin, "admin"), http.MethodPut, "/balances", body)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("negative version conflict", func(t *testing.T) {
		svc := &fakeBalanceService{
			upsertFn: func(context.Context, string, leavebalance.UpsertLeaveBalanceRequest) (leavebalance.LeaveBalanceResponse, error) {
				return leavebalance.LeaveBalanceResponse{}, leavebalanceerrors.ErrVersionConflict
			},
		}
		body := strings.TrimSuffix(payload, "}") + `,"expected_version":2}`
		w := serve(newBalanceRouter(t, svc, admin, "admin"), http.MethodPut, "/balances", body)
		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestLeaveBalanceHandler_List(t *testing.T) {
	t.Run("employee reads own rows", func(t *testing.T) {
		employee := uuid.NewString()
		svc := &fakeBalanceService{
			listFn: func(ctx context.Context, actorID string, canReadAll bool, query leavebalance.ListQuery) ([]leavebalance.LeaveBalanceResponse, error) {
				assert.Equal(t, employee, actorID)
				assert.False(t, canReadAll)
				return []leavebalance.LeaveBalanceResponse{{UserID: employee, Balance: 5}}, nil
			},
		}

		w := serve(newBalanceRouter(t, svc, employee, "employee"), http.MethodGet, "/balances", "")

		assert.Equal(t, http.StatusOK, w.Code)
		var body map[string][]leavebalance.LeaveBalanceResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Len(t, body["leave_balances"], 1)
	})

	t.Run("admin reads all", func(t *testing.T) {
		svc := &fakeBalanceService{
			currentFn: func(ctx context.Context, actorID string, canReadAll bool, query leavebalance.ListQuery) ([]leavebalance.LeaveBalanceResponse, error) {
				assert.True(t, canReadAll)
				return nil, nil
			},
		}

		w := serve(newBalanceRouter(t, svc, uuid.NewString(), "admin"), http.MethodGet, "/balances/current", "")
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("negative malformed user filter", func(t *testing.T) {
		w := serve(newBalanceRouter(t, &fakeBalanceService{}, uuid.NewString(), "admin"), http.MethodGet, "/balances?user_id=abc", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
