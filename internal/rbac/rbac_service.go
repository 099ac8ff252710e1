package rbac

import (
	"sort"
	"strings"
	"sync"

	"github.com/casbin/casbin/v2"
	"go.uber.org/zap"
)

// ActionReadAll is checked to decide whether a caller may see other users' rows.
const ActionReadAll = "read_all"

//go:generate mockgen -source=rbac_service.go -destination=mock/rbac_service_mock.go -package=mock
type Service interface {
	Enforce(req EnforceRequest) (bool, error)
	CanReadAll(role, resource string) bool
	Permissions(role string) (PermissionsResponse, error)
}

type service struct {
	enforcer *casbin.Enforcer
	mu       sync.Mutex
	logger   *zap.Logger
}

func NewService(enforcer *casbin.Enforcer, logger ...*zap.Logger) Service {
	l := zap.L().Named("rbac.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("rbac.service")
	}
	return &service{enforcer: enforcer, logger: l}
}

func normalizeRole(role string) string {
	return strings.ToLower(strings.TrimSpace(role))
}

func (s *service) Enforce(req EnforceRequest) (bool, error) {
	role := normalizeRole(req.Role)
	if role == "" {
		return false, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	allowed, err := s.enforcer.Enforce(role, req.Resource, req.Action)
	if err != nil {
		s.logger.Error("rbac enforce failed",
			zap.String("role", role),
			zap.String("resource", req.Resource),
			zap.String("action", req.Action),
			zap.Error(err),
		)
		return false, err
	}

	s.logger.Debug("rbac enforce result",
		zap.String("role", role),
		zap.String("resource", req.Resource),
		zap.String("action", req.Action),
		zap.Bool("allowed", allowed),
	)
	return allowed, nil
}

func (s *service) CanReadAll(role, resource string) bool {
	allowed, err := s.Enforce(EnforceRequest{Role: role, Resource: resource, Action: ActionReadAll})
	return err == nil && allowed
}

func (s *service) Permissions(role string) (PermissionsResponse, error) {
	role = normalizeRole(role)

	s.mu.Lock()
	perms, err := s.enforcer.GetImplicitPermissionsForUser(role)
	s.mu.Unlock()
	if err != nil {
		return PermissionsResponse{}, err
	}

	out := PermissionsResponse{Role: role, Permissions: make([]PermissionResponse, 0, len(perms))}
	for _, p := range perms {
		if len(p) < 3 {
			continue
		}
		out.Permissions = append(out.Permissions, PermissionResponse{Resource: p[1], Action: p[2]})
	}
	sort.Slice(out.Permissions, func(i, j int) bool {
		a, b := out.Permissions[i], out.Permissions[j]
		if a.Resource != b.Resource {
			return a.Resource < b.Resource
		}
		return a.Action < b.Action
	})
	return out, nil
}
