package infra

import (
	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
)

const (
	RoleAdmin    = "admin"
	RoleEmployee = "employee"
	RoleUser     = "user"
)

const modelText = `[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && (p.obj == "*" || r.obj == p.obj) && (p.act == "*" || r.act == p.act)
`

// Policy grants role the action on resource. "*" matches anything.
type Policy struct {
	Role     string
	Resource string
	Action   string
}

// DefaultPolicies are the role grants of the leave calendar. Admins inherit
// every employee grant and additionally hold a wildcard.
var DefaultPolicies = []Policy{
	{RoleEmployee, "leave", "read"},
	{RoleEmployee, "leave", "create"},
	{RoleEmployee, "balance", "read"},
	{RoleEmployee, "shift", "read"},
	{RoleEmployee, "attendance", "read"},
	{RoleEmployee, "attendance", "clock"},
	{RoleAdmin, "*", "*"},
}

// DefaultGroupings maps a role onto the role it inherits from.
var DefaultGroupings = [][2]string{
	{RoleAdmin, RoleEmployee},
	{RoleUser, RoleEmployee},
}

func NewEnforcer(policies []Policy, groupings [][2]string) (*casbin.Enforcer, error) {
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, err
	}
	e, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, err
	}

	for _, p := range policies {
		if _, err := e.AddPolicy(p.Role, p.Resource, p.Action); err != nil {
			return nil, err
		}
	}
	for _, g := range groupings {
		if _, err := e.AddGroupingPolicy(g[0], g[1]); err != nil {
			return nil, err
		}
	}
	return e, nil
}

func NewDefaultEnforcer() (*casbin.Enforcer, error) {
	return NewEnforcer(DefaultPolicies, DefaultGroupings)
}
