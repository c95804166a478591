// Package access holds the role table: which named views each role sees and
// which actions it may perform.
package access

import (
	"fmt"
	"sync"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"

	"github.com/talenthub/portal-backend/internal/users/domain"
)

const modelText = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && r.obj == p.obj && r.act == p.act
`

// Named views.
const (
	ViewDashboard     = "dashboard"
	ViewProfile       = "profile"
	ViewLearning      = "learning"
	ViewPerformance   = "performance"
	ViewForms         = "forms"
	ViewCerts         = "certs"
	ViewApprovals     = "approvals"
	ViewAdmin         = "admin"
	ViewRisk          = "risk"
	ViewCohorts       = "cohorts"
	ViewAnnouncements = "announcements"
	ViewDirectory     = "directory"
	ViewDocuments     = "documents"
	ViewFeedback      = "feedback"
)

// Objects and actions guarded by Require.
const (
	ObjRequests      = "requests"
	ObjUsers         = "users"
	ObjAnnouncements = "announcements"
	ObjScorecards    = "scorecards"
	ObjAnalytics     = "analytics"

	ActApprove = "approve"
	ActManage  = "manage"
	ActWrite   = "write"
	ActRead    = "read"

	actView     = "view"
	globalGroup = "everyone"
)

var viewPolicy = map[domain.Role][]string{
	domain.RoleCandidate:    {ViewDashboard, ViewProfile, ViewLearning, ViewPerformance, ViewForms, ViewCerts},
	domain.RoleTechChampion: {ViewDashboard, ViewProfile, ViewRisk, ViewPerformance, ViewCohorts, ViewAnnouncements},
	domain.RoleManager:      {ViewDashboard, ViewProfile, ViewApprovals, ViewRisk, ViewCohorts, ViewAnnouncements},
	domain.RoleAdmin:        {ViewDashboard, ViewProfile, ViewAdmin, ViewRisk, ViewCohorts, ViewAnnouncements},
}

var globalViews = []string{ViewDirectory, ViewDocuments, ViewFeedback}

var actionPolicy = [][3]string{
	{string(domain.RoleTechChampion), ObjRequests, ActApprove},
	{string(domain.RoleManager), ObjRequests, ActApprove},
	{string(domain.RoleAdmin), ObjRequests, ActApprove},

	{string(domain.RoleAdmin), ObjUsers, ActManage},

	{string(domain.RoleTechChampion), ObjAnnouncements, ActManage},
	{string(domain.RoleManager), ObjAnnouncements, ActManage},
	{string(domain.RoleAdmin), ObjAnnouncements, ActManage},

	{string(domain.RoleTechChampion), ObjScorecards, ActWrite},
	{string(domain.RoleManager), ObjScorecards, ActWrite},
	{string(domain.RoleAdmin), ObjScorecards, ActWrite},

	{string(domain.RoleTechChampion), ObjAnalytics, ActRead},
	{string(domain.RoleManager), ObjAnalytics, ActRead},
	{string(domain.RoleAdmin), ObjAnalytics, ActRead},
}

// Enforcer answers role/view and role/action questions.
type Enforcer struct {
	mu sync.RWMutex
	e  *casbin.Enforcer
}

func New() (*Enforcer, error) {
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, fmt.Errorf("access: failed to parse model: %w", err)
	}
	e, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("access: failed to initialize enforcer: %w", err)
	}

	for role, views := range viewPolicy {
		for _, v := range views {
			if _, err := e.AddPolicy(string(role), viewObject(v), actView); err != nil {
				return nil, fmt.Errorf("access: add view policy: %w", err)
			}
		}
		if _, err := e.AddGroupingPolicy(string(role), globalGroup); err != nil {
			return nil, fmt.Errorf("access: add grouping policy: %w", err)
		}
	}
	for _, v := range globalViews {
		if _, err := e.AddPolicy(globalGroup, viewObject(v), actView); err != nil {
			return nil, fmt.Errorf("access: add view policy: %w", err)
		}
	}
	for _, p := range actionPolicy {
		if _, err := e.AddPolicy(p[0], p[1], p[2]); err != nil {
			return nil, fmt.Errorf("access: add action policy: %w", err)
		}
	}

	return &Enforcer{e: e}, nil
}

// Allowed reports whether role may perform act on obj.
func (a *Enforcer) Allowed(role domain.Role, obj, act string) bool {
	a.mu.RLock()
	defer a.mu.RUnlock()

	ok, err := a.e.Enforce(string(role), obj, act)
	return err == nil && ok
}

// CanView reports whether role may open view.
func (a *Enforcer) CanView(role domain.Role, view string) bool {
	return a.Allowed(role, viewObject(view), actView)
}

// Views lists the role's views in sidebar order: role views first, then the
// views every role shares.
func (a *Enforcer) Views(role domain.Role) []string {
	out := []string{}
	for _, v := range append(append([]string{}, viewPolicy[role]...), globalViews...) {
		if a.CanView(role, v) {
			out = append(out, v)
		}
	}
	return out
}

func viewObject(v string) string {
	return "view:" + v
}
