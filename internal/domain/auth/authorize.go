package auth

// Action names a capability a handler can demand.
type Action string

const (
	ActionFarmRead          Action = "farm.read"
	ActionFarmReadAll       Action = "farm.read_all"
	ActionFarmWrite         Action = "farm.write"
	ActionFarmDelete        Action = "farm.delete"
	ActionPlantWrite        Action = "plant.write"
	ActionSprayWrite        Action = "spray.write"
	ActionWeatherWrite      Action = "weather.write"
	ActionRecommendationRun Action = "recommendation.run"
	ActionDiagnosisRun      Action = "diagnosis.run"
	ActionUserManage        Action = "user.manage"
)

// Role names and their capability sets. The mapping is static; per-user
// role assignment is the only persisted piece.
const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleWorker  = "worker"
	RoleViewer  = "viewer"
)

var rolePermissions = map[string][]Action{
	RoleAdmin: {
		ActionFarmRead, ActionFarmReadAll, ActionFarmWrite, ActionFarmDelete,
		ActionPlantWrite, ActionSprayWrite, ActionWeatherWrite,
		ActionRecommendationRun, ActionDiagnosisRun, ActionUserManage,
	},
	RoleManager: {
		ActionFarmRead, ActionFarmReadAll, ActionFarmWrite,
		ActionPlantWrite, ActionSprayWrite, ActionWeatherWrite,
		ActionRecommendationRun, ActionDiagnosisRun,
	},
	RoleWorker: {
		ActionFarmRead, ActionSprayWrite, ActionWeatherWrite, ActionDiagnosisRun,
	},
	RoleViewer: {
		ActionFarmRead,
	},
}

// Principal is an immutable capability snapshot for one request, built from
// token claims. It carries everything Authorize needs; no live relation
// lookups happen during a check.
type Principal struct {
	UserID      int64
	Roles       []string
	permissions map[Action]struct{}
}

// ResourceRef describes the resource a check applies to, when ownership
// matters.
type ResourceRef struct {
	Type    string
	OwnerID int64
}

// NewPrincipal expands roles into the permission set once.
func NewPrincipal(userID int64, roles []string) Principal {
	perms := make(map[Action]struct{})
	for _, role := range roles {
		for _, action := range rolePermissions[role] {
			perms[action] = struct{}{}
		}
	}
	return Principal{UserID: userID, Roles: roles, permissions: perms}
}

// Authorize is a pure capability check: it consults only the principal
// snapshot and the resource value passed in. Owners may always read and
// write their own resources; everyone else needs the action in their
// permission set.
func Authorize(p Principal, action Action, resource *ResourceRef) bool {
	if resource != nil && resource.OwnerID != 0 && resource.OwnerID == p.UserID {
		return true
	}
	_, ok := p.permissions[action]
	return ok
}
