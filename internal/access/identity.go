package access

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Built-in base role names. superadmin is a system-wide, organization-less
// identity; admin and member are the organization-scoped defaults compiled
// into the evaluator.
const (
	RoleSuperAdmin = "superadmin"
	RoleAdmin      = "admin"
	RoleMember     = "member"
)

// PermissionMap is the granular module -> featureKey -> granted shape stored
// on plans and custom roles. A missing key always reads as false.
type PermissionMap map[string]map[string]bool

func (m PermissionMap) Granted(module, feature string) bool {
	features, ok := m[module]
	if !ok {
		return false
	}
	return features[feature]
}

func (m PermissionMap) Value() (driver.Value, error) {
	if m == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(m)
}

func (m *PermissionMap) Scan(value interface{}) error {
	if value == nil {
		*m = PermissionMap{}
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type %T for permission map", value)
	}
	if len(data) == 0 {
		*m = PermissionMap{}
		return nil
	}
	return json.Unmarshal(data, m)
}

// CustomRole is an organization-defined permission bundle, resolved by the
// authentication layer before the engine sees it. Once assigned it fully
// replaces the built-in defaults of the user's base role.
type CustomRole struct {
	ID                int64
	Name              string
	Permissions       PermissionMap
	AllowWebAccess    bool
	AllowMobileAccess bool
}

// Identity is the authenticated principal every engine operation works on.
// ReportsTo holds the ids of the user's direct supervisors; a user may have
// several, so the reporting relation is a graph, not a tree.
type Identity struct {
	UserID         int64
	OrganizationID int64
	Email          string
	Name           string
	BaseRole       string
	CustomRole     *CustomRole
	ReportsTo      []int64
}

func (id *Identity) IsSuperRole() bool {
	return id != nil && id.BaseRole == RoleSuperAdmin
}

// ActsAsAdmin reports whether the identity carries full administrative
// authority: a system super-role, or the admin base role with no custom role
// in effect. An admin with a custom role assigned is deliberately excluded,
// since the custom role shadows the admin defaults.
func (id *Identity) ActsAsAdmin() bool {
	if id == nil {
		return false
	}
	if id.BaseRole == RoleSuperAdmin {
		return true
	}
	return id.BaseRole == RoleAdmin && id.CustomRole == nil
}

// RoleName names the role the identity is effectively acting under, for
// denial messages and audit logs.
func (id *Identity) RoleName() string {
	if id == nil {
		return ""
	}
	if id.CustomRole != nil {
		return id.CustomRole.Name
	}
	return id.BaseRole
}

func (id *Identity) HasSupervisor(userID int64) bool {
	if id == nil {
		return false
	}
	for _, sup := range id.ReportsTo {
		if sup == userID {
			return true
		}
	}
	return false
}

type identityCtxKey struct{}

func ContextWithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityCtxKey{}, id)
}

func IdentityFromContext(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(identityCtxKey{}).(*Identity)
	if !ok || id == nil {
		return nil, false
	}
	return id, true
}
