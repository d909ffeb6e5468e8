package access

// RoleEvaluator answers "does this identity's role grant this capability".
// Precedence is strict: a custom role, once assigned, fully replaces the
// built-in defaults of the base role. There is no merging and no fallback,
// so an administrator can hand out a custom role more restrictive than the
// user's base role without leaking default grants.
type RoleEvaluator struct {
	registry *Registry
	defaults map[string]PermissionMap
}

func NewRoleEvaluator(registry *Registry) *RoleEvaluator {
	return &RoleEvaluator{
		registry: registry,
		defaults: map[string]PermissionMap{
			RoleAdmin:  adminDefaults(registry),
			RoleMember: memberDefaults(),
		},
	}
}

// CheckRole evaluates the role gate for one capability. The super-role
// bypass is restated here so the evaluator stays safe when invoked
// standalone; the composite checker short-circuits before reaching it.
func (e *RoleEvaluator) CheckRole(id *Identity, module, feature string) Decision {
	if id == nil {
		return authRequired()
	}
	if id.IsSuperRole() {
		return allowed()
	}
	if !e.registry.IsValidFeature(module, feature) {
		return invalidFeature(module, feature)
	}

	if id.CustomRole != nil {
		if id.CustomRole.Permissions.Granted(module, feature) {
			return allowed()
		}
		return roleDenied(id, module, feature)
	}

	if defaults, ok := e.defaults[id.BaseRole]; ok && defaults.Granted(module, feature) {
		return allowed()
	}
	return roleDenied(id, module, feature)
}
