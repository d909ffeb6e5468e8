package access

import (
	"fmt"
	"sort"
)

// Module describes one business capability area: its feature keys with
// human descriptions, plus the conventional keys other components rely on.
// Base is the feature checked by module-level gates; Team and Master are the
// visibility-scope keys consumed by the hierarchy resolver; Approval is the
// status-transition key consumed by the approval authorizer. Team, Master
// and Approval are empty for modules without record scoping or workflows.
type Module struct {
	Name        string
	Description string
	Features    map[string]string
	Base        string
	Team        string
	Master      string
	Approval    string
}

// Registry is the static capability catalog. It is built once at process
// start and never mutated, so it is shared across request goroutines without
// locking. Every evaluator treats an unknown (module, feature) pair as a
// configuration error, never as a grant or an ordinary denial.
type Registry struct {
	modules map[string]Module
}

func NewRegistry(modules []Module) (*Registry, error) {
	byName := make(map[string]Module, len(modules))
	for _, m := range modules {
		if m.Name == "" {
			return nil, fmt.Errorf("module with empty name in catalog")
		}
		if _, dup := byName[m.Name]; dup {
			return nil, fmt.Errorf("duplicate module %q in catalog", m.Name)
		}
		if len(m.Features) == 0 {
			return nil, fmt.Errorf("module %q declares no features", m.Name)
		}
		for _, conventional := range []struct {
			kind string
			key  string
		}{
			{"base", m.Base},
			{"team", m.Team},
			{"master", m.Master},
			{"approval", m.Approval},
		} {
			if conventional.key == "" {
				if conventional.kind == "base" {
					return nil, fmt.Errorf("module %q has no base feature", m.Name)
				}
				continue
			}
			if _, ok := m.Features[conventional.key]; !ok {
				return nil, fmt.Errorf("module %q: %s feature %q is not in its feature set",
					m.Name, conventional.kind, conventional.key)
			}
		}
		byName[m.Name] = m
	}
	return &Registry{modules: byName}, nil
}

var defaultRegistry *Registry

func init() {
	r, err := NewRegistry(builtinCatalog())
	if err != nil {
		// the catalog is a compile-time literal; an invalid one cannot ship
		panic(err)
	}
	defaultRegistry = r
}

// DefaultRegistry returns the process-wide catalog built from the compiled-in
// vocabulary.
func DefaultRegistry() *Registry {
	return defaultRegistry
}

func (r *Registry) IsValidFeature(module, feature string) bool {
	m, ok := r.modules[module]
	if !ok {
		return false
	}
	_, ok = m.Features[feature]
	return ok
}

func (r *Registry) IsValidModule(module string) bool {
	_, ok := r.modules[module]
	return ok
}

// FeaturesOf returns a copy of the module's featureKey -> description map,
// or nil for an unknown module.
func (r *Registry) FeaturesOf(module string) map[string]string {
	m, ok := r.modules[module]
	if !ok {
		return nil
	}
	features := make(map[string]string, len(m.Features))
	for key, description := range m.Features {
		features[key] = description
	}
	return features
}

func (r *Registry) Modules() []string {
	names := make([]string, 0, len(r.modules))
	for name := range r.modules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) ModuleInfo(module string) (Module, bool) {
	m, ok := r.modules[module]
	return m, ok
}

// ValidatePermissions checks a permission map against the catalog and
// returns every unknown module/feature reference. Role administration calls
// this at write time so stored documents never contain stale vocabulary.
func (r *Registry) ValidatePermissions(perms PermissionMap) []string {
	var unknown []string
	for module, features := range perms {
		m, ok := r.modules[module]
		if !ok {
			unknown = append(unknown, module)
			continue
		}
		for feature := range features {
			if _, ok := m.Features[feature]; !ok {
				unknown = append(unknown, module+"."+feature)
			}
		}
	}
	sort.Strings(unknown)
	return unknown
}
