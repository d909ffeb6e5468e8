package access

import (
	"context"
	"log/slog"

	"github.com/AsimAftab/SalesSphere-Backend-sub001/internal"
)

// Checker is the single entry point business collaborators use. It runs the
// plan gate and the role gate in that order, with a super-role bypass in
// front of both, and offers AND/OR combinators over capability sets.
type Checker struct {
	registry *Registry
	plans    *PlanEvaluator
	roles    *RoleEvaluator
	logger   *slog.Logger
	metrics  *Metrics
}

func NewChecker(registry *Registry, orgs OrganizationProvider, logger *slog.Logger, metrics *Metrics) *Checker {
	return &Checker{
		registry: registry,
		plans:    NewPlanEvaluator(registry, orgs),
		roles:    NewRoleEvaluator(registry),
		logger:   logger,
		metrics:  metrics,
	}
}

func (c *Checker) Registry() *Registry {
	return c.registry
}

// CheckAccess evaluates one capability. A denial names the failing gate and
// its code; the error return is reserved for PLAN_CHECK_ERROR, meaning the
// permission system itself could not answer.
func (c *Checker) CheckAccess(ctx context.Context, id *Identity, module, feature string) (Decision, error) {
	dec, err := c.evaluate(ctx, id, module, feature)
	if err != nil {
		c.logger.Error("plan check failed",
			"module", module,
			"feature", feature,
			"error", err)
		c.metrics.RecordDecision(module, "error", SourcePlan)
		return Decision{}, internal.NewPlanCheckError(err)
	}
	c.record(module, dec)
	return dec, nil
}

func (c *Checker) evaluate(ctx context.Context, id *Identity, module, feature string) (Decision, error) {
	if id == nil {
		return authRequired(), nil
	}
	// An unknown pair is a programming defect and fails closed for every
	// caller, super-roles included.
	if !c.registry.IsValidFeature(module, feature) {
		c.logger.Error("unknown feature requested",
			"module", module,
			"feature", feature)
		return invalidFeature(module, feature), nil
	}
	if id.IsSuperRole() {
		return allowed(), nil
	}

	planDec, err := c.plans.CheckPlan(ctx, id.OrganizationID, module, feature)
	if err != nil {
		return Decision{}, err
	}
	if !planDec.Allowed {
		return planDec, nil
	}

	return c.roles.CheckRole(id, module, feature), nil
}

// CheckAnyAccess allows when at least one pair passes both gates. The denial
// is deliberately coarse: several independent paths failed for several
// independent reasons, so no single code would be honest.
func (c *Checker) CheckAnyAccess(ctx context.Context, id *Identity, pairs []FeaturePair) (Decision, error) {
	if id == nil {
		return authRequired(), nil
	}
	if dec, ok := c.validatePairs(pairs); !ok {
		return dec, nil
	}
	if id.IsSuperRole() {
		return allowed(), nil
	}

	for _, pair := range pairs {
		dec, err := c.evaluate(ctx, id, pair.Module, pair.Feature)
		if err != nil {
			c.metrics.RecordDecision(pair.Module, "error", SourcePlan)
			return Decision{}, internal.NewPlanCheckError(err)
		}
		if dec.Allowed {
			c.record(pair.Module, dec)
			return dec, nil
		}
	}

	dec := noAccess()
	c.record("", dec)
	return dec, nil
}

// CheckAllAccess allows only when every pair passes both gates,
// short-circuiting on the first failure and reporting that pair's reason.
func (c *Checker) CheckAllAccess(ctx context.Context, id *Identity, pairs []FeaturePair) (Decision, error) {
	if id == nil {
		return authRequired(), nil
	}
	if dec, ok := c.validatePairs(pairs); !ok {
		return dec, nil
	}
	if id.IsSuperRole() {
		return allowed(), nil
	}

	for _, pair := range pairs {
		dec, err := c.evaluate(ctx, id, pair.Module, pair.Feature)
		if err != nil {
			c.metrics.RecordDecision(pair.Module, "error", SourcePlan)
			return Decision{}, internal.NewPlanCheckError(err)
		}
		if !dec.Allowed {
			c.record(pair.Module, dec)
			return dec, nil
		}
	}
	return allowed(), nil
}

// CheckModuleAccess runs the dual gate on the module's conventional base
// view feature, for coarse "can this user see the module at all" gating.
func (c *Checker) CheckModuleAccess(ctx context.Context, id *Identity, module string) (Decision, error) {
	info, ok := c.registry.ModuleInfo(module)
	if !ok {
		c.logger.Error("unknown module requested", "module", module)
		return invalidFeature(module, ""), nil
	}
	return c.CheckAccess(ctx, id, module, info.Base)
}

// validatePairs fails closed when the combinator input itself is malformed:
// an empty list or any pair outside the registry vocabulary is a caller bug,
// not a permission question.
func (c *Checker) validatePairs(pairs []FeaturePair) (Decision, bool) {
	if len(pairs) == 0 {
		c.logger.Error("access combinator called with no capability pairs")
		return invalidFeature("", ""), false
	}
	for _, pair := range pairs {
		if !c.registry.IsValidFeature(pair.Module, pair.Feature) {
			c.logger.Error("unknown feature requested",
				"module", pair.Module,
				"feature", pair.Feature)
			return invalidFeature(pair.Module, pair.Feature), false
		}
	}
	return Decision{}, true
}

func (c *Checker) record(module string, dec Decision) {
	if dec.Allowed {
		c.metrics.RecordDecision(module, "allow", SourceNone)
		return
	}
	c.metrics.RecordDecision(module, "deny", dec.Source)
}
