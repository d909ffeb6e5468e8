package access

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/AsimAftab/SalesSphere-Backend-sub001/internal"
)

// ErrOrganizationNotFound is the sentinel OrganizationProvider
// implementations return when the organization id does not exist. Any other
// error from the provider is treated as an infrastructure failure and
// surfaces as PLAN_CHECK_ERROR, never as a denial.
var ErrOrganizationNotFound = errors.New("organization not found")

// PlanSnapshot is the read-only view of a subscription plan the evaluator
// works on. ModuleFeatures is consulted only for modules present in
// EnabledModules; a feature flagged true under a disabled module is ignored.
type PlanSnapshot struct {
	ID             int64         `json:"id"`
	Name           string        `json:"name"`
	DisplayName    string        `json:"displayName"`
	EnabledModules []string      `json:"enabledModules"`
	ModuleFeatures PermissionMap `json:"moduleFeatures"`
}

func (p *PlanSnapshot) ModuleEnabled(module string) bool {
	if p == nil {
		return false
	}
	for _, m := range p.EnabledModules {
		if m == module {
			return true
		}
	}
	return false
}

// OrganizationSnapshot carries everything the plan gate needs about a
// tenant: its plan (nil when none is attached) and the subscription expiry.
type OrganizationSnapshot struct {
	ID                 int64         `json:"id"`
	Name               string        `json:"name"`
	SubscriptionEndsAt time.Time     `json:"subscriptionEndsAt"`
	Plan               *PlanSnapshot `json:"plan"`
}

func (o *OrganizationSnapshot) SubscriptionExpired(now time.Time) bool {
	return !o.SubscriptionEndsAt.IsZero() && o.SubscriptionEndsAt.Before(now)
}

// OrganizationProvider loads an organization with its plan populated. The
// evaluator performs this read on every check, so implementations are
// expected to be cheap (the repo's redis decorator and the per-request
// snapshot cache both exist for this).
type OrganizationProvider interface {
	OrganizationWithPlan(ctx context.Context, organizationID int64) (*OrganizationSnapshot, error)
}

// PlanEvaluator answers "does this organization's subscription include this
// capability". It is read-only and side-effect-free.
type PlanEvaluator struct {
	registry *Registry
	orgs     OrganizationProvider
	now      func() time.Time
}

func NewPlanEvaluator(registry *Registry, orgs OrganizationProvider) *PlanEvaluator {
	return &PlanEvaluator{
		registry: registry,
		orgs:     orgs,
		now:      time.Now,
	}
}

// CheckPlan evaluates the subscription gate. Denial reasons are checked in a
// fixed order: unknown organization, expired subscription, missing plan,
// module not purchased, feature not purchased. The error return is reserved
// for provider failures; callers surface those as PLAN_CHECK_ERROR.
func (e *PlanEvaluator) CheckPlan(ctx context.Context, organizationID int64, module, feature string) (Decision, error) {
	if !e.registry.IsValidFeature(module, feature) {
		return invalidFeature(module, feature), nil
	}

	org, err := e.loadOrganization(ctx, organizationID)
	if err != nil {
		if errors.Is(err, ErrOrganizationNotFound) {
			return planDenied(internal.ErrCodeOrganizationNotFound,
				"Organization not found", module, feature, ""), nil
		}
		return Decision{}, fmt.Errorf("load organization %d: %w", organizationID, err)
	}

	if org.SubscriptionExpired(e.now()) {
		return planDenied(internal.ErrCodeSubscriptionExpired,
			"Your subscription has expired. Please renew to continue.", module, feature, planName(org.Plan)), nil
	}

	if org.Plan == nil {
		return planDenied(internal.ErrCodeNoSubscriptionPlan,
			"No subscription plan is attached to your organization", module, feature, ""), nil
	}

	if !org.Plan.ModuleEnabled(module) {
		return planDenied(internal.ErrCodeModuleNotInPlan,
			fmt.Sprintf("The %s module is not included in the %s plan", module, org.Plan.DisplayName),
			module, feature, org.Plan.DisplayName), nil
	}

	if !org.Plan.ModuleFeatures.Granted(module, feature) {
		return planDenied(internal.ErrCodeFeatureNotInPlan,
			fmt.Sprintf("This capability is not included in the %s plan", org.Plan.DisplayName),
			module, feature, org.Plan.DisplayName), nil
	}

	return allowed(), nil
}

func planName(p *PlanSnapshot) string {
	if p == nil {
		return ""
	}
	return p.DisplayName
}

func (e *PlanEvaluator) loadOrganization(ctx context.Context, organizationID int64) (*OrganizationSnapshot, error) {
	cache := requestCacheFrom(ctx)
	if cache != nil {
		if org, ok := cache.get(organizationID); ok {
			return org, nil
		}
	}

	org, err := e.orgs.OrganizationWithPlan(ctx, organizationID)
	if err != nil {
		return nil, err
	}
	if org == nil {
		return nil, ErrOrganizationNotFound
	}

	if cache != nil {
		cache.put(organizationID, org)
	}
	return org, nil
}

// snapshotCache keeps the organization+plan read stable for the duration of
// one request, so a handler running several capability checks hits the
// provider once. It caches only successful loads.
type snapshotCache struct {
	mu   sync.Mutex
	orgs map[int64]*OrganizationSnapshot
}

func (c *snapshotCache) get(id int64) (*OrganizationSnapshot, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	org, ok := c.orgs[id]
	return org, ok
}

func (c *snapshotCache) put(id int64, org *OrganizationSnapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.orgs[id] = org
}

type requestCacheKey struct{}

// WithRequestCache arms the per-request organization snapshot cache. Calling
// it on a context that already carries one is a no-op.
func WithRequestCache(ctx context.Context) context.Context {
	if requestCacheFrom(ctx) != nil {
		return ctx
	}
	return context.WithValue(ctx, requestCacheKey{}, &snapshotCache{orgs: make(map[int64]*OrganizationSnapshot)})
}

func requestCacheFrom(ctx context.Context) *snapshotCache {
	cache, _ := ctx.Value(requestCacheKey{}).(*snapshotCache)
	return cache
}
