package organization

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/AsimAftab/SalesSphere-Backend-sub001/internal/access"
	"github.com/AsimAftab/SalesSphere-Backend-sub001/internal/cache"
)

// CachedProvider sits between the access engine and the organization repo.
// Plan snapshots change rarely but are read on every capability check, so
// they live in redis under a short TTL. A cache outage degrades to direct
// reads rather than failing checks.
type CachedProvider struct {
	source access.OrganizationProvider
	cache  *cache.Cache
	logger *slog.Logger
}

func NewCachedProvider(source access.OrganizationProvider, c *cache.Cache, logger *slog.Logger) *CachedProvider {
	return &CachedProvider{
		source: source,
		cache:  c,
		logger: logger,
	}
}

func snapshotKey(organizationID int64) string {
	return fmt.Sprintf("org:%d", organizationID)
}

func (p *CachedProvider) OrganizationWithPlan(ctx context.Context, organizationID int64) (*access.OrganizationSnapshot, error) {
	if p.cache == nil {
		return p.source.OrganizationWithPlan(ctx, organizationID)
	}

	key := snapshotKey(organizationID)
	var snap access.OrganizationSnapshot
	err := p.cache.Get(ctx, key, &snap)
	if err == nil {
		return &snap, nil
	}
	if !errors.Is(err, cache.ErrMiss) {
		p.logger.Warn("organization snapshot cache read failed", "organization_id", organizationID, "error", err)
	}

	org, err := p.source.OrganizationWithPlan(ctx, organizationID)
	if err != nil {
		return nil, err
	}

	// not-found is never cached so a freshly created tenant is visible
	// immediately
	if setErr := p.cache.Set(ctx, key, org); setErr != nil {
		p.logger.Warn("organization snapshot cache write failed", "organization_id", organizationID, "error", setErr)
	}
	return org, nil
}

// Invalidate drops the cached snapshot after a profile or plan change.
func (p *CachedProvider) Invalidate(ctx context.Context, organizationID int64) {
	if p.cache == nil {
		return
	}
	if err := p.cache.Delete(ctx, snapshotKey(organizationID)); err != nil {
		p.logger.Warn("organization snapshot invalidation failed", "organization_id", organizationID, "error", err)
	}
}
