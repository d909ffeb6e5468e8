package organization_test

import (
	"context"
	"errors"
	"time"

	"github.com/AsimAftab/SalesSphere-Backend-sub001/internal/access"
	"github.com/AsimAftab/SalesSphere-Backend-sub001/internal/cache"
	"github.com/AsimAftab/SalesSphere-Backend-sub001/internal/organization"
	"github.com/alicebob/miniredis/v2"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/redis/go-redis/v9"
)

type mockSnapshotSource struct {
	snapshots map[int64]*access.OrganizationSnapshot
	calls     int
	err       error
}

func (m *mockSnapshotSource) OrganizationWithPlan(ctx context.Context, organizationID int64) (*access.OrganizationSnapshot, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	snap, ok := m.snapshots[organizationID]
	if !ok {
		return nil, access.ErrOrganizationNotFound
	}
	return snap, nil
}

var _ = Describe("CachedProvider", func() {
	var (
		server   *miniredis.Miniredis
		source   *mockSnapshotSource
		provider *organization.CachedProvider
		ctx      context.Context
	)

	BeforeEach(func() {
		var err error
		server, err = miniredis.Run()
		Expect(err).NotTo(HaveOccurred())

		client := redis.NewClient(&redis.Options{Addr: server.Addr()})
		snapshotCache := cache.NewWithClient(client, time.Minute, testLogger())

		source = &mockSnapshotSource{
			snapshots: map[int64]*access.OrganizationSnapshot{
				1: {
					ID:                 1,
					Name:               "Acme Field Sales",
					SubscriptionEndsAt: time.Now().Add(24 * time.Hour).UTC().Truncate(time.Second),
					Plan: &access.PlanSnapshot{
						ID:             1,
						Name:           "standard",
						DisplayName:    "Standard",
						EnabledModules: []string{access.ModuleLeaves},
						ModuleFeatures: access.PermissionMap{
							access.ModuleLeaves: {access.FeatureViewOwn: true},
						},
					},
				},
			},
		}
		provider = organization.NewCachedProvider(source, snapshotCache, testLogger())
		ctx = context.Background()
	})

	AfterEach(func() {
		server.Close()
	})

	It("should serve repeated reads from the cache", func() {
		first, err := provider.OrganizationWithPlan(ctx, 1)
		Expect(err).NotTo(HaveOccurred())

		second, err := provider.OrganizationWithPlan(ctx, 1)
		Expect(err).NotTo(HaveOccurred())

		Expect(source.calls).To(Equal(1))
		Expect(second.Name).To(Equal(first.Name))
		Expect(second.Plan.DisplayName).To(Equal("Standard"))
		Expect(second.Plan.ModuleFeatures.Granted(access.ModuleLeaves, access.FeatureViewOwn)).To(BeTrue())
	})

	It("should reload from the source after invalidation", func() {
		_, err := provider.OrganizationWithPlan(ctx, 1)
		Expect(err).NotTo(HaveOccurred())

		provider.Invalidate(ctx, 1)

		_, err = provider.OrganizationWithPlan(ctx, 1)
		Expect(err).NotTo(HaveOccurred())
		Expect(source.calls).To(Equal(2))
	})

	It("should not cache a missing organization", func() {
		_, err := provider.OrganizationWithPlan(ctx, 404)
		Expect(err).To(MatchError(access.ErrOrganizationNotFound))

		_, err = provider.OrganizationWithPlan(ctx, 404)
		Expect(err).To(MatchError(access.ErrOrganizationNotFound))
		Expect(source.calls).To(Equal(2))
	})

	It("should fall through to the source when the cache is down", func() {
		server.Close()

		snap, err := provider.OrganizationWithPlan(ctx, 1)
		Expect(err).NotTo(HaveOccurred())
		Expect(snap.Name).To(Equal("Acme Field Sales"))
		Expect(source.calls).To(Equal(1))
	})

	It("should pass source failures through untouched", func() {
		source.err = errors.New("db down")

		_, err := provider.OrganizationWithPlan(ctx, 1)
		Expect(err).To(MatchError("db down"))
	})
})
