package access_test

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/AsimAftab/SalesSphere-Backend-sub001/internal"
	"github.com/AsimAftab/SalesSphere-Backend-sub001/internal/access"
)

var _ = Describe("HierarchyResolver", func() {
	var (
		provider  *mockOrgProvider
		directory *mockDirectory
		resolver  *access.HierarchyResolver
		ctx       context.Context
	)

	BeforeEach(func() {
		provider = newMockOrgProvider(activeOrg(1, standardPlan()), activeOrg(2, premiumPlan()))
		directory = &mockDirectory{}
		checker := access.NewChecker(access.DefaultRegistry(), provider, testLogger(), nil)
		resolver = access.NewHierarchyResolver(checker, directory, testLogger(), nil)
		ctx = context.Background()
	})

	It("requires an identity", func() {
		_, err := resolver.ResolveVisibility(ctx, nil, access.ModuleLeaves, access.FeatureViewAll)
		Expect(err).To(MatchError(internal.ErrAuthenticationRequired))
	})

	It("grants super-roles unrestricted visibility without touching any data", func() {
		provider.err = errors.New("provider must not be called")
		directory.err = errors.New("directory must not be called")

		vis, err := resolver.ResolveVisibility(ctx, superIdentity(7), access.ModuleLeaves, access.FeatureViewAll)
		Expect(err).ToNot(HaveOccurred())
		Expect(vis.Scope).To(Equal(access.ScopeUnrestricted))
		Expect(vis.UserIDs).To(BeEmpty())
		Expect(provider.calls).To(BeZero())
		Expect(directory.calls).To(BeZero())
	})

	It("grants unrestricted visibility on the master feature without reading edges", func() {
		vis, err := resolver.ResolveVisibility(ctx, adminIdentity(1, 2), access.ModuleAttendance, access.FeatureViewAll)
		Expect(err).ToNot(HaveOccurred())
		Expect(vis.Scope).To(Equal(access.ScopeUnrestricted))
		Expect(directory.calls).To(BeZero())
	})

	It("falls from master to team when the plan lacks the master feature", func() {
		// the standard plan carries viewTeam but not viewAll
		directory.edges = []access.ReportingEdge{{UserID: 11, SupervisorID: 1}}

		vis, err := resolver.ResolveVisibility(ctx, adminIdentity(1, 1), access.ModuleLeaves, access.FeatureViewAll)
		Expect(err).ToNot(HaveOccurred())
		Expect(vis.Scope).To(Equal(access.ScopeTeam))
		Expect(vis.UserIDs).To(Equal([]int64{1, 11}))
	})

	It("collects direct and indirect reports into the team filter", func() {
		manager := withCustomRole(memberIdentity(100, 1), "Area Manager", access.PermissionMap{
			access.ModuleLeaves: {access.FeatureViewTeam: true},
		})
		directory.edges = []access.ReportingEdge{
			{UserID: 101, SupervisorID: 100},
			{UserID: 102, SupervisorID: 100},
			{UserID: 103, SupervisorID: 100},
			{UserID: 104, SupervisorID: 102},
			{UserID: 200, SupervisorID: 201}, // unrelated branch stays out
		}

		vis, err := resolver.ResolveVisibility(ctx, manager, access.ModuleLeaves, access.FeatureViewAll)
		Expect(err).ToNot(HaveOccurred())
		Expect(vis.Scope).To(Equal(access.ScopeTeam))
		Expect(vis.UserIDs).To(Equal([]int64{100, 101, 102, 103, 104}))
		Expect(directory.calls).To(Equal(1))
	})

	It("terminates on reporting cycles", func() {
		manager := withCustomRole(memberIdentity(1, 1), "Lead", access.PermissionMap{
			access.ModuleLeaves: {access.FeatureViewTeam: true},
		})
		directory.edges = []access.ReportingEdge{
			{UserID: 1, SupervisorID: 2},
			{UserID: 2, SupervisorID: 1},
		}

		vis, err := resolver.ResolveVisibility(ctx, manager, access.ModuleLeaves, "")
		Expect(err).ToNot(HaveOccurred())
		Expect(vis.UserIDs).To(Equal([]int64{1, 2}))
	})

	It("terminates on a self-edge", func() {
		manager := withCustomRole(memberIdentity(5, 1), "Lead", access.PermissionMap{
			access.ModuleLeaves: {access.FeatureViewTeam: true},
		})
		directory.edges = []access.ReportingEdge{
			{UserID: 5, SupervisorID: 5},
		}

		vis, err := resolver.ResolveVisibility(ctx, manager, access.ModuleLeaves, "")
		Expect(err).ToNot(HaveOccurred())
		Expect(vis.UserIDs).To(Equal([]int64{5}))
	})

	It("defaults to self-only when the role grants no team visibility", func() {
		vis, err := resolver.ResolveVisibility(ctx, memberIdentity(10, 1), access.ModuleLeaves, access.FeatureViewAll)
		Expect(err).ToNot(HaveOccurred())
		Expect(vis.Scope).To(Equal(access.ScopeSelf))
		Expect(vis.UserIDs).To(Equal([]int64{10}))
		Expect(directory.calls).To(BeZero())
	})

	It("degrades to self-only when the plan lost team visibility", func() {
		plan := standardPlan()
		delete(plan.ModuleFeatures[access.ModuleLeaves], access.FeatureViewTeam)
		provider.orgs[1] = activeOrg(1, plan)
		manager := withCustomRole(memberIdentity(100, 1), "Area Manager", access.PermissionMap{
			access.ModuleLeaves: {access.FeatureViewTeam: true},
		})

		vis, err := resolver.ResolveVisibility(ctx, manager, access.ModuleLeaves, "")
		Expect(err).ToNot(HaveOccurred())
		Expect(vis.Scope).To(Equal(access.ScopeSelf))
		Expect(vis.UserIDs).To(Equal([]int64{100}))
	})

	It("skips the master gate when no master feature is supplied", func() {
		vis, err := resolver.ResolveVisibility(ctx, memberIdentity(10, 1), access.ModuleLeaves, "")
		Expect(err).ToNot(HaveOccurred())
		Expect(vis.Scope).To(Equal(access.ScopeSelf))
	})

	It("propagates an unknown master feature as a configuration error", func() {
		_, err := resolver.ResolveVisibility(ctx, memberIdentity(10, 1), access.ModuleLeaves, "viewEverything")
		Expect(err).To(HaveOccurred())

		appErr, ok := internal.IsAppError(err)
		Expect(ok).To(BeTrue())
		Expect(appErr.Code).To(Equal(internal.ErrCodeInvalidFeatureConfig))
	})

	It("rejects an unknown module", func() {
		_, err := resolver.ResolveVisibility(ctx, memberIdentity(10, 1), "payroll", "")
		Expect(err).To(HaveOccurred())

		appErr, ok := internal.IsAppError(err)
		Expect(ok).To(BeTrue())
		Expect(appErr.Code).To(Equal(internal.ErrCodeInvalidFeatureConfig))
	})

	It("surfaces provider failures as PLAN_CHECK_ERROR", func() {
		provider.err = errors.New("connection reset")

		_, err := resolver.ResolveVisibility(ctx, memberIdentity(10, 1), access.ModuleLeaves, access.FeatureViewAll)
		Expect(err).To(HaveOccurred())

		appErr, ok := internal.IsAppError(err)
		Expect(ok).To(BeTrue())
		Expect(appErr.Code).To(Equal(internal.ErrCodePlanCheckError))
	})

	It("fails the call when the directory read fails", func() {
		manager := withCustomRole(memberIdentity(100, 1), "Area Manager", access.PermissionMap{
			access.ModuleLeaves: {access.FeatureViewTeam: true},
		})
		directory.err = errors.New("query timeout")

		_, err := resolver.ResolveVisibility(ctx, manager, access.ModuleLeaves, "")
		Expect(err).To(HaveOccurred())

		appErr, ok := internal.IsAppError(err)
		Expect(ok).To(BeTrue())
		Expect(appErr.Type).To(Equal(internal.ErrorTypeInternal))
	})
})

var _ = Describe("Visibility", func() {
	It("allows any owner when unrestricted", func() {
		Expect(access.Unrestricted().Allows(42)).To(BeTrue())
	})

	It("allows only listed owners otherwise", func() {
		vis := access.SelfAndSubordinates([]int64{1, 2, 3})
		Expect(vis.Allows(2)).To(BeTrue())
		Expect(vis.Allows(4)).To(BeFalse())

		self := access.SelfOnly(9)
		Expect(self.Allows(9)).To(BeTrue())
		Expect(self.Allows(10)).To(BeFalse())
	})
})
