package access_test

import (
	"context"
	"errors"
	"net/http"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/AsimAftab/SalesSphere-Backend-sub001/internal"
	"github.com/AsimAftab/SalesSphere-Backend-sub001/internal/access"
)

var _ = Describe("Checker", func() {
	var (
		provider *mockOrgProvider
		checker  *access.Checker
		ctx      context.Context
	)

	BeforeEach(func() {
		provider = newMockOrgProvider(activeOrg(1, standardPlan()), activeOrg(2, premiumPlan()))
		checker = access.NewChecker(access.DefaultRegistry(), provider, testLogger(), nil)
		ctx = context.Background()
	})

	Describe("super-role bypass", func() {
		It("allows every check without consulting plan or role data", func() {
			provider.err = errors.New("provider must not be called")
			super := superIdentity(7)

			dec, err := checker.CheckAccess(ctx, super, access.ModuleLeaves, access.FeatureUpdateStatus)
			Expect(err).ToNot(HaveOccurred())
			Expect(dec.Allowed).To(BeTrue())

			dec, err = checker.CheckAnyAccess(ctx, super, []access.FeaturePair{
				{Module: access.ModuleLeaves, Feature: access.FeatureDelete},
			})
			Expect(err).ToNot(HaveOccurred())
			Expect(dec.Allowed).To(BeTrue())

			dec, err = checker.CheckAllAccess(ctx, super, []access.FeaturePair{
				{Module: access.ModuleUsers, Feature: access.FeatureCreate},
				{Module: access.ModuleRoles, Feature: access.FeatureView},
			})
			Expect(err).ToNot(HaveOccurred())
			Expect(dec.Allowed).To(BeTrue())

			Expect(provider.calls).To(BeZero())
		})
	})

	Describe("authentication", func() {
		It("denies a missing identity with AUTHENTICATION_REQUIRED", func() {
			dec, err := checker.CheckAccess(ctx, nil, access.ModuleLeaves, access.FeatureCreate)
			Expect(err).ToNot(HaveOccurred())
			Expect(dec.Allowed).To(BeFalse())
			Expect(dec.Code).To(Equal(internal.ErrCodeAuthenticationRequired))

			appErr, ok := internal.IsAppError(dec.Err())
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(http.StatusUnauthorized))
		})
	})

	Describe("feature configuration", func() {
		It("fails closed on an unknown module", func() {
			dec, err := checker.CheckAccess(ctx, adminIdentity(1, 2), "payroll", access.FeatureView)
			Expect(err).ToNot(HaveOccurred())
			Expect(dec.Allowed).To(BeFalse())
			Expect(dec.Code).To(Equal(internal.ErrCodeInvalidFeatureConfig))
		})

		It("fails closed on an unknown feature of a known module", func() {
			dec, err := checker.CheckAccess(ctx, adminIdentity(1, 2), access.ModuleLeaves, "approveEverything")
			Expect(err).ToNot(HaveOccurred())
			Expect(dec.Allowed).To(BeFalse())
			Expect(dec.Code).To(Equal(internal.ErrCodeInvalidFeatureConfig))
		})

		It("fails closed even for a super-role", func() {
			dec, err := checker.CheckAccess(ctx, superIdentity(7), access.ModuleLeaves, "approveEverything")
			Expect(err).ToNot(HaveOccurred())
			Expect(dec.Allowed).To(BeFalse())
			Expect(dec.Code).To(Equal(internal.ErrCodeInvalidFeatureConfig))
		})

		It("maps the config defect to an internal error, not a permission denial", func() {
			dec, _ := checker.CheckAccess(ctx, adminIdentity(1, 2), "payroll", access.FeatureView)
			appErr, ok := internal.IsAppError(dec.Err())
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(http.StatusInternalServerError))
			Expect(appErr.Code).To(Equal(internal.ErrCodeInvalidFeatureConfig))
		})

		It("rejects combinator calls containing any unknown pair", func() {
			dec, err := checker.CheckAnyAccess(ctx, adminIdentity(1, 2), []access.FeaturePair{
				{Module: access.ModuleLeaves, Feature: access.FeatureCreate},
				{Module: "payroll", Feature: access.FeatureView},
			})
			Expect(err).ToNot(HaveOccurred())
			Expect(dec.Code).To(Equal(internal.ErrCodeInvalidFeatureConfig))
		})

		It("rejects an empty capability list", func() {
			dec, err := checker.CheckAllAccess(ctx, adminIdentity(1, 2), nil)
			Expect(err).ToNot(HaveOccurred())
			Expect(dec.Code).To(Equal(internal.ErrCodeInvalidFeatureConfig))
		})
	})

	Describe("plan gate", func() {
		It("denies an unknown organization", func() {
			dec, err := checker.CheckAccess(ctx, memberIdentity(10, 999), access.ModuleLeaves, access.FeatureCreate)
			Expect(err).ToNot(HaveOccurred())
			Expect(dec.Allowed).To(BeFalse())
			Expect(dec.Source).To(Equal(access.SourcePlan))
			Expect(dec.Code).To(Equal(internal.ErrCodeOrganizationNotFound))
		})

		It("denies every capability once the subscription has expired", func() {
			expired := activeOrg(3, premiumPlan())
			expired.SubscriptionEndsAt = time.Now().Add(-24 * time.Hour)
			provider.orgs[3] = expired

			dec, err := checker.CheckAccess(ctx, adminIdentity(1, 3), access.ModuleLeaves, access.FeatureCreate)
			Expect(err).ToNot(HaveOccurred())
			Expect(dec.Code).To(Equal(internal.ErrCodeSubscriptionExpired))
			Expect(dec.Source).To(Equal(access.SourcePlan))
		})

		It("denies an organization with no plan attached", func() {
			provider.orgs[4] = &access.OrganizationSnapshot{
				ID:                 4,
				Name:               "Planless Co",
				SubscriptionEndsAt: time.Now().Add(24 * time.Hour),
			}

			dec, err := checker.CheckAccess(ctx, adminIdentity(1, 4), access.ModuleLeaves, access.FeatureCreate)
			Expect(err).ToNot(HaveOccurred())
			Expect(dec.Code).To(Equal(internal.ErrCodeNoSubscriptionPlan))
		})

		It("denies a module the plan does not enable, naming the plan", func() {
			dec, err := checker.CheckAccess(ctx, adminIdentity(1, 1), access.ModuleTourPlans, access.FeatureCreate)
			Expect(err).ToNot(HaveOccurred())
			Expect(dec.Code).To(Equal(internal.ErrCodeModuleNotInPlan))
			Expect(dec.PlanName).To(Equal("Standard"))
		})

		It("ignores feature flags under a disabled module", func() {
			plan := standardPlan()
			plan.ModuleFeatures[access.ModuleTourPlans] = map[string]bool{access.FeatureCreate: true}
			provider.orgs[1] = activeOrg(1, plan)

			dec, err := checker.CheckAccess(ctx, adminIdentity(1, 1), access.ModuleTourPlans, access.FeatureCreate)
			Expect(err).ToNot(HaveOccurred())
			Expect(dec.Code).To(Equal(internal.ErrCodeModuleNotInPlan))
		})

		It("denies a feature the plan does not include, naming the plan", func() {
			member := memberIdentity(10, 1)

			dec, err := checker.CheckAccess(ctx, member, access.ModuleLeaves, access.FeatureUpdateStatus)
			Expect(err).ToNot(HaveOccurred())
			Expect(dec.Allowed).To(BeFalse())
			Expect(dec.Source).To(Equal(access.SourcePlan))
			Expect(dec.Code).To(Equal(internal.ErrCodeFeatureNotInPlan))
			Expect(dec.PlanName).To(Equal("Standard"))
		})

		It("takes strict precedence over role grants", func() {
			granted := withCustomRole(memberIdentity(10, 1), "Approver", access.PermissionMap{
				access.ModuleLeaves: {access.FeatureUpdateStatus: true},
			})

			dec, err := checker.CheckAccess(ctx, granted, access.ModuleLeaves, access.FeatureUpdateStatus)
			Expect(err).ToNot(HaveOccurred())
			Expect(dec.Allowed).To(BeFalse())
			Expect(dec.Source).To(Equal(access.SourcePlan))
			Expect(dec.Code).To(Equal(internal.ErrCodeFeatureNotInPlan))
		})

		It("surfaces provider failures as PLAN_CHECK_ERROR, never as a denial", func() {
			provider.err = errors.New("connection refused")

			_, err := checker.CheckAccess(ctx, memberIdentity(10, 1), access.ModuleLeaves, access.FeatureCreate)
			Expect(err).To(HaveOccurred())

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodePlanCheckError))
			Expect(appErr.StatusCode).To(Equal(http.StatusInternalServerError))
		})
	})

	Describe("role gate", func() {
		It("denies a member a feature outside the self-service defaults", func() {
			member := memberIdentity(10, 2)

			dec, err := checker.CheckAccess(ctx, member, access.ModuleLeaves, access.FeatureUpdateStatus)
			Expect(err).ToNot(HaveOccurred())
			Expect(dec.Allowed).To(BeFalse())
			Expect(dec.Source).To(Equal(access.SourceRole))
			Expect(dec.Code).To(Equal(internal.ErrCodeFeatureAccessDenied))
			Expect(dec.RoleName).To(Equal(access.RoleMember))
			Expect(dec.CustomRole).To(BeFalse())
		})

		It("allows a member the self-service defaults", func() {
			member := memberIdentity(10, 2)

			for _, feature := range []string{access.FeatureCreate, access.FeatureViewOwn} {
				dec, err := checker.CheckAccess(ctx, member, access.ModuleLeaves, feature)
				Expect(err).ToNot(HaveOccurred())
				Expect(dec.Allowed).To(BeTrue(), "member should hold leaves.%s", feature)
			}
		})

		It("grants admins the full catalog by default", func() {
			admin := adminIdentity(1, 2)

			for _, pair := range []access.FeaturePair{
				{Module: access.ModuleLeaves, Feature: access.FeatureUpdateStatus},
				{Module: access.ModuleUsers, Feature: access.FeatureAssignRole},
				{Module: access.ModuleRoles, Feature: access.FeatureDelete},
			} {
				dec, err := checker.CheckAccess(ctx, admin, pair.Module, pair.Feature)
				Expect(err).ToNot(HaveOccurred())
				Expect(dec.Allowed).To(BeTrue(), "admin should hold %s", pair)
			}
		})

		It("lets a custom role fully shadow built-in defaults", func() {
			restricted := withCustomRole(adminIdentity(1, 2), "Viewer", access.PermissionMap{
				access.ModuleLeaves: {access.FeatureViewOwn: true},
			})

			dec, err := checker.CheckAccess(ctx, restricted, access.ModuleLeaves, access.FeatureUpdateStatus)
			Expect(err).ToNot(HaveOccurred())
			Expect(dec.Allowed).To(BeFalse())
			Expect(dec.Source).To(Equal(access.SourceRole))
			Expect(dec.RoleName).To(Equal("Viewer"))
			Expect(dec.CustomRole).To(BeTrue())
		})

		It("honors grants inside a custom role", func() {
			approver := withCustomRole(memberIdentity(10, 2), "Team Lead", access.PermissionMap{
				access.ModuleLeaves: {access.FeatureUpdateStatus: true},
			})

			dec, err := checker.CheckAccess(ctx, approver, access.ModuleLeaves, access.FeatureUpdateStatus)
			Expect(err).ToNot(HaveOccurred())
			Expect(dec.Allowed).To(BeTrue())
		})

		It("denies an unrecognized base role", func() {
			stranger := &access.Identity{UserID: 5, OrganizationID: 2, BaseRole: "contractor"}

			dec, err := checker.CheckAccess(ctx, stranger, access.ModuleLeaves, access.FeatureViewOwn)
			Expect(err).ToNot(HaveOccurred())
			Expect(dec.Allowed).To(BeFalse())
			Expect(dec.Source).To(Equal(access.SourceRole))
		})
	})

	Describe("request-scoped plan caching", func() {
		It("reads the organization once per armed request", func() {
			cached := access.WithRequestCache(ctx)
			member := memberIdentity(10, 1)

			_, err := checker.CheckAccess(cached, member, access.ModuleLeaves, access.FeatureCreate)
			Expect(err).ToNot(HaveOccurred())
			_, err = checker.CheckAccess(cached, member, access.ModuleLeaves, access.FeatureViewOwn)
			Expect(err).ToNot(HaveOccurred())
			_, err = checker.CheckAccess(cached, member, access.ModuleAttendance, access.FeatureCheckIn)
			Expect(err).ToNot(HaveOccurred())

			Expect(provider.calls).To(Equal(1))
		})

		It("reads per check without the cache", func() {
			member := memberIdentity(10, 1)

			_, _ = checker.CheckAccess(ctx, member, access.ModuleLeaves, access.FeatureCreate)
			_, _ = checker.CheckAccess(ctx, member, access.ModuleLeaves, access.FeatureViewOwn)

			Expect(provider.calls).To(Equal(2))
		})
	})

	Describe("CheckAnyAccess", func() {
		It("allows when at least one alternative passes both gates", func() {
			member := memberIdentity(10, 1)

			dec, err := checker.CheckAnyAccess(ctx, member, []access.FeaturePair{
				{Module: access.ModuleLeaves, Feature: access.FeatureUpdateStatus},
				{Module: access.ModuleLeaves, Feature: access.FeatureViewOwn},
			})
			Expect(err).ToNot(HaveOccurred())
			Expect(dec.Allowed).To(BeTrue())
		})

		It("reports a coarse NO_ACCESS when every alternative fails", func() {
			member := memberIdentity(10, 1)

			dec, err := checker.CheckAnyAccess(ctx, member, []access.FeaturePair{
				{Module: access.ModuleLeaves, Feature: access.FeatureUpdateStatus},
				{Module: access.ModuleUsers, Feature: access.FeatureCreate},
			})
			Expect(err).ToNot(HaveOccurred())
			Expect(dec.Allowed).To(BeFalse())
			Expect(dec.Code).To(Equal(internal.ErrCodeNoAccess))
		})

		It("aborts with PLAN_CHECK_ERROR when the provider fails mid-scan", func() {
			provider.err = errors.New("timeout")

			_, err := checker.CheckAnyAccess(ctx, memberIdentity(10, 1), []access.FeaturePair{
				{Module: access.ModuleLeaves, Feature: access.FeatureViewOwn},
			})
			Expect(err).To(HaveOccurred())
			appErr, _ := internal.IsAppError(err)
			Expect(appErr.Code).To(Equal(internal.ErrCodePlanCheckError))
		})
	})

	Describe("CheckAllAccess", func() {
		It("allows only when every pair passes", func() {
			admin := adminIdentity(1, 2)

			dec, err := checker.CheckAllAccess(ctx, admin, []access.FeaturePair{
				{Module: access.ModuleUsers, Feature: access.FeatureCreate},
				{Module: access.ModuleRoles, Feature: access.FeatureView},
			})
			Expect(err).ToNot(HaveOccurred())
			Expect(dec.Allowed).To(BeTrue())
		})

		It("short-circuits with the failing pair's specific reason", func() {
			member := memberIdentity(10, 2)

			dec, err := checker.CheckAllAccess(ctx, member, []access.FeaturePair{
				{Module: access.ModuleLeaves, Feature: access.FeatureViewOwn},
				{Module: access.ModuleUsers, Feature: access.FeatureCreate},
			})
			Expect(err).ToNot(HaveOccurred())
			Expect(dec.Allowed).To(BeFalse())
			Expect(dec.Module).To(Equal(access.ModuleUsers))
			Expect(dec.Feature).To(Equal(access.FeatureCreate))
			Expect(dec.Code).To(Equal(internal.ErrCodeFeatureAccessDenied))
		})
	})

	Describe("CheckModuleAccess", func() {
		It("checks the module's conventional base view feature", func() {
			member := memberIdentity(10, 1)

			dec, err := checker.CheckModuleAccess(ctx, member, access.ModuleParties)
			Expect(err).ToNot(HaveOccurred())
			Expect(dec.Allowed).To(BeTrue())
		})

		It("denies when the plan lacks the module", func() {
			member := memberIdentity(10, 1)

			dec, err := checker.CheckModuleAccess(ctx, member, access.ModuleProducts)
			Expect(err).ToNot(HaveOccurred())
			Expect(dec.Code).To(Equal(internal.ErrCodeModuleNotInPlan))
		})

		It("fails closed on an unknown module", func() {
			dec, err := checker.CheckModuleAccess(ctx, adminIdentity(1, 1), "payroll")
			Expect(err).ToNot(HaveOccurred())
			Expect(dec.Code).To(Equal(internal.ErrCodeInvalidFeatureConfig))
		})
	})
})
