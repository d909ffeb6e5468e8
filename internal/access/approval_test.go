package access_test

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/AsimAftab/SalesSphere-Backend-sub001/internal"
	"github.com/AsimAftab/SalesSphere-Backend-sub001/internal/access"
)

var _ = Describe("ApprovalAuthorizer", func() {
	var (
		provider   *mockOrgProvider
		authorizer *access.ApprovalAuthorizer
		ctx        context.Context
	)

	BeforeEach(func() {
		provider = newMockOrgProvider(activeOrg(1, standardPlan()), activeOrg(2, premiumPlan()))
		checker := access.NewChecker(access.DefaultRegistry(), provider, testLogger(), nil)
		authorizer = access.NewApprovalAuthorizer(checker, testLogger())
		ctx = context.Background()
	})

	supervisorOf := func(owner *access.Identity, supervisorID int64) *access.Identity {
		owner.ReportsTo = append(owner.ReportsTo, supervisorID)
		return owner
	}

	It("denies quietly when either identity is missing", func() {
		ok, err := authorizer.CanApprove(ctx, nil, memberIdentity(50, 2), access.ModuleLeaves)
		Expect(err).ToNot(HaveOccurred())
		Expect(ok).To(BeFalse())

		ok, err = authorizer.CanApprove(ctx, adminIdentity(1, 2), nil, access.ModuleLeaves)
		Expect(err).ToNot(HaveOccurred())
		Expect(ok).To(BeFalse())
	})

	It("rejects modules that have no approval workflow", func() {
		_, err := authorizer.CanApprove(ctx, adminIdentity(1, 2), memberIdentity(50, 2), access.ModuleParties)
		Expect(err).To(HaveOccurred())

		appErr, ok := internal.IsAppError(err)
		Expect(ok).To(BeTrue())
		Expect(appErr.Code).To(Equal(internal.ErrCodeInvalidFeatureConfig))
	})

	It("lets a super-role approve across organizations", func() {
		provider.err = errors.New("provider must not be called")

		ok, err := authorizer.CanApprove(ctx, superIdentity(7), memberIdentity(50, 2), access.ModuleLeaves)
		Expect(err).ToNot(HaveOccurred())
		Expect(ok).To(BeTrue())
		Expect(provider.calls).To(BeZero())
	})

	It("lets an admin approve a non-subordinate in the same organization", func() {
		owner := memberIdentity(50, 2) // reports to nobody

		ok, err := authorizer.CanApprove(ctx, adminIdentity(1, 2), owner, access.ModuleLeaves)
		Expect(err).ToNot(HaveOccurred())
		Expect(ok).To(BeTrue())
	})

	It("lets an admin approve their own request", func() {
		admin := adminIdentity(1, 2)

		ok, err := authorizer.CanApprove(ctx, admin, admin, access.ModuleLeaves)
		Expect(err).ToNot(HaveOccurred())
		Expect(ok).To(BeTrue())
	})

	It("never crosses organization boundaries below the super-role", func() {
		owner := supervisorOf(memberIdentity(50, 1), 40)
		approver := withCustomRole(memberIdentity(40, 2), "Approver", access.PermissionMap{
			access.ModuleLeaves: {access.FeatureUpdateStatus: true},
		})

		ok, err := authorizer.CanApprove(ctx, approver, owner, access.ModuleLeaves)
		Expect(err).ToNot(HaveOccurred())
		Expect(ok).To(BeFalse())
	})

	It("allows a direct supervisor holding the approval feature", func() {
		owner := supervisorOf(memberIdentity(50, 2), 40)
		approver := withCustomRole(memberIdentity(40, 2), "Approver", access.PermissionMap{
			access.ModuleLeaves: {access.FeatureUpdateStatus: true},
		})

		ok, err := authorizer.CanApprove(ctx, approver, owner, access.ModuleLeaves)
		Expect(err).ToNot(HaveOccurred())
		Expect(ok).To(BeTrue())
	})

	It("denies a direct supervisor whose role lacks the approval feature", func() {
		owner := supervisorOf(memberIdentity(50, 2), 40)
		approver := memberIdentity(40, 2)

		ok, err := authorizer.CanApprove(ctx, approver, owner, access.ModuleLeaves)
		Expect(err).ToNot(HaveOccurred())
		Expect(ok).To(BeFalse())
	})

	It("denies a direct supervisor whose plan lacks the approval feature", func() {
		owner := supervisorOf(memberIdentity(50, 1), 40)
		approver := withCustomRole(memberIdentity(40, 1), "Approver", access.PermissionMap{
			access.ModuleLeaves: {access.FeatureUpdateStatus: true},
		})

		ok, err := authorizer.CanApprove(ctx, approver, owner, access.ModuleLeaves)
		Expect(err).ToNot(HaveOccurred())
		Expect(ok).To(BeFalse())
	})

	It("does not inherit approval authority through the reporting chain", func() {
		// owner reports to 60; 60 reports to 40; 40 is not a direct supervisor
		owner := supervisorOf(memberIdentity(50, 2), 60)
		approver := withCustomRole(memberIdentity(40, 2), "Approver", access.PermissionMap{
			access.ModuleLeaves: {access.FeatureUpdateStatus: true},
		})

		ok, err := authorizer.CanApprove(ctx, approver, owner, access.ModuleLeaves)
		Expect(err).ToNot(HaveOccurred())
		Expect(ok).To(BeFalse())
	})

	It("rejects self-approval for a supervisor", func() {
		requester := withCustomRole(supervisorOf(memberIdentity(40, 2), 30), "Approver", access.PermissionMap{
			access.ModuleLeaves: {access.FeatureUpdateStatus: true},
		})

		ok, err := authorizer.CanApprove(ctx, requester, requester, access.ModuleLeaves)
		Expect(err).ToNot(HaveOccurred())
		Expect(ok).To(BeFalse())
	})

	It("rejects self-approval for an admin shadowed by a custom role", func() {
		shadowed := withCustomRole(adminIdentity(1, 2), "Restricted Owner", access.PermissionMap{
			access.ModuleLeaves: {access.FeatureUpdateStatus: true},
		})

		ok, err := authorizer.CanApprove(ctx, shadowed, shadowed, access.ModuleLeaves)
		Expect(err).ToNot(HaveOccurred())
		Expect(ok).To(BeFalse())
	})

	It("supports every module that carries an approval feature", func() {
		owner := supervisorOf(memberIdentity(50, 2), 40)
		approver := withCustomRole(memberIdentity(40, 2), "Approver", access.PermissionMap{
			access.ModuleTourPlans: {access.FeatureUpdateStatus: true},
			access.ModuleExpenses:  {access.FeatureUpdateStatus: true},
		})

		ok, err := authorizer.CanApprove(ctx, approver, owner, access.ModuleTourPlans)
		Expect(err).ToNot(HaveOccurred())
		Expect(ok).To(BeTrue())

		ok, err = authorizer.CanApprove(ctx, approver, owner, access.ModuleExpenses)
		Expect(err).ToNot(HaveOccurred())
		Expect(ok).To(BeTrue())

		ok, err = authorizer.CanApprove(ctx, approver, owner, access.ModuleBeatPlans)
		Expect(err).ToNot(HaveOccurred())
		Expect(ok).To(BeFalse(), "custom role grants nothing on beat plans")
	})

	It("surfaces provider failures instead of answering", func() {
		owner := supervisorOf(memberIdentity(50, 2), 40)
		approver := withCustomRole(memberIdentity(40, 2), "Approver", access.PermissionMap{
			access.ModuleLeaves: {access.FeatureUpdateStatus: true},
		})
		provider.err = errors.New("connection refused")

		_, err := authorizer.CanApprove(ctx, approver, owner, access.ModuleLeaves)
		Expect(err).To(HaveOccurred())

		appErr, ok := internal.IsAppError(err)
		Expect(ok).To(BeTrue())
		Expect(appErr.Code).To(Equal(internal.ErrCodePlanCheckError))
	})
})
