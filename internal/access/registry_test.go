package access_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/AsimAftab/SalesSphere-Backend-sub001/internal/access"
)

var _ = Describe("Registry", func() {
	registry := access.DefaultRegistry()

	Describe("builtin catalog", func() {
		It("knows every advertised module", func() {
			Expect(registry.Modules()).To(ContainElements(
				access.ModuleLeaves,
				access.ModuleAttendance,
				access.ModuleTourPlans,
				access.ModuleParties,
				access.ModuleUsers,
				access.ModuleRoles,
				access.ModuleOrganization,
			))
		})

		It("registers conventional keys that exist in each module's feature set", func() {
			for _, name := range registry.Modules() {
				info, ok := registry.ModuleInfo(name)
				Expect(ok).To(BeTrue())

				features := registry.FeaturesOf(name)
				Expect(features).To(HaveKey(info.Base), "base key of %s", name)
				if info.Team != "" {
					Expect(features).To(HaveKey(info.Team), "team key of %s", name)
				}
				if info.Master != "" {
					Expect(features).To(HaveKey(info.Master), "master key of %s", name)
				}
				if info.Approval != "" {
					Expect(features).To(HaveKey(info.Approval), "approval key of %s", name)
				}
			}
		})

		It("pairs team and master keys on record-scoped modules", func() {
			for _, name := range []string{access.ModuleLeaves, access.ModuleAttendance, access.ModuleTourPlans, access.ModuleExpenses} {
				info, _ := registry.ModuleInfo(name)
				Expect(info.Team).To(Equal(access.FeatureViewTeam))
				Expect(info.Master).To(Equal(access.FeatureViewAll))
			}
		})
	})

	Describe("IsValidFeature", func() {
		It("accepts known pairs", func() {
			Expect(registry.IsValidFeature(access.ModuleLeaves, access.FeatureUpdateStatus)).To(BeTrue())
			Expect(registry.IsValidFeature(access.ModuleParties, access.FeatureView)).To(BeTrue())
		})

		It("rejects unknown modules and unknown features", func() {
			Expect(registry.IsValidFeature("payroll", access.FeatureView)).To(BeFalse())
			Expect(registry.IsValidFeature(access.ModuleLeaves, "approveEverything")).To(BeFalse())
		})
	})

	Describe("FeaturesOf", func() {
		It("returns a copy that cannot mutate the catalog", func() {
			features := registry.FeaturesOf(access.ModuleLeaves)
			features["sneaky"] = "injected"

			Expect(registry.IsValidFeature(access.ModuleLeaves, "sneaky")).To(BeFalse())
		})

		It("returns nil for an unknown module", func() {
			Expect(registry.FeaturesOf("payroll")).To(BeNil())
		})
	})

	Describe("ValidatePermissions", func() {
		It("returns nothing for a map drawn from the vocabulary", func() {
			perms := access.PermissionMap{
				access.ModuleLeaves: {access.FeatureCreate: true, access.FeatureViewOwn: true},
			}
			Expect(registry.ValidatePermissions(perms)).To(BeEmpty())
		})

		It("names every unknown module and feature", func() {
			perms := access.PermissionMap{
				"payroll":           {access.FeatureView: true},
				access.ModuleLeaves: {"approveEverything": true, access.FeatureCreate: true},
			}
			Expect(registry.ValidatePermissions(perms)).To(Equal([]string{
				"leaves.approveEverything",
				"payroll",
			}))
		})
	})

	Describe("NewRegistry", func() {
		It("rejects duplicate module names", func() {
			widgets := access.Module{
				Name:     "widgets",
				Features: map[string]string{"view": "View widgets"},
				Base:     "view",
			}
			_, err := access.NewRegistry([]access.Module{widgets, widgets})
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("duplicate"))
		})

		It("rejects a module whose base feature is missing from its set", func() {
			_, err := access.NewRegistry([]access.Module{{
				Name:     "widgets",
				Features: map[string]string{"view": "View widgets"},
				Base:     "browse",
			}})
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("base"))
		})

		It("rejects a module with no features", func() {
			_, err := access.NewRegistry([]access.Module{{Name: "widgets", Base: "view"}})
			Expect(err).To(HaveOccurred())
		})
	})
})
