package access

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Built-in role defaults", func() {
	registry := DefaultRegistry()

	It("draws every member default from the registry vocabulary", func() {
		Expect(registry.ValidatePermissions(memberDefaults())).To(BeEmpty())
	})

	It("never grants members team or organization-wide visibility", func() {
		for module, features := range memberDefaults() {
			Expect(features[FeatureViewTeam]).To(BeFalse(), "module %s", module)
			Expect(features[FeatureViewAll]).To(BeFalse(), "module %s", module)
		}
	})

	It("grants admins every feature of every module", func() {
		defaults := adminDefaults(registry)
		for _, module := range registry.Modules() {
			features := registry.FeaturesOf(module)
			Expect(defaults[module]).To(HaveLen(len(features)), "module %s", module)
			for key := range features {
				Expect(defaults[module][key]).To(BeTrue(), "%s.%s", module, key)
			}
		}
	})
})
