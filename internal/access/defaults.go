package access

// adminDefaults grants the admin base role every feature in the catalog.
// Building the table from the registry keeps new modules automatically
// covered for admins without touching this file.
func adminDefaults(registry *Registry) PermissionMap {
	perms := make(PermissionMap, len(registry.modules))
	for name, module := range registry.modules {
		features := make(map[string]bool, len(module.Features))
		for key := range module.Features {
			features[key] = true
		}
		perms[name] = features
	}
	return perms
}

// memberDefaults is the narrow self-service subset for the member base role:
// submit and view own records, never team visibility, approvals, or
// administration. Kept as an explicit literal so a review of member access
// is a review of this function.
func memberDefaults() PermissionMap {
	return PermissionMap{
		ModuleDashboard: {
			FeatureView: true,
		},
		ModuleAttendance: {
			FeatureViewOwn:  true,
			FeatureCheckIn:  true,
			FeatureCheckOut: true,
		},
		ModuleLeaves: {
			FeatureCreate:  true,
			FeatureViewOwn: true,
			FeatureEdit:    true,
			FeatureDelete:  true,
		},
		ModuleTourPlans: {
			FeatureCreate:  true,
			FeatureViewOwn: true,
			FeatureEdit:    true,
			FeatureDelete:  true,
		},
		ModuleBeatPlans: {
			FeatureViewOwn: true,
		},
		ModuleExpenses: {
			FeatureCreate:  true,
			FeatureViewOwn: true,
			FeatureEdit:    true,
		},
		ModuleNotes: {
			FeatureCreate:  true,
			FeatureViewOwn: true,
			FeatureEdit:    true,
			FeatureDelete:  true,
		},
		ModuleTasks: {
			FeatureViewOwn:      true,
			FeatureUpdateStatus: true,
		},
		ModuleInvoices: {
			FeatureCreate:  true,
			FeatureViewOwn: true,
		},
		ModuleParties: {
			FeatureView: true,
		},
		ModuleProducts: {
			FeatureView: true,
		},
		ModuleHolidays: {
			FeatureView: true,
		},
		ModuleAnnouncements: {
			FeatureView: true,
		},
		ModuleGallery: {
			FeatureView:   true,
			FeatureUpload: true,
		},
	}
}
