package access

// Module names. The catalog below is the single source of truth for which
// feature keys exist under each; collaborators must reference capabilities
// through these constants rather than ad hoc strings.
const (
	ModuleDashboard     = "dashboard"
	ModuleAttendance    = "attendance"
	ModuleLeaves        = "leaves"
	ModuleTourPlans     = "tourplans"
	ModuleBeatPlans     = "beatplans"
	ModuleExpenses      = "expenses"
	ModuleNotes         = "notes"
	ModuleTasks         = "tasks"
	ModuleInvoices      = "invoices"
	ModuleParties       = "parties"
	ModuleProducts      = "products"
	ModuleHolidays      = "holidays"
	ModuleAnnouncements = "announcements"
	ModuleGallery       = "gallery"
	ModuleReports       = "reports"
	ModuleUsers         = "users"
	ModuleRoles         = "roles"
	ModuleOrganization  = "organization"
	ModuleSettings      = "settings"
)

// Shared feature keys. Record-scoped modules expose the viewOwn/viewTeam/
// viewAll triple; catalog-style modules expose a single view key.
const (
	FeatureView         = "view"
	FeatureViewOwn      = "viewOwn"
	FeatureViewTeam     = "viewTeam"
	FeatureViewAll      = "viewAll"
	FeatureCreate       = "create"
	FeatureEdit         = "edit"
	FeatureDelete       = "delete"
	FeatureUpdateStatus = "updateStatus"
	FeatureExport       = "export"
	FeatureImport       = "import"

	FeatureCheckIn           = "checkIn"
	FeatureCheckOut          = "checkOut"
	FeatureUpload            = "upload"
	FeatureAssignRole        = "assignRole"
	FeatureManageSupervisors = "manageSupervisors"
	FeatureAssignEmployees   = "assignEmployees"
)

func scopedViews(extra map[string]string) map[string]string {
	features := map[string]string{
		FeatureViewOwn:  "View own records",
		FeatureViewTeam: "View records of direct and indirect reports",
		FeatureViewAll:  "View every record in the organization",
	}
	for key, description := range extra {
		features[key] = description
	}
	return features
}

// builtinCatalog returns the full capability vocabulary. Adding a module or
// feature key here is additive and backward compatible: stored roles and
// plans simply read the new key as false. Removing or renaming a key is a
// breaking change for every stored role/plan document that references it.
func builtinCatalog() []Module {
	return []Module{
		{
			Name:        ModuleDashboard,
			Description: "Organization dashboard and summary cards",
			Features: map[string]string{
				FeatureView: "View the dashboard",
			},
			Base: FeatureView,
		},
		{
			Name:        ModuleAttendance,
			Description: "Daily check-in/check-out tracking",
			Features: scopedViews(map[string]string{
				FeatureCheckIn:  "Record a check-in",
				FeatureCheckOut: "Record a check-out",
				FeatureEdit:     "Correct an attendance record",
				FeatureDelete:   "Delete an attendance record",
				FeatureExport:   "Export attendance reports",
			}),
			Base:   FeatureViewOwn,
			Team:   FeatureViewTeam,
			Master: FeatureViewAll,
		},
		{
			Name:        ModuleLeaves,
			Description: "Leave requests and approvals",
			Features: scopedViews(map[string]string{
				FeatureCreate:       "Submit a leave request",
				FeatureEdit:         "Edit a pending leave request",
				FeatureDelete:       "Withdraw a leave request",
				FeatureUpdateStatus: "Approve or reject a leave request",
				FeatureExport:       "Export leave reports",
			}),
			Base:     FeatureViewOwn,
			Team:     FeatureViewTeam,
			Master:   FeatureViewAll,
			Approval: FeatureUpdateStatus,
		},
		{
			Name:        ModuleTourPlans,
			Description: "Field visit tour plans and approvals",
			Features: scopedViews(map[string]string{
				FeatureCreate:       "Submit a tour plan",
				FeatureEdit:         "Edit a pending tour plan",
				FeatureDelete:       "Withdraw a tour plan",
				FeatureUpdateStatus: "Approve or reject a tour plan",
				FeatureExport:       "Export tour plan reports",
			}),
			Base:     FeatureViewOwn,
			Team:     FeatureViewTeam,
			Master:   FeatureViewAll,
			Approval: FeatureUpdateStatus,
		},
		{
			Name:        ModuleBeatPlans,
			Description: "Recurring route (beat) plans",
			Features: scopedViews(map[string]string{
				FeatureCreate:       "Create a beat plan",
				FeatureEdit:         "Edit a beat plan",
				FeatureDelete:       "Delete a beat plan",
				FeatureUpdateStatus: "Approve or reject a beat plan",
			}),
			Base:     FeatureViewOwn,
			Team:     FeatureViewTeam,
			Master:   FeatureViewAll,
			Approval: FeatureUpdateStatus,
		},
		{
			Name:        ModuleExpenses,
			Description: "Expense claims and reimbursement approvals",
			Features: scopedViews(map[string]string{
				FeatureCreate:       "Submit an expense claim",
				FeatureEdit:         "Edit a pending expense claim",
				FeatureDelete:       "Withdraw an expense claim",
				FeatureUpdateStatus: "Approve or reject an expense claim",
				FeatureExport:       "Export expense reports",
			}),
			Base:     FeatureViewOwn,
			Team:     FeatureViewTeam,
			Master:   FeatureViewAll,
			Approval: FeatureUpdateStatus,
		},
		{
			Name:        ModuleNotes,
			Description: "Field notes attached to parties and visits",
			Features: scopedViews(map[string]string{
				FeatureCreate: "Create a note",
				FeatureEdit:   "Edit a note",
				FeatureDelete: "Delete a note",
			}),
			Base:   FeatureViewOwn,
			Team:   FeatureViewTeam,
			Master: FeatureViewAll,
		},
		{
			Name:        ModuleTasks,
			Description: "Assigned tasks and completion tracking",
			Features: scopedViews(map[string]string{
				FeatureCreate:       "Create a task",
				FeatureEdit:         "Edit a task",
				FeatureDelete:       "Delete a task",
				FeatureUpdateStatus: "Update task completion status",
			}),
			Base:     FeatureViewOwn,
			Team:     FeatureViewTeam,
			Master:   FeatureViewAll,
			Approval: FeatureUpdateStatus,
		},
		{
			Name:        ModuleInvoices,
			Description: "Sales invoices raised in the field",
			Features: scopedViews(map[string]string{
				FeatureCreate: "Create an invoice",
				FeatureEdit:   "Edit an invoice",
				FeatureDelete: "Void an invoice",
				FeatureExport: "Export invoices",
			}),
			Base:   FeatureViewOwn,
			Team:   FeatureViewTeam,
			Master: FeatureViewAll,
		},
		{
			Name:        ModuleParties,
			Description: "Customer and outlet directory",
			Features: map[string]string{
				FeatureView:            "View parties",
				FeatureCreate:          "Create a party",
				FeatureEdit:            "Edit a party",
				FeatureDelete:          "Delete a party",
				FeatureImport:          "Bulk import parties",
				FeatureExport:          "Export parties",
				FeatureAssignEmployees: "Assign employees to a party",
			},
			Base: FeatureView,
		},
		{
			Name:        ModuleProducts,
			Description: "Product catalog",
			Features: map[string]string{
				FeatureView:   "View products",
				FeatureCreate: "Create a product",
				FeatureEdit:   "Edit a product",
				FeatureDelete: "Delete a product",
				FeatureImport: "Bulk import products",
				FeatureExport: "Export products",
			},
			Base: FeatureView,
		},
		{
			Name:        ModuleHolidays,
			Description: "Organization holiday calendar",
			Features: map[string]string{
				FeatureView:   "View holidays",
				FeatureCreate: "Add a holiday",
				FeatureEdit:   "Edit a holiday",
				FeatureDelete: "Remove a holiday",
			},
			Base: FeatureView,
		},
		{
			Name:        ModuleAnnouncements,
			Description: "Organization-wide announcements",
			Features: map[string]string{
				FeatureView:   "View announcements",
				FeatureCreate: "Publish an announcement",
				FeatureEdit:   "Edit an announcement",
				FeatureDelete: "Delete an announcement",
			},
			Base: FeatureView,
		},
		{
			Name:        ModuleGallery,
			Description: "Shared media gallery",
			Features: map[string]string{
				FeatureView:   "View gallery items",
				FeatureUpload: "Upload gallery items",
				FeatureDelete: "Delete gallery items",
			},
			Base: FeatureView,
		},
		{
			Name:        ModuleReports,
			Description: "Cross-module analytics reports",
			Features: map[string]string{
				FeatureView:   "View reports",
				FeatureExport: "Export reports",
			},
			Base: FeatureView,
		},
		{
			Name:        ModuleUsers,
			Description: "Employee accounts and reporting lines",
			Features: map[string]string{
				FeatureView:              "View employees",
				FeatureCreate:            "Create an employee",
				FeatureEdit:              "Edit an employee",
				FeatureDelete:            "Deactivate an employee",
				FeatureAssignRole:        "Assign a role to an employee",
				FeatureManageSupervisors: "Manage an employee's supervisors",
				FeatureExport:            "Export the employee directory",
			},
			Base: FeatureView,
		},
		{
			Name:        ModuleRoles,
			Description: "Custom role definitions",
			Features: map[string]string{
				FeatureView:   "View roles",
				FeatureCreate: "Create a role",
				FeatureEdit:   "Edit a role",
				FeatureDelete: "Delete a role",
			},
			Base: FeatureView,
		},
		{
			Name:        ModuleOrganization,
			Description: "Organization profile and subscription",
			Features: map[string]string{
				FeatureView: "View organization profile and subscription",
				FeatureEdit: "Edit organization profile",
			},
			Base: FeatureView,
		},
		{
			Name:        ModuleSettings,
			Description: "Organization-level settings",
			Features: map[string]string{
				FeatureView: "View settings",
				FeatureEdit: "Edit settings",
			},
			Base: FeatureView,
		},
	}
}
