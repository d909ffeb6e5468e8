package cmd

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/AsimAftab/SalesSphere-Backend-sub001/internal/access"
	"github.com/AsimAftab/SalesSphere-Backend-sub001/internal/cache"
	orgDatamodel "github.com/AsimAftab/SalesSphere-Backend-sub001/internal/core/datamodel/organization"
	partyDatamodel "github.com/AsimAftab/SalesSphere-Backend-sub001/internal/core/datamodel/party"
	roleDatamodel "github.com/AsimAftab/SalesSphere-Backend-sub001/internal/core/datamodel/role"
	userDatamodel "github.com/AsimAftab/SalesSphere-Backend-sub001/internal/core/datamodel/user"
	"github.com/AsimAftab/SalesSphere-Backend-sub001/internal/organization"
	organizationPostgres "github.com/AsimAftab/SalesSphere-Backend-sub001/internal/organization/postgres"
	"github.com/AsimAftab/SalesSphere-Backend-sub001/pkg/logger"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with demo data",
	Long:  `Seed subscription plans, a demo organization with users and reporting lines, a custom role and a few parties for development and testing.`,
	Run: func(cmd *cobra.Command, args []string) {
		runSeed()
	},
}

func runSeed() {
	ctx := context.Background()

	cfg, err := loadConfig(".")
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger.Init("development")
	seedLog := logger.Component("seeder")

	sqlxDB, err := initDB(cfg.Database)
	if err != nil {
		log.Fatalf("failed to init db: %v", err)
	}
	defer sqlxDB.Close()

	db, err := gorm.Open(gormPostgres.New(gormPostgres.Config{Conn: sqlxDB.DB}), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Warn),
	})
	if err != nil {
		log.Fatalf("failed to init orm: %v", err)
	}

	if clearData {
		clearAll(db)
		seedLog.Info("cleared existing data")
	}

	registry := access.DefaultRegistry()

	basicID := upsertPlan(db, planBasic(registry))
	standardID := upsertPlan(db, planStandard(registry))
	premiumID := upsertPlan(db, planPremium(registry))
	seedLog.Info("seeded subscription plans", "basic", basicID, "standard", standardID, "premium", premiumID)

	orgID := upsertOrganization(db, orgDatamodel.Organization{
		Name:               "Acme Field Sales",
		Email:              "ops@acme.example",
		Phone:              "+91-98000-00000",
		SubscriptionPlanID: &standardID,
		SubscriptionEndsAt: time.Now().AddDate(1, 0, 0),
	})
	seedLog.Info("seeded demo organization", "organization_id", orgID)

	roleID := upsertCustomRole(db, registry, orgID)
	seedLog.Info("seeded custom role", "role_id", roleID)

	passwordHash := mustHash("password", cfg.Security.BCryptCost)

	superID := upsertUser(db, userDatamodel.User{
		Email:        "root@salessphere.example",
		Name:         "Platform Root",
		PasswordHash: passwordHash,
		BaseRole:     access.RoleSuperAdmin,
		IsActive:     true,
	}, nil)

	adminID := upsertUser(db, userDatamodel.User{
		OrganizationID: &orgID,
		Email:          "admin@acme.example",
		Name:           "Asha Admin",
		PasswordHash:   passwordHash,
		BaseRole:       access.RoleAdmin,
		IsActive:       true,
	}, nil)

	managerID := upsertUser(db, userDatamodel.User{
		OrganizationID: &orgID,
		Email:          "manager@acme.example",
		Name:           "Meera Manager",
		PasswordHash:   passwordHash,
		BaseRole:       access.RoleMember,
		CustomRoleID:   &roleID,
		IsActive:       true,
	}, nil)

	repOneID := upsertUser(db, userDatamodel.User{
		OrganizationID: &orgID,
		Email:          "rep.one@acme.example",
		Name:           "Ravi Rep",
		PasswordHash:   passwordHash,
		BaseRole:       access.RoleMember,
		IsActive:       true,
	}, []int64{managerID})

	repTwoID := upsertUser(db, userDatamodel.User{
		OrganizationID: &orgID,
		Email:          "rep.two@acme.example",
		Name:           "Sunita Rep",
		PasswordHash:   passwordHash,
		BaseRole:       access.RoleMember,
		IsActive:       true,
	}, []int64{managerID})

	// Reports to rep two, so the manager sees this user only through the
	// transitive closure.
	repThreeID := upsertUser(db, userDatamodel.User{
		OrganizationID: &orgID,
		Email:          "rep.three@acme.example",
		Name:           "Imran Rep",
		PasswordHash:   passwordHash,
		BaseRole:       access.RoleMember,
		IsActive:       true,
	}, []int64{repTwoID})

	seedLog.Info("seeded users",
		"superadmin", superID,
		"admin", adminID,
		"manager", managerID,
		"reps", []int64{repOneID, repTwoID, repThreeID})

	seedParties(db, orgID, adminID)
	seedLog.Info("seeded demo parties")

	if cfg.Redis.Enabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()

		snapshotCache := cache.NewWithClient(redisClient, cfg.Redis.SnapshotTTL, seedLog)
		provider := organization.NewCachedProvider(organizationPostgres.NewOrganizationRepository(db), snapshotCache, seedLog)
		provider.Invalidate(ctx, orgID)
		seedLog.Info("invalidated organization snapshot cache", "organization_id", orgID)
	}

	fmt.Println("Seed complete. Demo logins use password \"password\".")
}

// planBasic keeps field teams on self-scoped attendance and a read-only
// party directory; leaves still flow through supervisors.
func planBasic(registry *access.Registry) orgDatamodel.SubscriptionPlan {
	return orgDatamodel.SubscriptionPlan{
		Name:        "basic",
		DisplayName: "Basic",
		EnabledModules: orgDatamodel.ModuleList{
			access.ModuleAttendance,
			access.ModuleLeaves,
			access.ModuleParties,
			access.ModuleUsers,
			access.ModuleOrganization,
		},
		ModuleFeatures: access.PermissionMap{
			access.ModuleAttendance: {
				access.FeatureViewOwn:  true,
				access.FeatureCheckIn:  true,
				access.FeatureCheckOut: true,
			},
			access.ModuleLeaves: {
				access.FeatureViewOwn:      true,
				access.FeatureViewTeam:     true,
				access.FeatureCreate:       true,
				access.FeatureEdit:         true,
				access.FeatureDelete:       true,
				access.FeatureUpdateStatus: true,
			},
			access.ModuleParties: {
				access.FeatureView: true,
			},
			access.ModuleUsers:        allFeatures(registry, access.ModuleUsers),
			access.ModuleOrganization: allFeatures(registry, access.ModuleOrganization),
		},
	}
}

func planStandard(registry *access.Registry) orgDatamodel.SubscriptionPlan {
	modules := []string{
		access.ModuleAttendance,
		access.ModuleLeaves,
		access.ModuleTourPlans,
		access.ModuleParties,
		access.ModuleUsers,
		access.ModuleRoles,
		access.ModuleOrganization,
	}

	features := access.PermissionMap{}
	for _, module := range modules {
		features[module] = allFeatures(registry, module)
	}
	// Standard stops short of org-wide record visibility.
	delete(features[access.ModuleAttendance], access.FeatureViewAll)
	delete(features[access.ModuleLeaves], access.FeatureViewAll)
	delete(features[access.ModuleTourPlans], access.FeatureViewAll)

	return orgDatamodel.SubscriptionPlan{
		Name:           "standard",
		DisplayName:    "Standard",
		EnabledModules: orgDatamodel.ModuleList(modules),
		ModuleFeatures: features,
	}
}

func planPremium(registry *access.Registry) orgDatamodel.SubscriptionPlan {
	modules := registry.Modules()
	features := access.PermissionMap{}
	for _, module := range modules {
		features[module] = allFeatures(registry, module)
	}
	return orgDatamodel.SubscriptionPlan{
		Name:           "premium",
		DisplayName:    "Premium",
		EnabledModules: orgDatamodel.ModuleList(modules),
		ModuleFeatures: features,
	}
}

func allFeatures(registry *access.Registry, module string) map[string]bool {
	features := map[string]bool{}
	for key := range registry.FeaturesOf(module) {
		features[key] = true
	}
	return features
}

func upsertPlan(db *gorm.DB, plan orgDatamodel.SubscriptionPlan) int64 {
	var existing orgDatamodel.SubscriptionPlan
	err := db.Where("name = ?", plan.Name).First(&existing).Error
	if err == nil {
		existing.DisplayName = plan.DisplayName
		existing.EnabledModules = plan.EnabledModules
		existing.ModuleFeatures = plan.ModuleFeatures
		if err := db.Save(&existing).Error; err != nil {
			log.Fatalf("failed to refresh plan %s: %v", plan.Name, err)
		}
		return existing.ID
	}

	if err := db.Create(&plan).Error; err != nil {
		log.Fatalf("failed to insert plan %s: %v", plan.Name, err)
	}
	return plan.ID
}

func upsertOrganization(db *gorm.DB, org orgDatamodel.Organization) int64 {
	var existing orgDatamodel.Organization
	err := db.Where("name = ?", org.Name).First(&existing).Error
	if err == nil {
		existing.SubscriptionPlanID = org.SubscriptionPlanID
		existing.SubscriptionEndsAt = org.SubscriptionEndsAt
		if err := db.Save(&existing).Error; err != nil {
			log.Fatalf("failed to refresh organization %s: %v", org.Name, err)
		}
		return existing.ID
	}

	if err := db.Create(&org).Error; err != nil {
		log.Fatalf("failed to insert organization %s: %v", org.Name, err)
	}
	return org.ID
}

func upsertCustomRole(db *gorm.DB, registry *access.Registry, orgID int64) int64 {
	permissions := access.PermissionMap{
		access.ModuleAttendance: {
			access.FeatureViewOwn:  true,
			access.FeatureViewTeam: true,
			access.FeatureCheckIn:  true,
			access.FeatureCheckOut: true,
		},
		access.ModuleLeaves: {
			access.FeatureViewOwn:      true,
			access.FeatureViewTeam:     true,
			access.FeatureCreate:       true,
			access.FeatureUpdateStatus: true,
		},
		access.ModuleTourPlans: {
			access.FeatureViewOwn:      true,
			access.FeatureViewTeam:     true,
			access.FeatureCreate:       true,
			access.FeatureUpdateStatus: true,
		},
		access.ModuleParties: {
			access.FeatureView:   true,
			access.FeatureCreate: true,
		},
	}

	if offenders := registry.ValidatePermissions(permissions); len(offenders) > 0 {
		log.Fatalf("seed role permissions reference unknown capabilities: %v", offenders)
	}

	role := roleDatamodel.CustomRole{
		OrganizationID:    orgID,
		Name:              "Area Manager",
		Description:       "Approves the team's leave and tour plan requests",
		Permissions:       permissions,
		AllowWebAccess:    true,
		AllowMobileAccess: true,
	}

	var existing roleDatamodel.CustomRole
	err := db.Where("organization_id = ? AND name = ?", orgID, role.Name).First(&existing).Error
	if err == nil {
		existing.Description = role.Description
		existing.Permissions = role.Permissions
		if err := db.Save(&existing).Error; err != nil {
			log.Fatalf("failed to refresh custom role: %v", err)
		}
		return existing.ID
	}

	if err := db.Create(&role).Error; err != nil {
		log.Fatalf("failed to insert custom role: %v", err)
	}
	return role.ID
}

func upsertUser(db *gorm.DB, user userDatamodel.User, supervisorIDs []int64) int64 {
	var existing userDatamodel.User
	err := db.Where("email = ?", user.Email).First(&existing).Error
	if err == nil {
		user.ID = existing.ID
	} else if err := db.Create(&user).Error; err != nil {
		log.Fatalf("failed to insert user %s: %v", user.Email, err)
	}

	userID := user.ID
	for _, supervisorID := range supervisorIDs {
		var count int64
		db.Model(&userDatamodel.UserSupervisor{}).
			Where("user_id = ? AND supervisor_id = ?", userID, supervisorID).
			Count(&count)
		if count > 0 {
			continue
		}
		edge := userDatamodel.UserSupervisor{UserID: userID, SupervisorID: supervisorID}
		if err := db.Create(&edge).Error; err != nil {
			log.Fatalf("failed to insert reporting edge %d -> %d: %v", userID, supervisorID, err)
		}
	}
	return userID
}

func seedParties(db *gorm.DB, orgID, createdBy int64) {
	parties := []partyDatamodel.Party{
		{
			OrganizationID: orgID,
			Name:           "Sharma Stores",
			PartyType:      "retailer",
			Address:        "14 MG Road, Pune",
			ContactName:    "Anil Sharma",
			ContactPhone:   "+91-98220-11111",
			CreatedBy:      createdBy,
			IsActive:       true,
		},
		{
			OrganizationID: orgID,
			Name:           "Gupta Traders",
			PartyType:      "distributor",
			Address:        "2 Station Road, Nashik",
			ContactName:    "Rekha Gupta",
			ContactPhone:   "+91-98220-22222",
			CreatedBy:      createdBy,
			IsActive:       true,
		},
	}

	for _, p := range parties {
		var count int64
		db.Model(&partyDatamodel.Party{}).
			Where("organization_id = ? AND LOWER(name) = LOWER(?)", orgID, p.Name).
			Count(&count)
		if count > 0 {
			continue
		}
		if err := db.Create(&p).Error; err != nil {
			log.Fatalf("failed to insert party %s: %v", p.Name, err)
		}
	}
}

func clearAll(db *gorm.DB) {
	// Children first so foreign keys do not block deletion.
	tables := []string{
		"user_supervisors",
		"attendance_records",
		"leaves",
		"tour_plans",
		"parties",
		"users",
		"custom_roles",
		"organizations",
		"subscription_plans",
	}
	for _, table := range tables {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			log.Fatalf("failed to clear table %s: %v", table, err)
		}
	}
}

func mustHash(password string, cost int) string {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		log.Fatalf("failed to hash seed password: %v", err)
	}
	return string(hash)
}
