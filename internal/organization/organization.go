package organization

import (
	"errors"
	"time"

	"github.com/AsimAftab/SalesSphere-Backend-sub001/internal/access"
	orgDatamodel "github.com/AsimAftab/SalesSphere-Backend-sub001/internal/core/datamodel/organization"
)

type Plan struct {
	ID             int64                `json:"id"`
	Name           string               `json:"name"`
	DisplayName    string               `json:"display_name"`
	EnabledModules []string             `json:"enabled_modules"`
	ModuleFeatures access.PermissionMap `json:"module_features"`
}

type Organization struct {
	ID                 int64     `json:"id"`
	Name               string    `json:"name"`
	Email              string    `json:"email"`
	Phone              string    `json:"phone"`
	Plan               *Plan     `json:"plan,omitempty"`
	SubscriptionEndsAt time.Time `json:"subscription_ends_at"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

func (o *Organization) SubscriptionActive(now time.Time) bool {
	return !o.SubscriptionEndsAt.IsZero() && o.SubscriptionEndsAt.After(now)
}

var (
	ErrNotFound     = errors.New("organization not found")
	ErrPlanNotFound = errors.New("subscription plan not found")
)

func FromDataModel(o *orgDatamodel.Organization) *Organization {
	org := &Organization{
		ID:                 o.ID,
		Name:               o.Name,
		Email:              o.Email,
		Phone:              o.Phone,
		SubscriptionEndsAt: o.SubscriptionEndsAt,
		CreatedAt:          o.CreatedAt,
		UpdatedAt:          o.UpdatedAt,
	}
	if o.SubscriptionPlan != nil {
		org.Plan = PlanFromDataModel(o.SubscriptionPlan)
	}
	return org
}

func PlanFromDataModel(p *orgDatamodel.SubscriptionPlan) *Plan {
	return &Plan{
		ID:             p.ID,
		Name:           p.Name,
		DisplayName:    p.DisplayName,
		EnabledModules: p.EnabledModules,
		ModuleFeatures: p.ModuleFeatures,
	}
}

// Snapshot converts the organization into the read-only view the access
// engine evaluates plans against.
func (o *Organization) Snapshot() *access.OrganizationSnapshot {
	snap := &access.OrganizationSnapshot{
		ID:                 o.ID,
		Name:               o.Name,
		SubscriptionEndsAt: o.SubscriptionEndsAt,
	}
	if o.Plan != nil {
		snap.Plan = &access.PlanSnapshot{
			ID:             o.Plan.ID,
			Name:           o.Plan.Name,
			DisplayName:    o.Plan.DisplayName,
			EnabledModules: o.Plan.EnabledModules,
			ModuleFeatures: o.Plan.ModuleFeatures,
		}
	}
	return snap
}
