package organization

import (
	"time"

	"github.com/AsimAftab/SalesSphere-Backend-sub001/internal/core/common/validation"
)

type UpdateOrganizationDTO struct {
	Name  *string `json:"name,omitempty"`
	Email *string `json:"email,omitempty"`
	Phone *string `json:"phone,omitempty"`
}

func (dto UpdateOrganizationDTO) Validate() error {
	v := validation.NewValidator()
	if dto.Name != nil {
		v.Field("name", *dto.Name).Required().MaxLength(150)
	}
	if dto.Email != nil {
		v.Field("email", *dto.Email).Required().Email()
	}
	if dto.Phone != nil {
		v.Field("phone", *dto.Phone).MaxLength(30)
	}
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

type PlanResponse struct {
	ID             int64               `json:"id"`
	Name           string              `json:"name"`
	DisplayName    string              `json:"display_name"`
	EnabledModules []string            `json:"enabled_modules"`
	ModuleFeatures map[string][]string `json:"module_features"`
}

type OrganizationResponse struct {
	ID                 int64         `json:"id"`
	Name               string        `json:"name"`
	Email              string        `json:"email"`
	Phone              string        `json:"phone"`
	Plan               *PlanResponse `json:"plan,omitempty"`
	SubscriptionEndsAt time.Time     `json:"subscription_ends_at"`
	SubscriptionActive bool          `json:"subscription_active"`
}

func (o *Organization) ToResponse(now time.Time) OrganizationResponse {
	resp := OrganizationResponse{
		ID:                 o.ID,
		Name:               o.Name,
		Email:              o.Email,
		Phone:              o.Phone,
		SubscriptionEndsAt: o.SubscriptionEndsAt,
		SubscriptionActive: o.SubscriptionActive(now),
	}
	if o.Plan != nil {
		resp.Plan = o.Plan.ToResponse()
	}
	return resp
}

func (p *Plan) ToResponse() *PlanResponse {
	resp := &PlanResponse{
		ID:             p.ID,
		Name:           p.Name,
		DisplayName:    p.DisplayName,
		EnabledModules: p.EnabledModules,
		ModuleFeatures: make(map[string][]string, len(p.ModuleFeatures)),
	}
	for module, features := range p.ModuleFeatures {
		granted := make([]string, 0, len(features))
		for feature, on := range features {
			if on {
				granted = append(granted, feature)
			}
		}
		resp.ModuleFeatures[module] = granted
	}
	return resp
}
