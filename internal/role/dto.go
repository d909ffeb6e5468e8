package role

import (
	"fmt"
	"strings"
	"time"

	internal "github.com/AsimAftab/SalesSphere-Backend-sub001/internal"
	"github.com/AsimAftab/SalesSphere-Backend-sub001/internal/access"
	"github.com/AsimAftab/SalesSphere-Backend-sub001/internal/core/common/validation"
)

type CreateRoleDTO struct {
	Name              string               `json:"name"`
	Description       string               `json:"description"`
	Permissions       access.PermissionMap `json:"permissions"`
	AllowWebAccess    *bool                `json:"allow_web_access,omitempty"`
	AllowMobileAccess *bool                `json:"allow_mobile_access,omitempty"`
}

func (dto CreateRoleDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("name", dto.Name).Required().MinLength(2).MaxLength(80).
		Custom(notReservedRoleName("name"))
	v.Field("description", dto.Description).MaxLength(500)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

type UpdateRoleDTO struct {
	Name              *string              `json:"name,omitempty"`
	Description       *string              `json:"description,omitempty"`
	Permissions       access.PermissionMap `json:"permissions,omitempty"`
	AllowWebAccess    *bool                `json:"allow_web_access,omitempty"`
	AllowMobileAccess *bool                `json:"allow_mobile_access,omitempty"`
}

func (dto UpdateRoleDTO) Validate() error {
	v := validation.NewValidator()
	if dto.Name != nil {
		v.Field("name", *dto.Name).Required().MinLength(2).MaxLength(80).
			Custom(notReservedRoleName("name"))
	}
	if dto.Description != nil {
		v.Field("description", *dto.Description).MaxLength(500)
	}
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

// notReservedRoleName keeps custom roles from shadowing the built-in role
// names; those are compiled in and not editable.
func notReservedRoleName(field string) func(interface{}) *internal.AppError {
	return func(value interface{}) *internal.AppError {
		name, ok := value.(string)
		if !ok {
			return nil
		}
		switch strings.ToLower(strings.TrimSpace(name)) {
		case access.RoleSuperAdmin, access.RoleAdmin, access.RoleMember:
			return internal.NewValidationFieldError(field,
				fmt.Sprintf("%q is a reserved role name", name), internal.ErrCodeInvalidRoleName)
		}
		return nil
	}
}

type RoleResponse struct {
	ID                int64                `json:"id"`
	Name              string               `json:"name"`
	Description       string               `json:"description"`
	Permissions       access.PermissionMap `json:"permissions"`
	AllowWebAccess    bool                 `json:"allow_web_access"`
	AllowMobileAccess bool                 `json:"allow_mobile_access"`
	AssignedUsers     int64                `json:"assigned_users"`
	CreatedAt         time.Time            `json:"created_at"`
	UpdatedAt         time.Time            `json:"updated_at"`
}

type RolesResponse struct {
	Roles []RoleResponse `json:"roles"`
}

func (r *Role) ToResponse(assignedUsers int64) RoleResponse {
	permissions := r.Permissions
	if permissions == nil {
		permissions = access.PermissionMap{}
	}
	return RoleResponse{
		ID:                r.ID,
		Name:              r.Name,
		Description:       r.Description,
		Permissions:       permissions,
		AllowWebAccess:    r.AllowWebAccess,
		AllowMobileAccess: r.AllowMobileAccess,
		AssignedUsers:     assignedUsers,
		CreatedAt:         r.CreatedAt,
		UpdatedAt:         r.UpdatedAt,
	}
}

// FeatureCatalogEntry is one grantable feature key for the role builder UI.
type FeatureCatalogEntry struct {
	Key         string `json:"key"`
	Description string `json:"description"`
}

type ModuleCatalogEntry struct {
	Name        string                `json:"name"`
	Description string                `json:"description"`
	Features    []FeatureCatalogEntry `json:"features"`
}

type FeatureCatalogResponse struct {
	Modules []ModuleCatalogEntry `json:"modules"`
}
