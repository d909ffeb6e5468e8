package user

import (
	"time"

	"github.com/AsimAftab/SalesSphere-Backend-sub001/internal/access"
	"github.com/AsimAftab/SalesSphere-Backend-sub001/internal/core/common/validation"
)

type CreateUserDTO struct {
	Email        string  `json:"email"`
	Name         string  `json:"name"`
	Phone        string  `json:"phone"`
	Password     string  `json:"password"`
	BaseRole     string  `json:"base_role"`
	CustomRoleID *int64  `json:"custom_role_id,omitempty"`
	ReportsTo    []int64 `json:"reports_to,omitempty"`
}

func (dto CreateUserDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("email", dto.Email).Required().Email()
	v.Field("name", dto.Name).Required().MaxLength(150)
	v.Field("password", dto.Password).Required().MinLength(8)
	v.Field("base_role", dto.BaseRole).OneOf(access.RoleAdmin, access.RoleMember)
	v.Field("phone", dto.Phone).MaxLength(30)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

type UpdateUserDTO struct {
	Name  *string `json:"name,omitempty"`
	Phone *string `json:"phone,omitempty"`
	Email *string `json:"email,omitempty"`
}

func (dto UpdateUserDTO) Validate() error {
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

// AssignRoleDTO assigns or clears a custom role. A null custom_role_id
// restores the user's base-role defaults.
type AssignRoleDTO struct {
	CustomRoleID *int64 `json:"custom_role_id"`
}

type SetSupervisorsDTO struct {
	SupervisorIDs []int64 `json:"supervisor_ids"`
}

type UserResponse struct {
	ID             int64     `json:"id"`
	OrganizationID int64     `json:"organization_id"`
	Email          string    `json:"email"`
	Name           string    `json:"name"`
	Phone          string    `json:"phone"`
	BaseRole       string    `json:"base_role"`
	CustomRoleID   *int64    `json:"custom_role_id,omitempty"`
	CustomRoleName string    `json:"custom_role_name,omitempty"`
	IsActive       bool      `json:"is_active"`
	ReportsTo      []int64   `json:"reports_to"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type UsersResponse struct {
	Users []UserResponse `json:"users"`
}

func (u *User) ToResponse() UserResponse {
	reportsTo := u.ReportsTo
	if reportsTo == nil {
		reportsTo = []int64{}
	}
	return UserResponse{
		ID:             u.ID,
		OrganizationID: u.OrganizationID,
		Email:          u.Email,
		Name:           u.Name,
		Phone:          u.Phone,
		BaseRole:       u.BaseRole,
		CustomRoleID:   u.CustomRoleID,
		CustomRoleName: u.CustomRoleName,
		IsActive:       u.IsActive,
		ReportsTo:      reportsTo,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}
