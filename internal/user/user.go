package user

import (
	"errors"
	"time"

	userDatamodel "github.com/AsimAftab/SalesSphere-Backend-sub001/internal/core/datamodel/user"
)

type User struct {
	ID             int64      `json:"id"`
	OrganizationID int64      `json:"organization_id"`
	Email          string     `json:"email"`
	Name           string     `json:"name"`
	Phone          string     `json:"phone"`
	BaseRole       string     `json:"base_role"`
	CustomRoleID   *int64     `json:"custom_role_id,omitempty"`
	CustomRoleName string     `json:"custom_role_name,omitempty"`
	IsActive       bool       `json:"is_active"`
	ReportsTo      []int64    `json:"reports_to"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

var (
	ErrNotFound           = errors.New("user not found")
	ErrEmailTaken         = errors.New("email is already registered")
	ErrRoleNotFound       = errors.New("custom role not found in this organization")
	ErrSupervisorNotFound = errors.New("supervisor not found in this organization")
	ErrSelfSupervision    = errors.New("a user cannot report to themselves")
)

func FromDataModel(u *userDatamodel.User, reportsTo []int64) *User {
	domainUser := &User{
		ID:           u.ID,
		Email:        u.Email,
		Name:         u.Name,
		Phone:        u.Phone,
		BaseRole:     u.BaseRole,
		CustomRoleID: u.CustomRoleID,
		IsActive:     u.IsActive,
		ReportsTo:    reportsTo,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
	if u.OrganizationID != nil {
		domainUser.OrganizationID = *u.OrganizationID
	}
	if u.CustomRole != nil {
		domainUser.CustomRoleName = u.CustomRole.Name
	}
	return domainUser
}
