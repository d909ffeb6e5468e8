package role

import (
	"errors"
	"time"

	"github.com/AsimAftab/SalesSphere-Backend-sub001/internal/access"
	roleDatamodel "github.com/AsimAftab/SalesSphere-Backend-sub001/internal/core/datamodel/role"
)

type Role struct {
	ID                int64                `json:"id"`
	OrganizationID    int64                `json:"organization_id"`
	Name              string               `json:"name"`
	Description       string               `json:"description"`
	Permissions       access.PermissionMap `json:"permissions"`
	AllowWebAccess    bool                 `json:"allow_web_access"`
	AllowMobileAccess bool                 `json:"allow_mobile_access"`
	CreatedAt         time.Time            `json:"created_at"`
	UpdatedAt         time.Time            `json:"updated_at"`
}

var (
	ErrNotFound  = errors.New("role not found")
	ErrNameTaken = errors.New("a role with this name already exists")
	ErrRoleInUse = errors.New("role is still assigned to users")
)

func FromDataModel(r *roleDatamodel.CustomRole) *Role {
	return &Role{
		ID:                r.ID,
		OrganizationID:    r.OrganizationID,
		Name:              r.Name,
		Description:       r.Description,
		Permissions:       r.Permissions,
		AllowWebAccess:    r.AllowWebAccess,
		AllowMobileAccess: r.AllowMobileAccess,
		CreatedAt:         r.CreatedAt,
		UpdatedAt:         r.UpdatedAt,
	}
}
