package role

import (
	"time"

	"github.com/AsimAftab/SalesSphere-Backend-sub001/internal/access"
)

type CustomRole struct {
	ID                int64                `gorm:"primaryKey"`
	OrganizationID    int64                `gorm:"column:organization_id;not null;uniqueIndex:idx_custom_roles_org_name"`
	Name              string               `gorm:"column:name;not null;uniqueIndex:idx_custom_roles_org_name"`
	Description       string               `gorm:"column:description"`
	Permissions       access.PermissionMap `gorm:"column:permissions;type:jsonb"`
	AllowWebAccess    bool                 `gorm:"column:allow_web_access;default:true"`
	AllowMobileAccess bool                 `gorm:"column:allow_mobile_access;default:true"`
	CreatedAt         time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}
