package user

import (
	"time"

	roleDatamodel "github.com/AsimAftab/SalesSphere-Backend-sub001/internal/core/datamodel/role"
)

type User struct {
	ID             int64                     `gorm:"primaryKey"`
	OrganizationID *int64                    `gorm:"column:organization_id"`
	Email          string                    `gorm:"column:email;uniqueIndex;not null"`
	Name           string                    `gorm:"column:name;not null"`
	Phone          string                    `gorm:"column:phone"`
	PasswordHash   string                    `gorm:"column:password_hash;not null"`
	BaseRole       string                    `gorm:"column:base_role;not null;default:member"`
	CustomRoleID   *int64                    `gorm:"column:custom_role_id"`
	CustomRole     *roleDatamodel.CustomRole `gorm:"foreignKey:CustomRoleID"`
	IsActive       bool                      `gorm:"column:is_active;default:true"`
	CreatedAt      time.Time                 `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time                 `gorm:"column:updated_at;autoUpdateTime"`
}

// UserSupervisor is one edge of the reporting graph. A user may carry
// several supervisors, so (user_id, supervisor_id) pairs are unique but
// user_id alone is not.
type UserSupervisor struct {
	ID           int64     `gorm:"primaryKey"`
	UserID       int64     `gorm:"column:user_id;not null;uniqueIndex:idx_user_supervisors_pair"`
	SupervisorID int64     `gorm:"column:supervisor_id;not null;uniqueIndex:idx_user_supervisors_pair"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
}
