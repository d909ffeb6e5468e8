package postgres

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	roleDatamodel "github.com/AsimAftab/SalesSphere-Backend-sub001/internal/core/datamodel/role"
	userDatamodel "github.com/AsimAftab/SalesSphere-Backend-sub001/internal/core/datamodel/user"
)

type RoleRepository struct {
	db *gorm.DB
}

func NewRoleRepository(db *gorm.DB) *RoleRepository {
	return &RoleRepository{db: db}
}

func (r *RoleRepository) GetByID(ctx context.Context, organizationID, id int64) (*roleDatamodel.CustomRole, error) {
	var role roleDatamodel.CustomRole
	err := r.db.WithContext(ctx).
		Where("id = ? AND organization_id = ?", id, organizationID).
		First(&role).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &role, nil
}

// GetByName matches case-insensitively because role names are unique per
// organization regardless of casing.
func (r *RoleRepository) GetByName(ctx context.Context, organizationID int64, name string) (*roleDatamodel.CustomRole, error) {
	var role roleDatamodel.CustomRole
	err := r.db.WithContext(ctx).
		Where("organization_id = ? AND LOWER(name) = ?", organizationID, strings.ToLower(name)).
		First(&role).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &role, nil
}

func (r *RoleRepository) List(ctx context.Context, organizationID int64) ([]*roleDatamodel.CustomRole, error) {
	var roles []*roleDatamodel.CustomRole
	err := r.db.WithContext(ctx).
		Where("organization_id = ?", organizationID).
		Order("name ASC").
		Find(&roles).Error
	return roles, err
}

func (r *RoleRepository) Create(ctx context.Context, role *roleDatamodel.CustomRole) error {
	return r.db.WithContext(ctx).Create(role).Error
}

func (r *RoleRepository) Update(ctx context.Context, role *roleDatamodel.CustomRole) error {
	return r.db.WithContext(ctx).Save(role).Error
}

func (r *RoleRepository) Delete(ctx context.Context, organizationID, id int64) error {
	return r.db.WithContext(ctx).
		Where("id = ? AND organization_id = ?", id, organizationID).
		Delete(&roleDatamodel.CustomRole{}).Error
}

func (r *RoleRepository) AssignedUserCount(ctx context.Context, roleID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&userDatamodel.User{}).
		Where("custom_role_id = ?", roleID).
		Count(&count).Error
	return count, err
}
