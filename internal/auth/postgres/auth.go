package postgres

import (
	"context"
	"database/sql"
	"errors"

	"gorm.io/gorm"

	"github.com/AsimAftab/SalesSphere-Backend-sub001/internal/access"
	"github.com/AsimAftab/SalesSphere-Backend-sub001/internal/auth"
	userDatamodel "github.com/AsimAftab/SalesSphere-Backend-sub001/internal/core/datamodel/user"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db: db,
	}
}

func (r *Repository) CredentialsByEmail(ctx context.Context, email string) (*auth.Credentials, error) {
	return r.credentials(ctx, "email = ?", email)
}

func (r *Repository) CredentialsByUserID(ctx context.Context, userID int64) (*auth.Credentials, error) {
	return r.credentials(ctx, "id = ?", userID)
}

func (r *Repository) credentials(ctx context.Context, cond string, arg interface{}) (*auth.Credentials, error) {
	var creds auth.Credentials
	row := r.db.WithContext(ctx).
		Raw("SELECT id, email, password_hash, is_active FROM users WHERE "+cond, arg).
		Row()
	if err := row.Scan(&creds.UserID, &creds.Email, &creds.PasswordHash, &creds.IsActive); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &creds, nil
}

// IdentityByUserID assembles the full principal: user row, resolved custom
// role and the supervisor edges. Inactive users read as absent so revocation
// takes effect on the next request.
func (r *Repository) IdentityByUserID(ctx context.Context, userID int64) (*access.Identity, error) {
	var user userDatamodel.User
	err := r.db.WithContext(ctx).
		Preload("CustomRole").
		Where("id = ? AND is_active = ?", userID, true).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	identity := &access.Identity{
		UserID:   user.ID,
		Email:    user.Email,
		Name:     user.Name,
		BaseRole: user.BaseRole,
	}
	if user.OrganizationID != nil {
		identity.OrganizationID = *user.OrganizationID
	}
	if user.CustomRole != nil {
		identity.CustomRole = &access.CustomRole{
			ID:                user.CustomRole.ID,
			Name:              user.CustomRole.Name,
			Permissions:       user.CustomRole.Permissions,
			AllowWebAccess:    user.CustomRole.AllowWebAccess,
			AllowMobileAccess: user.CustomRole.AllowMobileAccess,
		}
	}

	var edges []userDatamodel.UserSupervisor
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Find(&edges).Error; err != nil {
		return nil, err
	}
	for _, edge := range edges {
		identity.ReportsTo = append(identity.ReportsTo, edge.SupervisorID)
	}

	return identity, nil
}
