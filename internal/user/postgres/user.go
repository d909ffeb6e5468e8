package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/AsimAftab/SalesSphere-Backend-sub001/internal/access"
	userDatamodel "github.com/AsimAftab/SalesSphere-Backend-sub001/internal/core/datamodel/user"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(ctx context.Context, organizationID, id int64) (*userDatamodel.User, error) {
	query := r.db.WithContext(ctx).Preload("CustomRole").Where("id = ?", id)
	if organizationID > 0 {
		query = query.Where("organization_id = ?", organizationID)
	}

	var user userDatamodel.User
	if err := query.First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*userDatamodel.User, error) {
	var user userDatamodel.User
	err := r.db.WithContext(ctx).Preload("CustomRole").Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) List(ctx context.Context, organizationID int64) ([]*userDatamodel.User, error) {
	var users []*userDatamodel.User
	err := r.db.WithContext(ctx).
		Preload("CustomRole").
		Where("organization_id = ?", organizationID).
		Order("name ASC").
		Find(&users).Error
	return users, err
}

// Create inserts the user and its reporting edges in one transaction.
func (r *UserRepository) Create(ctx context.Context, u *userDatamodel.User, supervisorIDs []int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(u).Error; err != nil {
			return err
		}
		for _, supervisorID := range supervisorIDs {
			edge := userDatamodel.UserSupervisor{UserID: u.ID, SupervisorID: supervisorID}
			if err := tx.Create(&edge).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *UserRepository) Update(ctx context.Context, u *userDatamodel.User) error {
	// Save skips nil associations, so clearing a custom role needs the
	// column written explicitly.
	if u.CustomRoleID == nil {
		if err := r.db.WithContext(ctx).Model(&userDatamodel.User{}).
			Where("id = ?", u.ID).
			Update("custom_role_id", nil).Error; err != nil {
			return err
		}
	}
	return r.db.WithContext(ctx).Omit("CustomRole").Save(u).Error
}

func (r *UserRepository) SupervisorsOf(ctx context.Context, userID int64) ([]int64, error) {
	var edges []userDatamodel.UserSupervisor
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Find(&edges).Error; err != nil {
		return nil, err
	}
	supervisorIDs := make([]int64, 0, len(edges))
	for _, edge := range edges {
		supervisorIDs = append(supervisorIDs, edge.SupervisorID)
	}
	return supervisorIDs, nil
}

// SetSupervisors replaces all edges for the user atomically.
func (r *UserRepository) SetSupervisors(ctx context.Context, userID int64, supervisorIDs []int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&userDatamodel.UserSupervisor{}).Error; err != nil {
			return err
		}
		for _, supervisorID := range supervisorIDs {
			edge := userDatamodel.UserSupervisor{UserID: userID, SupervisorID: supervisorID}
			if err := tx.Create(&edge).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *UserRepository) AllInOrganization(ctx context.Context, organizationID int64, userIDs []int64) (bool, error) {
	if len(userIDs) == 0 {
		return true, nil
	}
	var count int64
	err := r.db.WithContext(ctx).Model(&userDatamodel.User{}).
		Where("organization_id = ? AND is_active = ? AND id IN ?", organizationID, true, userIDs).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count == int64(len(userIDs)), nil
}

// ReportingEdges satisfies the access engine's directory port: every
// reporting edge of the organization in a single read. The resolver walks
// the closure in memory, so this is the only query a visibility resolution
// costs.
func (r *UserRepository) ReportingEdges(ctx context.Context, organizationID int64) ([]access.ReportingEdge, error) {
	rows, err := r.db.WithContext(ctx).
		Raw(`SELECT us.user_id, us.supervisor_id
		     FROM user_supervisors us
		     JOIN users u ON u.id = us.user_id
		     WHERE u.organization_id = ? AND u.is_active = ?`, organizationID, true).
		Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var edges []access.ReportingEdge
	for rows.Next() {
		var edge access.ReportingEdge
		if err := rows.Scan(&edge.UserID, &edge.SupervisorID); err != nil {
			return nil, err
		}
		edges = append(edges, edge)
	}
	return edges, rows.Err()
}
