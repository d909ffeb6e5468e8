package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/AsimAftab/SalesSphere-Backend-sub001/internal/access"
	leaveDatamodel "github.com/AsimAftab/SalesSphere-Backend-sub001/internal/core/datamodel/leave"
	"github.com/AsimAftab/SalesSphere-Backend-sub001/internal/leave"
)

type LeaveRepository struct {
	db *gorm.DB
}

func NewLeaveRepository(db *gorm.DB) *LeaveRepository {
	return &LeaveRepository{db: db}
}

func (r *LeaveRepository) Create(ctx context.Context, l *leave.Leave) error {
	dm := leave.ToDataModel(l)
	if err := r.db.WithContext(ctx).Create(dm).Error; err != nil {
		return err
	}
	l.ID = dm.ID
	l.CreatedAt = dm.CreatedAt
	l.UpdatedAt = dm.UpdatedAt
	return nil
}

// GetByID scopes by organization unless organizationID is zero, which the
// organization-less super-role uses to reach any tenant's records.
func (r *LeaveRepository) GetByID(ctx context.Context, organizationID, id int64) (*leave.Leave, error) {
	query := r.db.WithContext(ctx).Where("id = ?", id)
	if organizationID > 0 {
		query = query.Where("organization_id = ?", organizationID)
	}

	var dm leaveDatamodel.Leave
	if err := query.First(&dm).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return leave.FromDataModel(&dm), nil
}

func (r *LeaveRepository) List(ctx context.Context, organizationID int64, visibility access.Visibility, filter leave.ListFilter) ([]*leave.Leave, error) {
	query := r.db.WithContext(ctx).Model(&leaveDatamodel.Leave{})
	if organizationID > 0 {
		query = query.Where("organization_id = ?", organizationID)
	}
	if visibility.Scope != access.ScopeUnrestricted {
		query = query.Where("user_id IN ?", visibility.UserIDs)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	// date filters select any request overlapping the window
	if !filter.From.IsZero() {
		query = query.Where("end_date >= ?", filter.From)
	}
	if !filter.To.IsZero() {
		query = query.Where("start_date <= ?", filter.To)
	}

	query = query.Order("created_at DESC")
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var rows []*leaveDatamodel.Leave
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return leave.FromDataModelSlice(rows), nil
}

// UpdateStatusIfPending writes the resolution only when the row is still
// pending. The WHERE clause is the concurrency guard: of two racing
// approvers exactly one sees RowsAffected == 1.
func (r *LeaveRepository) UpdateStatusIfPending(ctx context.Context, id int64, status, reason string, processedBy int64, processedAt time.Time) (bool, error) {
	result := r.db.WithContext(ctx).Model(&leaveDatamodel.Leave{}).
		Where("id = ? AND status = ?", id, leave.StatusPending).
		Updates(map[string]interface{}{
			"status":        status,
			"status_reason": reason,
			"processed_by":  processedBy,
			"processed_at":  processedAt,
			"updated_at":    processedAt,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
