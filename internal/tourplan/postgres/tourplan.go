package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/AsimAftab/SalesSphere-Backend-sub001/internal/access"
	tourplanDatamodel "github.com/AsimAftab/SalesSphere-Backend-sub001/internal/core/datamodel/tourplan"
	"github.com/AsimAftab/SalesSphere-Backend-sub001/internal/tourplan"
)

type TourPlanRepository struct {
	db *gorm.DB
}

func NewTourPlanRepository(db *gorm.DB) *TourPlanRepository {
	return &TourPlanRepository{db: db}
}

func (r *TourPlanRepository) Create(ctx context.Context, t *tourplan.TourPlan) error {
	dm := tourplan.ToDataModel(t)
	if err := r.db.WithContext(ctx).Create(dm).Error; err != nil {
		return err
	}
	t.ID = dm.ID
	t.CreatedAt = dm.CreatedAt
	t.UpdatedAt = dm.UpdatedAt
	return nil
}

func (r *TourPlanRepository) GetByID(ctx context.Context, organizationID, id int64) (*tourplan.TourPlan, error) {
	query := r.db.WithContext(ctx).Where("id = ?", id)
	if organizationID > 0 {
		query = query.Where("organization_id = ?", organizationID)
	}

	var dm tourplanDatamodel.TourPlan
	if err := query.First(&dm).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return tourplan.FromDataModel(&dm), nil
}

func (r *TourPlanRepository) List(ctx context.Context, organizationID int64, visibility access.Visibility, filter tourplan.ListFilter) ([]*tourplan.TourPlan, error) {
	query := r.db.WithContext(ctx).Model(&tourplanDatamodel.TourPlan{})
	if organizationID > 0 {
		query = query.Where("organization_id = ?", organizationID)
	}
	if visibility.Scope != access.ScopeUnrestricted {
		query = query.Where("user_id IN ?", visibility.UserIDs)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	query = query.Order("created_at DESC")
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var rows []*tourplanDatamodel.TourPlan
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return tourplan.FromDataModelSlice(rows), nil
}

func (r *TourPlanRepository) UpdateStatusIfPending(ctx context.Context, id int64, status, reason string, processedBy int64, processedAt time.Time) (bool, error) {
	result := r.db.WithContext(ctx).Model(&tourplanDatamodel.TourPlan{}).
		Where("id = ? AND status = ?", id, tourplan.StatusPending).
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
