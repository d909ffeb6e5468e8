package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/AsimAftab/SalesSphere-Backend-sub001/internal/access"
	"github.com/AsimAftab/SalesSphere-Backend-sub001/internal/attendance"
	attendanceDatamodel "github.com/AsimAftab/SalesSphere-Backend-sub001/internal/core/datamodel/attendance"
)

type AttendanceRepository struct {
	db *gorm.DB
}

func NewAttendanceRepository(db *gorm.DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

func (r *AttendanceRepository) Create(ctx context.Context, record *attendance.Record) error {
	dm := attendance.ToDataModel(record)
	if err := r.db.WithContext(ctx).Create(dm).Error; err != nil {
		return err
	}
	record.ID = dm.ID
	record.CreatedAt = dm.CreatedAt
	record.UpdatedAt = dm.UpdatedAt
	return nil
}

func (r *AttendanceRepository) FindByUserAndDate(ctx context.Context, userID int64, workDate time.Time) (*attendance.Record, error) {
	var dm attendanceDatamodel.AttendanceRecord
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND work_date = ?", userID, workDate).
		First(&dm).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return attendance.FromDataModel(&dm), nil
}

// SetCheckOut closes an open record. The IS NULL guard keeps a duplicate
// check-out from overwriting the first one.
func (r *AttendanceRepository) SetCheckOut(ctx context.Context, id int64, at time.Time, location string) (bool, error) {
	result := r.db.WithContext(ctx).Model(&attendanceDatamodel.AttendanceRecord{}).
		Where("id = ? AND check_out_at IS NULL", id).
		Updates(map[string]interface{}{
			"check_out_at":       at,
			"check_out_location": location,
			"updated_at":         at,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *AttendanceRepository) List(ctx context.Context, organizationID int64, visibility access.Visibility, filter attendance.ListFilter) ([]*attendance.Record, error) {
	query := r.db.WithContext(ctx).Model(&attendanceDatamodel.AttendanceRecord{})
	if organizationID > 0 {
		query = query.Where("organization_id = ?", organizationID)
	}
	if visibility.Scope != access.ScopeUnrestricted {
		query = query.Where("user_id IN ?", visibility.UserIDs)
	}
	if !filter.From.IsZero() {
		query = query.Where("work_date >= ?", filter.From)
	}
	if !filter.To.IsZero() {
		query = query.Where("work_date <= ?", filter.To)
	}

	query = query.Order("work_date DESC")
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var rows []*attendanceDatamodel.AttendanceRecord
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return attendance.FromDataModelSlice(rows), nil
}
