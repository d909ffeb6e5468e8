package attendance

import (
	"errors"
	"time"

	attendanceDatamodel "github.com/AsimAftab/SalesSphere-Backend-sub001/internal/core/datamodel/attendance"
)

var (
	ErrNotFound          = errors.New("attendance record not found")
	ErrAlreadyCheckedIn  = errors.New("already checked in today")
	ErrNotCheckedIn      = errors.New("no check-in recorded for today")
	ErrAlreadyCheckedOut = errors.New("already checked out today")
)

// Record is one user's attendance for one work day. The user/work-date pair
// is unique, so a day has at most one check-in and one check-out.
type Record struct {
	ID               int64      `json:"id"`
	OrganizationID   int64      `json:"organization_id"`
	UserID           int64      `json:"user_id"`
	WorkDate         time.Time  `json:"work_date"`
	CheckInAt        time.Time  `json:"check_in_at"`
	CheckInLocation  string     `json:"check_in_location,omitempty"`
	CheckOutAt       *time.Time `json:"check_out_at,omitempty"`
	CheckOutLocation string     `json:"check_out_location,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

func (r *Record) IsCheckedOut() bool {
	return r.CheckOutAt != nil
}

// WorkDateOf truncates an instant to its UTC calendar day, the granularity
// attendance records are keyed on.
func WorkDateOf(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func ToDataModel(r *Record) *attendanceDatamodel.AttendanceRecord {
	return &attendanceDatamodel.AttendanceRecord{
		ID:               r.ID,
		OrganizationID:   r.OrganizationID,
		UserID:           r.UserID,
		WorkDate:         r.WorkDate,
		CheckInAt:        r.CheckInAt,
		CheckInLocation:  r.CheckInLocation,
		CheckOutAt:       r.CheckOutAt,
		CheckOutLocation: r.CheckOutLocation,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
}

func FromDataModel(dm *attendanceDatamodel.AttendanceRecord) *Record {
	return &Record{
		ID:               dm.ID,
		OrganizationID:   dm.OrganizationID,
		UserID:           dm.UserID,
		WorkDate:         dm.WorkDate,
		CheckInAt:        dm.CheckInAt,
		CheckInLocation:  dm.CheckInLocation,
		CheckOutAt:       dm.CheckOutAt,
		CheckOutLocation: dm.CheckOutLocation,
		CreatedAt:        dm.CreatedAt,
		UpdatedAt:        dm.UpdatedAt,
	}
}

func FromDataModelSlice(dms []*attendanceDatamodel.AttendanceRecord) []*Record {
	records := make([]*Record, len(dms))
	for i, dm := range dms {
		records[i] = FromDataModel(dm)
	}
	return records
}
