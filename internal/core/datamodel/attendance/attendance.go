package attendance

import "time"

type AttendanceRecord struct {
	ID               int64      `gorm:"primaryKey"`
	OrganizationID   int64      `gorm:"column:organization_id;not null;index"`
	UserID           int64      `gorm:"column:user_id;not null;uniqueIndex:idx_attendance_user_day"`
	WorkDate         time.Time  `gorm:"column:work_date;type:date;not null;uniqueIndex:idx_attendance_user_day"`
	CheckInAt        time.Time  `gorm:"column:check_in_at;not null"`
	CheckInLocation  string     `gorm:"column:check_in_location"`
	CheckOutAt       *time.Time `gorm:"column:check_out_at"`
	CheckOutLocation string     `gorm:"column:check_out_location"`
	CreatedAt        time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
