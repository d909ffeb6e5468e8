package tourplan

import "time"

type TourPlan struct {
	ID             int64      `gorm:"primaryKey"`
	ExternalID     string     `gorm:"column:external_id;not null;uniqueIndex"`
	OrganizationID int64      `gorm:"column:organization_id;not null;index"`
	UserID         int64      `gorm:"column:user_id;not null;index"`
	Destination    string     `gorm:"column:destination;not null"`
	Purpose        string     `gorm:"column:purpose"`
	StartDate      time.Time  `gorm:"column:start_date;type:date;not null"`
	EndDate        time.Time  `gorm:"column:end_date;type:date;not null"`
	Status         string     `gorm:"column:status;not null;default:pending"`
	StatusReason   string     `gorm:"column:status_reason"`
	ProcessedBy    *int64     `gorm:"column:processed_by"`
	ProcessedAt    *time.Time `gorm:"column:processed_at"`
	CreatedAt      time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
