package party

import "time"

type Party struct {
	ID             int64     `gorm:"primaryKey"`
	OrganizationID int64     `gorm:"column:organization_id;not null;uniqueIndex:idx_parties_org_name"`
	Name           string    `gorm:"column:name;not null;uniqueIndex:idx_parties_org_name"`
	PartyType      string    `gorm:"column:party_type"`
	Address        string    `gorm:"column:address"`
	ContactName    string    `gorm:"column:contact_name"`
	ContactPhone   string    `gorm:"column:contact_phone"`
	CreatedBy      int64     `gorm:"column:created_by;not null"`
	IsActive       bool      `gorm:"column:is_active;default:true"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
