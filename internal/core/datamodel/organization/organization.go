package organization

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/AsimAftab/SalesSphere-Backend-sub001/internal/access"
)

// ModuleList stores a plan's enabled module names as a JSONB array.
type ModuleList []string

func (l ModuleList) Value() (driver.Value, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(l)
}

func (l *ModuleList) Scan(value interface{}) error {
	if value == nil {
		*l = ModuleList{}
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type %T for module list", value)
	}
	if len(data) == 0 {
		*l = ModuleList{}
		return nil
	}
	return json.Unmarshal(data, l)
}

type SubscriptionPlan struct {
	ID             int64                `gorm:"primaryKey"`
	Name           string               `gorm:"column:name;uniqueIndex;not null"`
	DisplayName    string               `gorm:"column:display_name;not null"`
	EnabledModules ModuleList           `gorm:"column:enabled_modules;type:jsonb"`
	ModuleFeatures access.PermissionMap `gorm:"column:module_features;type:jsonb"`
	CreatedAt      time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}

type Organization struct {
	ID                 int64             `gorm:"primaryKey"`
	Name               string            `gorm:"column:name;not null"`
	Email              string            `gorm:"column:email"`
	Phone              string            `gorm:"column:phone"`
	SubscriptionPlanID *int64            `gorm:"column:subscription_plan_id"`
	SubscriptionPlan   *SubscriptionPlan `gorm:"foreignKey:SubscriptionPlanID"`
	SubscriptionEndsAt time.Time         `gorm:"column:subscription_ends_at"`
	CreatedAt          time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
