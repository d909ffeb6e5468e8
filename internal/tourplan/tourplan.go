package tourplan

import (
	"errors"
	"time"

	tourplanDatamodel "github.com/AsimAftab/SalesSphere-Backend-sub001/internal/core/datamodel/tourplan"
)

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

var (
	ErrNotFound          = errors.New("tour plan not found")
	ErrApprovalForbidden = errors.New("not allowed to process this tour plan")
)

type TourPlan struct {
	ID             int64      `json:"id"`
	ExternalID     string     `json:"external_id"`
	OrganizationID int64      `json:"organization_id"`
	UserID         int64      `json:"user_id"`
	Destination    string     `json:"destination"`
	Purpose        string     `json:"purpose,omitempty"`
	StartDate      time.Time  `json:"start_date"`
	EndDate        time.Time  `json:"end_date"`
	Status         string     `json:"status"`
	StatusReason   string     `json:"status_reason,omitempty"`
	ProcessedBy    *int64     `json:"processed_by,omitempty"`
	ProcessedAt    *time.Time `json:"processed_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func (t *TourPlan) IsPending() bool {
	return t.Status == StatusPending
}

func ToDataModel(t *TourPlan) *tourplanDatamodel.TourPlan {
	return &tourplanDatamodel.TourPlan{
		ID:             t.ID,
		ExternalID:     t.ExternalID,
		OrganizationID: t.OrganizationID,
		UserID:         t.UserID,
		Destination:    t.Destination,
		Purpose:        t.Purpose,
		StartDate:      t.StartDate,
		EndDate:        t.EndDate,
		Status:         t.Status,
		StatusReason:   t.StatusReason,
		ProcessedBy:    t.ProcessedBy,
		ProcessedAt:    t.ProcessedAt,
		CreatedAt:      t.CreatedAt,
		UpdatedAt:      t.UpdatedAt,
	}
}

func FromDataModel(t *tourplanDatamodel.TourPlan) *TourPlan {
	return &TourPlan{
		ID:             t.ID,
		ExternalID:     t.ExternalID,
		OrganizationID: t.OrganizationID,
		UserID:         t.UserID,
		Destination:    t.Destination,
		Purpose:        t.Purpose,
		StartDate:      t.StartDate,
		EndDate:        t.EndDate,
		Status:         t.Status,
		StatusReason:   t.StatusReason,
		ProcessedBy:    t.ProcessedBy,
		ProcessedAt:    t.ProcessedAt,
		CreatedAt:      t.CreatedAt,
		UpdatedAt:      t.UpdatedAt,
	}
}

func FromDataModelSlice(plans []*tourplanDatamodel.TourPlan) []*TourPlan {
	result := make([]*TourPlan, len(plans))
	for i, t := range plans {
		result[i] = FromDataModel(t)
	}
	return result
}
