package leave

import (
	"errors"
	"time"

	leaveDatamodel "github.com/AsimAftab/SalesSphere-Backend-sub001/internal/core/datamodel/leave"
)

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

const (
	LeaveTypeCasual = "casual"
	LeaveTypeSick   = "sick"
	LeaveTypeEarned = "earned"
	LeaveTypeUnpaid = "unpaid"
)

var (
	ErrNotFound          = errors.New("leave request not found")
	ErrApprovalForbidden = errors.New("not allowed to process this leave request")
)

type Leave struct {
	ID             int64      `json:"id"`
	ExternalID     string     `json:"external_id"`
	OrganizationID int64      `json:"organization_id"`
	UserID         int64      `json:"user_id"`
	LeaveType      string     `json:"leave_type"`
	StartDate      time.Time  `json:"start_date"`
	EndDate        time.Time  `json:"end_date"`
	Reason         string     `json:"reason,omitempty"`
	Status         string     `json:"status"`
	StatusReason   string     `json:"status_reason,omitempty"`
	ProcessedBy    *int64     `json:"processed_by,omitempty"`
	ProcessedAt    *time.Time `json:"processed_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func (l *Leave) IsPending() bool {
	return l.Status == StatusPending
}

// Days counts calendar days covered by the request, inclusive of both ends.
func (l *Leave) Days() int {
	return int(l.EndDate.Sub(l.StartDate).Hours()/24) + 1
}

func ToDataModel(l *Leave) *leaveDatamodel.Leave {
	return &leaveDatamodel.Leave{
		ID:             l.ID,
		ExternalID:     l.ExternalID,
		OrganizationID: l.OrganizationID,
		UserID:         l.UserID,
		LeaveType:      l.LeaveType,
		StartDate:      l.StartDate,
		EndDate:        l.EndDate,
		Reason:         l.Reason,
		Status:         l.Status,
		StatusReason:   l.StatusReason,
		ProcessedBy:    l.ProcessedBy,
		ProcessedAt:    l.ProcessedAt,
		CreatedAt:      l.CreatedAt,
		UpdatedAt:      l.UpdatedAt,
	}
}

func FromDataModel(l *leaveDatamodel.Leave) *Leave {
	return &Leave{
		ID:             l.ID,
		ExternalID:     l.ExternalID,
		OrganizationID: l.OrganizationID,
		UserID:         l.UserID,
		LeaveType:      l.LeaveType,
		StartDate:      l.StartDate,
		EndDate:        l.EndDate,
		Reason:         l.Reason,
		Status:         l.Status,
		StatusReason:   l.StatusReason,
		ProcessedBy:    l.ProcessedBy,
		ProcessedAt:    l.ProcessedAt,
		CreatedAt:      l.CreatedAt,
		UpdatedAt:      l.UpdatedAt,
	}
}

func FromDataModelSlice(leaves []*leaveDatamodel.Leave) []*Leave {
	result := make([]*Leave, len(leaves))
	for i, l := range leaves {
		result[i] = FromDataModel(l)
	}
	return result
}
