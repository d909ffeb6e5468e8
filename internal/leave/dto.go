package leave

import (
	"time"

	"github.com/AsimAftab/SalesSphere-Backend-sub001/internal/core/common/validation"
)

type CreateLeaveDTO struct {
	LeaveType string    `json:"leave_type"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	Reason    string    `json:"reason,omitempty"`
}

func (dto CreateLeaveDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("leave_type", dto.LeaveType).Required().OneOf(LeaveTypeCasual, LeaveTypeSick, LeaveTypeEarned, LeaveTypeUnpaid)
	v.Field("start_date", dto.StartDate).Required()
	v.Field("end_date", dto.EndDate).Required().NotBefore(dto.StartDate, "start_date")
	v.Field("reason", dto.Reason).MaxLength(500)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

// UpdateStatusDTO resolves a pending request. Reason is required when
// rejecting so the owner learns why.
type UpdateStatusDTO struct {
	Status string `json:"status"`
	Reason string `json:"reason,omitempty"`
}

func (dto UpdateStatusDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("status", dto.Status).Required().OneOf(StatusApproved, StatusRejected)
	v.Field("reason", dto.Reason).MaxLength(500)
	if dto.Status == StatusRejected {
		v.Field("reason", dto.Reason).Required()
	}
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

type ListFilter struct {
	Status string
	From   time.Time
	To     time.Time
	Limit  int
	Offset int
}

type LeavesResponse struct {
	Leaves []*Leave `json:"leaves"`
	Limit  int      `json:"limit"`
	Offset int      `json:"offset"`
}
