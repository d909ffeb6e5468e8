package tourplan

import (
	"time"

	"github.com/AsimAftab/SalesSphere-Backend-sub001/internal/core/common/validation"
)

type CreateTourPlanDTO struct {
	Destination string    `json:"destination"`
	Purpose     string    `json:"purpose,omitempty"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
}

func (dto CreateTourPlanDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("destination", dto.Destination).Required().MaxLength(200)
	v.Field("purpose", dto.Purpose).MaxLength(500)
	v.Field("start_date", dto.StartDate).Required()
	v.Field("end_date", dto.EndDate).Required().NotBefore(dto.StartDate, "start_date")
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

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
	Limit  int
	Offset int
}

type TourPlansResponse struct {
	TourPlans []*TourPlan `json:"tour_plans"`
	Limit     int         `json:"limit"`
	Offset    int         `json:"offset"`
}
