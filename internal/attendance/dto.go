package attendance

import (
	"time"

	"github.com/AsimAftab/SalesSphere-Backend-sub001/internal/core/common/validation"
)

type CheckInDTO struct {
	Location string `json:"location,omitempty"`
}

func (dto CheckInDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("location", dto.Location).MaxLength(255)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

type CheckOutDTO struct {
	Location string `json:"location,omitempty"`
}

func (dto CheckOutDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("location", dto.Location).MaxLength(255)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

type ListFilter struct {
	From   time.Time
	To     time.Time
	Limit  int
	Offset int
}

type RecordsResponse struct {
	Records []*Record `json:"records"`
	Limit   int       `json:"limit"`
	Offset  int       `json:"offset"`
}
