package party

import (
	"github.com/AsimAftab/SalesSphere-Backend-sub001/internal/core/common/validation"
)

type CreatePartyDTO struct {
	Name         string `json:"name"`
	PartyType    string `json:"party_type"`
	Address      string `json:"address,omitempty"`
	ContactName  string `json:"contact_name,omitempty"`
	ContactPhone string `json:"contact_phone,omitempty"`
}

func (dto CreatePartyDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("name", dto.Name).Required().MaxLength(150)
	v.Field("party_type", dto.PartyType).Required().OneOf(TypeRetailer, TypeDistributor, TypeWholesaler, TypeDealer)
	v.Field("address", dto.Address).MaxLength(500)
	v.Field("contact_name", dto.ContactName).MaxLength(100)
	v.Field("contact_phone", dto.ContactPhone).MaxLength(20)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

type UpdatePartyDTO struct {
	Name         string `json:"name"`
	PartyType    string `json:"party_type"`
	Address      string `json:"address,omitempty"`
	ContactName  string `json:"contact_name,omitempty"`
	ContactPhone string `json:"contact_phone,omitempty"`
	IsActive     *bool  `json:"is_active,omitempty"`
}

func (dto UpdatePartyDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("name", dto.Name).Required().MaxLength(150)
	v.Field("party_type", dto.PartyType).Required().OneOf(TypeRetailer, TypeDistributor, TypeWholesaler, TypeDealer)
	v.Field("address", dto.Address).MaxLength(500)
	v.Field("contact_name", dto.ContactName).MaxLength(100)
	v.Field("contact_phone", dto.ContactPhone).MaxLength(20)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

type ListFilter struct {
	PartyType string
	Search    string
	Limit     int
	Offset    int
}

type PartiesResponse struct {
	Parties []*Party `json:"parties"`
	Limit   int      `json:"limit"`
	Offset  int      `json:"offset"`
}
