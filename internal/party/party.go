package party

import (
	"errors"
	"time"

	partyDatamodel "github.com/AsimAftab/SalesSphere-Backend-sub001/internal/core/datamodel/party"
)

const (
	TypeRetailer    = "retailer"
	TypeDistributor = "distributor"
	TypeWholesaler  = "wholesaler"
	TypeDealer      = "dealer"
)

var (
	ErrNotFound      = errors.New("party not found")
	ErrDuplicateName = errors.New("a party with this name already exists")
)

// Party is a customer or outlet in the organization's directory. Names are
// unique within an organization.
type Party struct {
	ID             int64     `json:"id"`
	OrganizationID int64     `json:"organization_id"`
	Name           string    `json:"name"`
	PartyType      string    `json:"party_type"`
	Address        string    `json:"address,omitempty"`
	ContactName    string    `json:"contact_name,omitempty"`
	ContactPhone   string    `json:"contact_phone,omitempty"`
	CreatedBy      int64     `json:"created_by"`
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func ToDataModel(p *Party) *partyDatamodel.Party {
	return &partyDatamodel.Party{
		ID:             p.ID,
		OrganizationID: p.OrganizationID,
		Name:           p.Name,
		PartyType:      p.PartyType,
		Address:        p.Address,
		ContactName:    p.ContactName,
		ContactPhone:   p.ContactPhone,
		CreatedBy:      p.CreatedBy,
		IsActive:       p.IsActive,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

func FromDataModel(dm *partyDatamodel.Party) *Party {
	return &Party{
		ID:             dm.ID,
		OrganizationID: dm.OrganizationID,
		Name:           dm.Name,
		PartyType:      dm.PartyType,
		Address:        dm.Address,
		ContactName:    dm.ContactName,
		ContactPhone:   dm.ContactPhone,
		CreatedBy:      dm.CreatedBy,
		IsActive:       dm.IsActive,
		CreatedAt:      dm.CreatedAt,
		UpdatedAt:      dm.UpdatedAt,
	}
}

func FromDataModelSlice(dms []*partyDatamodel.Party) []*Party {
	parties := make([]*Party, len(dms))
	for i, dm := range dms {
		parties[i] = FromDataModel(dm)
	}
	return parties
}
