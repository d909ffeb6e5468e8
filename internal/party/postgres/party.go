package postgres

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	partyDatamodel "github.com/AsimAftab/SalesSphere-Backend-sub001/internal/core/datamodel/party"
	"github.com/AsimAftab/SalesSphere-Backend-sub001/internal/party"
)

type PartyRepository struct {
	db *gorm.DB
}

func NewPartyRepository(db *gorm.DB) *PartyRepository {
	return &PartyRepository{db: db}
}

func (r *PartyRepository) Create(ctx context.Context, p *party.Party) error {
	dm := party.ToDataModel(p)
	if err := r.db.WithContext(ctx).Create(dm).Error; err != nil {
		return err
	}
	p.ID = dm.ID
	p.CreatedAt = dm.CreatedAt
	p.UpdatedAt = dm.UpdatedAt
	return nil
}

func (r *PartyRepository) GetByID(ctx context.Context, organizationID, id int64) (*party.Party, error) {
	query := r.db.WithContext(ctx).Where("id = ?", id)
	if organizationID > 0 {
		query = query.Where("organization_id = ?", organizationID)
	}

	var dm partyDatamodel.Party
	if err := query.First(&dm).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return party.FromDataModel(&dm), nil
}

// FindByName matches case-insensitively so "Sharma Stores" and "sharma
// stores" count as the same directory entry.
func (r *PartyRepository) FindByName(ctx context.Context, organizationID int64, name string) (*party.Party, error) {
	var dm partyDatamodel.Party
	err := r.db.WithContext(ctx).
		Where("organization_id = ? AND LOWER(name) = ?", organizationID, strings.ToLower(name)).
		First(&dm).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return party.FromDataModel(&dm), nil
}

func (r *PartyRepository) Update(ctx context.Context, p *party.Party) error {
	dm := party.ToDataModel(p)
	return r.db.WithContext(ctx).Save(dm).Error
}

func (r *PartyRepository) List(ctx context.Context, organizationID int64, filter party.ListFilter) ([]*party.Party, error) {
	query := r.db.WithContext(ctx).Model(&partyDatamodel.Party{})
	if organizationID > 0 {
		query = query.Where("organization_id = ?", organizationID)
	}
	if filter.PartyType != "" {
		query = query.Where("party_type = ?", filter.PartyType)
	}
	if filter.Search != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(filter.Search)+"%")
	}

	query = query.Order("name ASC")
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var rows []*partyDatamodel.Party
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return party.FromDataModelSlice(rows), nil
}
