package postgres

import (
	"context"

	"github.com/AsimAftab/SalesSphere-Backend-sub001/internal/access"
	orgDatamodel "github.com/AsimAftab/SalesSphere-Backend-sub001/internal/core/datamodel/organization"
	"github.com/AsimAftab/SalesSphere-Backend-sub001/internal/organization"
	"gorm.io/gorm"
)

type OrganizationRepository struct {
	db *gorm.DB
}

func NewOrganizationRepository(db *gorm.DB) *OrganizationRepository {
	return &OrganizationRepository{db: db}
}

func (r *OrganizationRepository) GetByID(ctx context.Context, id int64) (*orgDatamodel.Organization, error) {
	var org orgDatamodel.Organization
	err := r.db.WithContext(ctx).
		Preload("SubscriptionPlan").
		Where("id = ?", id).
		First(&org).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &org, nil
}

func (r *OrganizationRepository) Update(ctx context.Context, org *orgDatamodel.Organization) error {
	return r.db.WithContext(ctx).Save(org).Error
}

func (r *OrganizationRepository) ListPlans(ctx context.Context) ([]*orgDatamodel.SubscriptionPlan, error) {
	var plans []*orgDatamodel.SubscriptionPlan
	err := r.db.WithContext(ctx).Order("id ASC").Find(&plans).Error
	return plans, err
}

// OrganizationWithPlan satisfies the access engine's provider port. Absence
// is reported through the engine's sentinel so it maps to a denial rather
// than an infrastructure failure.
func (r *OrganizationRepository) OrganizationWithPlan(ctx context.Context, organizationID int64) (*access.OrganizationSnapshot, error) {
	org, err := r.GetByID(ctx, organizationID)
	if err != nil {
		return nil, err
	}
	if org == nil {
		return nil, access.ErrOrganizationNotFound
	}
	return organization.FromDataModel(org).Snapshot(), nil
}
