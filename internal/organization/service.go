package organization

import (
	"context"
	"log/slog"
	"time"

	orgDatamodel "github.com/AsimAftab/SalesSphere-Backend-sub001/internal/core/datamodel/organization"
)

type RepositoryAPI interface {
	GetByID(ctx context.Context, id int64) (*orgDatamodel.Organization, error)
	Update(ctx context.Context, org *orgDatamodel.Organization) error
	ListPlans(ctx context.Context) ([]*orgDatamodel.SubscriptionPlan, error)
}

// SnapshotInvalidator is implemented by the cached provider so profile
// updates do not serve stale plan data to the access engine.
type SnapshotInvalidator interface {
	Invalidate(ctx context.Context, organizationID int64)
}

type Service struct {
	repo        RepositoryAPI
	invalidator SnapshotInvalidator
	logger      *slog.Logger
	now         func() time.Time
}

func NewService(repo RepositoryAPI, invalidator SnapshotInvalidator, logger *slog.Logger) *Service {
	return &Service{
		repo:        repo,
		invalidator: invalidator,
		logger:      logger,
		now:         time.Now,
	}
}

func (s *Service) GetProfile(ctx context.Context, organizationID int64) (*OrganizationResponse, error) {
	dataOrg, err := s.repo.GetByID(ctx, organizationID)
	if err != nil {
		s.logger.Error("failed to get organization", "organization_id", organizationID, "error", err)
		return nil, err
	}
	if dataOrg == nil {
		return nil, ErrNotFound
	}

	resp := FromDataModel(dataOrg).ToResponse(s.now())
	return &resp, nil
}

func (s *Service) UpdateProfile(ctx context.Context, organizationID int64, dto UpdateOrganizationDTO) (*OrganizationResponse, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	dataOrg, err := s.repo.GetByID(ctx, organizationID)
	if err != nil {
		s.logger.Error("failed to get organization for update", "organization_id", organizationID, "error", err)
		return nil, err
	}
	if dataOrg == nil {
		return nil, ErrNotFound
	}

	if dto.Name != nil {
		dataOrg.Name = *dto.Name
	}
	if dto.Email != nil {
		dataOrg.Email = *dto.Email
	}
	if dto.Phone != nil {
		dataOrg.Phone = *dto.Phone
	}

	if err := s.repo.Update(ctx, dataOrg); err != nil {
		s.logger.Error("failed to update organization", "organization_id", organizationID, "error", err)
		return nil, err
	}

	if s.invalidator != nil {
		s.invalidator.Invalidate(ctx, organizationID)
	}

	s.logger.Info("organization profile updated", "organization_id", organizationID)
	resp := FromDataModel(dataOrg).ToResponse(s.now())
	return &resp, nil
}

// ListPlans exposes the plan catalog, typically for an upgrade page.
func (s *Service) ListPlans(ctx context.Context) ([]PlanResponse, error) {
	dataPlans, err := s.repo.ListPlans(ctx)
	if err != nil {
		s.logger.Error("failed to list subscription plans", "error", err)
		return nil, err
	}

	responses := make([]PlanResponse, 0, len(dataPlans))
	for _, dataPlan := range dataPlans {
		responses = append(responses, *PlanFromDataModel(dataPlan).ToResponse())
	}
	return responses, nil
}
