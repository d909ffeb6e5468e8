package party

import (
	"context"
	"log/slog"
	"time"

	"github.com/AsimAftab/SalesSphere-Backend-sub001/internal"
	"github.com/AsimAftab/SalesSphere-Backend-sub001/internal/access"
)

type Repository interface {
	Create(ctx context.Context, p *Party) error
	GetByID(ctx context.Context, organizationID, id int64) (*Party, error)
	FindByName(ctx context.Context, organizationID int64, name string) (*Party, error)
	Update(ctx context.Context, p *Party) error
	List(ctx context.Context, organizationID int64, filter ListFilter) ([]*Party, error)
}

// Service manages the customer/outlet directory. Parties are organization
// wide: any caller who clears the module's route guards sees the whole
// directory, so there is no per-owner visibility here.
type Service struct {
	repo   Repository
	logger *slog.Logger
	now    func() time.Time
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

func (s *Service) Create(ctx context.Context, actor *access.Identity, dto CreatePartyDTO) (*Party, error) {
	if actor == nil {
		return nil, internal.ErrAuthenticationRequired
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.repo.FindByName(ctx, actor.OrganizationID, dto.Name)
	if err != nil {
		s.logger.Error("failed to look up party by name", "error", err, "name", dto.Name)
		return nil, internal.NewInternalError("unable to create party", err)
	}
	if existing != nil {
		return nil, ErrDuplicateName
	}

	now := s.now()
	record := &Party{
		OrganizationID: actor.OrganizationID,
		Name:           dto.Name,
		PartyType:      dto.PartyType,
		Address:        dto.Address,
		ContactName:    dto.ContactName,
		ContactPhone:   dto.ContactPhone,
		CreatedBy:      actor.UserID,
		IsActive:       true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.repo.Create(ctx, record); err != nil {
		s.logger.Error("failed to create party", "error", err, "name", dto.Name)
		return nil, internal.NewInternalError("unable to create party", err)
	}

	s.logger.Info("party created",
		"party_id", record.ID,
		"organization_id", record.OrganizationID,
		"created_by", actor.UserID)

	return record, nil
}

func (s *Service) List(ctx context.Context, actor *access.Identity, filter ListFilter) (*PartiesResponse, error) {
	if actor == nil {
		return nil, internal.ErrAuthenticationRequired
	}

	parties, err := s.repo.List(ctx, organizationScope(actor), filter)
	if err != nil {
		s.logger.Error("failed to list parties", "error", err, "user_id", actor.UserID)
		return nil, internal.NewInternalError("unable to list parties", err)
	}

	return &PartiesResponse{Parties: parties, Limit: filter.Limit, Offset: filter.Offset}, nil
}

func (s *Service) Get(ctx context.Context, actor *access.Identity, id int64) (*Party, error) {
	if actor == nil {
		return nil, internal.ErrAuthenticationRequired
	}

	record, err := s.repo.GetByID(ctx, organizationScope(actor), id)
	if err != nil {
		s.logger.Error("failed to load party", "error", err, "party_id", id)
		return nil, internal.NewInternalError("unable to load party", err)
	}
	if record == nil {
		return nil, ErrNotFound
	}

	return record, nil
}

func (s *Service) Update(ctx context.Context, actor *access.Identity, id int64, dto UpdatePartyDTO) (*Party, error) {
	if actor == nil {
		return nil, internal.ErrAuthenticationRequired
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	record, err := s.repo.GetByID(ctx, organizationScope(actor), id)
	if err != nil {
		s.logger.Error("failed to load party for update", "error", err, "party_id", id)
		return nil, internal.NewInternalError("unable to update party", err)
	}
	if record == nil {
		return nil, ErrNotFound
	}

	if dto.Name != record.Name {
		existing, err := s.repo.FindByName(ctx, record.OrganizationID, dto.Name)
		if err != nil {
			s.logger.Error("failed to look up party by name", "error", err, "name", dto.Name)
			return nil, internal.NewInternalError("unable to update party", err)
		}
		if existing != nil {
			return nil, ErrDuplicateName
		}
	}

	record.Name = dto.Name
	record.PartyType = dto.PartyType
	record.Address = dto.Address
	record.ContactName = dto.ContactName
	record.ContactPhone = dto.ContactPhone
	if dto.IsActive != nil {
		record.IsActive = *dto.IsActive
	}
	record.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, record); err != nil {
		s.logger.Error("failed to update party", "error", err, "party_id", id)
		return nil, internal.NewInternalError("unable to update party", err)
	}

	s.logger.Info("party updated", "party_id", record.ID, "actor_id", actor.UserID)
	return record, nil
}

func organizationScope(actor *access.Identity) int64 {
	if actor.IsSuperRole() {
		return 0
	}
	return actor.OrganizationID
}
