package tourplan

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/AsimAftab/SalesSphere-Backend-sub001/internal"
	"github.com/AsimAftab/SalesSphere-Backend-sub001/internal/access"
	"github.com/AsimAftab/SalesSphere-Backend-sub001/internal/core/events"
)

type Repository interface {
	Create(ctx context.Context, t *TourPlan) error
	GetByID(ctx context.Context, organizationID, id int64) (*TourPlan, error)
	List(ctx context.Context, organizationID int64, visibility access.Visibility, filter ListFilter) ([]*TourPlan, error)
	UpdateStatusIfPending(ctx context.Context, id int64, status, reason string, processedBy int64, processedAt time.Time) (bool, error)
}

type IdentityDirectory interface {
	IdentityByUserID(ctx context.Context, userID int64) (*access.Identity, error)
}

type Publisher interface {
	Publish(ctx context.Context, event events.Event) error
}

// Service runs the tour plan workflow with the same authorization shape as
// leave requests: visibility-scoped reads and supervisor-gated approvals.
type Service struct {
	repo       Repository
	identities IdentityDirectory
	resolver   *access.HierarchyResolver
	authorizer *access.ApprovalAuthorizer
	events     Publisher
	logger     *slog.Logger
	now        func() time.Time
}

func NewService(repo Repository, identities IdentityDirectory, resolver *access.HierarchyResolver, authorizer *access.ApprovalAuthorizer, publisher Publisher, logger *slog.Logger) *Service {
	return &Service{
		repo:       repo,
		identities: identities,
		resolver:   resolver,
		authorizer: authorizer,
		events:     publisher,
		logger:     logger,
		now:        time.Now,
	}
}

func (s *Service) Create(ctx context.Context, actor *access.Identity, dto CreateTourPlanDTO) (*TourPlan, error) {
	if actor == nil {
		return nil, internal.ErrAuthenticationRequired
	}
	if err := dto.Validate(); err != nil {
		s.logger.Warn("tour plan validation failed", "error", err, "user_id", actor.UserID)
		return nil, err
	}

	now := s.now()
	plan := &TourPlan{
		ExternalID:     uuid.New().String(),
		OrganizationID: actor.OrganizationID,
		UserID:         actor.UserID,
		Destination:    dto.Destination,
		Purpose:        dto.Purpose,
		StartDate:      dto.StartDate,
		EndDate:        dto.EndDate,
		Status:         StatusPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.repo.Create(ctx, plan); err != nil {
		s.logger.Error("failed to create tour plan", "error", err, "user_id", actor.UserID)
		return nil, internal.NewInternalError("unable to create tour plan", err)
	}

	if err := s.events.Publish(ctx, events.NewTourPlanSubmittedEvent(plan.ID, plan.OrganizationID, plan.UserID)); err != nil {
		s.logger.Error("failed to publish tour plan submitted event", "error", err, "tour_plan_id", plan.ID)
	}

	s.logger.Info("tour plan created",
		"tour_plan_id", plan.ID,
		"user_id", actor.UserID,
		"destination", plan.Destination)

	return plan, nil
}

func (s *Service) List(ctx context.Context, actor *access.Identity, filter ListFilter) (*TourPlansResponse, error) {
	visibility, err := s.resolver.ResolveVisibility(ctx, actor, access.ModuleTourPlans, access.FeatureViewAll)
	if err != nil {
		return nil, err
	}

	plans, err := s.repo.List(ctx, organizationScope(actor), visibility, filter)
	if err != nil {
		s.logger.Error("failed to list tour plans", "error", err, "user_id", actor.UserID)
		return nil, internal.NewInternalError("unable to list tour plans", err)
	}

	return &TourPlansResponse{TourPlans: plans, Limit: filter.Limit, Offset: filter.Offset}, nil
}

func (s *Service) Get(ctx context.Context, actor *access.Identity, id int64) (*TourPlan, error) {
	visibility, err := s.resolver.ResolveVisibility(ctx, actor, access.ModuleTourPlans, access.FeatureViewAll)
	if err != nil {
		return nil, err
	}

	plan, err := s.repo.GetByID(ctx, organizationScope(actor), id)
	if err != nil {
		s.logger.Error("failed to load tour plan", "error", err, "tour_plan_id", id)
		return nil, internal.NewInternalError("unable to load tour plan", err)
	}
	if plan == nil || !visibility.Allows(plan.UserID) {
		return nil, ErrNotFound
	}

	return plan, nil
}

func (s *Service) UpdateStatus(ctx context.Context, actor *access.Identity, id int64, dto UpdateStatusDTO) (*TourPlan, error) {
	if actor == nil {
		return nil, internal.ErrAuthenticationRequired
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	plan, err := s.repo.GetByID(ctx, organizationScope(actor), id)
	if err != nil {
		s.logger.Error("failed to load tour plan for status update", "error", err, "tour_plan_id", id)
		return nil, internal.NewInternalError("unable to load tour plan", err)
	}
	if plan == nil {
		return nil, ErrNotFound
	}

	owner, err := s.ownerIdentity(ctx, plan)
	if err != nil {
		return nil, err
	}

	allowed, err := s.authorizer.CanApprove(ctx, actor, owner, access.ModuleTourPlans)
	if err != nil {
		return nil, err
	}
	if !allowed {
		if actor.UserID == plan.UserID {
			return nil, internal.ErrSelfApproval
		}
		s.logger.Warn("tour plan status change denied",
			"tour_plan_id", id,
			"actor_id", actor.UserID,
			"owner_id", plan.UserID)
		return nil, ErrApprovalForbidden
	}

	processedAt := s.now()
	updated, err := s.repo.UpdateStatusIfPending(ctx, plan.ID, dto.Status, dto.Reason, actor.UserID, processedAt)
	if err != nil {
		s.logger.Error("failed to update tour plan status", "error", err, "tour_plan_id", id)
		return nil, internal.NewInternalError("unable to update tour plan status", err)
	}
	if !updated {
		return nil, internal.ErrAlreadyProcessed
	}

	plan.Status = dto.Status
	plan.StatusReason = dto.Reason
	plan.ProcessedBy = &actor.UserID
	plan.ProcessedAt = &processedAt
	plan.UpdatedAt = processedAt

	if err := s.events.Publish(ctx, events.NewTourPlanStatusChangedEvent(plan.ID, plan.OrganizationID, plan.UserID, dto.Status, dto.Reason, actor.UserID)); err != nil {
		s.logger.Error("failed to publish tour plan status event", "error", err, "tour_plan_id", plan.ID)
	}

	s.logger.Info("tour plan status updated",
		"tour_plan_id", plan.ID,
		"status", dto.Status,
		"actor_id", actor.UserID,
		"owner_id", plan.UserID)

	return plan, nil
}

func (s *Service) ownerIdentity(ctx context.Context, plan *TourPlan) (*access.Identity, error) {
	owner, err := s.identities.IdentityByUserID(ctx, plan.UserID)
	if err != nil {
		s.logger.Error("failed to load tour plan owner identity", "error", err, "owner_id", plan.UserID)
		return nil, internal.NewInternalError("unable to load request owner", err)
	}
	if owner == nil {
		owner = &access.Identity{
			UserID:         plan.UserID,
			OrganizationID: plan.OrganizationID,
			BaseRole:       access.RoleMember,
		}
	}
	return owner, nil
}

func organizationScope(actor *access.Identity) int64 {
	if actor.IsSuperRole() {
		return 0
	}
	return actor.OrganizationID
}
