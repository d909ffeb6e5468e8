package leave

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
	Create(ctx context.Context, l *Leave) error
	GetByID(ctx context.Context, organizationID, id int64) (*Leave, error)
	List(ctx context.Context, organizationID int64, visibility access.Visibility, filter ListFilter) ([]*Leave, error)
	UpdateStatusIfPending(ctx context.Context, id int64, status, reason string, processedBy int64, processedAt time.Time) (bool, error)
}

// IdentityDirectory loads the identity snapshot of a request owner so the
// approval rules can inspect their reporting edges.
type IdentityDirectory interface {
	IdentityByUserID(ctx context.Context, userID int64) (*access.Identity, error)
}

type Publisher interface {
	Publish(ctx context.Context, event events.Event) error
}

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

func (s *Service) Create(ctx context.Context, actor *access.Identity, dto CreateLeaveDTO) (*Leave, error) {
	if actor == nil {
		return nil, internal.ErrAuthenticationRequired
	}
	if err := dto.Validate(); err != nil {
		s.logger.Warn("leave validation failed", "error", err, "user_id", actor.UserID)
		return nil, err
	}

	now := s.now()
	record := &Leave{
		ExternalID:     uuid.New().String(),
		OrganizationID: actor.OrganizationID,
		UserID:         actor.UserID,
		LeaveType:      dto.LeaveType,
		StartDate:      dto.StartDate,
		EndDate:        dto.EndDate,
		Reason:         dto.Reason,
		Status:         StatusPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.repo.Create(ctx, record); err != nil {
		s.logger.Error("failed to create leave", "error", err, "user_id", actor.UserID)
		return nil, internal.NewInternalError("unable to create leave request", err)
	}

	if err := s.events.Publish(ctx, events.NewLeaveSubmittedEvent(record.ID, record.OrganizationID, record.UserID)); err != nil {
		s.logger.Error("failed to publish leave submitted event", "error", err, "leave_id", record.ID)
	}

	s.logger.Info("leave request created",
		"leave_id", record.ID,
		"user_id", actor.UserID,
		"leave_type", record.LeaveType,
		"days", record.Days())

	return record, nil
}

// List returns leaves the caller may see. Visibility comes from the
// hierarchy resolver, so a member sees their own records, a supervisor
// their reporting closure, and admin or viewAll holders the whole
// organization.
func (s *Service) List(ctx context.Context, actor *access.Identity, filter ListFilter) (*LeavesResponse, error) {
	visibility, err := s.resolver.ResolveVisibility(ctx, actor, access.ModuleLeaves, access.FeatureViewAll)
	if err != nil {
		return nil, err
	}

	records, err := s.repo.List(ctx, organizationScope(actor), visibility, filter)
	if err != nil {
		s.logger.Error("failed to list leaves", "error", err, "user_id", actor.UserID)
		return nil, internal.NewInternalError("unable to list leave requests", err)
	}

	return &LeavesResponse{Leaves: records, Limit: filter.Limit, Offset: filter.Offset}, nil
}

// Get hides records outside the caller's visibility behind ErrNotFound, the
// same answer a cross-organization id produces.
func (s *Service) Get(ctx context.Context, actor *access.Identity, id int64) (*Leave, error) {
	visibility, err := s.resolver.ResolveVisibility(ctx, actor, access.ModuleLeaves, access.FeatureViewAll)
	if err != nil {
		return nil, err
	}

	record, err := s.repo.GetByID(ctx, organizationScope(actor), id)
	if err != nil {
		s.logger.Error("failed to load leave", "error", err, "leave_id", id)
		return nil, internal.NewInternalError("unable to load leave request", err)
	}
	if record == nil || !visibility.Allows(record.UserID) {
		return nil, ErrNotFound
	}

	return record, nil
}

// UpdateStatus resolves a pending request. The status write is conditional
// on the record still being pending, so two approvers racing on the same
// request cannot both win; the loser gets ErrAlreadyProcessed.
func (s *Service) UpdateStatus(ctx context.Context, actor *access.Identity, id int64, dto UpdateStatusDTO) (*Leave, error) {
	if actor == nil {
		return nil, internal.ErrAuthenticationRequired
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	record, err := s.repo.GetByID(ctx, organizationScope(actor), id)
	if err != nil {
		s.logger.Error("failed to load leave for status update", "error", err, "leave_id", id)
		return nil, internal.NewInternalError("unable to load leave request", err)
	}
	if record == nil {
		return nil, ErrNotFound
	}

	owner, err := s.ownerIdentity(ctx, record)
	if err != nil {
		return nil, err
	}

	allowed, err := s.authorizer.CanApprove(ctx, actor, owner, access.ModuleLeaves)
	if err != nil {
		return nil, err
	}
	if !allowed {
		if actor.UserID == record.UserID {
			return nil, internal.ErrSelfApproval
		}
		s.logger.Warn("leave status change denied",
			"leave_id", id,
			"actor_id", actor.UserID,
			"owner_id", record.UserID)
		return nil, ErrApprovalForbidden
	}

	processedAt := s.now()
	updated, err := s.repo.UpdateStatusIfPending(ctx, record.ID, dto.Status, dto.Reason, actor.UserID, processedAt)
	if err != nil {
		s.logger.Error("failed to update leave status", "error", err, "leave_id", id)
		return nil, internal.NewInternalError("unable to update leave status", err)
	}
	if !updated {
		return nil, internal.ErrAlreadyProcessed
	}

	record.Status = dto.Status
	record.StatusReason = dto.Reason
	record.ProcessedBy = &actor.UserID
	record.ProcessedAt = &processedAt
	record.UpdatedAt = processedAt

	if err := s.events.Publish(ctx, events.NewLeaveStatusChangedEvent(record.ID, record.OrganizationID, record.UserID, dto.Status, dto.Reason, actor.UserID)); err != nil {
		s.logger.Error("failed to publish leave status event", "error", err, "leave_id", record.ID)
	}

	s.logger.Info("leave status updated",
		"leave_id", record.ID,
		"status", dto.Status,
		"actor_id", actor.UserID,
		"owner_id", record.UserID)

	return record, nil
}

// ownerIdentity falls back to a bare identity when the owner can no longer
// be loaded, for example after deactivation. The bare identity carries no
// reporting edges, so only administrators can clear such leftovers.
func (s *Service) ownerIdentity(ctx context.Context, record *Leave) (*access.Identity, error) {
	owner, err := s.identities.IdentityByUserID(ctx, record.UserID)
	if err != nil {
		s.logger.Error("failed to load leave owner identity", "error", err, "owner_id", record.UserID)
		return nil, internal.NewInternalError("unable to load request owner", err)
	}
	if owner == nil {
		owner = &access.Identity{
			UserID:         record.UserID,
			OrganizationID: record.OrganizationID,
			BaseRole:       access.RoleMember,
		}
	}
	return owner, nil
}

// organizationScope widens repository filters for the system super-role,
// which is organization-less and sees every tenant.
func organizationScope(actor *access.Identity) int64 {
	if actor.IsSuperRole() {
		return 0
	}
	return actor.OrganizationID
}
