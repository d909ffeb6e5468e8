package attendance

import (
	"context"
	"log/slog"
	"time"

	"github.com/AsimAftab/SalesSphere-Backend-sub001/internal"
	"github.com/AsimAftab/SalesSphere-Backend-sub001/internal/access"
)

type Repository interface {
	Create(ctx context.Context, record *Record) error
	FindByUserAndDate(ctx context.Context, userID int64, workDate time.Time) (*Record, error)
	SetCheckOut(ctx context.Context, id int64, at time.Time, location string) (bool, error)
	List(ctx context.Context, organizationID int64, visibility access.Visibility, filter ListFilter) ([]*Record, error)
}

// Service tracks daily check-ins and check-outs. Writes are always self
// records; reads are scoped through the visibility resolver so supervisors
// see their reporting closure.
type Service struct {
	repo     Repository
	resolver *access.HierarchyResolver
	logger   *slog.Logger
	now      func() time.Time
}

func NewService(repo Repository, resolver *access.HierarchyResolver, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		resolver: resolver,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *Service) CheckIn(ctx context.Context, actor *access.Identity, dto CheckInDTO) (*Record, error) {
	if actor == nil {
		return nil, internal.ErrAuthenticationRequired
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	now := s.now()
	workDate := WorkDateOf(now)

	existing, err := s.repo.FindByUserAndDate(ctx, actor.UserID, workDate)
	if err != nil {
		s.logger.Error("failed to look up attendance record", "error", err, "user_id", actor.UserID)
		return nil, internal.NewInternalError("unable to record check-in", err)
	}
	if existing != nil {
		return nil, ErrAlreadyCheckedIn
	}

	record := &Record{
		OrganizationID:  actor.OrganizationID,
		UserID:          actor.UserID,
		WorkDate:        workDate,
		CheckInAt:       now,
		CheckInLocation: dto.Location,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	// The unique user/work-date index backs this pre-check up under
	// concurrency; a racing duplicate fails here.
	if err := s.repo.Create(ctx, record); err != nil {
		s.logger.Error("failed to create attendance record", "error", err, "user_id", actor.UserID)
		return nil, internal.NewInternalError("unable to record check-in", err)
	}

	s.logger.Info("checked in", "user_id", actor.UserID, "work_date", workDate.Format("2006-01-02"))
	return record, nil
}

func (s *Service) CheckOut(ctx context.Context, actor *access.Identity, dto CheckOutDTO) (*Record, error) {
	if actor == nil {
		return nil, internal.ErrAuthenticationRequired
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	now := s.now()
	workDate := WorkDateOf(now)

	record, err := s.repo.FindByUserAndDate(ctx, actor.UserID, workDate)
	if err != nil {
		s.logger.Error("failed to look up attendance record", "error", err, "user_id", actor.UserID)
		return nil, internal.NewInternalError("unable to record check-out", err)
	}
	if record == nil {
		return nil, ErrNotCheckedIn
	}
	if record.IsCheckedOut() {
		return nil, ErrAlreadyCheckedOut
	}

	updated, err := s.repo.SetCheckOut(ctx, record.ID, now, dto.Location)
	if err != nil {
		s.logger.Error("failed to update attendance record", "error", err, "attendance_id", record.ID)
		return nil, internal.NewInternalError("unable to record check-out", err)
	}
	if !updated {
		return nil, ErrAlreadyCheckedOut
	}

	record.CheckOutAt = &now
	record.CheckOutLocation = dto.Location
	record.UpdatedAt = now

	s.logger.Info("checked out", "user_id", actor.UserID, "work_date", workDate.Format("2006-01-02"))
	return record, nil
}

func (s *Service) List(ctx context.Context, actor *access.Identity, filter ListFilter) (*RecordsResponse, error) {
	visibility, err := s.resolver.ResolveVisibility(ctx, actor, access.ModuleAttendance, access.FeatureViewAll)
	if err != nil {
		return nil, err
	}

	records, err := s.repo.List(ctx, organizationScope(actor), visibility, filter)
	if err != nil {
		s.logger.Error("failed to list attendance records", "error", err, "user_id", actor.UserID)
		return nil, internal.NewInternalError("unable to list attendance records", err)
	}

	return &RecordsResponse{Records: records, Limit: filter.Limit, Offset: filter.Offset}, nil
}

func organizationScope(actor *access.Identity) int64 {
	if actor.IsSuperRole() {
		return 0
	}
	return actor.OrganizationID
}
