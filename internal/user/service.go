package user

import (
	"context"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/AsimAftab/SalesSphere-Backend-sub001/internal/access"
	roleDatamodel "github.com/AsimAftab/SalesSphere-Backend-sub001/internal/core/datamodel/role"
	userDatamodel "github.com/AsimAftab/SalesSphere-Backend-sub001/internal/core/datamodel/user"
)

type RepositoryAPI interface {
	GetByID(ctx context.Context, organizationID, id int64) (*userDatamodel.User, error)
	GetByEmail(ctx context.Context, email string) (*userDatamodel.User, error)
	List(ctx context.Context, organizationID int64) ([]*userDatamodel.User, error)
	Create(ctx context.Context, u *userDatamodel.User, supervisorIDs []int64) error
	Update(ctx context.Context, u *userDatamodel.User) error
	SupervisorsOf(ctx context.Context, userID int64) ([]int64, error)
	SetSupervisors(ctx context.Context, userID int64, supervisorIDs []int64) error
	AllInOrganization(ctx context.Context, organizationID int64, userIDs []int64) (bool, error)
}

// RoleDirectory is how this service resolves custom roles without importing
// the role package; the role service satisfies it.
type RoleDirectory interface {
	RoleInOrganization(ctx context.Context, organizationID, roleID int64) (*roleDatamodel.CustomRole, error)
}

type Service struct {
	repo    RepositoryAPI
	roles   RoleDirectory
	checker *access.Checker
	logger  *slog.Logger
}

func NewService(repo RepositoryAPI, roles RoleDirectory, checker *access.Checker, logger *slog.Logger) *Service {
	return &Service{
		repo:    repo,
		roles:   roles,
		checker: checker,
		logger:  logger,
	}
}

func (s *Service) List(ctx context.Context, organizationID int64) ([]UserResponse, error) {
	dataUsers, err := s.repo.List(ctx, organizationID)
	if err != nil {
		s.logger.Error("failed to list users", "organization_id", organizationID, "error", err)
		return nil, err
	}

	responses := make([]UserResponse, 0, len(dataUsers))
	for _, dataUser := range dataUsers {
		responses = append(responses, FromDataModel(dataUser, nil).ToResponse())
	}
	return responses, nil
}

func (s *Service) Get(ctx context.Context, organizationID, id int64) (*UserResponse, error) {
	dataUser, err := s.repo.GetByID(ctx, organizationID, id)
	if err != nil {
		s.logger.Error("failed to get user", "user_id", id, "error", err)
		return nil, err
	}
	if dataUser == nil {
		return nil, ErrNotFound
	}

	reportsTo, err := s.repo.SupervisorsOf(ctx, id)
	if err != nil {
		s.logger.Error("failed to load supervisors", "user_id", id, "error", err)
		return nil, err
	}

	resp := FromDataModel(dataUser, reportsTo).ToResponse()
	return &resp, nil
}

// Create provisions an employee account. Attaching a custom role at creation
// requires role visibility on top of the user-create capability, so that a
// caller who cannot see roles cannot probe role ids through this endpoint.
func (s *Service) Create(ctx context.Context, actor *access.Identity, dto CreateUserDTO) (*UserResponse, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	pairs := []access.FeaturePair{{Module: access.ModuleUsers, Feature: access.FeatureCreate}}
	if dto.CustomRoleID != nil {
		pairs = append(pairs, access.FeaturePair{Module: access.ModuleRoles, Feature: access.FeatureView})
	}
	decision, err := s.checker.CheckAllAccess(ctx, actor, pairs)
	if err != nil {
		return nil, err
	}
	if !decision.Allowed {
		return nil, decision.Err()
	}

	existing, err := s.repo.GetByEmail(ctx, dto.Email)
	if err != nil {
		s.logger.Error("failed to check email uniqueness", "error", err)
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	if dto.CustomRoleID != nil {
		role, err := s.roles.RoleInOrganization(ctx, actor.OrganizationID, *dto.CustomRoleID)
		if err != nil {
			return nil, err
		}
		if role == nil {
			return nil, ErrRoleNotFound
		}
	}

	supervisorIDs := dedupeIDs(dto.ReportsTo)
	if len(supervisorIDs) > 0 {
		ok, err := s.repo.AllInOrganization(ctx, actor.OrganizationID, supervisorIDs)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrSupervisorNotFound
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(dto.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	baseRole := dto.BaseRole
	if baseRole == "" {
		baseRole = access.RoleMember
	}

	organizationID := actor.OrganizationID
	dataUser := &userDatamodel.User{
		OrganizationID: &organizationID,
		Email:          dto.Email,
		Name:           dto.Name,
		Phone:          dto.Phone,
		PasswordHash:   string(hash),
		BaseRole:       baseRole,
		CustomRoleID:   dto.CustomRoleID,
		IsActive:       true,
	}

	if err := s.repo.Create(ctx, dataUser, supervisorIDs); err != nil {
		s.logger.Error("failed to create user", "email", dto.Email, "error", err)
		return nil, err
	}

	s.logger.Info("user created",
		"user_id", dataUser.ID,
		"organization_id", organizationID,
		"base_role", baseRole,
		"created_by", actor.UserID)

	resp := FromDataModel(dataUser, supervisorIDs).ToResponse()
	return &resp, nil
}

func (s *Service) Update(ctx context.Context, organizationID, id int64, dto UpdateUserDTO) (*UserResponse, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	dataUser, err := s.repo.GetByID(ctx, organizationID, id)
	if err != nil {
		return nil, err
	}
	if dataUser == nil {
		return nil, ErrNotFound
	}

	if dto.Email != nil && *dto.Email != dataUser.Email {
		existing, err := s.repo.GetByEmail(ctx, *dto.Email)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, ErrEmailTaken
		}
		dataUser.Email = *dto.Email
	}
	if dto.Name != nil {
		dataUser.Name = *dto.Name
	}
	if dto.Phone != nil {
		dataUser.Phone = *dto.Phone
	}

	if err := s.repo.Update(ctx, dataUser); err != nil {
		s.logger.Error("failed to update user", "user_id", id, "error", err)
		return nil, err
	}

	reportsTo, err := s.repo.SupervisorsOf(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := FromDataModel(dataUser, reportsTo).ToResponse()
	return &resp, nil
}

// Deactivate revokes the account. Existing access tokens keep working until
// expiry, but identity loading skips inactive users so the lockout is
// effective on the next request.
func (s *Service) Deactivate(ctx context.Context, organizationID, id int64) error {
	dataUser, err := s.repo.GetByID(ctx, organizationID, id)
	if err != nil {
		return err
	}
	if dataUser == nil {
		return ErrNotFound
	}

	dataUser.IsActive = false
	if err := s.repo.Update(ctx, dataUser); err != nil {
		s.logger.Error("failed to deactivate user", "user_id", id, "error", err)
		return err
	}

	s.logger.Info("user deactivated", "user_id", id, "organization_id", organizationID)
	return nil
}

func (s *Service) AssignRole(ctx context.Context, actor *access.Identity, userID int64, dto AssignRoleDTO) (*UserResponse, error) {
	dataUser, err := s.repo.GetByID(ctx, actor.OrganizationID, userID)
	if err != nil {
		return nil, err
	}
	if dataUser == nil {
		return nil, ErrNotFound
	}

	if dto.CustomRoleID != nil {
		role, err := s.roles.RoleInOrganization(ctx, actor.OrganizationID, *dto.CustomRoleID)
		if err != nil {
			return nil, err
		}
		if role == nil {
			return nil, ErrRoleNotFound
		}
		dataUser.CustomRoleID = dto.CustomRoleID
		dataUser.CustomRole = role
	} else {
		dataUser.CustomRoleID = nil
		dataUser.CustomRole = nil
	}

	if err := s.repo.Update(ctx, dataUser); err != nil {
		s.logger.Error("failed to assign role", "user_id", userID, "error", err)
		return nil, err
	}

	s.logger.Info("role assignment changed",
		"user_id", userID,
		"custom_role_id", dto.CustomRoleID,
		"changed_by", actor.UserID)

	reportsTo, err := s.repo.SupervisorsOf(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp := FromDataModel(dataUser, reportsTo).ToResponse()
	return &resp, nil
}

// SetSupervisors replaces the user's reporting edges. Multiple supervisors
// are allowed; self-edges are not, and every supervisor must belong to the
// same organization.
func (s *Service) SetSupervisors(ctx context.Context, organizationID, userID int64, dto SetSupervisorsDTO) (*UserResponse, error) {
	dataUser, err := s.repo.GetByID(ctx, organizationID, userID)
	if err != nil {
		return nil, err
	}
	if dataUser == nil {
		return nil, ErrNotFound
	}

	supervisorIDs := dedupeIDs(dto.SupervisorIDs)
	for _, id := range supervisorIDs {
		if id == userID {
			return nil, ErrSelfSupervision
		}
	}
	if len(supervisorIDs) > 0 {
		ok, err := s.repo.AllInOrganization(ctx, organizationID, supervisorIDs)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrSupervisorNotFound
		}
	}

	if err := s.repo.SetSupervisors(ctx, userID, supervisorIDs); err != nil {
		s.logger.Error("failed to set supervisors", "user_id", userID, "error", err)
		return nil, err
	}

	s.logger.Info("supervisors updated", "user_id", userID, "supervisor_count", len(supervisorIDs))

	resp := FromDataModel(dataUser, supervisorIDs).ToResponse()
	return &resp, nil
}

func dedupeIDs(ids []int64) []int64 {
	if len(ids) == 0 {
		return nil
	}
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
