package role

import (
	"context"
	"log/slog"
	"sort"

	internal "github.com/AsimAftab/SalesSphere-Backend-sub001/internal"
	"github.com/AsimAftab/SalesSphere-Backend-sub001/internal/access"
	roleDatamodel "github.com/AsimAftab/SalesSphere-Backend-sub001/internal/core/datamodel/role"
)

type RepositoryAPI interface {
	GetByID(ctx context.Context, organizationID, id int64) (*roleDatamodel.CustomRole, error)
	GetByName(ctx context.Context, organizationID int64, name string) (*roleDatamodel.CustomRole, error)
	List(ctx context.Context, organizationID int64) ([]*roleDatamodel.CustomRole, error)
	Create(ctx context.Context, r *roleDatamodel.CustomRole) error
	Update(ctx context.Context, r *roleDatamodel.CustomRole) error
	Delete(ctx context.Context, organizationID, id int64) error
	AssignedUserCount(ctx context.Context, roleID int64) (int64, error)
}

type Service struct {
	repo     RepositoryAPI
	registry *access.Registry
	logger   *slog.Logger
}

func NewService(repo RepositoryAPI, registry *access.Registry, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		registry: registry,
		logger:   logger,
	}
}

// validatePermissions rejects grants that reference module/feature pairs the
// registry does not know. Storing an unknown pair would fail closed at check
// time anyway, but rejecting it at write time points the admin at the typo.
func (s *Service) validatePermissions(perms access.PermissionMap) error {
	invalid := s.registry.ValidatePermissions(perms)
	if len(invalid) == 0 {
		return nil
	}
	errors := make([]internal.ValidationError, 0, len(invalid))
	for _, pair := range invalid {
		errors = append(errors, internal.ValidationError{
			Field:   "permissions",
			Message: "unknown capability: " + pair,
			Code:    string(internal.ErrCodeValidationFailed),
		})
	}
	return internal.NewValidationError("Validation failed", internal.ErrCodeValidationFailed).
		WithDetails(internal.ValidationErrors{Errors: errors})
}

func (s *Service) List(ctx context.Context, organizationID int64) ([]RoleResponse, error) {
	dataRoles, err := s.repo.List(ctx, organizationID)
	if err != nil {
		s.logger.Error("failed to list roles", "organization_id", organizationID, "error", err)
		return nil, err
	}

	responses := make([]RoleResponse, 0, len(dataRoles))
	for _, dataRole := range dataRoles {
		count, err := s.repo.AssignedUserCount(ctx, dataRole.ID)
		if err != nil {
			return nil, err
		}
		responses = append(responses, FromDataModel(dataRole).ToResponse(count))
	}
	return responses, nil
}

func (s *Service) Get(ctx context.Context, organizationID, id int64) (*RoleResponse, error) {
	dataRole, err := s.repo.GetByID(ctx, organizationID, id)
	if err != nil {
		return nil, err
	}
	if dataRole == nil {
		return nil, ErrNotFound
	}

	count, err := s.repo.AssignedUserCount(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := FromDataModel(dataRole).ToResponse(count)
	return &resp, nil
}

func (s *Service) Create(ctx context.Context, organizationID int64, dto CreateRoleDTO) (*RoleResponse, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	if err := s.validatePermissions(dto.Permissions); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByName(ctx, organizationID, dto.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrNameTaken
	}

	permissions := dto.Permissions
	if permissions == nil {
		permissions = access.PermissionMap{}
	}

	dataRole := &roleDatamodel.CustomRole{
		OrganizationID:    organizationID,
		Name:              dto.Name,
		Description:       dto.Description,
		Permissions:       permissions,
		AllowWebAccess:    boolOrDefault(dto.AllowWebAccess, true),
		AllowMobileAccess: boolOrDefault(dto.AllowMobileAccess, true),
	}
	if err := s.repo.Create(ctx, dataRole); err != nil {
		s.logger.Error("failed to create role", "name", dto.Name, "error", err)
		return nil, err
	}

	s.logger.Info("custom role created", "role_id", dataRole.ID, "organization_id", organizationID, "name", dto.Name)
	resp := FromDataModel(dataRole).ToResponse(0)
	return &resp, nil
}

func (s *Service) Update(ctx context.Context, organizationID, id int64, dto UpdateRoleDTO) (*RoleResponse, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	if dto.Permissions != nil {
		if err := s.validatePermissions(dto.Permissions); err != nil {
			return nil, err
		}
	}

	dataRole, err := s.repo.GetByID(ctx, organizationID, id)
	if err != nil {
		return nil, err
	}
	if dataRole == nil {
		return nil, ErrNotFound
	}

	if dto.Name != nil && *dto.Name != dataRole.Name {
		existing, err := s.repo.GetByName(ctx, organizationID, *dto.Name)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, ErrNameTaken
		}
		dataRole.Name = *dto.Name
	}
	if dto.Description != nil {
		dataRole.Description = *dto.Description
	}
	if dto.Permissions != nil {
		dataRole.Permissions = dto.Permissions
	}
	if dto.AllowWebAccess != nil {
		dataRole.AllowWebAccess = *dto.AllowWebAccess
	}
	if dto.AllowMobileAccess != nil {
		dataRole.AllowMobileAccess = *dto.AllowMobileAccess
	}

	if err := s.repo.Update(ctx, dataRole); err != nil {
		s.logger.Error("failed to update role", "role_id", id, "error", err)
		return nil, err
	}

	s.logger.Info("custom role updated", "role_id", id, "organization_id", organizationID)

	count, err := s.repo.AssignedUserCount(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := FromDataModel(dataRole).ToResponse(count)
	return &resp, nil
}

// Delete removes a role that no user currently holds. Deleting an assigned
// role would silently drop those users to their base-role defaults, so the
// assignment must be moved first.
func (s *Service) Delete(ctx context.Context, organizationID, id int64) error {
	dataRole, err := s.repo.GetByID(ctx, organizationID, id)
	if err != nil {
		return err
	}
	if dataRole == nil {
		return ErrNotFound
	}

	count, err := s.repo.AssignedUserCount(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrRoleInUse
	}

	if err := s.repo.Delete(ctx, organizationID, id); err != nil {
		s.logger.Error("failed to delete role", "role_id", id, "error", err)
		return err
	}

	s.logger.Info("custom role deleted", "role_id", id, "organization_id", organizationID)
	return nil
}

// FeatureCatalog exposes the full capability vocabulary for the role builder.
func (s *Service) FeatureCatalog(ctx context.Context) FeatureCatalogResponse {
	moduleNames := s.registry.Modules()
	sort.Strings(moduleNames)

	modules := make([]ModuleCatalogEntry, 0, len(moduleNames))
	for _, name := range moduleNames {
		info, ok := s.registry.ModuleInfo(name)
		if !ok {
			continue
		}

		keys := make([]string, 0, len(info.Features))
		for key := range info.Features {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		features := make([]FeatureCatalogEntry, 0, len(keys))
		for _, key := range keys {
			features = append(features, FeatureCatalogEntry{Key: key, Description: info.Features[key]})
		}

		modules = append(modules, ModuleCatalogEntry{
			Name:        info.Name,
			Description: info.Description,
			Features:    features,
		})
	}
	return FeatureCatalogResponse{Modules: modules}
}

// RoleInOrganization satisfies the user package's role directory port.
func (s *Service) RoleInOrganization(ctx context.Context, organizationID, roleID int64) (*roleDatamodel.CustomRole, error) {
	return s.repo.GetByID(ctx, organizationID, roleID)
}

func boolOrDefault(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}
