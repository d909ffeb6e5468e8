package access

import (
	"context"
	"log/slog"

	"github.com/AsimAftab/SalesSphere-Backend-sub001/internal"
)

// ApprovalAuthorizer decides whether an acting user may approve or reject a
// specific other user's pending request. Approval authority is direct-
// supervisor only: unlike view visibility it is never inherited through the
// reporting closure, so this is a plain edge check, not a traversal.
type ApprovalAuthorizer struct {
	checker *Checker
	logger  *slog.Logger
}

func NewApprovalAuthorizer(checker *Checker, logger *slog.Logger) *ApprovalAuthorizer {
	return &ApprovalAuthorizer{checker: checker, logger: logger}
}

// CanApprove applies the approval rules in order: administrators (system
// super-role, or admin base role with no custom role shadowing it) may
// approve anyone in their organization, including their own requests;
// everyone else must be a direct supervisor of the owner and hold the
// module's approval feature under both gates; self-approval is rejected for
// anyone not acting as an administrator. The error return carries
// PLAN_CHECK_ERROR or configuration defects, never an ordinary "no".
func (a *ApprovalAuthorizer) CanApprove(ctx context.Context, approver, owner *Identity, module string) (bool, error) {
	if approver == nil || owner == nil {
		return false, nil
	}

	info, ok := a.checker.Registry().ModuleInfo(module)
	if !ok || info.Approval == "" {
		a.logger.Error("approval requested for module without an approval feature", "module", module)
		return false, invalidFeature(module, "").Err()
	}

	if approver.IsSuperRole() {
		return true, nil
	}
	if approver.OrganizationID != owner.OrganizationID {
		return false, nil
	}

	actingAdmin := approver.ActsAsAdmin()
	if approver.UserID == owner.UserID && !actingAdmin {
		// a supervisor who owns the request must not approve it themselves
		return false, nil
	}
	if actingAdmin {
		return true, nil
	}

	if !owner.HasSupervisor(approver.UserID) {
		return false, nil
	}

	dec, err := a.checker.CheckAccess(ctx, approver, module, info.Approval)
	if err != nil {
		return false, err
	}
	if dec.Code == internal.ErrCodeInvalidFeatureConfig {
		return false, dec.Err()
	}
	return dec.Allowed, nil
}
