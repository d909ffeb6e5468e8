package access

import (
	"fmt"
	"net/http"

	"github.com/AsimAftab/SalesSphere-Backend-sub001/internal"
)

// Source tells a denied caller which gate rejected the request, so clients
// can distinguish "upgrade your plan" from "ask your admin for permission".
type Source string

const (
	SourceNone   Source = ""
	SourceAuth   Source = "auth"
	SourceConfig Source = "config"
	SourcePlan   Source = "plan"
	SourceRole   Source = "role"
)

// Decision is the terminal outcome of an access check. Denials are never
// retried or degraded into partial allows; the engine reports them and the
// caller decides how to surface them.
type Decision struct {
	Allowed bool
	Source  Source
	Code    internal.ErrorCode
	Message string
	Module  string
	Feature string

	// PlanName is set on plan-gate denials where a plan was resolved, for
	// upgrade prompts. RoleName and CustomRole are set on role-gate denials.
	PlanName   string
	RoleName   string
	CustomRole bool
}

func allowed() Decision {
	return Decision{Allowed: true}
}

func authRequired() Decision {
	return Decision{
		Source:  SourceAuth,
		Code:    internal.ErrCodeAuthenticationRequired,
		Message: "Authentication required",
	}
}

func invalidFeature(module, feature string) Decision {
	return Decision{
		Source:  SourceConfig,
		Code:    internal.ErrCodeInvalidFeatureConfig,
		Message: fmt.Sprintf("Unknown feature %s.%s", module, feature),
		Module:  module,
		Feature: feature,
	}
}

func planDenied(code internal.ErrorCode, message, module, feature, planName string) Decision {
	return Decision{
		Source:   SourcePlan,
		Code:     code,
		Message:  message,
		Module:   module,
		Feature:  feature,
		PlanName: planName,
	}
}

func roleDenied(id *Identity, module, feature string) Decision {
	return Decision{
		Source:     SourceRole,
		Code:       internal.ErrCodeFeatureAccessDenied,
		Message:    fmt.Sprintf("Your role does not allow %s.%s", module, feature),
		Module:     module,
		Feature:    feature,
		RoleName:   id.RoleName(),
		CustomRole: id != nil && id.CustomRole != nil,
	}
}

func noAccess() Decision {
	return Decision{
		Source:  SourceNone,
		Code:    internal.ErrCodeNoAccess,
		Message: "You do not have access to any of the required capabilities",
	}
}

// DenialDetails is the machine-readable payload attached to denial responses.
type DenialDetails struct {
	Source     Source `json:"source,omitempty"`
	Module     string `json:"module,omitempty"`
	Feature    string `json:"feature,omitempty"`
	Plan       string `json:"plan,omitempty"`
	Role       string `json:"role,omitempty"`
	CustomRole bool   `json:"customRole,omitempty"`
}

// Err converts a denial into the application error the HTTP layer knows how
// to render: 401 for a missing identity, 500 for a configuration defect,
// 403 for everything the user is simply not allowed to do. Allowed decisions
// return nil.
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	switch d.Code {
	case internal.ErrCodeAuthenticationRequired:
		return internal.ErrAuthenticationRequired
	case internal.ErrCodeInvalidFeatureConfig:
		return &internal.AppError{
			Type:       internal.ErrorTypeInternal,
			Code:       d.Code,
			Message:    d.Message,
			Details:    d.details(),
			StatusCode: http.StatusInternalServerError,
		}
	default:
		return internal.NewForbiddenError(d.Message, d.Code).WithDetails(d.details())
	}
}

func (d Decision) details() DenialDetails {
	return DenialDetails{
		Source:     d.Source,
		Module:     d.Module,
		Feature:    d.Feature,
		Plan:       d.PlanName,
		Role:       d.RoleName,
		CustomRole: d.CustomRole,
	}
}

// FeaturePair names one capability for the AND/OR combinators.
type FeaturePair struct {
	Module  string
	Feature string
}

func (p FeaturePair) String() string {
	return p.Module + "." + p.Feature
}
