package access

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/AsimAftab/SalesSphere-Backend-sub001/internal"
)

// Scope is the record-visibility level granted to a caller for one module.
type Scope string

const (
	// ScopeUnrestricted applies no ownership constraint.
	ScopeUnrestricted Scope = "unrestricted"
	// ScopeTeam restricts to the caller plus their reverse reporting closure.
	ScopeTeam Scope = "team"
	// ScopeSelf restricts to the caller's own records.
	ScopeSelf Scope = "self"
)

// Visibility is the filter a listing collaborator translates into its own
// storage predicate. UserIDs is populated for ScopeTeam and ScopeSelf and
// empty for ScopeUnrestricted.
type Visibility struct {
	Scope   Scope
	UserIDs []int64
}

func Unrestricted() Visibility {
	return Visibility{Scope: ScopeUnrestricted}
}

func SelfOnly(userID int64) Visibility {
	return Visibility{Scope: ScopeSelf, UserIDs: []int64{userID}}
}

func SelfAndSubordinates(userIDs []int64) Visibility {
	return Visibility{Scope: ScopeTeam, UserIDs: userIDs}
}

// Allows reports whether a record owned by ownerID is visible under the
// filter, for detail fetches that already hold the record.
func (v Visibility) Allows(ownerID int64) bool {
	if v.Scope == ScopeUnrestricted {
		return true
	}
	for _, id := range v.UserIDs {
		if id == ownerID {
			return true
		}
	}
	return false
}

// ReportingEdge is one "user reports to supervisor" relation.
type ReportingEdge struct {
	UserID       int64
	SupervisorID int64
}

// ReportingDirectory supplies the organization's reporting edges in one bulk
// read; the resolver builds its adjacency in memory from that single call.
type ReportingDirectory interface {
	ReportingEdges(ctx context.Context, organizationID int64) ([]ReportingEdge, error)
}

// HierarchyResolver computes the visibility filter for a user and module.
// Precedence is strict and first-match-wins: super-role, then the module's
// master "view all" feature under the dual gate, then its "view team"
// feature, then self-only.
type HierarchyResolver struct {
	checker   *Checker
	directory ReportingDirectory
	logger    *slog.Logger
	metrics   *Metrics
}

func NewHierarchyResolver(checker *Checker, directory ReportingDirectory, logger *slog.Logger, metrics *Metrics) *HierarchyResolver {
	return &HierarchyResolver{
		checker:   checker,
		directory: directory,
		logger:    logger,
		metrics:   metrics,
	}
}

// ResolveVisibility returns the filter for the caller on the given module.
// masterFeature is the module's "view every record" key supplied by the
// caller; the team key comes from the registry. Plan denials inside the
// feature checks degrade visibility rather than failing the call: a user
// whose plan lost team visibility simply sees their own records.
func (r *HierarchyResolver) ResolveVisibility(ctx context.Context, id *Identity, module, masterFeature string) (Visibility, error) {
	start := time.Now()
	defer func() {
		r.metrics.ObserveVisibilityResolve(module, time.Since(start))
	}()

	if id == nil {
		return Visibility{}, internal.ErrAuthenticationRequired
	}
	if id.IsSuperRole() {
		return Unrestricted(), nil
	}

	if masterFeature != "" {
		dec, err := r.checker.CheckAccess(ctx, id, module, masterFeature)
		if err != nil {
			return Visibility{}, err
		}
		if dec.Code == internal.ErrCodeInvalidFeatureConfig {
			return Visibility{}, dec.Err()
		}
		if dec.Allowed {
			return Unrestricted(), nil
		}
	}

	info, ok := r.checker.Registry().ModuleInfo(module)
	if !ok {
		return Visibility{}, invalidFeature(module, "").Err()
	}

	if info.Team != "" {
		dec, err := r.checker.CheckAccess(ctx, id, module, info.Team)
		if err != nil {
			return Visibility{}, err
		}
		if dec.Allowed {
			ids, err := r.subordinateClosure(ctx, id)
			if err != nil {
				r.logger.Error("reporting closure failed",
					"organization_id", id.OrganizationID,
					"user_id", id.UserID,
					"error", err)
				return Visibility{}, internal.NewInternalError("unable to resolve team visibility", err)
			}
			return SelfAndSubordinates(ids), nil
		}
	}

	return SelfOnly(id.UserID), nil
}

// subordinateClosure walks reportsTo edges in reverse (who reports to me,
// directly or transitively) with breadth-first traversal and a visited set.
// The reporting relation is a graph that may contain cycles or self-edges,
// so the visited set is what guarantees termination.
func (r *HierarchyResolver) subordinateClosure(ctx context.Context, id *Identity) ([]int64, error) {
	edges, err := r.directory.ReportingEdges(ctx, id.OrganizationID)
	if err != nil {
		return nil, err
	}

	reports := make(map[int64][]int64, len(edges))
	for _, edge := range edges {
		reports[edge.SupervisorID] = append(reports[edge.SupervisorID], edge.UserID)
	}

	visited := map[int64]bool{id.UserID: true}
	queue := []int64{id.UserID}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, report := range reports[current] {
			if visited[report] {
				continue
			}
			visited[report] = true
			queue = append(queue, report)
		}
	}

	ids := make([]int64, 0, len(visited))
	for userID := range visited {
		ids = append(ids, userID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}
