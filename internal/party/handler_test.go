package party_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/go-chi/chi"

	internal "github.com/AsimAftab/SalesSphere-Backend-sub001/internal"
	"github.com/AsimAftab/SalesSphere-Backend-sub001/internal/access"
	"github.com/AsimAftab/SalesSphere-Backend-sub001/internal/party"
	"github.com/AsimAftab/SalesSphere-Backend-sub001/internal/transport"
)

type mockOrgProvider struct {
	snapshots map[int64]*access.OrganizationSnapshot
}

func (m *mockOrgProvider) OrganizationWithPlan(ctx context.Context, organizationID int64) (*access.OrganizationSnapshot, error) {
	snap, ok := m.snapshots[organizationID]
	if !ok {
		return nil, access.ErrOrganizationNotFound
	}
	return snap, nil
}

type errorBody struct {
	Error struct {
		Type    string `json:"type"`
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func partiesSnapshot(modules []string, features map[string]bool, endsAt time.Time) *access.OrganizationSnapshot {
	return &access.OrganizationSnapshot{
		ID:                 1,
		Name:               "Acme Field Sales",
		SubscriptionEndsAt: endsAt,
		Plan: &access.PlanSnapshot{
			ID:             4,
			Name:           "standard",
			DisplayName:    "Standard",
			EnabledModules: modules,
			ModuleFeatures: access.PermissionMap{access.ModuleParties: features},
		},
	}
}

// The parties routes are the canonical guarded subrouter: a module gate on
// the whole group and a feature gate per route, in front of a handler that
// trusts both already passed.
var _ = Describe("Party Routes", func() {
	var (
		repo   *MockRepository
		router *chi.Mux

		member *access.Identity
		admin  *access.Identity
	)

	buildRouter := func(snapshot *access.OrganizationSnapshot) *chi.Mux {
		provider := &mockOrgProvider{snapshots: map[int64]*access.OrganizationSnapshot{1: snapshot}}
		checker := access.NewChecker(access.DefaultRegistry(), provider, testLogger(), nil)
		guard := access.NewGuard(checker, testLogger())
		handler := party.NewHandler(transport.NewBaseHandler(testLogger()), party.NewService(repo, testLogger()))

		r := chi.NewRouter()
		r.Use(access.RequestCache())
		r.Route("/parties", func(pr chi.Router) {
			pr.Use(guard.RequireModule(access.ModuleParties))
			pr.With(guard.RequireFeature(access.ModuleParties, access.FeatureView)).Get("/", handler.ListParties)
			pr.With(guard.RequireFeature(access.ModuleParties, access.FeatureCreate)).Post("/", handler.CreateParty)
			pr.With(guard.RequireFeature(access.ModuleParties, access.FeatureView)).Get("/{id}", handler.GetParty)
			pr.With(guard.RequireFeature(access.ModuleParties, access.FeatureEdit)).Patch("/{id}", handler.UpdateParty)
		})
		return r
	}

	do := func(method, target, body string, id *access.Identity) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, target, strings.NewReader(body))
		if id != nil {
			req = req.WithContext(access.ContextWithIdentity(req.Context(), id))
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	deniedWith := func(w *httptest.ResponseRecorder, code internal.ErrorCode) {
		GinkgoHelper()
		Expect(w.Code).To(Equal(http.StatusForbidden))
		var body errorBody
		Expect(json.NewDecoder(w.Body).Decode(&body)).To(Succeed())
		Expect(body.Error.Code).To(Equal(string(code)))
	}

	fullFeatures := map[string]bool{
		access.FeatureView:   true,
		access.FeatureCreate: true,
		access.FeatureEdit:   true,
		access.FeatureDelete: true,
	}

	validBody := `{"name":"Sharma Stores","party_type":"retailer"}`

	BeforeEach(func() {
		repo = NewMockRepository()
		member = &access.Identity{UserID: 3, OrganizationID: 1, BaseRole: access.RoleMember}
		admin = &access.Identity{UserID: 1, OrganizationID: 1, BaseRole: access.RoleAdmin}

		router = buildRouter(partiesSnapshot(
			[]string{access.ModuleParties},
			fullFeatures,
			time.Now().Add(30*24*time.Hour),
		))
	})

	It("should let a member list parties through the module gate", func() {
		w := do(http.MethodGet, "/parties", "", member)

		Expect(w.Code).To(Equal(http.StatusOK))
	})

	It("should let an admin create a party", func() {
		w := do(http.MethodPost, "/parties", validBody, admin)

		Expect(w.Code).To(Equal(http.StatusCreated))

		var record party.Party
		Expect(json.NewDecoder(w.Body).Decode(&record)).To(Succeed())
		Expect(record.Name).To(Equal("Sharma Stores"))
	})

	It("should deny a member's create by role while the plan allows it", func() {
		w := do(http.MethodPost, "/parties", validBody, member)

		deniedWith(w, internal.ErrCodeFeatureAccessDenied)
	})

	It("should deny everyone when the plan lacks the module", func() {
		router = buildRouter(partiesSnapshot(
			[]string{access.ModuleDashboard},
			nil,
			time.Now().Add(30*24*time.Hour),
		))

		w := do(http.MethodGet, "/parties", "", admin)

		deniedWith(w, internal.ErrCodeModuleNotInPlan)
	})

	It("should deny an admin's create when the plan drops the feature", func() {
		router = buildRouter(partiesSnapshot(
			[]string{access.ModuleParties},
			map[string]bool{access.FeatureView: true},
			time.Now().Add(30*24*time.Hour),
		))

		w := do(http.MethodPost, "/parties", validBody, admin)

		// the plan gate runs before any role lookup
		deniedWith(w, internal.ErrCodeFeatureNotInPlan)
	})

	It("should deny everyone when the subscription expired", func() {
		router = buildRouter(partiesSnapshot(
			[]string{access.ModuleParties},
			fullFeatures,
			time.Now().Add(-24*time.Hour),
		))

		w := do(http.MethodGet, "/parties", "", member)

		deniedWith(w, internal.ErrCodeSubscriptionExpired)
	})

	It("should bypass both gates for the super role", func() {
		root := &access.Identity{UserID: 99, BaseRole: access.RoleSuperAdmin}

		w := do(http.MethodPost, "/parties", validBody, root)

		Expect(w.Code).To(Equal(http.StatusCreated))
	})

	It("should answer 401 without an identity", func() {
		w := do(http.MethodGet, "/parties", "", nil)

		Expect(w.Code).To(Equal(http.StatusUnauthorized))
	})

	It("should answer 409 for a duplicate name", func() {
		first := do(http.MethodPost, "/parties", validBody, admin)
		Expect(first.Code).To(Equal(http.StatusCreated))

		w := do(http.MethodPost, "/parties", validBody, admin)

		Expect(w.Code).To(Equal(http.StatusConflict))
	})

	It("should answer 404 for a party outside the organization", func() {
		foreign := &party.Party{ID: 500, OrganizationID: 2, Name: "Verma Traders", PartyType: party.TypeWholesaler}
		repo.parties[foreign.ID] = foreign

		w := do(http.MethodGet, "/parties/500", "", admin)

		Expect(w.Code).To(Equal(http.StatusNotFound))
	})
})
