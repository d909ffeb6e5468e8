package role_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/go-chi/chi"

	internal "github.com/AsimAftab/SalesSphere-Backend-sub001/internal"
	"github.com/AsimAftab/SalesSphere-Backend-sub001/internal/access"
	"github.com/AsimAftab/SalesSphere-Backend-sub001/internal/role"
	"github.com/AsimAftab/SalesSphere-Backend-sub001/internal/transport"
)

type errorBody struct {
	Error struct {
		Type    string `json:"type"`
		Code    string `json:"code"`
		Message string `json:"message"`
		Details struct {
			Errors []struct {
				Field   string `json:"field"`
				Message string `json:"message"`
				Code    string `json:"code"`
			} `json:"errors"`
		} `json:"details"`
	} `json:"error"`
}

var _ = Describe("Role Handler", func() {
	var (
		repo   *MockRepository
		router *chi.Mux
		caller *access.Identity
	)

	do := func(method, target, body string, id *access.Identity) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, target, strings.NewReader(body))
		if id != nil {
			req = req.WithContext(access.ContextWithIdentity(req.Context(), id))
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	createRole := func(name string) role.RoleResponse {
		body := fmt.Sprintf(`{"name":%q,"permissions":{"leaves":{"viewOwn":true}}}`, name)
		w := do(http.MethodPost, "/roles", body, caller)
		Expect(w.Code).To(Equal(http.StatusCreated))

		var resp role.RoleResponse
		Expect(json.NewDecoder(w.Body).Decode(&resp)).To(Succeed())
		return resp
	}

	BeforeEach(func() {
		repo = NewMockRepository()
		handler := role.NewHandler(transport.NewBaseHandler(testLogger()),
			role.NewService(repo, access.DefaultRegistry(), testLogger()))

		router = chi.NewRouter()
		router.Get("/roles/features", handler.FeatureCatalog)
		router.Get("/roles", handler.ListRoles)
		router.Post("/roles", handler.CreateRole)
		router.Get("/roles/{id}", handler.GetRole)
		router.Patch("/roles/{id}", handler.UpdateRole)
		router.Delete("/roles/{id}", handler.DeleteRole)

		caller = &access.Identity{UserID: 2, OrganizationID: 1, BaseRole: access.RoleAdmin}
	})

	It("should create a role and answer 201", func() {
		resp := createRole("Area Manager")

		Expect(resp.ID).NotTo(BeZero())
		Expect(resp.Name).To(Equal("Area Manager"))
		Expect(resp.Permissions.Granted("leaves", "viewOwn")).To(BeTrue())
	})

	It("should answer 401 without an identity", func() {
		w := do(http.MethodGet, "/roles", "", nil)

		Expect(w.Code).To(Equal(http.StatusUnauthorized))
	})

	It("should list unknown capabilities in the validation failure", func() {
		w := do(http.MethodPost, "/roles", `{"name":"Area Manager","permissions":{"leaves":{"fly":true}}}`, caller)

		Expect(w.Code).To(Equal(http.StatusBadRequest))

		var body errorBody
		Expect(json.NewDecoder(w.Body).Decode(&body)).To(Succeed())
		Expect(body.Error.Code).To(Equal(string(internal.ErrCodeValidationFailed)))
		Expect(body.Error.Details.Errors).To(HaveLen(1))
		Expect(body.Error.Details.Errors[0].Message).To(ContainSubstring("leaves.fly"))
	})

	It("should answer 400 for a reserved role name", func() {
		w := do(http.MethodPost, "/roles", `{"name":"Admin"}`, caller)

		Expect(w.Code).To(Equal(http.StatusBadRequest))

		var body errorBody
		Expect(json.NewDecoder(w.Body).Decode(&body)).To(Succeed())
		Expect(body.Error.Details.Errors[0].Code).To(Equal(string(internal.ErrCodeInvalidRoleName)))
	})

	It("should answer 409 for a name that differs only in case", func() {
		createRole("Area Manager")

		w := do(http.MethodPost, "/roles", `{"name":"area manager"}`, caller)

		Expect(w.Code).To(Equal(http.StatusConflict))
	})

	It("should answer 409 when deleting a role users still hold", func() {
		created := createRole("Area Manager")
		repo.assigned[created.ID] = 3

		w := do(http.MethodDelete, fmt.Sprintf("/roles/%d", created.ID), "", caller)

		Expect(w.Code).To(Equal(http.StatusConflict))
	})

	It("should hide another organization's role behind 404", func() {
		created := createRole("Area Manager")
		foreign := &access.Identity{UserID: 9, OrganizationID: 2, BaseRole: access.RoleAdmin}

		w := do(http.MethodGet, fmt.Sprintf("/roles/%d", created.ID), "", foreign)

		Expect(w.Code).To(Equal(http.StatusNotFound))
	})

	It("should answer 400 for a non-numeric id", func() {
		w := do(http.MethodGet, "/roles/abc", "", caller)

		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	It("should serve the feature catalog", func() {
		w := do(http.MethodGet, "/roles/features", "", caller)

		Expect(w.Code).To(Equal(http.StatusOK))

		var catalog role.FeatureCatalogResponse
		Expect(json.NewDecoder(w.Body).Decode(&catalog)).To(Succeed())
		Expect(catalog.Modules).NotTo(BeEmpty())

		names := make([]string, 0, len(catalog.Modules))
		for _, m := range catalog.Modules {
			names = append(names, m.Name)
		}
		Expect(names).To(ContainElement(access.ModuleLeaves))
	})
})
