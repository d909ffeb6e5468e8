package leave_test

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
	"github.com/AsimAftab/SalesSphere-Backend-sub001/internal/leave"
	"github.com/AsimAftab/SalesSphere-Backend-sub001/internal/transport"
)

type mockLeaveService struct {
	record     *leave.Leave
	list       *leave.LeavesResponse
	err        error
	lastFilter leave.ListFilter
	lastID     int64
}

func (m *mockLeaveService) Create(ctx context.Context, actor *access.Identity, dto leave.CreateLeaveDTO) (*leave.Leave, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.record, nil
}

func (m *mockLeaveService) List(ctx context.Context, actor *access.Identity, filter leave.ListFilter) (*leave.LeavesResponse, error) {
	m.lastFilter = filter
	if m.err != nil {
		return nil, m.err
	}
	return m.list, nil
}

func (m *mockLeaveService) Get(ctx context.Context, actor *access.Identity, id int64) (*leave.Leave, error) {
	m.lastID = id
	if m.err != nil {
		return nil, m.err
	}
	return m.record, nil
}

func (m *mockLeaveService) UpdateStatus(ctx context.Context, actor *access.Identity, id int64, dto leave.UpdateStatusDTO) (*leave.Leave, error) {
	m.lastID = id
	if m.err != nil {
		return nil, m.err
	}
	return m.record, nil
}

type errorBody struct {
	Error struct {
		Type    string `json:"type"`
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

var _ = Describe("Leave Handler", func() {
	var (
		service *mockLeaveService
		router  *chi.Mux
		caller  *access.Identity
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

	BeforeEach(func() {
		service = &mockLeaveService{
			record: &leave.Leave{
				ID:             31,
				ExternalID:     "ext-31",
				OrganizationID: 1,
				UserID:         3,
				LeaveType:      leave.LeaveTypeCasual,
				StartDate:      time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
				EndDate:        time.Date(2026, 9, 3, 0, 0, 0, 0, time.UTC),
				Status:         leave.StatusPending,
			},
			list: &leave.LeavesResponse{Leaves: []*leave.Leave{}, Limit: 20},
		}
		handler := leave.NewHandler(transport.NewBaseHandler(testLogger()), service)
		router = chi.NewRouter()
		router.Post("/leaves", handler.CreateLeave)
		router.Get("/leaves", handler.ListLeaves)
		router.Get("/leaves/{id}", handler.GetLeave)
		router.Patch("/leaves/{id}/status", handler.UpdateLeaveStatus)

		caller = &access.Identity{UserID: 3, OrganizationID: 1, BaseRole: access.RoleMember}
	})

	It("should create a leave and answer 201", func() {
		w := do(http.MethodPost, "/leaves", `{"leave_type":"casual","start_date":"2026-09-01T00:00:00Z","end_date":"2026-09-03T00:00:00Z"}`, caller)

		Expect(w.Code).To(Equal(http.StatusCreated))

		var record leave.Leave
		Expect(json.NewDecoder(w.Body).Decode(&record)).To(Succeed())
		Expect(record.ExternalID).To(Equal("ext-31"))
	})

	It("should answer 401 without an identity", func() {
		w := do(http.MethodPost, "/leaves", `{}`, nil)

		Expect(w.Code).To(Equal(http.StatusUnauthorized))

		var body errorBody
		Expect(json.NewDecoder(w.Body).Decode(&body)).To(Succeed())
		Expect(body.Error.Code).To(Equal(string(internal.ErrCodeAuthenticationRequired)))
	})

	It("should answer 400 on a malformed body", func() {
		w := do(http.MethodPost, "/leaves", `{"leave_type":`, caller)

		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	It("should pass query filters to the service", func() {
		w := do(http.MethodGet, "/leaves?limit=5&offset=10&status=pending&from=2026-09-01&to=2026-09-30", "", caller)

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(service.lastFilter.Limit).To(Equal(5))
		Expect(service.lastFilter.Offset).To(Equal(10))
		Expect(service.lastFilter.Status).To(Equal("pending"))
		Expect(service.lastFilter.From).To(Equal(time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)))
		Expect(service.lastFilter.To).To(Equal(time.Date(2026, 9, 30, 0, 0, 0, 0, time.UTC)))
	})

	It("should fall back to defaults for hostile paging values", func() {
		w := do(http.MethodGet, "/leaves?limit=9999&offset=-3&from=yesterday", "", caller)

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(service.lastFilter.Limit).To(Equal(20))
		Expect(service.lastFilter.Offset).To(Equal(0))
		Expect(service.lastFilter.From.IsZero()).To(BeTrue())
	})

	It("should answer 404 for an invisible record", func() {
		service.err = leave.ErrNotFound

		w := do(http.MethodGet, "/leaves/31", "", caller)

		Expect(w.Code).To(Equal(http.StatusNotFound))
	})

	It("should answer 400 for a non-numeric id", func() {
		w := do(http.MethodGet, "/leaves/abc", "", caller)

		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	It("should answer 403 when approval is forbidden", func() {
		service.err = leave.ErrApprovalForbidden

		w := do(http.MethodPatch, "/leaves/31/status", `{"status":"approved"}`, caller)

		Expect(w.Code).To(Equal(http.StatusForbidden))
	})

	It("should answer 409 when the request was already processed", func() {
		service.err = internal.ErrAlreadyProcessed

		w := do(http.MethodPatch, "/leaves/31/status", `{"status":"approved"}`, caller)

		Expect(w.Code).To(Equal(http.StatusConflict))

		var body errorBody
		Expect(json.NewDecoder(w.Body).Decode(&body)).To(Succeed())
		Expect(body.Error.Code).To(Equal(string(internal.ErrCodeAlreadyProcessed)))
	})

	It("should expose the engine denial body on plan errors", func() {
		service.err = internal.NewPlanCheckError(context.DeadlineExceeded)

		w := do(http.MethodPatch, "/leaves/31/status", `{"status":"approved"}`, caller)

		Expect(w.Code).To(Equal(http.StatusInternalServerError))

		var body errorBody
		Expect(json.NewDecoder(w.Body).Decode(&body)).To(Succeed())
		Expect(body.Error.Code).To(Equal(string(internal.ErrCodePlanCheckError)))
	})
})
