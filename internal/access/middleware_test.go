package access_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/AsimAftab/SalesSphere-Backend-sub001/internal/access"
)

type errorBody struct {
	Error struct {
		Type    string `json:"type"`
		Code    string `json:"code"`
		Message string `json:"message"`
		Details struct {
			Source     string `json:"source"`
			Module     string `json:"module"`
			Feature    string `json:"feature"`
			Plan       string `json:"plan"`
			Role       string `json:"role"`
			CustomRole bool   `json:"customRole"`
		} `json:"details"`
	} `json:"error"`
}

var _ = Describe("Guard", func() {
	var (
		provider *mockOrgProvider
		guard    *access.Guard
		okBody   string
		handler  http.Handler
	)

	BeforeEach(func() {
		provider = newMockOrgProvider(activeOrg(1, standardPlan()), activeOrg(2, premiumPlan()))
		checker := access.NewChecker(access.DefaultRegistry(), provider, testLogger(), nil)
		guard = access.NewGuard(checker, testLogger())
		okBody = `{"data":"ok"}`
		handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(okBody))
		})
	})

	request := func(id *access.Identity) *http.Request {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/leaves", nil)
		if id != nil {
			req = req.WithContext(access.ContextWithIdentity(req.Context(), id))
		}
		return req
	}

	decode := func(rec *httptest.ResponseRecorder) errorBody {
		var body errorBody
		Expect(json.Unmarshal(rec.Body.Bytes(), &body)).To(Succeed())
		return body
	}

	Describe("RequireFeature", func() {
		It("rejects unauthenticated requests with a JSON 401", func() {
			rec := httptest.NewRecorder()
			guard.RequireFeature(access.ModuleLeaves, access.FeatureViewOwn)(handler).ServeHTTP(rec, request(nil))

			Expect(rec.Code).To(Equal(http.StatusUnauthorized))
			Expect(rec.Header().Get("Content-Type")).To(Equal("application/json"))
			Expect(decode(rec).Error.Code).To(Equal("AUTHENTICATION_REQUIRED"))
		})

		It("passes allowed requests through untouched", func() {
			rec := httptest.NewRecorder()
			guard.RequireFeature(access.ModuleLeaves, access.FeatureViewOwn)(handler).ServeHTTP(rec, request(memberIdentity(10, 1)))

			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(rec.Body.String()).To(Equal(okBody))
		})

		It("renders plan denials with the failing gate and plan name", func() {
			rec := httptest.NewRecorder()
			guard.RequireFeature(access.ModuleLeaves, access.FeatureUpdateStatus)(handler).ServeHTTP(rec, request(adminIdentity(1, 1)))

			Expect(rec.Code).To(Equal(http.StatusForbidden))
			body := decode(rec)
			Expect(body.Error.Code).To(Equal("FEATURE_NOT_IN_PLAN"))
			Expect(body.Error.Details.Source).To(Equal("plan"))
			Expect(body.Error.Details.Plan).To(Equal("Standard"))
			Expect(body.Error.Details.Module).To(Equal(access.ModuleLeaves))
			Expect(body.Error.Details.Feature).To(Equal(access.FeatureUpdateStatus))
		})

		It("renders role denials with the effective role name", func() {
			rec := httptest.NewRecorder()
			guard.RequireFeature(access.ModuleLeaves, access.FeatureUpdateStatus)(handler).ServeHTTP(rec, request(memberIdentity(10, 2)))

			Expect(rec.Code).To(Equal(http.StatusForbidden))
			body := decode(rec)
			Expect(body.Error.Code).To(Equal("FEATURE_ACCESS_DENIED"))
			Expect(body.Error.Details.Source).To(Equal("role"))
			Expect(body.Error.Details.Role).To(Equal(access.RoleMember))
			Expect(body.Error.Details.CustomRole).To(BeFalse())
		})

		It("names the custom role in role denials", func() {
			viewer := withCustomRole(memberIdentity(10, 2), "Viewer", access.PermissionMap{
				access.ModuleLeaves: {access.FeatureViewOwn: true},
			})

			rec := httptest.NewRecorder()
			guard.RequireFeature(access.ModuleLeaves, access.FeatureUpdateStatus)(handler).ServeHTTP(rec, request(viewer))

			body := decode(rec)
			Expect(body.Error.Details.Role).To(Equal("Viewer"))
			Expect(body.Error.Details.CustomRole).To(BeTrue())
		})

		It("answers 500 PLAN_CHECK_ERROR when the plan store is down", func() {
			provider.err = errors.New("connection refused")

			rec := httptest.NewRecorder()
			guard.RequireFeature(access.ModuleLeaves, access.FeatureViewOwn)(handler).ServeHTTP(rec, request(memberIdentity(10, 1)))

			Expect(rec.Code).To(Equal(http.StatusInternalServerError))
			Expect(decode(rec).Error.Code).To(Equal("PLAN_CHECK_ERROR"))
		})

		It("answers 500 INVALID_FEATURE_CONFIG for a capability outside the catalog", func() {
			rec := httptest.NewRecorder()
			guard.RequireFeature(access.ModuleLeaves, "approveEverything")(handler).ServeHTTP(rec, request(adminIdentity(1, 2)))

			Expect(rec.Code).To(Equal(http.StatusInternalServerError))
			Expect(decode(rec).Error.Code).To(Equal("INVALID_FEATURE_CONFIG"))
		})
	})

	Describe("RequireModule", func() {
		It("passes when the plan and role grant the base view", func() {
			rec := httptest.NewRecorder()
			guard.RequireModule(access.ModuleParties)(handler).ServeHTTP(rec, request(memberIdentity(10, 1)))

			Expect(rec.Code).To(Equal(http.StatusOK))
		})

		It("denies when the plan lacks the module", func() {
			rec := httptest.NewRecorder()
			guard.RequireModule(access.ModuleProducts)(handler).ServeHTTP(rec, request(memberIdentity(10, 1)))

			Expect(rec.Code).To(Equal(http.StatusForbidden))
			Expect(decode(rec).Error.Code).To(Equal("MODULE_NOT_IN_PLAN"))
		})
	})

	Describe("RequireAnyFeature", func() {
		It("passes when one alternative is granted", func() {
			rec := httptest.NewRecorder()
			guard.RequireAnyFeature(
				access.FeaturePair{Module: access.ModuleLeaves, Feature: access.FeatureUpdateStatus},
				access.FeaturePair{Module: access.ModuleLeaves, Feature: access.FeatureViewOwn},
			)(handler).ServeHTTP(rec, request(memberIdentity(10, 1)))

			Expect(rec.Code).To(Equal(http.StatusOK))
		})

		It("answers a coarse NO_ACCESS when every alternative fails", func() {
			rec := httptest.NewRecorder()
			guard.RequireAnyFeature(
				access.FeaturePair{Module: access.ModuleLeaves, Feature: access.FeatureUpdateStatus},
				access.FeaturePair{Module: access.ModuleUsers, Feature: access.FeatureCreate},
			)(handler).ServeHTTP(rec, request(memberIdentity(10, 1)))

			Expect(rec.Code).To(Equal(http.StatusForbidden))
			Expect(decode(rec).Error.Code).To(Equal("NO_ACCESS"))
		})
	})

	Describe("RequireAllFeatures", func() {
		It("requires every capability", func() {
			rec := httptest.NewRecorder()
			guard.RequireAllFeatures(
				access.FeaturePair{Module: access.ModuleUsers, Feature: access.FeatureCreate},
				access.FeaturePair{Module: access.ModuleRoles, Feature: access.FeatureView},
			)(handler).ServeHTTP(rec, request(adminIdentity(1, 2)))

			Expect(rec.Code).To(Equal(http.StatusOK))
		})

		It("reports the first failing capability", func() {
			rec := httptest.NewRecorder()
			guard.RequireAllFeatures(
				access.FeaturePair{Module: access.ModuleLeaves, Feature: access.FeatureViewOwn},
				access.FeaturePair{Module: access.ModuleUsers, Feature: access.FeatureCreate},
			)(handler).ServeHTTP(rec, request(memberIdentity(10, 2)))

			Expect(rec.Code).To(Equal(http.StatusForbidden))
			body := decode(rec)
			Expect(body.Error.Code).To(Equal("FEATURE_ACCESS_DENIED"))
			Expect(body.Error.Details.Module).To(Equal(access.ModuleUsers))
		})
	})

	Describe("RequestCache", func() {
		It("shares one plan read across stacked guards", func() {
			wrapped := access.RequestCache()(
				guard.RequireModule(access.ModuleLeaves)(
					guard.RequireFeature(access.ModuleLeaves, access.FeatureCreate)(
						guard.RequireAnyFeature(
							access.FeaturePair{Module: access.ModuleLeaves, Feature: access.FeatureViewOwn},
						)(handler),
					),
				),
			)

			rec := httptest.NewRecorder()
			wrapped.ServeHTTP(rec, request(memberIdentity(10, 1)))

			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(provider.calls).To(Equal(1))
		})
	})
})
