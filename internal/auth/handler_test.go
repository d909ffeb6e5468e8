package auth_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"

	internal "github.com/AsimAftab/SalesSphere-Backend-sub001/internal"
	"github.com/AsimAftab/SalesSphere-Backend-sub001/internal/access"
	"github.com/AsimAftab/SalesSphere-Backend-sub001/internal/auth"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"
)

type middlewareErrorBody struct {
	Error struct {
		Type    string `json:"type"`
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

var _ = Describe("AuthMiddleware", func() {
	var (
		repo     *MockRepository
		tokens   *auth.JWTTokenGenerator
		handler  *auth.Handler
		seen     *access.Identity
		protect  http.Handler
		recorder *httptest.ResponseRecorder
	)

	issueAccessToken := func(userID int64) string {
		token, err := tokens.GenerateAccessToken(userID, "rep@acme.test")
		Expect(err).NotTo(HaveOccurred())
		return token
	}

	BeforeEach(func() {
		repo = NewMockRepository()
		tokens = auth.NewJWTTokenGenerator("test-secret")
		service := auth.NewService(repo, tokens, testLogger())
		handler = auth.NewHandler(service)

		hash, err := bcrypt.GenerateFromPassword([]byte("pw"), bcrypt.MinCost)
		Expect(err).NotTo(HaveOccurred())
		repo.credentials["rep@acme.test"] = &auth.Credentials{
			UserID: 7, Email: "rep@acme.test", PasswordHash: string(hash), IsActive: true,
		}
		repo.identities[7] = &access.Identity{
			UserID:         7,
			OrganizationID: 1,
			Email:          "rep@acme.test",
			BaseRole:       access.RoleMember,
		}

		seen = nil
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen, _ = access.IdentityFromContext(r.Context())
			w.WriteHeader(http.StatusOK)
		})
		protect = handler.AuthMiddleware(next)
		recorder = httptest.NewRecorder()
	})

	It("should attach the identity for a valid access token", func() {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/leaves", nil)
		req.Header.Set("Authorization", "Bearer "+issueAccessToken(7))

		protect.ServeHTTP(recorder, req)

		Expect(recorder.Code).To(Equal(http.StatusOK))
		Expect(seen).NotTo(BeNil())
		Expect(seen.UserID).To(Equal(int64(7)))
		Expect(seen.OrganizationID).To(Equal(int64(1)))
	})

	It("should reject a request without a token", func() {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/leaves", nil)

		protect.ServeHTTP(recorder, req)

		Expect(recorder.Code).To(Equal(http.StatusUnauthorized))
		var body middlewareErrorBody
		Expect(json.Unmarshal(recorder.Body.Bytes(), &body)).To(Succeed())
		Expect(body.Error.Code).To(Equal(string(internal.ErrCodeAuthenticationRequired)))
	})

	It("should reject a refresh token used as an access token", func() {
		refresh, err := tokens.GenerateRefreshToken(7, "rep@acme.test")
		Expect(err).NotTo(HaveOccurred())

		req := httptest.NewRequest(http.MethodGet, "/api/v1/leaves", nil)
		req.Header.Set("Authorization", "Bearer "+refresh)

		protect.ServeHTTP(recorder, req)

		Expect(recorder.Code).To(Equal(http.StatusUnauthorized))
	})

	It("should reject a token for a user who no longer resolves", func() {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/leaves", nil)
		req.Header.Set("Authorization", "Bearer "+issueAccessToken(999))

		protect.ServeHTTP(recorder, req)

		Expect(recorder.Code).To(Equal(http.StatusUnauthorized))
		var body middlewareErrorBody
		Expect(json.Unmarshal(recorder.Body.Bytes(), &body)).To(Succeed())
		Expect(body.Error.Code).To(Equal(string(internal.ErrCodeInvalidToken)))
	})

	Context("channel restrictions", func() {
		BeforeEach(func() {
			repo.identities[7].CustomRole = &access.CustomRole{
				ID:                3,
				Name:              "Field Agent",
				Permissions:       access.PermissionMap{access.ModuleLeaves: {access.FeatureViewOwn: true}},
				AllowWebAccess:    false,
				AllowMobileAccess: true,
			}
		})

		It("should deny a mobile-only role on the web channel", func() {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/leaves", nil)
			req.Header.Set("Authorization", "Bearer "+issueAccessToken(7))

			protect.ServeHTTP(recorder, req)

			Expect(recorder.Code).To(Equal(http.StatusForbidden))
			var body middlewareErrorBody
			Expect(json.Unmarshal(recorder.Body.Bytes(), &body)).To(Succeed())
			Expect(body.Error.Code).To(Equal(string(internal.ErrCodeChannelDenied)))
		})

		It("should allow the same role on the mobile channel", func() {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/leaves", nil)
			req.Header.Set("Authorization", "Bearer "+issueAccessToken(7))
			req.Header.Set(auth.PlatformHeader, auth.PlatformMobile)

			protect.ServeHTTP(recorder, req)

			Expect(recorder.Code).To(Equal(http.StatusOK))
			Expect(seen.CustomRole).NotTo(BeNil())
			Expect(seen.CustomRole.Name).To(Equal("Field Agent"))
		})
	})
})
