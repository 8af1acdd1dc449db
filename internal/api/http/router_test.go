package http

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/goodhive/onboarding-service/internal/api/http/handlers"
	"github.com/goodhive/onboarding-service/internal/auth"
	"github.com/goodhive/onboarding-service/internal/config"
	"github.com/goodhive/onboarding-service/internal/domain"
	"github.com/goodhive/onboarding-service/internal/observability"
	"github.com/goodhive/onboarding-service/internal/ratelimit"
	"github.com/goodhive/onboarding-service/internal/repository"
	"github.com/goodhive/onboarding-service/internal/service"
	apperrors "github.com/goodhive/onboarding-service/pkg/util/errorutil"
)

const (
	testUserID  = "6f1c1d4e-0000-4000-8000-000000000001"
	otherUserID = "6f1c1d4e-0000-4000-8000-000000000002"
)

// stubTx fails every transaction with err without touching a database.
type stubTx struct {
	err   error
	calls int
}

func (s *stubTx) WithinTx(context.Context, func(context.Context, repository.Repositories) error) error {
	s.calls++
	return s.err
}

type stubAdmins struct {
	admin *domain.Admin
}

func (s stubAdmins) Create(context.Context, *domain.Admin) error { return nil }

func (s stubAdmins) GetByID(_ context.Context, id string) (*domain.Admin, error) {
	if s.admin != nil && s.admin.ID == id {
		return s.admin, nil
	}
	return nil, pgx.ErrNoRows
}

func (s stubAdmins) GetByEmail(_ context.Context, email string) (*domain.Admin, error) {
	if s.admin != nil && s.admin.Email == email {
		return s.admin, nil
	}
	return nil, pgx.ErrNoRows
}

type stubUsers struct {
	users map[string]*domain.User
}

func (s stubUsers) Create(context.Context, *domain.User) error { return nil }

func (s stubUsers) GetByID(_ context.Context, id string) (*domain.User, error) {
	if u, ok := s.users[id]; ok {
		return u, nil
	}
	return nil, pgx.ErrNoRows
}

func (s stubUsers) GetByIDForUpdate(ctx context.Context, id string) (*domain.User, error) {
	return s.GetByID(ctx, id)
}

func (s stubUsers) UpdateStatuses(context.Context, string, map[domain.Role]domain.ApprovalStatus) error {
	return nil
}

type stubPinger struct{ err error }

func (s stubPinger) Ping(context.Context) error { return s.err }

type routerFixture struct {
	app    *fiber.App
	tx     *stubTx
	token  string
	tokens *auth.TokenManager
}

func newRouterFixture(t *testing.T) *routerFixture {
	t.Helper()
	hash, err := auth.HashPassword("s3cret", 4)
	require.NoError(t, err)
	admins := stubAdmins{admin: &domain.Admin{ID: "admin-1", Email: "ops@goodhive.io", PasswordHash: hash}}

	authSvc := service.NewAuthService(config.AuthConfig{JWTSecret: "test", AccessTokenTTLMinutes: 5, BcryptCost: 4}, admins, nil)
	token, _, err := authSvc.TokenManager().GenerateToken("admin-1", domain.SubjectTypeAdmin)
	require.NoError(t, err)

	users := stubUsers{users: map[string]*domain.User{
		testUserID:  {UserID: testUserID},
		otherUserID: {UserID: otherUserID},
	}}

	tx := &stubTx{}
	metrics := observability.NewMetrics("test")
	approvals := service.NewApprovalService(service.ApprovalDependencies{TxManager: tx, Metrics: metrics})

	app := fiber.New()
	RegisterMiddlewares(app, zap.NewNop(), metrics, time.Second)
	RegisterRoutes(app, RouteConfig{
		Health:         handlers.NewHealthHandler("test", "dev", map[string]handlers.Pinger{"postgres": stubPinger{}}),
		Approvals:      handlers.NewApprovalHandler(approvals),
		Search:         handlers.NewSearchHandler(service.NewSearchService(nil, nil, nil)),
		Referrals:      handlers.NewReferralHandler(service.NewReferralService(nil, nil)),
		Admin:          handlers.NewAdminHandler(authSvc, service.NewStatusSyncService(nil, nil)),
		AuthMiddleware: auth.NewAuthMiddleware(authSvc.TokenManager(), admins, users),
		Limiter:        ratelimit.New(ratelimit.NewMemoryStore(), ratelimit.Options{Window: time.Minute, Max: 5}, nil),
		Metrics:        metrics,
	})
	return &routerFixture{app: app, tx: tx, token: token, tokens: authSvc.TokenManager()}
}

func (f *routerFixture) postAs(t *testing.T, path, body, token string) int {
	t.Helper()
	req := httptest.NewRequest("POST", path, strings.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	resp, err := f.app.Test(req)
	require.NoError(t, err)
	return resp.StatusCode
}

func (f *routerFixture) post(t *testing.T, path, body string, authorized bool) (int, string) {
	t.Helper()
	req := httptest.NewRequest("POST", path, strings.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	if authorized {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+f.token)
	}
	resp, err := f.app.Test(req)
	require.NoError(t, err)
	var sb strings.Builder
	_, _ = io.Copy(&sb, resp.Body)
	return resp.StatusCode, sb.String()
}

func TestRoutes_ApproveRequiresAdmin(t *testing.T) {
	f := newRouterFixture(t)
	status, _ := f.post(t, "/api/talents/approve", `{"userId":"`+testUserID+`"}`, false)
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Zero(t, f.tx.calls)
}

func TestRoutes_ApproveTalentOutcomes(t *testing.T) {
	f := newRouterFixture(t)
	payload := `{"userId":"` + testUserID + `","approvalTypes":{"talent":true,"mentor":false},"referral_code":"GH-1"}`

	status, body := f.post(t, "/api/talents/approve", payload, true)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, body, "Talent approved successfully")

	status, body = f.post(t, "/api/talents/approve", `{"approvalTypes":{"talent":true}}`, true)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Contains(t, body, "userId")

	f.tx.err = apperrors.NewNotFound("talent profile", nil)
	status, _ = f.post(t, "/api/talents/approve", payload, true)
	assert.Equal(t, fiber.StatusNotFound, status)

	f.tx.err = errors.New("write tcp: broken pipe")
	status, body = f.post(t, "/api/talents/approve", payload, true)
	assert.Equal(t, fiber.StatusInternalServerError, status)
	assert.Contains(t, body, "unable to approve")
	assert.NotContains(t, body, "broken pipe")
}

func TestRoutes_SubmitForReviewRequiresOwnerOrAdmin(t *testing.T) {
	f := newRouterFixture(t)
	body := `{"userId":"` + testUserID + `"}`

	ownToken, _, err := f.tokens.GenerateToken(testUserID, domain.SubjectTypeUser)
	require.NoError(t, err)
	otherToken, _, err := f.tokens.GenerateToken(otherUserID, domain.SubjectTypeUser)
	require.NoError(t, err)
	ghostToken, _, err := f.tokens.GenerateToken("6f1c1d4e-0000-4000-8000-0000000000ff", domain.SubjectTypeUser)
	require.NoError(t, err)

	for _, path := range []string{"/api/talents/review", "/api/companies/review"} {
		assert.Equal(t, fiber.StatusUnauthorized, f.postAs(t, path, body, ""), path)
		assert.Equal(t, fiber.StatusUnauthorized, f.postAs(t, path, body, ghostToken), path)
		assert.Equal(t, fiber.StatusForbidden, f.postAs(t, path, body, otherToken), path)
	}
	assert.Zero(t, f.tx.calls)

	assert.Equal(t, fiber.StatusOK, f.postAs(t, "/api/talents/review", body, ownToken))
	assert.Equal(t, fiber.StatusOK, f.postAs(t, "/api/companies/review", body, f.token))
	assert.Equal(t, 2, f.tx.calls)

	f.tx.err = apperrors.NewConflict("profile is already approved", nil)
	assert.Equal(t, fiber.StatusConflict, f.postAs(t, "/api/talents/review", body, ownToken))
}

func TestRoutes_ApproveCompany(t *testing.T) {
	f := newRouterFixture(t)
	status, body := f.post(t, "/api/admin/companies/pending", `{"userId":"`+testUserID+`"}`, true)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, body, "Company approved successfully")

	status, _ = f.post(t, "/api/admin/companies/pending", `not json`, true)
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestRoutes_AdminLogin(t *testing.T) {
	f := newRouterFixture(t)
	status, body := f.post(t, "/api/admin/login", `{"email":"ops@goodhive.io","password":"s3cret"}`, false)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, body, `"token"`)

	status, _ = f.post(t, "/api/admin/login", `{"email":"ops@goodhive.io","password":"nope"}`, false)
	assert.Equal(t, fiber.StatusUnauthorized, status)
}

func TestRoutes_ReferralValidation(t *testing.T) {
	f := newRouterFixture(t)
	status, body := f.post(t, "/api/referrals", `{"wallet_address":"0x123"}`, false)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Contains(t, body, "wallet_address")
}

func TestRoutes_Health(t *testing.T) {
	f := newRouterFixture(t)
	resp, err := f.app.Test(httptest.NewRequest("GET", "/health/ready", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, err = f.app.Test(httptest.NewRequest("GET", "/metrics", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestHealth_NotReady(t *testing.T) {
	app := fiber.New()
	h := handlers.NewHealthHandler("test", "dev", map[string]handlers.Pinger{"redis": stubPinger{err: errors.New("dial tcp: refused")}})
	app.Get("/health/ready", h.Ready)

	resp, err := app.Test(httptest.NewRequest("GET", "/health/ready", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
}
