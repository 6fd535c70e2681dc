package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	authdomain "github.com/smallbiznis/billhub/internal/auth/domain"
	authmocks "github.com/smallbiznis/billhub/internal/auth/domain/mocks"
	"github.com/smallbiznis/billhub/internal/authorization"
	billmocks "github.com/smallbiznis/billhub/internal/bill/domain/mocks"
	billimportmocks "github.com/smallbiznis/billhub/internal/billimport/domain/mocks"
	"github.com/smallbiznis/billhub/internal/clock"
	"github.com/smallbiznis/billhub/internal/config"
	"github.com/smallbiznis/billhub/internal/observability"
	obsmetrics "github.com/smallbiznis/billhub/internal/observability/metrics"
	subscribermocks "github.com/smallbiznis/billhub/internal/subscriber/domain/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

const (
	adminToken  = "admin-token"
	bankToken   = "bank-token"
	mobileToken = "mobile-token"
)

type testServer struct {
	engine      *gin.Engine
	clock       *clock.FakeClock
	auth        *authmocks.MockService
	bills       *billmocks.MockService
	imports     *billimportmocks.MockService
	subscribers *subscribermocks.MockService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	ctrl := gomock.NewController(t)
	ts := &testServer{
		clock:       clock.NewFakeClock(time.Date(2024, 11, 20, 12, 0, 0, 0, time.UTC)),
		auth:        authmocks.NewMockService(ctrl),
		bills:       billmocks.NewMockService(ctrl),
		imports:     billimportmocks.NewMockService(ctrl),
		subscribers: subscribermocks.NewMockService(ctrl),
	}

	for token, role := range map[string]authdomain.Role{
		adminToken:  authdomain.RoleAdmin,
		bankToken:   authdomain.RoleBank,
		mobileToken: authdomain.RoleMobile,
	} {
		ts.auth.EXPECT().Authenticate(gomock.Any(), token).
			Return(authdomain.Principal{Subject: "demo-" + string(role), Role: role}, nil).AnyTimes()
	}
	ts.auth.EXPECT().Authenticate(gomock.Any(), "").Return(authdomain.Principal{}, authdomain.ErrMissingToken).AnyTimes()
	ts.auth.EXPECT().Authenticate(gomock.Any(), gomock.Any()).Return(authdomain.Principal{}, authdomain.ErrInvalidToken).AnyTimes()

	enforcer, err := authorization.NewEnforcer()
	require.NoError(t, err)

	httpMetrics, err := obsmetrics.NewHTTPMetricsWithRegisterer(prometheus.NewRegistry(), obsmetrics.Config{ServiceName: "billhub-test"})
	require.NoError(t, err)

	ts.engine = NewEngine(observability.Config{Environment: "test"}, httpMetrics, ts.clock)
	NewServer(ServerParams{
		Gin:           ts.engine,
		Cfg:           config.Config{Environment: "test"},
		Log:           zap.NewNop(),
		Authsvc:       ts.auth,
		AuthzSvc:      authorization.NewService(authorization.Params{Log: zap.NewNop(), Enforcer: enforcer}),
		BillSvc:       ts.bills,
		ImportSvc:     ts.imports,
		SubscriberSvc: ts.subscribers,
	})
	return ts
}

func (ts *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return ts.serve(req)
}

func (ts *testServer) serve(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	ts.engine.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func errorOf(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	body := decodeBody(t, rec)
	payload, ok := body["error"].(map[string]any)
	require.True(t, ok, "missing error envelope: %s", rec.Body.String())
	return payload
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestRequireRoleRejectsMissingAndInvalidTokens(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/api/v1/banking/query-bill?subscriberNo=1001", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "unauthorized", errorOf(t, rec)["type"])

	rec = ts.do(t, http.MethodGet, "/api/v1/banking/query-bill?subscriberNo=1001", "forged", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireRoleRejectsWrongRole(t *testing.T) {
	ts := newTestServer(t)

	cases := []struct {
		method string
		path   string
		token  string
	}{
		{http.MethodGet, "/api/v1/banking/query-bill?subscriberNo=1001", mobileToken},
		{http.MethodGet, "/api/v1/mobile/query-bill?subscriberNo=1001&year=2024&month=10", bankToken},
		{http.MethodGet, "/api/v1/mobile/query-bill-detailed?subscriberNo=1001&year=2024&month=10", adminToken},
		{http.MethodPost, "/api/v1/admin/add-bill", mobileToken},
		{http.MethodGet, "/api/v1/admin/subscribers/1001", bankToken},
	}
	for _, tc := range cases {
		t.Run(tc.path, func(t *testing.T) {
			rec := ts.do(t, tc.method, tc.path, tc.token, nil)
			assert.Equal(t, http.StatusForbidden, rec.Code)
			assert.Equal(t, "forbidden", errorOf(t, rec)["type"])
		})
	}
}

func TestLogin(t *testing.T) {
	ts := newTestServer(t)
	expires := time.Date(2024, 11, 20, 13, 0, 0, 0, time.UTC)

	ts.auth.EXPECT().Login(gomock.Any(), authdomain.LoginRequest{ClientType: "mobile", Username: "demo", Password: "pw"}).
		Return(authdomain.LoginResult{Token: "jwt", ExpiresAt: expires}, nil)

	rec := ts.do(t, http.MethodPost, "/api/v1/auth/login", "", gin.H{"clientType": "mobile", "username": "demo", "password": "pw"})
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "jwt", body["token"])
	assert.Equal(t, "2024-11-20T13:00:00Z", body["expiresAt"])
}

func TestLoginRejectsUnknownClientType(t *testing.T) {
	ts := newTestServer(t)

	ts.auth.EXPECT().Login(gomock.Any(), gomock.Any()).Return(authdomain.LoginResult{}, authdomain.ErrInvalidClientType)

	rec := ts.do(t, http.MethodPost, "/api/v1/auth/login", "", gin.H{"clientType": "kiosk", "username": "demo"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	payload := errorOf(t, rec)
	assert.Equal(t, "validation_error", payload["type"])
	assert.Equal(t, "ClientType must be one of: mobile, bank, admin.", payload["message"])
}

func TestLoginRejectsMalformedBody(t *testing.T) {
	ts := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewBufferString("{"))
	req.Header.Set("Content-Type", "application/json")
	rec := ts.serve(req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid request", errorOf(t, rec)["message"])
}

func newGinContext(authHeader string) (*gin.Context, *httptest.ResponseRecorder) {
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		c.Request.Header.Set("Authorization", authHeader)
	}
	return c, rec
}
