package middleware_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"restopos/config"
	"restopos/infras/jwt"
	jwtMocks "restopos/infras/jwt/mocks"
	"restopos/infras/otel/mocks"
	"restopos/permissions"
	cacheMocks "restopos/shared/cache/mocks"
	gModel "restopos/shared/model"
	"restopos/transport/http/middleware"
)

const testPermissions = `{
  "endpoints": [
    {"path": "/v1/auth/login", "method": "POST", "skip": true},
    {"path": "/v1/orders/kitchen/display", "method": "GET", "permissions": ["kitchen", "manager", "admin"]},
    {"path": "/v1/events", "method": "GET", "permissions": []}
  ]
}`

func newRouter(t *testing.T, jwtService jwt.JWT) http.Handler {
	t.Helper()

	perms, err := permissions.Parse([]byte(testPermissions))
	require.NoError(t, err)

	cfg := &config.Config{}
	cfg.App.APIKey = "internal-key"

	mw := middleware.NewAuthRoleMiddleware(jwtService, mocks.NewOtel(), perms, cfg)

	echo := func(w http.ResponseWriter, r *http.Request) {
		actor := gModel.ActorFromContext(r.Context())
		w.Header().Set("X-Actor", actor.ID+"/"+actor.Role)
		w.WriteHeader(http.StatusOK)
	}

	router := chi.NewRouter()
	router.Route("/v1", func(r chi.Router) {
		r.Use(mw.APIKey, mw.Auth, mw.RBAC)
		r.Post("/auth/login", echo)
		r.Get("/orders/kitchen/display", echo)
		r.Get("/events", echo)
	})

	return router
}

func TestAuthRole(t *testing.T) {
	kitchen := &jwt.Claims{UserID: "u-chef", Name: "Chef", Role: "kitchen", Type: jwt.AccessToken}
	cashier := &jwt.Claims{UserID: "u-cash", Name: "Casey", Role: "cashier", Type: jwt.AccessToken}

	tests := []struct {
		name      string
		method    string
		target    string
		headers   map[string]string
		setupMock func(m *jwtMocks.MockJWT)
		wantCode  int
		wantActor string
	}{
		{
			name:     "skipped route needs no token",
			method:   http.MethodPost,
			target:   "/v1/auth/login",
			wantCode: http.StatusOK,
		},
		{
			name:     "missing token",
			method:   http.MethodGet,
			target:   "/v1/orders/kitchen/display",
			wantCode: http.StatusUnauthorized,
		},
		{
			name:     "malformed header",
			method:   http.MethodGet,
			target:   "/v1/orders/kitchen/display",
			headers:  map[string]string{"Authorization": "Token abc"},
			wantCode: http.StatusUnauthorized,
		},
		{
			name:    "expired token",
			method:  http.MethodGet,
			target:  "/v1/orders/kitchen/display",
			headers: map[string]string{"Authorization": "Bearer old"},
			setupMock: func(m *jwtMocks.MockJWT) {
				m.EXPECT().ValidateToken(gomock.Any(), "old", jwt.AccessToken).Return(nil, jwt.ErrExpiredToken)
			},
			wantCode: http.StatusUnauthorized,
		},
		{
			name:    "allowed role",
			method:  http.MethodGet,
			target:  "/v1/orders/kitchen/display",
			headers: map[string]string{"Authorization": "Bearer good"},
			setupMock: func(m *jwtMocks.MockJWT) {
				m.EXPECT().ValidateToken(gomock.Any(), "good", jwt.AccessToken).Return(kitchen, nil)
			},
			wantCode:  http.StatusOK,
			wantActor: "u-chef/kitchen",
		},
		{
			name:    "role not allowed",
			method:  http.MethodGet,
			target:  "/v1/orders/kitchen/display",
			headers: map[string]string{"Authorization": "Bearer good"},
			setupMock: func(m *jwtMocks.MockJWT) {
				m.EXPECT().ValidateToken(gomock.Any(), "good", jwt.AccessToken).Return(cashier, nil)
			},
			wantCode: http.StatusForbidden,
		},
		{
			name:   "query token for event stream",
			method: http.MethodGet,
			target: "/v1/events?token=stream",
			setupMock: func(m *jwtMocks.MockJWT) {
				m.EXPECT().ValidateToken(gomock.Any(), "stream", jwt.AccessToken).Return(cashier, nil)
			},
			wantCode:  http.StatusOK,
			wantActor: "u-cash/cashier",
		},
		{
			name:      "internal api key bypasses token",
			method:    http.MethodGet,
			target:    "/v1/orders/kitchen/display",
			headers:   map[string]string{"X-API-Key": "internal-key"},
			wantCode:  http.StatusOK,
			wantActor: "system/admin",
		},
		{
			name:     "wrong api key",
			method:   http.MethodGet,
			target:   "/v1/orders/kitchen/display",
			headers:  map[string]string{"X-API-Key": "guess"},
			wantCode: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			jwtService := jwtMocks.NewMockJWT(gomock.NewController(t))
			if tt.setupMock != nil {
				tt.setupMock(jwtService)
			}

			req := httptest.NewRequest(tt.method, tt.target, nil)
			for key, value := range tt.headers {
				req.Header.Set(key, value)
			}

			rec := httptest.NewRecorder()
			newRouter(t, jwtService).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)

			if tt.wantActor != "" {
				assert.Equal(t, tt.wantActor, rec.Header().Get("X-Actor"))
			}
		})
	}
}

func TestRateLimit(t *testing.T) {
	cfg := &config.Config{}
	cfg.App.RateLimiter.Enable = true
	cfg.App.RateLimiter.MaxRequests = 2
	cfg.App.RateLimiter.WindowSeconds = 60

	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })

	tests := []struct {
		name      string
		target        string
		setupMock     func(m *cacheMocks.MockRedisCache)
		wantCode      int
		wantRemaining string
	}{
		{
			name: "first request",
			setupMock: func(m *cacheMocks.MockRedisCache) {
				m.EXPECT().Incr(gomock.Any(), "limiter:192.0.2.1:unknown", 60).Return(int64(1), nil)
			},
			wantCode:      http.StatusOK,
			wantRemaining: "1",
		},
		{
			name: "over the limit",
			setupMock: func(m *cacheMocks.MockRedisCache) {
				m.EXPECT().Incr(gomock.Any(), gomock.Any(), 60).Return(int64(3), nil)
			},
			wantCode:      http.StatusTooManyRequests,
			wantRemaining: "0",
		},
		{
			name: "cache down lets the request through",
			setupMock: func(m *cacheMocks.MockRedisCache) {
				m.EXPECT().Incr(gomock.Any(), gomock.Any(), 60).Return(int64(0), errors.New("redis down"))
			},
			wantCode: http.StatusOK,
		},
		{
			name:      "health probe is not counted",
			target:    "/health",
			setupMock: func(_ *cacheMocks.MockRedisCache) {},
			wantCode:  http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			redisCache := cacheMocks.NewMockRedisCache(gomock.NewController(t))
			tt.setupMock(redisCache)

			mw := middleware.NewAppMiddleware(mocks.NewOtel(), cfg, redisCache)

			target := tt.target
			if target == "" {
				target = "/v1/tables"
			}

			req := httptest.NewRequest(http.MethodGet, target, nil)
			req.RemoteAddr = "192.0.2.1:51234"

			rec := httptest.NewRecorder()
			mw.RateLimit()(ok).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantRemaining, rec.Header().Get("X-RateLimit-Remaining"))
		})
	}
}

func TestTracing(t *testing.T) {
	mw := middleware.NewAppMiddleware(mocks.NewOtel(), &config.Config{}, nil)

	handler := chiMiddleware.RequestID(mw.Tracing(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}
