package middleware

import (
	"context"
	"errors"
	"net/http"
	"restopos/config"
	"restopos/infras/jwt"
	"restopos/infras/otel"
	"restopos/permissions"
	"restopos/shared/constant"
	"restopos/shared/failure"
	gModel "restopos/shared/model"
	"restopos/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type SkipAuthKey string

// Auth defines the interface for authentication middleware
type Auth interface {
	Auth(http.Handler) http.Handler
	APIKey(http.Handler) http.Handler
}

// Role defines the interface for role-based access control middleware
type Role interface {
	RBAC(http.Handler) http.Handler
}

// AuthRole combines all middleware interfaces
type AuthRole interface {
	Auth
	Role
}

type authRoleImpl struct {
	jwtService jwt.JWT
	otel       otel.Otel
	permission *permissions.PermissionData
	cfg        *config.Config
}

func NewAuthRoleMiddleware(jwtService jwt.JWT, otel otel.Otel, permissions *permissions.PermissionData, cfg *config.Config) AuthRole {
	return &authRoleImpl{
		jwtService: jwtService,
		otel:       otel,
		permission: permissions,
		cfg:        cfg,
	}
}

// Auth validates the bearer token and stores the actor in the request context.
// Browsers cannot set headers on an EventSource, so GET requests may pass the token as ?token=.
func (m *authRoleImpl) Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		ctx := request.Context()
		_, scope := m.otel.NewScope(ctx, constant.OtelHandlerScopeName, "auth.middleware")
		defer scope.End()

		if skip, _ := ctx.Value(SkipAuthKey("skip")).(bool); skip {
			next.ServeHTTP(writer, request)

			return
		}

		path := routePattern(request)

		if m.permission != nil && m.permission.FindPermissions(path, request.Method).Skip {
			next.ServeHTTP(writer, request)

			return
		}

		scope.SetAttributes(map[string]any{
			"middleware.type": "auth",
			"http.path":       path,
			"http.method":     request.Method,
		})

		tokenString, err := bearerToken(request)
		if err != nil {
			scope.TraceError(err)
			response.WithError(writer, err)

			return
		}

		claims, err := m.jwtService.ValidateToken(ctx, tokenString, jwt.AccessToken)
		if err != nil {
			err = failure.Unauthorized(tokenMessage(err))

			scope.TraceError(err)
			response.WithError(writer, err)

			return
		}

		if claims.UserID == "" || claims.Role == "" {
			log.Error().Str("user_id", claims.UserID).Msg("JWT claims: subject or role is empty")

			response.WithError(writer, failure.Unauthorized("Invalid token claims"))

			return
		}

		ctx = gModel.WithActor(ctx, gModel.Actor{ID: claims.UserID, Name: claims.Name, Role: claims.Role})
		ctx = context.WithValue(ctx, constant.ContextKeyUserEmail, claims.Email)
		ctx = context.WithValue(ctx, constant.ContextKeyTokenID, claims.TokenID)

		next.ServeHTTP(writer, request.WithContext(ctx))
	})
}

// RBAC checks the actor's role against the route's allowed roles.
// Requires prior authentication via Auth middleware
func (m *authRoleImpl) RBAC(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		ctx := request.Context()
		_, scope := m.otel.NewScope(ctx, constant.OtelHandlerScopeName, "rbac.middleware")
		defer scope.End()

		if skip, _ := ctx.Value(SkipAuthKey("skip")).(bool); skip {
			next.ServeHTTP(writer, request)

			return
		}

		if m.permission == nil {
			response.WithError(writer, failure.ForbiddenError)

			return
		}

		permission := m.permission.FindPermissions(routePattern(request), request.Method)

		if m.permission.Skip || permission.Skip {
			next.ServeHTTP(writer, request)

			return
		}

		role := gModel.ActorFromContext(ctx).Role

		if !permission.Allows(role) {
			err := failure.ForbiddenError.WithDetails(map[string]any{"role": role})

			scope.TraceError(err)
			scope.SetAttributes(map[string]any{
				"user_role":     role,
				"allowed_roles": permission.Permissions,
				"reason":        "role_not_allowed",
			})
			response.WithError(writer, err)

			return
		}

		next.ServeHTTP(writer, request)
	})
}

// APIKey for internal service-to-service authentication using API key
func (m *authRoleImpl) APIKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		ctx := request.Context()
		_, scope := m.otel.NewScope(ctx, constant.OtelHandlerScopeName, "api_key.middleware")
		defer scope.End()

		apiKey := request.Header.Get(constant.RequestHeaderAPIKey)

		if apiKey == "" {
			scope.SetAttribute("http.source", "client")
			next.ServeHTTP(writer, request)

			return
		}

		scope.SetAttribute("http.source", "internal")

		if m.cfg.App.APIKey == "" || apiKey != m.cfg.App.APIKey {
			scope.TraceError(failure.ForbiddenError)
			response.WithError(writer, failure.ForbiddenError)

			return
		}

		ctx = context.WithValue(ctx, SkipAuthKey("skip"), true)
		ctx = gModel.WithActor(ctx, gModel.Actor{ID: constant.ContextSystem, Name: constant.ContextSystem, Role: constant.RoleAdmin})

		next.ServeHTTP(writer, request.WithContext(ctx))
	})
}

func routePattern(request *http.Request) string {
	rctx := chi.RouteContext(request.Context())
	if rctx == nil {
		return request.URL.Path
	}

	return rctx.Routes.Find(chi.NewRouteContext(), request.Method, request.URL.Path)
}

func bearerToken(request *http.Request) (string, error) {
	authHeader := request.Header.Get(constant.RequestHeaderAuthorization)

	if authHeader == "" {
		if token := request.URL.Query().Get(constant.RequestParamToken); token != "" && request.Method == http.MethodGet {
			return token, nil
		}

		return "", failure.Unauthorized("Missing authorization header")
	}

	token, err := jwt.ExtractTokenFromHeader(authHeader)
	if err != nil {
		return "", failure.Unauthorized("Invalid authorization header format")
	}

	return token, nil
}

func tokenMessage(err error) string {
	switch {
	case errors.Is(err, jwt.ErrExpiredToken):
		return "Token has expired"
	case errors.Is(err, jwt.ErrInvalidToken):
		return "Invalid token"
	case errors.Is(err, jwt.ErrInvalidClaim):
		return "Invalid token claims"
	default:
		return "Token validation failed"
	}
}
