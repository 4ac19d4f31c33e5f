package service

import (
	"context"
	"fmt"
	"restopos/config"
	"restopos/infras/jwt"
	"restopos/infras/otel"
	"restopos/internal/domains/auth/model/dto"
	userModel "restopos/internal/domains/user/model"
	userDto "restopos/internal/domains/user/model/dto"
	userRepo "restopos/internal/domains/user/repository"
	"restopos/shared"
	"restopos/shared/constant"
	"restopos/shared/failure"
	gModel "restopos/shared/model"
	"restopos/shared/password"
	"restopos/shared/timezone"

	"github.com/rs/zerolog/log"
)

type Auth interface {
	Login(ctx context.Context, req dto.LoginRequest) (dto.LoginResponse, error)
	RefreshToken(ctx context.Context, req dto.RefreshTokenRequest) (dto.LoginResponse, error)
	Me(ctx context.Context) (userDto.UserResponse, error)
	ChangePassword(ctx context.Context, req dto.ChangePasswordRequest) error
}

type serviceImpl struct {
	userRepo   userRepo.User
	cfg        *config.Config
	otel       otel.Otel
	jwtService jwt.JWT
}

func New(userRepo userRepo.User, cfg *config.Config, otel otel.Otel, jwt jwt.JWT) Auth {
	return &serviceImpl{
		userRepo:   userRepo,
		cfg:        cfg,
		otel:       otel,
		jwtService: jwt,
	}
}

func (s *serviceImpl) Login(ctx context.Context, req dto.LoginRequest) (res dto.LoginResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Login")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	user, err := s.userRepo.Get(ctx, userRepo.ByEmail(req.Email))
	if err != nil {
		log.Error().Err(err).Msg("failed to get user")

		return res, fmt.Errorf("failed to get user: %w", err)
	}

	if user.ID == constant.Empty {
		log.Warn().Str("email", req.Email).Msg("login attempt with non-existent email")

		return res, failure.Unauthorized("invalid email or password") // nolint:wrapcheck
	}

	if err := password.Verify(req.Password, user.Password); err != nil {
		log.Warn().Str("email", req.Email).Msg("login attempt with wrong password")

		return res, failure.Unauthorized("invalid email or password") // nolint:wrapcheck
	}

	if !user.Active() {
		return res, failure.Unauthorized("user account is deactivated") // nolint:wrapcheck
	}

	if err = s.issue(ctx, user, &res); err != nil {
		return res, err
	}

	now := timezone.Now()
	user.LastLogin = &now

	fields := map[string]any{userModel.FieldLastLogin: now}
	if err := s.userRepo.Update(ctx, fields, shared.FilterByID(user.ID, userModel.FieldID, userModel.TableName)); err != nil {
		log.Warn().Err(err).Str("user_id", user.ID).Msg("failed to update last login")

		return res, fmt.Errorf("failed to update last login: %w", err)
	}

	res.User.FromModel(user)

	return res, nil
}

// RefreshToken rotates the token pair. The account is re-read so a deactivated user or a
// changed role takes effect on the next refresh.
func (s *serviceImpl) RefreshToken(ctx context.Context, req dto.RefreshTokenRequest) (res dto.LoginResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".RefreshToken")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	claims, err := s.jwtService.ValidateToken(ctx, req.RefreshToken, jwt.RefreshToken)
	if err != nil {
		log.Warn().Err(err).Msg("failed to validate refresh token")

		return res, failure.Unauthorized("invalid refresh token") // nolint:wrapcheck
	}

	user, err := s.find(ctx, claims.UserID)
	if err != nil {
		return res, err
	}

	if !user.Active() {
		return res, failure.Unauthorized("user account is deactivated") // nolint:wrapcheck
	}

	if err = s.issue(ctx, user, &res); err != nil {
		return res, err
	}

	res.User.FromModel(user)

	return res, nil
}

func (s *serviceImpl) Me(ctx context.Context) (res userDto.UserResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Me")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	user, err := s.find(ctx, gModel.ActorFromContext(ctx).ID)
	if err != nil {
		return res, err
	}

	res.FromModel(user)

	return res, nil
}

func (s *serviceImpl) ChangePassword(ctx context.Context, req dto.ChangePasswordRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ChangePassword")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	actor := gModel.ActorFromContext(ctx)

	user, err := s.find(ctx, actor.ID)
	if err != nil {
		return err
	}

	if err := password.Verify(req.CurrentPassword, user.Password); err != nil {
		return failure.BadRequestFromString("current password is incorrect") // nolint:wrapcheck
	}

	hashedPassword, err := password.Hash(req.NewPassword)
	if err != nil {
		log.Error().Err(err).Msg("failed to hash new password")

		return fmt.Errorf("failed to hash new password: %w", err)
	}

	updatedFields := shared.TransformFields(dto.UpdatePasswordRequest{Password: hashedPassword}, actor.ID)

	if err = s.userRepo.Update(ctx, updatedFields, shared.FilterByID(user.ID, userModel.FieldID, userModel.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to update password")

		return fmt.Errorf("failed to update password: %w", err)
	}

	return nil
}

func (s *serviceImpl) issue(ctx context.Context, user userModel.User, res *dto.LoginResponse) error {
	tokenPair, err := s.jwtService.GenerateTokenPair(ctx, jwt.Subject{
		UserID: user.ID,
		Name:   user.Name,
		Email:  user.Email,
		Role:   user.Role,
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to generate tokens")

		return fmt.Errorf("failed to generate tokens: %w", err)
	}

	res.FromTokenPair(tokenPair)

	return nil
}

func (s *serviceImpl) find(ctx context.Context, id string) (userModel.User, error) {
	user, err := s.userRepo.Get(ctx, shared.FilterByID(id, userModel.FieldID, userModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get user")

		return user, fmt.Errorf("failed to get user: %w", err)
	}

	if user.ID == constant.Empty {
		return user, failure.NotFound("user not found") // nolint:wrapcheck
	}

	return user, nil
}
