package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"
	"restopos/config"
	"restopos/infras/otel"
	notificationModel "restopos/internal/domains/notification/model"
	notification "restopos/internal/domains/notification/service"
	"restopos/internal/domains/settings/model"
	"restopos/internal/domains/settings/model/dto"
	"restopos/internal/domains/settings/repository"
	"restopos/shared"
	"restopos/shared/cache"
	"restopos/shared/constant"
	"restopos/shared/failure"
	gModel "restopos/shared/model"
	gRepo "restopos/shared/repository"
	"restopos/shared/timezone"
	"time"

	"github.com/rs/zerolog/log"
)

const cacheCurrentSettings = "settings:current"

type Settings interface {
	Get(ctx context.Context) (dto.SettingsResponse, error)
	Update(ctx context.Context, req dto.UpdateSettingsRequest) (dto.SettingsResponse, error)
	Reset(ctx context.Context) (dto.SettingsResponse, error)
	// Current never fails. When the stored row cannot be read it returns the configured defaults.
	Current(ctx context.Context) model.Settings
}

type serviceImpl struct {
	repo        repository.Settings
	cache       cache.RedisCache
	broadcaster notification.Broadcaster
	cfg         *config.Config
	otel        otel.Otel
}

func New(repo repository.Settings, cache cache.RedisCache, broadcaster notification.Broadcaster, cfg *config.Config, otel otel.Otel) Settings {
	return &serviceImpl{
		repo:        repo,
		cache:       cache,
		broadcaster: broadcaster,
		cfg:         cfg,
		otel:        otel,
	}
}

func (s *serviceImpl) defaults(now time.Time) model.Settings {
	return model.New(model.Defaults{
		RestaurantName:          s.cfg.Restaurant.Name,
		Currency:                s.cfg.Restaurant.Currency,
		TaxRate:                 s.cfg.Restaurant.TaxRate,
		OrderNumberPrefix:       s.cfg.Restaurant.OrderNumberPrefix,
		ReservationNumberPrefix: s.cfg.Restaurant.ReservationNumberPrefix,
	}, constant.ContextSystem, now)
}

func (s *serviceImpl) Get(ctx context.Context) (res dto.SettingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	settings, err := s.load(ctx)
	if err != nil {
		return res, err
	}

	res.FromModel(settings)

	return res, nil
}

func (s *serviceImpl) Current(ctx context.Context) model.Settings {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Current")
	defer scope.End()

	settings, err := s.load(ctx)
	if err != nil {
		scope.TraceError(err)
		log.Warn().Err(err).Msg("falling back to configured settings")

		return s.defaults(timezone.Now())
	}

	return settings
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateSettingsRequest) (res dto.SettingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if req.Empty() {
		return res, failure.BadRequestFromString("update request cannot be empty") // nolint:wrapcheck
	}

	if err = req.Check(); err != nil {
		return res, err
	}

	current, err := s.load(ctx)
	if err != nil {
		return res, err
	}

	fields := req.ApplyTo(&current, gModel.ActorFromContext(ctx).ID, timezone.Now())

	if err = s.repo.Update(ctx, fields, shared.FilterByID(model.SingletonID, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to update settings")

		return res, fmt.Errorf("failed to update settings: %w", err)
	}

	s.invalidate(ctx)
	res.FromModel(current)

	s.broadcaster.Publish(ctx, notificationModel.EventSettingsUpdated, res)

	return res, nil
}

// Reset replaces the stored row with the configured defaults.
func (s *serviceImpl) Reset(ctx context.Context) (res dto.SettingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Reset")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	filter := shared.FilterByID(model.SingletonID, model.FieldID, model.TableName)

	if err = s.repo.Delete(ctx, filter); err != nil {
		log.Error().Err(err).Msg("failed to clear settings")

		return res, fmt.Errorf("failed to clear settings: %w", err)
	}

	s.invalidate(ctx)

	settings, err := s.seed(ctx, gModel.ActorFromContext(ctx).ID)
	if err != nil {
		return res, err
	}

	res.FromModel(settings)

	s.broadcaster.Publish(ctx, notificationModel.EventSettingsUpdated, res)

	return res, nil
}

// load reads the settings through the cache, creating the row on first use.
func (s *serviceImpl) load(ctx context.Context) (settings model.Settings, err error) {
	if err = s.cache.Get(ctx, cacheCurrentSettings, &settings); err == nil {
		return settings, nil
	}

	settings, err = s.repo.Get(ctx, shared.FilterByID(model.SingletonID, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get settings")

		return settings, fmt.Errorf("failed to get settings: %w", err)
	}

	if !settings.Stored() {
		settings, err = s.seed(ctx, constant.ContextSystem)
		if err != nil {
			return settings, err
		}
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheCurrentSettings, settings, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save settings to cache")
		}
	}()

	return settings, nil
}

func (s *serviceImpl) seed(ctx context.Context, actor string) (model.Settings, error) {
	settings := s.defaults(timezone.Now())
	settings.Metadata = gModel.NewMetadata(actor, settings.CreatedAt)

	err := s.repo.Insert(ctx, settings)
	if gRepo.IsUniqueViolation(err) {
		// another instance seeded the row first
		stored, getErr := s.repo.Get(ctx, shared.FilterByID(model.SingletonID, model.FieldID, model.TableName))
		if getErr != nil {
			log.Error().Err(getErr).Msg("failed to get settings")

			return stored, fmt.Errorf("failed to get settings: %w", getErr)
		}

		return stored, nil
	}

	if err != nil {
		log.Error().Err(err).Msg("failed to seed settings")

		return settings, fmt.Errorf("failed to seed settings: %w", err)
	}

	log.Info().Msg("settings seeded from configuration")

	return settings, nil
}

func (s *serviceImpl) invalidate(ctx context.Context) {
	if err := s.cache.Delete(ctx, cacheCurrentSettings); err != nil {
		log.Error().Err(err).Msg("failed to invalidate settings cache")
	}
}
