package service

import (
	"context"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"restopos/config"
	"restopos/infras/otel"
	"restopos/infras/s3"
	"restopos/internal/domains/menu/model"
	"restopos/internal/domains/menu/model/dto"
	"restopos/internal/domains/menu/repository"
	"restopos/shared"
	"restopos/shared/cache"
	"restopos/shared/constant"
	gDto "restopos/shared/dto"
	"restopos/shared/failure"
	gModel "restopos/shared/model"
	"restopos/shared/timezone"
	"strings"

	"github.com/rs/zerolog/log"
)

const (
	cacheGetMenu    = "menu:get"
	cacheGetAllMenu = "menu:get_all"
	cacheCountMenu  = "menu:count"
)

var sortableColumns = []string{
	model.FieldName,
	model.FieldPrice,
	model.FieldCategory,
	model.FieldPreparationTime,
	constant.FieldCreatedAt,
}

type Menu interface {
	Create(ctx context.Context, req dto.CreateMenuItemRequest) (dto.MenuItemResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter dto.MenuFilter) (dto.GetMenuItemsResponse, error)
	Get(ctx context.Context, id string) (dto.MenuItemResponse, error)
	Update(ctx context.Context, req dto.UpdateMenuItemRequest, id string) (dto.MenuItemResponse, error)
	SetAvailability(ctx context.Context, id string, available bool) (dto.MenuItemResponse, error)
	ReplaceImage(ctx context.Context, id string, header *multipart.FileHeader, file multipart.File) (dto.MenuItemResponse, error)
	Delete(ctx context.Context, id string) error
}

type serviceImpl struct {
	repo  repository.Menu
	cfg   *config.Config
	cache cache.RedisCache
	otel  otel.Otel
	s3    s3.S3
}

func New(repo repository.Menu, cfg *config.Config, cache cache.RedisCache, otel otel.Otel, s3 s3.S3) Menu {
	return &serviceImpl{
		repo:  repo,
		cfg:   cfg,
		cache: cache,
		otel:  otel,
		s3:    s3,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateMenuItemRequest) (res dto.MenuItemResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	actor := gModel.ActorFromContext(ctx)
	id := dto.NewID()

	imageURL := constant.Empty
	if req.Image != nil {
		imageURL, err = s.upload(ctx, id, req.Image, req.ImageFile)
		if err != nil {
			return res, err
		}
	}

	item := req.ToModel(id, imageURL, actor.ID, timezone.Now())

	if err = s.repo.Insert(ctx, item); err != nil {
		log.Error().Err(err).Msg("failed to create menu item")

		s.removeImage(ctx, imageURL)

		return res, fmt.Errorf("failed to create menu item: %w", err)
	}

	s.invalidate(ctx, constant.Empty)
	res.FromModel(item)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter dto.MenuFilter) (res dto.GetMenuItemsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	req.Sanitize(sortableColumns...).WithDefaults(constant.DefaultValueLimit, model.FieldName, gDto.SortDirAsc)
	group := filter.ToFilterGroup()

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllMenu, req, group)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for menu items")

		return res, nil
	}

	total, err := s.count(ctx, group)
	if err != nil {
		return res, err
	}

	models, err := s.repo.GetAll(ctx, req, group)
	if err != nil {
		log.Error().Err(err).Msg("failed to get menu items")

		return res, fmt.Errorf("failed to get menu items: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save menu items to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) count(ctx context.Context, group gDto.FilterGroup) (total int, err error) {
	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountMenu, gDto.QueryParams{}, group)

	if err = s.cache.Get(ctx, cacheKey, &total); err == nil {
		return total, nil
	}

	total, err = s.repo.Count(ctx, group)
	if err != nil {
		log.Error().Err(err).Msg("failed to count menu items")

		return total, fmt.Errorf("failed to count menu items: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, total, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save menu count to cache")
		}
	}()

	return total, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.MenuItemResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKey(cacheGetMenu, id)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for menu item")

		return res, nil
	}

	item, err := s.find(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(item)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save menu item to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateMenuItemRequest, id string) (res dto.MenuItemResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if req == (dto.UpdateMenuItemRequest{}) {
		return res, failure.BadRequestFromString("update request cannot be empty") // nolint:wrapcheck
	}

	if req.Price != nil {
		rounded := req.Price.Round(2)
		req.Price = &rounded
	}

	return s.update(ctx, id, shared.TransformFields(req, gModel.ActorFromContext(ctx).ID))
}

func (s *serviceImpl) SetAvailability(ctx context.Context, id string, available bool) (res dto.MenuItemResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".SetAvailability")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	actor := gModel.ActorFromContext(ctx)
	fields := gModel.NewMetadata(actor.ID, timezone.Now()).Fields()
	fields[model.FieldAvailable] = available

	return s.update(ctx, id, fields)
}

// ReplaceImage uploads a new picture for the item and removes the previous object once
// the row points at the new one.
func (s *serviceImpl) ReplaceImage(ctx context.Context, id string, header *multipart.FileHeader, file multipart.File) (res dto.MenuItemResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ReplaceImage")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	current, err := s.find(ctx, id)
	if err != nil {
		return res, err
	}

	imageURL, err := s.upload(ctx, id, header, file)
	if err != nil {
		return res, err
	}

	fields := gModel.NewMetadata(gModel.ActorFromContext(ctx).ID, timezone.Now()).Fields()
	fields[model.FieldImage] = imageURL

	res, err = s.update(ctx, id, fields)
	if err != nil {
		s.removeImage(ctx, imageURL)

		return res, err
	}

	if current.Image != imageURL {
		s.removeImage(ctx, current.Image)
	}

	return res, nil
}

func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	item, err := s.find(ctx, id)
	if err != nil {
		return err
	}

	if err = s.repo.Delete(ctx, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to delete menu item")

		return fmt.Errorf("failed to delete menu item: %w", err)
	}

	s.removeImage(ctx, item.Image)
	s.invalidate(ctx, id)

	return nil
}

func (s *serviceImpl) update(ctx context.Context, id string, fields map[string]any) (res dto.MenuItemResponse, err error) {
	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check menu item existence")

		return res, fmt.Errorf("failed to check menu item existence: %w", err)
	}

	if !exist {
		return res, failure.NotFound("menu item not found") // nolint:wrapcheck
	}

	if err = s.repo.Update(ctx, fields, filter); err != nil {
		log.Error().Err(err).Msg("failed to update menu item")

		return res, fmt.Errorf("failed to update menu item: %w", err)
	}

	s.invalidate(ctx, id)

	item, err := s.find(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(item)

	return res, nil
}

func (s *serviceImpl) find(ctx context.Context, id string) (model.MenuItem, error) {
	item, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get menu item")

		return item, fmt.Errorf("failed to get menu item: %w", err)
	}

	if item.ID == constant.Empty {
		return item, failure.NotFound("menu item not found") // nolint:wrapcheck
	}

	return item, nil
}

func (s *serviceImpl) upload(ctx context.Context, id string, header *multipart.FileHeader, file multipart.File) (string, error) {
	filename := id + strings.ToLower(filepath.Ext(header.Filename))

	url, err := s.s3.UploadFile(ctx, model.EntityName, filename, header.Header.Get(constant.RequestHeaderContentType), file)
	if err != nil {
		log.Error().Err(err).Msg("failed to upload menu image")

		return constant.Empty, fmt.Errorf("failed to upload menu image: %w", err)
	}

	return url, nil
}

// removeImage deletes an uploaded object in the background; failures are only logged.
func (s *serviceImpl) removeImage(ctx context.Context, url string) {
	if url == constant.Empty {
		return
	}

	key := s.s3.GetObjectKeyFromURL(url)
	if key == constant.Empty {
		return
	}

	go func() {
		if err := s.s3.DeleteFile(context.WithoutCancel(ctx), key); err != nil {
			log.Error().Err(err).Str("key", key).Msg("failed to delete menu image")
		}
	}()
}

func (s *serviceImpl) invalidate(ctx context.Context, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if id != constant.Empty {
			if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetMenu, id)); err != nil {
				log.Error().Err(err).Msg("failed to delete menu item cache")
			}
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllMenu)
		shared.InvalidateCaches(c, s.cache, cacheCountMenu)
	}()
}
