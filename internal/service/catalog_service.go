package service

import (
	"context"
	"encoding/json"
	"io"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/marketplace-service/internal/domain"
	"github.com/spec-kit/marketplace-service/internal/repository"
	"github.com/spec-kit/marketplace-service/internal/storage"
	apperrors "github.com/spec-kit/marketplace-service/pkg/util"
)

const catalogCacheKey = "catalog:services"

// CatalogService manages the admin-curated service catalog. Listings are
// served through a Redis read-through cache invalidated on every admin write.
type CatalogService struct {
	services repository.ServiceRepository
	requests repository.RequestRepository
	blobs    storage.BlobStore
	cache    *redis.Client
	cacheTTL time.Duration
	logger   *zap.Logger
}

// CatalogDependencies bundles collaborators for the catalog service.
type CatalogDependencies struct {
	ServiceRepo repository.ServiceRepository
	RequestRepo repository.RequestRepository
	BlobStore   storage.BlobStore
	Cache       *redis.Client
	CacheTTL    time.Duration
}

// ServiceInput describes create/update payloads.
type ServiceInput struct {
	Name        string
	Description string
	BasePrice   float64
}

// NewCatalogService constructs the service.
func NewCatalogService(deps CatalogDependencies, logger *zap.Logger) *CatalogService {
	return &CatalogService{
		services: deps.ServiceRepo,
		requests: deps.RequestRepo,
		blobs:    deps.BlobStore,
		cache:    deps.Cache,
		cacheTTL: deps.CacheTTL,
		logger:   logger,
	}
}

// Create adds a catalog entry. Admin only; negative base prices are rejected.
func (s *CatalogService) Create(ctx context.Context, actor *domain.User, input ServiceInput) (*domain.Service, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if err := validateServiceInput(input); err != nil {
		return nil, err
	}

	service := &domain.Service{
		Name:        strings.TrimSpace(input.Name),
		Description: strings.TrimSpace(input.Description),
		BasePrice:   input.BasePrice,
	}
	if err := s.services.Create(ctx, service); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.invalidateCache(ctx)
	return service, nil
}

// Update edits a catalog entry with the same validation as Create.
func (s *CatalogService) Update(ctx context.Context, actor *domain.User, id string, input ServiceInput) (*domain.Service, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if err := validateServiceInput(input); err != nil {
		return nil, err
	}

	service, err := s.services.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	service.Name = strings.TrimSpace(input.Name)
	service.Description = strings.TrimSpace(input.Description)
	service.BasePrice = input.BasePrice
	if err := s.services.Update(ctx, service); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.invalidateCache(ctx)
	return service, nil
}

// Delete removes a catalog entry. A service still referenced by a
// non-terminal request cannot be deleted.
func (s *CatalogService) Delete(ctx context.Context, actor *domain.User, id string) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}

	service, err := s.services.GetByID(ctx, id)
	if err != nil {
		return apperrors.MapError(err)
	}

	open, err := s.requests.CountOpenByService(ctx, id)
	if err != nil {
		return apperrors.MapError(err)
	}
	if open > 0 {
		return apperrors.NewConflict("service has open requests", map[string]any{
			"service_id":    id,
			"open_requests": open,
		})
	}

	if err := s.services.Delete(ctx, id); err != nil {
		return apperrors.MapError(err)
	}
	if service.ImagePath != nil && s.blobs != nil {
		if err := s.blobs.Remove(ctx, *service.ImagePath); err != nil {
			s.logger.Warn("failed to remove service image", zap.Error(err))
		}
	}
	s.invalidateCache(ctx)
	return nil
}

// AttachImage stores the uploaded image and records its relative path.
func (s *CatalogService) AttachImage(ctx context.Context, actor *domain.User, id, filename string, content io.Reader) (*domain.Service, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if s.blobs == nil {
		return nil, apperrors.NewInternalError(nil)
	}

	service, err := s.services.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	relPath, err := s.blobs.Save(ctx, filename, content)
	if err != nil {
		return nil, apperrors.NewValidationError("could not store image", map[string]any{"reason": err.Error()})
	}
	if service.ImagePath != nil {
		if err := s.blobs.Remove(ctx, *service.ImagePath); err != nil {
			s.logger.Warn("failed to remove previous image", zap.Error(err))
		}
	}
	service.ImagePath = &relPath
	if err := s.services.Update(ctx, service); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.invalidateCache(ctx)
	return service, nil
}

// Get fetches a single catalog entry. Any authenticated role may read.
func (s *CatalogService) Get(ctx context.Context, id string) (*domain.Service, error) {
	service, err := s.services.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return service, nil
}

// List returns the catalog, preferring the cache when it is warm.
func (s *CatalogService) List(ctx context.Context) ([]domain.Service, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, catalogCacheKey).Bytes()
		if err == nil {
			var services []domain.Service
			if jsonErr := json.Unmarshal(cached, &services); jsonErr == nil {
				return services, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn("catalog cache read failed", zap.Error(err))
		}
	}

	services, err := s.services.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	if s.cache != nil && s.cacheTTL > 0 {
		if payload, err := json.Marshal(services); err == nil {
			if err := s.cache.Set(ctx, catalogCacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn("catalog cache write failed", zap.Error(err))
			}
		}
	}
	return services, nil
}

func (s *CatalogService) invalidateCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, catalogCacheKey).Err(); err != nil {
		s.logger.Warn("catalog cache invalidation failed", zap.Error(err))
	}
}

func validateServiceInput(input ServiceInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return apperrors.NewValidationError("service name required", nil)
	}
	if input.BasePrice < 0 {
		return apperrors.NewValidationError("base price cannot be negative", map[string]any{
			"base_price": input.BasePrice,
		})
	}
	return nil
}
