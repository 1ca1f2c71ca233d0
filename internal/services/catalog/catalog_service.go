// Package catalog serves the visa-type catalog. Reads go through an
// optional Redis cache: fee lookups happen on every order creation, and
// catalog rows change rarely.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"

	"github.com/visadesk/backend/internal/apperrors"
	"github.com/visadesk/backend/internal/database"
)

const cacheTTL = 10 * time.Minute

// CatalogService resolves visa types by id and lists the catalog.
type CatalogService struct {
	db    *gorm.DB
	cache *redis.Client // nil disables caching
}

// NewCatalogService creates a catalog service. cache may be nil.
func NewCatalogService(db *gorm.DB, cache *redis.Client) *CatalogService {
	return &CatalogService{db: db, cache: cache}
}

// ListVisaTypes returns every catalog entry ordered by name.
func (s *CatalogService) ListVisaTypes() ([]database.VisaType, error) {
	var types []database.VisaType
	if err := s.db.Order("name asc").Find(&types).Error; err != nil {
		return nil, apperrors.Server("failed to list visa types", err)
	}
	return types, nil
}

// GetVisaType resolves a visa type by id, consulting the cache first.
// Cache failures fall back to the database silently.
func (s *CatalogService) GetVisaType(ctx context.Context, id uuid.UUID) (*database.VisaType, error) {
	if cached := s.cacheGet(ctx, id); cached != nil {
		return cached, nil
	}

	var visaType database.VisaType
	if err := s.db.First(&visaType, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.Validation("visa type does not exist")
		}
		return nil, apperrors.Server("failed to load visa type", err)
	}

	s.cacheSet(ctx, &visaType)
	return &visaType, nil
}

// CreateVisaType inserts a catalog entry, deriving the slug from the
// name. Used by seeding and admin tooling; there is no public CRUD
// surface for the catalog.
func (s *CatalogService) CreateVisaType(visaType *database.VisaType) error {
	if visaType.Fee <= 0 {
		return apperrors.Validation("visa type fee must be positive")
	}
	if visaType.Slug == "" {
		visaType.Slug = slug.Make(visaType.Name)
	}
	if err := s.db.Create(visaType).Error; err != nil {
		return apperrors.Server("failed to create visa type", err)
	}
	return nil
}

func cacheKey(id uuid.UUID) string {
	return "visa_type:" + id.String()
}

func (s *CatalogService) cacheGet(ctx context.Context, id uuid.UUID) *database.VisaType {
	if s.cache == nil {
		return nil
	}
	payload, err := s.cache.Get(ctx, cacheKey(id)).Bytes()
	if err != nil {
		return nil
	}
	var visaType database.VisaType
	if err := json.Unmarshal(payload, &visaType); err != nil {
		return nil
	}
	return &visaType
}

func (s *CatalogService) cacheSet(ctx context.Context, visaType *database.VisaType) {
	if s.cache == nil {
		return
	}
	payload, err := json.Marshal(visaType)
	if err != nil {
		return
	}
	s.cache.Set(ctx, cacheKey(visaType.ID), payload, cacheTTL)
}
