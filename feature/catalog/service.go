package catalog

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"stocktake-manager/feature/catalog/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Service provides read access to the product catalog.
type Service struct {
	logger *zap.Logger
	db     *gorm.DB
}

// NewService creates a new catalog service.
func NewService(logger *zap.Logger, db *gorm.DB) *Service {
	return &Service{logger: logger, db: db}
}

// Get returns one product by id.
func (s *Service) Get(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	if err := s.db.WithContext(ctx).First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return &product, nil
}

// List returns a page of products ordered by name.
func (s *Service) List(ctx context.Context, limit, offset int) ([]models.Product, int64, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	var total int64
	if err := s.db.WithContext(ctx).Model(&models.Product{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var products []models.Product
	err := s.db.WithContext(ctx).
		Order("name").
		Limit(limit).
		Offset(offset).
		Find(&products).Error
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// ListIDs enumerates every catalog product id, active or not. The
// reconciliation aggregator uses it to emit one variance line per product.
func (s *Service) ListIDs(ctx context.Context) ([]uint, error) {
	var ids []uint
	if err := s.db.WithContext(ctx).Model(&models.Product{}).Order("id").Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// Resolve finds the single product best matching a counting-screen term.
// Numeric terms are tried against id, barcode and code first; any term
// then falls back to a case-insensitive contains match over the
// identifying and descriptive columns. Inactive products are findable:
// counters scan whatever is on the shelf.
func (s *Service) Resolve(ctx context.Context, term string) (*models.Product, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, ErrProductNotFound
	}

	db := s.db.WithContext(ctx)

	if n, err := strconv.ParseUint(term, 10, 64); err == nil {
		var product models.Product
		err := db.Where("id = ? OR barcode = ? OR code = ?", n, term, term).
			First(&product).Error
		if err == nil {
			return &product, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	like := "%" + term + "%"
	var product models.Product
	err := db.Where(
		"barcode LIKE ? OR code LIKE ? OR name LIKE ? OR brand LIKE ? OR description LIKE ? OR attribute LIKE ?",
		like, like, like, like, like, like,
	).First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return &product, nil
}

// Search returns up to limit products matching the term, for pick lists.
func (s *Service) Search(ctx context.Context, term string, limit int) ([]models.Product, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, nil
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	like := "%" + term + "%"
	var products []models.Product
	err := s.db.WithContext(ctx).Where(
		"barcode LIKE ? OR code LIKE ? OR name LIKE ? OR brand LIKE ? OR attribute LIKE ?",
		like, like, like, like, like,
	).Order("name").Limit(limit).Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}
