package counting

import (
	"stocktake-manager/feature/catalog"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	service *Service
	handler *Handler
}

// NewFeature creates the counting feature.
func NewFeature(logger *zap.Logger, db *gorm.DB, catalogSvc *catalog.Service) *Feature {
	svc := NewService(logger, db)
	h := NewHandler(svc, catalogSvc, logger)
	return &Feature{service: svc, handler: h}
}

// Service exposes the counting service for other features.
func (f *Feature) Service() *Service {
	return f.service
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "counting"
}

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool {
	return true
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}
