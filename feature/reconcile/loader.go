package reconcile

import (
	"stocktake-manager/feature/counting"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	service *Service
	handler *Handler
}

// NewFeature creates the reconcile feature on top of the counting service.
func NewFeature(logger *zap.Logger, db *gorm.DB, sessions *counting.Service) *Feature {
	svc := NewService(logger, db, sessions)
	return &Feature{service: svc, handler: NewHandler(svc, logger)}
}

// Service exposes the reconciliation service for the CLI commands.
func (f *Feature) Service() *Service {
	return f.service
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "reconcile"
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
