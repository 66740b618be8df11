package catalog

import (
	"errors"

	"stocktake-manager/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for the catalog.
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service, l *zap.Logger) *Handler {
	return &Handler{service: service, logger: l}
}

// RegisterRoutes registers the catalog routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/catalog")
	group.Get("/products", h.HandleList)
	group.Get("/products/search", h.HandleSearch)
	group.Get("/products/:id", h.HandleGet)
}

// HandleList returns a page of catalog products.
// @Summary List products
// @Description List catalog products ordered by name.
// @Tags catalog
// @Produce json
// @Param limit query int false "Page size (default 100)"
// @Param offset query int false "Page offset"
// @Success 200 {object} map[string]any "Products and total"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /catalog/products [get]
func (h *Handler) HandleList(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)

	products, total, err := h.service.List(c.Context(), c.QueryInt("limit"), c.QueryInt("offset"))
	if err != nil {
		l.Error("Catalog list failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"total": total, "products": products})
}

// HandleSearch returns products matching a free-text term.
// @Summary Search products
// @Description Search products by barcode, code, name, brand or attribute.
// @Tags catalog
// @Produce json
// @Param q query string true "Search term"
// @Param limit query int false "Maximum results (default 20)"
// @Success 200 {array} models.Product "Matching products"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /catalog/products/search [get]
func (h *Handler) HandleSearch(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)

	products, err := h.service.Search(c.Context(), c.Query("q"), c.QueryInt("limit"))
	if err != nil {
		l.Error("Catalog search failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(products)
}

// HandleGet returns one product by id.
// @Summary Get product
// @Description Get a single catalog product.
// @Tags catalog
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} models.Product "Product"
// @Failure 404 {object} map[string]string "Not Found"
// @Router /catalog/products/{id} [get]
func (h *Handler) HandleGet(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid product id"})
	}

	product, err := h.service.Get(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, ErrProductNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		}
		logger.WithRayID(h.logger, c).Error("Catalog get failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(product)
}
