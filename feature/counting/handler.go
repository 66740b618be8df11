package counting

import (
	"errors"

	"stocktake-manager/core/logger"
	"stocktake-manager/feature/catalog"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for counting sessions and the ledger.
type Handler struct {
	service *Service
	catalog *catalog.Service
	logger  *zap.Logger
}

// NewHandler creates a new HTTP handler. The catalog service resolves
// free-text product terms from the counting screen before the ledger is
// touched.
func NewHandler(service *Service, catalogSvc *catalog.Service, l *zap.Logger) *Handler {
	return &Handler{service: service, catalog: catalogSvc, logger: l}
}

// RegisterRoutes registers the counting routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/counting")
	group.Post("/sessions", h.HandleCreateSession)
	group.Get("/sessions", h.HandleListSessions)
	group.Get("/sessions/:id", h.HandleGetSession)
	group.Post("/sessions/:id/finalize", h.HandleFinalize)
	group.Post("/sessions/:id/cancel", h.HandleCancel)
	group.Post("/sessions/:id/items", h.HandleIncrement)
	group.Put("/sessions/:id/items/:productID", h.HandleSetAbsolute)
	group.Delete("/sessions/:id/items/:productID", h.HandleRemove)
	group.Get("/sessions/:id/movements", h.HandleListMovements)
	group.Get("/sessions/:id/movements/summary", h.HandleMovementSummary)
	group.Get("/sessions/:id/verify", h.HandleVerify)
	group.Get("/products/:id/stock", h.HandleCurrentStock)
}

// statusFor maps engine errors to HTTP statuses. Unknown errors are 500s.
func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrInvalidQuantity), errors.Is(err, ErrInvalidNumber):
		return fiber.StatusBadRequest
	case errors.Is(err, ErrItemNotFound), errors.Is(err, ErrSessionNotFound), errors.Is(err, catalog.ErrProductNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, ErrSessionNotOpen):
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

func (h *Handler) fail(c *fiber.Ctx, err error, msg string) error {
	status := statusFor(err)
	if status == fiber.StatusInternalServerError {
		logger.WithRayID(h.logger, c).Error(msg, zap.Error(err))
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

func (h *Handler) sessionID(c *fiber.Ctx) (uint, bool) {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return 0, false
	}
	return uint(id), true
}

// CreateSessionRequest is the body for creating a session.
type CreateSessionRequest struct {
	Name      string `json:"name"`
	Number    int    `json:"number"`
	Scope     []uint `json:"scope,omitempty"`
	Notes     string `json:"notes,omitempty"`
	CreatedBy string `json:"created_by,omitempty"`
}

// HandleCreateSession creates a new count session.
// @Summary Create session
// @Description Create a new open counting session. Name collisions are resolved with a numeric suffix.
// @Tags counting
// @Accept json
// @Produce json
// @Param request body CreateSessionRequest true "Session"
// @Success 201 {object} models.CountSession "Created session"
// @Failure 400 {object} map[string]string "Bad Request"
// @Router /counting/sessions [post]
func (h *Handler) HandleCreateSession(c *fiber.Ctx) error {
	var req CreateSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	session, err := h.service.CreateSession(c.Context(), CreateSessionInput{
		Name:      req.Name,
		Number:    req.Number,
		Scope:     req.Scope,
		Notes:     req.Notes,
		CreatedBy: req.CreatedBy,
	})
	if err != nil {
		return h.fail(c, err, "Session creation failed")
	}
	return c.Status(fiber.StatusCreated).JSON(session)
}

// HandleListSessions lists all sessions.
// @Summary List sessions
// @Tags counting
// @Produce json
// @Success 200 {array} models.CountSession "Sessions"
// @Router /counting/sessions [get]
func (h *Handler) HandleListSessions(c *fiber.Ctx) error {
	sessions, err := h.service.ListSessions(c.Context())
	if err != nil {
		return h.fail(c, err, "Session list failed")
	}
	return c.JSON(sessions)
}

// HandleGetSession returns one session with its items and progress stats.
// @Summary Get session
// @Tags counting
// @Produce json
// @Param id path int true "Session ID"
// @Success 200 {object} map[string]any "Session detail"
// @Failure 404 {object} map[string]string "Not Found"
// @Router /counting/sessions/{id} [get]
func (h *Handler) HandleGetSession(c *fiber.Ctx) error {
	id, ok := h.sessionID(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid session id"})
	}

	session, err := h.service.GetSession(c.Context(), id)
	if err != nil {
		return h.fail(c, err, "Session lookup failed")
	}
	items, err := h.service.ListItems(c.Context(), id)
	if err != nil {
		return h.fail(c, err, "Item list failed")
	}
	stats, err := h.service.Stats(c.Context(), id)
	if err != nil {
		return h.fail(c, err, "Session stats failed")
	}

	return c.JSON(fiber.Map{"session": session, "items": items, "stats": stats})
}

// HandleFinalize finalizes an open session.
// @Summary Finalize session
// @Description Move a session to finalized; it becomes read-only and eligible for aggregation.
// @Tags counting
// @Produce json
// @Param id path int true "Session ID"
// @Success 200 {object} map[string]string "Status"
// @Failure 409 {object} map[string]string "Not open"
// @Router /counting/sessions/{id}/finalize [post]
func (h *Handler) HandleFinalize(c *fiber.Ctx) error {
	id, ok := h.sessionID(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid session id"})
	}
	if err := h.service.FinalizeSession(c.Context(), id, c.Query("editor")); err != nil {
		return h.fail(c, err, "Session finalize failed")
	}
	return c.JSON(fiber.Map{"status": "finalized"})
}

// HandleCancel cancels an open session.
// @Summary Cancel session
// @Description Move a session to cancelled; it is excluded from all aggregation.
// @Tags counting
// @Produce json
// @Param id path int true "Session ID"
// @Success 200 {object} map[string]string "Status"
// @Failure 409 {object} map[string]string "Not open"
// @Router /counting/sessions/{id}/cancel [post]
func (h *Handler) HandleCancel(c *fiber.Ctx) error {
	id, ok := h.sessionID(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid session id"})
	}
	if err := h.service.CancelSession(c.Context(), id, c.Query("editor")); err != nil {
		return h.fail(c, err, "Session cancel failed")
	}
	return c.JSON(fiber.Map{"status": "cancelled"})
}

// ItemRequest is the body for ledger mutations. Either ProductID or Search
// must be set; Search is resolved through the catalog like a barcode scan.
type ItemRequest struct {
	ProductID uint   `json:"product_id,omitempty"`
	Search    string `json:"search,omitempty"`
	Quantity  int    `json:"quantity"`
	Editor    string `json:"editor,omitempty"`
}

func (h *Handler) resolveProduct(c *fiber.Ctx, req *ItemRequest) (uint, error) {
	if req.ProductID != 0 {
		return req.ProductID, nil
	}
	product, err := h.catalog.Resolve(c.Context(), req.Search)
	if err != nil {
		return 0, err
	}
	return product.ID, nil
}

// HandleIncrement adds a counted quantity to a product in a session.
// @Summary Count product
// @Description Add a quantity to the counted total of a product (barcode-scan semantics: repeated calls accumulate).
// @Tags counting
// @Accept json
// @Produce json
// @Param id path int true "Session ID"
// @Param request body ItemRequest true "Product and quantity"
// @Success 200 {object} models.CountItem "Updated item"
// @Failure 400 {object} map[string]string "Invalid quantity"
// @Failure 404 {object} map[string]string "Unknown product or session"
// @Failure 409 {object} map[string]string "Session not open"
// @Router /counting/sessions/{id}/items [post]
func (h *Handler) HandleIncrement(c *fiber.Ctx) error {
	id, ok := h.sessionID(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid session id"})
	}
	var req ItemRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	productID, err := h.resolveProduct(c, &req)
	if err != nil {
		return h.fail(c, err, "Product resolution failed")
	}

	item, err := h.service.Increment(c.Context(), id, productID, req.Quantity, req.Editor)
	if err != nil {
		return h.fail(c, err, "Increment failed")
	}
	return c.JSON(item)
}

// HandleSetAbsolute overwrites the counted quantity of an existing item.
// @Summary Correct counted quantity
// @Description Administrative correction: overwrite (not accumulate) the counted quantity of an existing item.
// @Tags counting
// @Accept json
// @Produce json
// @Param id path int true "Session ID"
// @Param productID path int true "Product ID"
// @Param request body ItemRequest true "New quantity"
// @Success 200 {object} models.CountItem "Updated item"
// @Failure 404 {object} map[string]string "Item not found"
// @Router /counting/sessions/{id}/items/{productID} [put]
func (h *Handler) HandleSetAbsolute(c *fiber.Ctx) error {
	id, ok := h.sessionID(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid session id"})
	}
	productID, err := c.ParamsInt("productID")
	if err != nil || productID < 1 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid product id"})
	}
	var req ItemRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	item, err := h.service.SetAbsolute(c.Context(), id, uint(productID), req.Quantity, req.Editor)
	if err != nil {
		return h.fail(c, err, "Absolute correction failed")
	}
	return c.JSON(item)
}

// HandleRemove deletes a counted item; its movements remain.
// @Summary Remove counted item
// @Tags counting
// @Produce json
// @Param id path int true "Session ID"
// @Param productID path int true "Product ID"
// @Success 200 {object} map[string]string "Status"
// @Failure 404 {object} map[string]string "Item not found"
// @Router /counting/sessions/{id}/items/{productID} [delete]
func (h *Handler) HandleRemove(c *fiber.Ctx) error {
	id, ok := h.sessionID(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid session id"})
	}
	productID, err := c.ParamsInt("productID")
	if err != nil || productID < 1 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid product id"})
	}

	if err := h.service.Remove(c.Context(), id, uint(productID), c.Query("editor")); err != nil {
		return h.fail(c, err, "Item removal failed")
	}
	return c.JSON(fiber.Map{"status": "removed"})
}

// HandleListMovements lists the ledger of a session.
// @Summary List movements
// @Tags counting
// @Produce json
// @Param id path int true "Session ID"
// @Param kind query string false "Filter by kind (add, modify, delete)"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {array} models.Movement "Movements"
// @Router /counting/sessions/{id}/movements [get]
func (h *Handler) HandleListMovements(c *fiber.Ctx) error {
	id, ok := h.sessionID(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid session id"})
	}
	movements, err := h.service.ListMovements(c.Context(), id, c.Query("kind"), c.QueryInt("limit"), c.QueryInt("offset"))
	if err != nil {
		return h.fail(c, err, "Movement list failed")
	}
	return c.JSON(movements)
}

// HandleMovementSummary summarizes a session's ledger activity.
// @Summary Movement summary
// @Tags counting
// @Produce json
// @Param id path int true "Session ID"
// @Success 200 {object} MovementSummary "Summary"
// @Router /counting/sessions/{id}/movements/summary [get]
func (h *Handler) HandleMovementSummary(c *fiber.Ctx) error {
	id, ok := h.sessionID(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid session id"})
	}
	summary, err := h.service.SummarizeMovements(c.Context(), id)
	if err != nil {
		return h.fail(c, err, "Movement summary failed")
	}
	return c.JSON(summary)
}

// HandleVerify replays the session ledger and reports mismatches.
// @Summary Verify ledger
// @Description Fold every product's movement log and compare against the cached quantities.
// @Tags counting
// @Produce json
// @Param id path int true "Session ID"
// @Success 200 {object} LedgerReport "Report"
// @Router /counting/sessions/{id}/verify [get]
func (h *Handler) HandleVerify(c *fiber.Ctx) error {
	id, ok := h.sessionID(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid session id"})
	}
	report, err := h.service.VerifyLedger(c.Context(), id)
	if err != nil {
		return h.fail(c, err, "Ledger verification failed")
	}
	return c.JSON(report)
}

// HandleCurrentStock returns the product quantity from the latest
// finalized session containing it.
// @Summary Current stock
// @Tags counting
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} map[string]int "Quantity"
// @Router /counting/products/{id}/stock [get]
func (h *Handler) HandleCurrentStock(c *fiber.Ctx) error {
	productID, err := c.ParamsInt("id")
	if err != nil || productID < 1 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid product id"})
	}
	quantity, err := h.service.CurrentStock(c.Context(), uint(productID))
	if err != nil {
		return h.fail(c, err, "Stock lookup failed")
	}
	return c.JSON(fiber.Map{"quantity": quantity})
}
