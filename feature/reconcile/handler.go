package reconcile

import (
	"errors"
	"strconv"

	"stocktake-manager/core/logger"
	"stocktake-manager/core/utils"
	"stocktake-manager/feature/counting"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for reconciliation sheets.
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service, l *zap.Logger) *Handler {
	return &Handler{service: service, logger: l}
}

// RegisterRoutes registers the reconciliation routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/reconcile")
	group.Post("/sheets", h.HandleCreateSheet)
	group.Get("/sheets", h.HandleListSheets)
	group.Get("/sheets/:id", h.HandleGetSheet)
	group.Post("/sheets/:id/snapshots/:slot", h.HandleIngestSnapshot)
	group.Post("/sheets/:id/recompute", h.HandleRecompute)
	group.Post("/sheets/:id/recount", h.HandleRecount)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrInvalidSlot), errors.Is(err, ErrNoProducts), errors.Is(err, counting.ErrInvalidNumber):
		return fiber.StatusBadRequest
	case errors.Is(err, ErrSheetNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, ErrInvalidTarget):
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

func (h *Handler) sheetID(c *fiber.Ctx) (uint, bool) {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return 0, false
	}
	return uint(id), true
}

// CreateSheetRequest is the body for creating a sheet.
type CreateSheetRequest struct {
	Name         string `json:"name"`
	System1Label string `json:"system1_label,omitempty"`
	System2Label string `json:"system2_label,omitempty"`
	Owner        string `json:"owner,omitempty"`
	Notes        string `json:"notes,omitempty"`
}

// HandleCreateSheet creates a new reconciliation sheet.
// @Summary Create sheet
// @Tags reconcile
// @Accept json
// @Produce json
// @Param request body CreateSheetRequest true "Sheet"
// @Success 201 {object} models.ReconciliationSheet "Created sheet"
// @Failure 400 {object} map[string]string "Bad Request"
// @Router /reconcile/sheets [post]
func (h *Handler) HandleCreateSheet(c *fiber.Ctx) error {
	var req CreateSheetRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	sheet, err := h.service.CreateSheet(c.Context(), CreateSheetInput{
		Name:         req.Name,
		System1Label: req.System1Label,
		System2Label: req.System2Label,
		Owner:        req.Owner,
		Notes:        req.Notes,
	})
	if err != nil {
		return h.fail(c, err, "Sheet creation failed")
	}
	return c.Status(fiber.StatusCreated).JSON(sheet)
}

// HandleListSheets lists all sheets.
// @Summary List sheets
// @Tags reconcile
// @Produce json
// @Success 200 {array} models.ReconciliationSheet "Sheets"
// @Router /reconcile/sheets [get]
func (h *Handler) HandleListSheets(c *fiber.Ctx) error {
	sheets, err := h.service.ListSheets(c.Context())
	if err != nil {
		return h.fail(c, err, "Sheet list failed")
	}
	return c.JSON(sheets)
}

// HandleGetSheet returns a sheet with snapshots and variance lines.
// @Summary Get sheet
// @Description Full sheet read model: snapshots, variance lines with product identity and value variance.
// @Tags reconcile
// @Produce json
// @Param id path int true "Sheet ID"
// @Success 200 {object} SheetDetail "Sheet detail"
// @Failure 404 {object} map[string]string "Not Found"
// @Router /reconcile/sheets/{id} [get]
func (h *Handler) HandleGetSheet(c *fiber.Ctx) error {
	id, ok := h.sheetID(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid sheet id"})
	}
	detail, err := h.service.GetSheet(c.Context(), id)
	if err != nil {
		return h.fail(c, err, "Sheet lookup failed")
	}
	return c.JSON(detail)
}

// SnapshotRequest is the body for snapshot ingestion. Quantities is keyed
// by catalog product id; values tolerate numbers or numeric strings.
type SnapshotRequest struct {
	Source     string         `json:"source,omitempty"`
	Quantities map[string]any `json:"quantities"`
}

// HandleIngestSnapshot loads one external-system snapshot into a slot.
// @Summary Ingest snapshot
// @Description Replace the quantities of one system slot (system1 or system2) on a sheet.
// @Tags reconcile
// @Accept json
// @Produce json
// @Param id path int true "Sheet ID"
// @Param slot path string true "Slot (system1 or system2)"
// @Param request body SnapshotRequest true "Snapshot"
// @Success 200 {object} models.SystemSnapshot "Snapshot"
// @Failure 400 {object} map[string]string "Invalid slot"
// @Failure 404 {object} map[string]string "Sheet not found"
// @Router /reconcile/sheets/{id}/snapshots/{slot} [post]
func (h *Handler) HandleIngestSnapshot(c *fiber.Ctx) error {
	id, ok := h.sheetID(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid sheet id"})
	}
	var req SnapshotRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	quantities := make(map[uint]int, len(req.Quantities))
	for key, val := range req.Quantities {
		productID, err := strconv.ParseUint(key, 10, 64)
		if err != nil || productID == 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid product id: " + key})
		}
		quantities[uint(productID)] = utils.ToInt(val)
	}

	snapshot, err := h.service.IngestSnapshot(c.Context(), id, c.Params("slot"), req.Source, quantities)
	if err != nil {
		return h.fail(c, err, "Snapshot ingestion failed")
	}
	return c.JSON(snapshot)
}

// HandleRecompute recomputes physical quantities and variances for a sheet.
// @Summary Recompute physical
// @Description Re-aggregate finalized sessions into the sheet's physical column, recount sessions taking precedence, and refresh the diffs.
// @Tags reconcile
// @Produce json
// @Param id path int true "Sheet ID"
// @Success 200 {object} RecomputeResult "Summary"
// @Failure 404 {object} map[string]string "Sheet not found"
// @Router /reconcile/sheets/{id}/recompute [post]
func (h *Handler) HandleRecompute(c *fiber.Ctx) error {
	id, ok := h.sheetID(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid sheet id"})
	}
	result, err := h.service.RecomputePhysical(c.Context(), id)
	if err != nil {
		return h.fail(c, err, "Physical recompute failed")
	}
	return c.JSON(result)
}

// RecountRequest selects products to recount. SessionID extends an existing
// open recount instead of spawning a new one; SessionNumber labels a new
// session within the 1..3 count tags (default 1).
type RecountRequest struct {
	ProductIDs    []uint `json:"product_ids"`
	SessionID     uint   `json:"session_id,omitempty"`
	Name          string `json:"name,omitempty"`
	SessionNumber int    `json:"session_number,omitempty"`
	CreatedBy     string `json:"created_by,omitempty"`
}

// HandleRecount spawns or extends a recount session for selected products.
// @Summary Spawn recount
// @Description Create a scoped recount session from disputed lines, or add products to an existing open recount of this sheet.
// @Tags reconcile
// @Accept json
// @Produce json
// @Param id path int true "Sheet ID"
// @Param request body RecountRequest true "Selection"
// @Success 201 {object} RecountResult "Result"
// @Failure 400 {object} map[string]string "Empty selection"
// @Failure 409 {object} map[string]string "Invalid target session"
// @Router /reconcile/sheets/{id}/recount [post]
func (h *Handler) HandleRecount(c *fiber.Ctx) error {
	id, ok := h.sheetID(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid sheet id"})
	}
	var req RecountRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	result, err := h.service.SpawnRecount(c.Context(), id, RecountInput{
		ProductIDs:    req.ProductIDs,
		SessionID:     req.SessionID,
		Name:          req.Name,
		SessionNumber: req.SessionNumber,
		CreatedBy:     req.CreatedBy,
	})
	if err != nil {
		return h.fail(c, err, "Recount failed")
	}
	return c.Status(fiber.StatusCreated).JSON(result)
}
