package inventory

import (
	"bytes"
	"fmt"
	"strconv"

	"stock-reconciler/core/errors"
	"stock-reconciler/core/logger"
	"stock-reconciler/core/output"
	"stock-reconciler/core/reconcile"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for the inventory.
type Handler struct {
	service  *Service
	location string
	logger   *zap.Logger
}

// NewHandler creates a new HTTP handler serving the inventory at location.
func NewHandler(service *Service, location string) *Handler {
	return &Handler{service: service, location: location, logger: service.logger}
}

// RegisterRoutes registers the inventory routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/inventory")
	group.Get("/", h.HandleGetInventory)
	group.Get("/reorder", h.HandleGetReorder)
	group.Get("/export", h.HandleExport)
	group.Post("/reconcile", h.HandleReconcile)
}

// HandleGetInventory returns the full inventory.
// @Summary Get Inventory
// @Description Returns every item with its current reorder flag.
// @Tags inventory
// @Produce json
// @Success 200 {object} TableView "Inventory"
// @Failure 500 {object} ErrorResponse "Internal Server Error"
// @Router /inventory [get]
func (h *Handler) HandleGetInventory(c *fiber.Ctx) error {
	t, err := h.service.Snapshot(c.UserContext(), h.location)
	if err != nil {
		return h.fail(c, "Inventory load failed", err)
	}
	return c.JSON(NewTableView(t))
}

// HandleGetReorder returns the items that need reordering.
// @Summary Get Reorder Report
// @Description Returns the items whose quantity is below their reorder threshold.
// @Tags inventory
// @Produce json
// @Success 200 {object} map[string]interface{} "Reorder report"
// @Failure 500 {object} ErrorResponse "Internal Server Error"
// @Router /inventory/reorder [get]
func (h *Handler) HandleGetReorder(c *fiber.Ctx) error {
	t, err := h.service.Snapshot(c.UserContext(), h.location)
	if err != nil {
		return h.fail(c, "Inventory load failed", err)
	}
	return c.JSON(output.ReportView(reconcile.ReorderReport(t)))
}

// HandleExport downloads the inventory as CSV.
// @Summary Export Inventory
// @Description Downloads the inventory in the same CSV layout the reconciler reads.
// @Tags inventory
// @Produce text/csv
// @Success 200 {string} string "CSV file"
// @Failure 500 {object} ErrorResponse "Internal Server Error"
// @Router /inventory/export [get]
func (h *Handler) HandleExport(c *fiber.Ctx) error {
	var buf bytes.Buffer
	if err := h.service.Export(c.UserContext(), h.location, &buf); err != nil {
		return h.fail(c, "Inventory export failed", err)
	}

	name := "inventory.csv"
	if loc, err := ParseLocation(h.location); err == nil {
		name = loc.Base()
	}
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Attachment(name)
	return c.Send(buf.Bytes())
}

// HandleReconcile merges an uploaded invoice into the inventory.
// @Summary Reconcile Invoice
// @Description Adds the quantities of an invoice CSV to the inventory and returns the plan and reorder report.
// @Tags inventory
// @Accept multipart/form-data
// @Produce json
// @Param invoice formData file true "Invoice CSV (Item, Quantity)"
// @Param dry_run query bool false "Plan only, do not save"
// @Success 200 {object} ReconcileResponse "Reconcile result"
// @Failure 400 {object} ErrorResponse "Invalid invoice"
// @Failure 500 {object} ErrorResponse "Internal Server Error"
// @Router /inventory/reconcile [post]
func (h *Handler) HandleReconcile(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)

	dryRun := false
	if raw := c.Query("dry_run"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: fmt.Sprintf("invalid dry_run value %q", raw)})
		}
		dryRun = v
	}

	fh, err := c.FormFile("invoice")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "multipart field \"invoice\" is required"})
	}
	f, err := fh.Open()
	if err != nil {
		return h.fail(c, "Invoice upload unreadable", errors.WrapIO("open", fh.Filename, err))
	}
	defer f.Close()

	invoice, err := h.service.ParseInvoice(f)
	if err != nil {
		return h.fail(c, "Invoice rejected", err)
	}

	result, err := h.service.Reconcile(c.UserContext(), ReconcileRequest{
		Inventory: h.location,
		Invoice:   invoice,
		DryRun:    dryRun,
	})
	if err != nil {
		return h.fail(c, "Reconcile failed", err)
	}

	l.Info("Invoice reconciled",
		zap.String("file", fh.Filename),
		zap.Bool("dry_run", dryRun),
		zap.Int("new_items", result.Plan.Summary.NewItems),
	)

	return c.JSON(ReconcileResponse{
		DryRun: dryRun,
		Plan:   output.PlanView(result.Plan),
		Report: output.ReportView(result.Report),
		Output: result.Output,
		Link:   result.Link,
	})
}

// fail logs err and writes it with the status matching its kind.
func (h *Handler) fail(c *fiber.Ctx, msg string, err error) error {
	status := StatusFor(err)
	l := logger.WithRayID(h.logger, c)
	if status >= fiber.StatusInternalServerError {
		l.Error(msg, zap.Error(err))
	} else {
		l.Warn(msg, zap.Error(err))
	}
	return c.Status(status).JSON(ErrorResponse{Error: err.Error()})
}

// StatusFor maps an error to an HTTP status.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, errors.ErrInputFormat):
		return fiber.StatusBadRequest
	case errors.Is(err, errors.ErrSchemaMismatch):
		return fiber.StatusUnprocessableEntity
	default:
		return fiber.StatusInternalServerError
	}
}
