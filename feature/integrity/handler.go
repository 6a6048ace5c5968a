package integrity

import (
	"stock-reconciler/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for integrity checks.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the integrity routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/integrity")
	group.Get("/", h.HandleIntegrityCheck)
	group.Get("/storage", h.HandleStorageCheck)
	group.Get("/database", h.HandleDatabaseCheck)
	group.Get("/inventory", h.HandleInventoryCheck)
}

// HandleIntegrityCheck triggers all integrity checks.
// @Summary Run All Integrity Checks
// @Description Checks the storage bucket, the inventory table schema and that the served inventory loads. Unconfigured backends are reported as skipped.
// @Tags integrity
// @Produce json
// @Success 200 {object} map[string]interface{} "Combined Report"
// @Router /integrity [get]
func (h *Handler) HandleIntegrityCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	l.Info("Triggering all integrity checks")

	ctx := c.Context()
	report := make(map[string]interface{})

	if h.service.client == nil {
		report["storage"] = fiber.Map{"status": "skipped"}
	} else if r, err := h.service.CheckStorage(ctx); err != nil {
		report["storage"] = fiber.Map{"status": "error", "error": err.Error()}
	} else {
		report["storage"] = r
	}

	if h.service.db == nil {
		report["database"] = fiber.Map{"status": "skipped"}
	} else if r, err := h.service.CheckDatabase(); err != nil {
		report["database"] = fiber.Map{"status": "error", "error": err.Error()}
	} else {
		report["database"] = r
	}

	if r, err := h.service.CheckInventory(ctx); err != nil {
		report["inventory"] = fiber.Map{"status": "skipped", "error": err.Error()}
	} else {
		report["inventory"] = r
	}

	return c.JSON(report)
}

// HandleStorageCheck checks and optionally creates the bucket.
// @Summary Check Storage
// @Description Checks that the configured bucket exists. Optionally creates it.
// @Tags integrity
// @Produce json
// @Param fix query boolean false "Create the bucket when missing"
// @Success 200 {object} checks.StorageReport
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /integrity/storage [get]
func (h *Handler) HandleStorageCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	fix := c.Query("fix") == "true"

	report, err := h.service.CheckStorage(c.Context())
	if err != nil {
		l.Error("Storage check failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	if !report.Exists {
		l.Warn("Bucket is missing", zap.String("bucket", report.Bucket))

		if fix {
			fixed, err := h.service.FixStorage(c.Context())
			if err != nil {
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"error":   "Failed to create bucket",
					"details": err.Error(),
				})
			}
			return c.JSON(fixed)
		}
	}

	return c.JSON(report)
}

// HandleDatabaseCheck checks the inventory table schema.
// @Summary Check Database
// @Description Compares the inventory table columns with the expected schema.
// @Tags integrity
// @Produce json
// @Success 200 {object} checks.DatabaseReport
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /integrity/database [get]
func (h *Handler) HandleDatabaseCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	report, err := h.service.CheckDatabase()
	if err != nil {
		l.Error("Database check failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if !report.Matched {
		l.Warn("Inventory table does not match", zap.Strings("missing", report.MissingColumns))
	}
	return c.JSON(report)
}

// HandleInventoryCheck loads the served inventory.
// @Summary Check Inventory
// @Description Loads the served inventory table and reports its size or the load error.
// @Tags integrity
// @Produce json
// @Success 200 {object} InventoryReport
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /integrity/inventory [get]
func (h *Handler) HandleInventoryCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	report, err := h.service.CheckInventory(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if report.Status != "ok" {
		l.Warn("Inventory failed to load", zap.String("location", report.Location), zap.String("error", report.Error))
	}
	return c.JSON(report)
}
