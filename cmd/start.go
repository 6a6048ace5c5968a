package cmd

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"stock-reconciler/core/loader"
	"stock-reconciler/core/logger"
	"stock-reconciler/core/middleware/auth"
	"stock-reconciler/core/middleware/rayid"
	"stock-reconciler/feature/integrity"
	"stock-reconciler/feature/inventory"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "stock-reconciler/docs/swagger"
)

// @title Stock Reconciler API
// @version 1.0
// @description API for reconciling invoices into an inventory and reporting reorders.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the reconciler HTTP server",
	Long: `Starts the HTTP server serving the configured inventory (INVENTORY_INVENTORY_PATH).
Reconciles posted to the server update that inventory in place.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// 1. Configuration and logger
		a, err := loadApp()
		if err != nil {
			return err
		}
		defer a.close()
		zap.ReplaceGlobals(a.log)

		// 2. Service
		location := a.cfg.Inventory.InventoryPath
		err = a.wire(needs{
			locations: []string{location},
			cacheTTL:  time.Duration(a.cfg.Inventory.CacheTTLSeconds) * time.Second,
		})
		if err != nil {
			return err
		}

		app := fiber.New(fiber.Config{
			DisableStartupMessage: true,
			BodyLimit:             a.cfg.Server.BodyLimit(),
		})

		// 3. Features
		mgr := loader.NewManager()
		mgr.Register(inventory.NewFeature(a.svc, location))
		mgr.Register(integrity.NewFeature(integrity.Options{
			Storage:   a.client,
			Bucket:    a.cfg.Storage.Bucket,
			Region:    a.cfg.Storage.Region,
			DB:        a.db,
			Inventory: a.svc,
			Location:  location,
			Logger:    a.log,
		}))

		// 4. Middleware: ray ID first so every log line can be traced.
		app.Use(rayid.New())

		logg := a.log
		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			l.Info("Request started",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
			)
			err := c.Next()
			if err != nil {
				l.Error("Request error", zap.Error(err))
			}
			return err
		})

		// Swagger documentation is public.
		app.Get("/swagger/*", swagger.HandlerDefault)

		app.Use(auth.New(auth.Config{ApiKey: a.cfg.Server.ApiKey}))
		if a.cfg.Server.ApiKey == "" {
			logg.Warn("SERVER_API_KEY is empty, the API is not protected")
		}

		loaded, err := mgr.LoadAll(app)
		if err != nil {
			return err
		}
		logg.Info("Features loaded", zap.Strings("features", loaded), zap.String("inventory", location))

		// 5. Serve until interrupted
		errCh := make(chan error, 1)
		go func() {
			logg.Info("Starting server", zap.String("port", a.cfg.Server.Port))
			errCh <- app.Listen(a.cfg.Server.Addr())
		}()

		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-errCh:
			return err
		case <-sig:
			logg.Info("Shutting down server...")
			return app.ShutdownWithTimeout(10 * time.Second)
		}
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}
