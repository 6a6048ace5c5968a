package cmd

import (
	"fmt"

	"stock-reconciler/feature/integrity"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var fixFlag bool

// integrityCmd represents the integrity command
var integrityCmd = &cobra.Command{
	Use:   "integrity",
	Short: "Check the backends the reconciler depends on",
	Long: `Checks that the storage bucket exists, that the inventory table matches the expected
schema and that the configured inventory loads. Run a subcommand to check one backend.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIntegrityChecks(cmd, true, true, true)
	},
}

var storageCheckCmd = &cobra.Command{
	Use:   "storage",
	Short: "Check and fix the storage bucket",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIntegrityChecks(cmd, true, false, false)
	},
}

var databaseCheckCmd = &cobra.Command{
	Use:   "database",
	Short: "Check the inventory table schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIntegrityChecks(cmd, false, true, false)
	},
}

var inventoryCheckCmd = &cobra.Command{
	Use:   "inventory",
	Short: "Check that the configured inventory loads",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIntegrityChecks(cmd, false, false, true)
	},
}

func init() {
	RootCmd.AddCommand(integrityCmd)
	integrityCmd.AddCommand(storageCheckCmd, databaseCheckCmd, inventoryCheckCmd)

	storageCheckCmd.Flags().BoolVar(&fixFlag, "fix", false, "Create the bucket when missing")
}

func runIntegrityChecks(cmd *cobra.Command, runStorage, runDatabase, runInventory bool) error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	defer a.close()

	location := a.cfg.Inventory.InventoryPath
	err = a.wire(needs{
		locations: []string{location},
		storage:   runStorage,
		database:  runDatabase,
	})
	if err != nil {
		return err
	}

	svc := integrity.NewService(integrity.Options{
		Storage:   a.client,
		Bucket:    a.cfg.Storage.Bucket,
		Region:    a.cfg.Storage.Region,
		DB:        a.db,
		Inventory: a.svc,
		Location:  location,
		Logger:    a.log,
	})

	ctx := cmd.Context()
	logg := a.log
	failed := false

	if runStorage {
		logg.Info("Checking storage bucket...", zap.String("bucket", a.cfg.Storage.Bucket))
		report, err := svc.CheckStorage(ctx)
		if err != nil {
			return fmt.Errorf("storage check failed: %w", err)
		}

		switch {
		case report.Exists:
			logg.Info("Bucket exists.")
		case fixFlag:
			if _, err := svc.FixStorage(ctx); err != nil {
				return fmt.Errorf("failed to create bucket: %w", err)
			}
			logg.Info("Bucket created successfully.")
		default:
			failed = true
			logg.Warn("Bucket is missing. Run 'integrity storage --fix' to create it.")
		}
	}

	if runDatabase {
		logg.Info("Checking inventory table schema...")
		report, err := svc.CheckDatabase()
		if err != nil {
			return fmt.Errorf("database check failed: %w", err)
		}

		if report.Matched {
			logg.Info("Inventory table matches expected schema.", zap.String("table", report.Table))
		} else {
			failed = true
			logg.Warn("Inventory table mismatches found", zap.String("table", report.Table))
			if len(report.MissingColumns) > 0 {
				logg.Warn("Missing Columns", zap.Strings("columns", report.MissingColumns))
			}
			if len(report.TypeMismatches) > 0 {
				logg.Warn("Type Mismatches", zap.Strings("mismatches", report.TypeMismatches))
			}
			for _, e := range report.Errors {
				logg.Error("Inspection Error", zap.String("error", e))
			}
		}
	}

	if runInventory {
		logg.Info("Loading inventory...", zap.String("location", location))
		report, err := svc.CheckInventory(ctx)
		if err != nil {
			return fmt.Errorf("inventory check failed: %w", err)
		}

		if report.Status == "ok" {
			logg.Info("Inventory loads.",
				zap.Int("items", report.Items),
				zap.Int("reorder_needed", report.ReorderNeeded),
			)
		} else {
			failed = true
			logg.Error("Inventory failed to load", zap.String("error", report.Error))
		}
	}

	if failed {
		return fmt.Errorf("integrity checks found problems")
	}
	return nil
}
