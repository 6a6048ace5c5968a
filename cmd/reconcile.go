package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"stock-reconciler/core/output"
	"stock-reconciler/core/reconcile"
	"stock-reconciler/feature/inventory"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	inventoryPath string
	invoicePath   string
	outputPath    string
	dryRun        bool
	publish       bool
	formatFlag    string
)

// reconcileCmd merges an invoice into the inventory.
var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Merge an invoice into the inventory and report items to reorder",
	Long: `Adds every invoice quantity to the matching inventory item, creates items seen
for the first time with the configured defaults, recomputes the reorder flags,
writes the updated inventory and prints the items that need reordering.

Locations are file paths, s3://object names or db://table names.

Examples:
  # Use the paths from the environment / .env
  reconcile

  # Explicit files
  reconcile --inventory inventory.csv --invoice invoice.csv --output updated_inventory.csv

  # Show the plan only
  reconcile --dry-run

  # Write to the database and publish a download link
  reconcile --inventory db://inventory_items --output db://inventory_items --publish`,
	RunE: runReconcile,
}

func init() {
	reconcileCmd.Flags().StringVar(&inventoryPath, "inventory", "", "Inventory location (default from INVENTORY_INVENTORY_PATH)")
	reconcileCmd.Flags().StringVar(&invoicePath, "invoice", "", "Invoice location (default from INVENTORY_INVOICE_PATH)")
	reconcileCmd.Flags().StringVar(&outputPath, "output", "", "Output location (default from INVENTORY_OUTPUT_PATH)")
	reconcileCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the plan without writing anything")
	reconcileCmd.Flags().BoolVar(&publish, "publish", false, "Upload the output to object storage and log a download link")
	reconcileCmd.Flags().StringVar(&formatFlag, "format", "", "Report format: table, json or yaml (default: table on a terminal, json otherwise)")

	RootCmd.AddCommand(reconcileCmd)
}

func runReconcile(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	format, err := output.ParseFormat(formatFlag)
	if err != nil {
		return err
	}

	a, err := loadApp()
	if err != nil {
		return err
	}
	defer a.close()

	inv := pick(inventoryPath, a.cfg.Inventory.InventoryPath)
	invoiceLoc := pick(invoicePath, a.cfg.Inventory.InvoicePath)
	out := pick(outputPath, a.cfg.Inventory.OutputPath)

	if err := a.wire(needs{locations: []string{inv, invoiceLoc, out}, publish: publish && !dryRun}); err != nil {
		return err
	}

	a.log.Info("Starting reconciliation",
		zap.String("inventory", inv),
		zap.String("invoice", invoiceLoc),
		zap.String("output", out),
		zap.Bool("dry_run", dryRun),
	)

	invoice, err := a.svc.LoadInvoice(ctx, invoiceLoc)
	if err != nil {
		return fmt.Errorf("failed to load invoice: %w", err)
	}

	result, err := a.svc.Reconcile(ctx, inventory.ReconcileRequest{
		Inventory: inv,
		Output:    out,
		Invoice:   invoice,
		DryRun:    dryRun,
		Publish:   publish,
	})
	if result == nil {
		return err
	}

	printReconcileReport(a.log, result.Plan)
	if dryRun {
		a.log.Info("Dry-run mode: No changes were made.")
	}
	if result.Link != "" {
		a.log.Info("Download link", zap.String("url", result.Link))
	}

	// A failed publish still returns the saved result; print it before the error.
	if printErr := printReconcileResult(os.Stdout, output.DetectFormat(string(format)), result, dryRun); printErr != nil {
		if err != nil {
			return err
		}
		return printErr
	}
	return err
}

// printReconcileResult prints the reorder report. Dry runs also print the plan:
// as a table above the report, or as one {plan, report} document for json and yaml.
func printReconcileResult(w io.Writer, format output.Format, result *inventory.ReconcileResult, dryRun bool) error {
	f := output.NewFormatter(format)
	if !dryRun {
		return f.Format(w, result.Report)
	}
	if format == output.FormatJSON || format == output.FormatYAML {
		return f.Format(w, output.DryRunView(result.Plan, result.Report))
	}
	if err := f.Format(w, result.Plan); err != nil {
		return err
	}
	return f.Format(w, result.Report)
}

// printReconcileReport logs the plan summary and a sample of its actions.
func printReconcileReport(l *zap.Logger, plan *reconcile.Plan) {
	s := plan.Summary

	l.Info("Reconciliation report",
		zap.Int("total_items", s.TotalItems),
		zap.Int("invoice_lines", s.InvoiceLines),
		zap.Int("new_items", s.NewItems),
		zap.Int("updated_items", s.UpdatedItems),
		zap.Int("reorder_needed", s.ReorderNeeded),
	)

	maxShow := 5
	if len(plan.Actions) < maxShow {
		maxShow = len(plan.Actions)
	}
	for i := 0; i < maxShow; i++ {
		action := plan.Actions[i]
		l.Debug("Sample action",
			zap.String("type", string(action.Type)),
			zap.String("key", action.Key),
			zap.String("delta", action.Delta.String()),
			zap.String("after", action.After.String()),
		)
	}
	if newKeys := plan.NewKeys(); len(newKeys) > 0 {
		l.Info("New items", zap.Strings("items", newKeys))
	}

	if len(plan.Actions) > maxShow {
		l.Debug("Additional actions not shown", zap.Int("count", len(plan.Actions)-maxShow))
	}
}
