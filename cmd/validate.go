package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	validateInventory string
	validateInvoice   string
)

// validateCmd checks both inputs without writing anything.
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the inventory and invoice for format errors",
	Long: `Loads the inventory and the invoice with the same rules as reconcile and reports
the first problem found: a missing column, an unparsable or negative number, an empty
item name or a duplicated item. On success the plan summary is logged.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp()
		if err != nil {
			return err
		}
		defer a.close()

		inv := pick(validateInventory, a.cfg.Inventory.InventoryPath)
		invoice := pick(validateInvoice, a.cfg.Inventory.InvoicePath)
		if err := a.wire(needs{locations: []string{inv, invoice}}); err != nil {
			return err
		}

		summary, err := a.svc.Validate(context.Background(), inv, invoice)
		if err != nil {
			return err
		}

		a.log.Info("Inputs are valid",
			zap.String("inventory", inv),
			zap.String("invoice", invoice),
			zap.Int("invoice_lines", summary.InvoiceLines),
			zap.Int("new_items", summary.NewItems),
			zap.Int("items_after_reconcile", summary.TotalItems),
		)
		return nil
	},
}

func init() {
	validateCmd.Flags().StringVar(&validateInventory, "inventory", "", "Inventory location (default from INVENTORY_INVENTORY_PATH)")
	validateCmd.Flags().StringVar(&validateInvoice, "invoice", "", "Invoice location (default from INVENTORY_INVOICE_PATH)")

	RootCmd.AddCommand(validateCmd)
}
