package cmd

import (
	"context"
	"os"

	"stock-reconciler/core/output"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	reportInventory string
	reportFormat    string
)

// reportCmd prints the reorder report of an inventory without changing it.
var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print the items that need reordering",
	Long: `Loads an inventory, recomputes the reorder flags and prints every item whose
quantity is below its reorder threshold. Nothing is written.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := output.ParseFormat(reportFormat)
		if err != nil {
			return err
		}

		a, err := loadApp()
		if err != nil {
			return err
		}
		defer a.close()

		inv := pick(reportInventory, a.cfg.Inventory.InventoryPath)
		if err := a.wire(needs{locations: []string{inv}}); err != nil {
			return err
		}

		report, err := a.svc.Report(context.Background(), inv)
		if err != nil {
			return err
		}

		a.log.Info("Reorder report", zap.String("inventory", inv), zap.Int("items", len(report.Rows)))
		return output.NewFormatter(output.DetectFormat(string(format))).Format(os.Stdout, report)
	},
}

func init() {
	reportCmd.Flags().StringVar(&reportInventory, "inventory", "", "Inventory location (default from INVENTORY_INVENTORY_PATH)")
	reportCmd.Flags().StringVar(&reportFormat, "format", "", "Output format: table, json or yaml")

	RootCmd.AddCommand(reportCmd)
}
