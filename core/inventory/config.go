package inventory

import "stock-reconciler/core/utils"

// Config holds the reconcile job settings.
type Config struct {
	// InventoryPath is the location of the current inventory table.
	InventoryPath string `mapstructure:"inventory_path" default:"inventory.csv"`
	// InvoicePath is the location of the invoice table.
	InvoicePath string `mapstructure:"invoice_path" default:"invoice.csv"`
	// OutputPath is where the updated inventory is written.
	OutputPath string `mapstructure:"output_path" default:"updated_inventory.csv"`
	// KeyColumn is the name of the item column in both tables.
	KeyColumn string `mapstructure:"key_column" default:"Item"`
	// DefaultThreshold is the reorder threshold given to new items.
	DefaultThreshold string `mapstructure:"default_threshold" default:"5"`
	// DefaultOrderSuggestion is the order suggestion given to new items.
	DefaultOrderSuggestion string `mapstructure:"default_order_suggestion" default:"10"`
	// AllowNegativeInvoice accepts negative invoice quantities as stock corrections.
	AllowNegativeInvoice bool `mapstructure:"allow_negative_invoice" default:"false"`
	// CacheTTLSeconds is how long the HTTP service keeps a loaded inventory.
	CacheTTLSeconds int `mapstructure:"cache_ttl_seconds" default:"30"`
}

// Defaults parses the configured defaults. Empty values fall back to StandardDefaults.
func (c Config) Defaults() (Defaults, error) {
	d := StandardDefaults()

	if c.DefaultThreshold != "" {
		v, err := utils.ParseDecimal(c.DefaultThreshold)
		if err != nil {
			return Defaults{}, err
		}
		d.Threshold = v
	}
	if c.DefaultOrderSuggestion != "" {
		v, err := utils.ParseDecimal(c.DefaultOrderSuggestion)
		if err != nil {
			return Defaults{}, err
		}
		d.OrderSuggestion = v
	}

	return d, nil
}
