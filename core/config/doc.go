// Package config provides configuration management for the stock reconciler.
//
// Values come from environment variables, optionally loaded from a .env file with
// godotenv. Every field declares its key with a mapstructure tag and its fallback
// with a default tag; LoadConfig registers both with Viper by reflection, so
// INVENTORY_OUTPUT_PATH maps to inventory.output_path without further wiring.
//
// # Configuration Structure
//
//   - Server: HTTP port, API key and upload limit
//   - Storage: S3/MinIO credentials, bucket and publishing settings
//   - Log: logging level and format
//   - Database: driver and connection details for db:// locations
//   - Inventory: default paths, key column and new-item defaults
//   - Lock: optional Redis server for the distributed reconcile lock
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Inventory.OutputPath)
package config
