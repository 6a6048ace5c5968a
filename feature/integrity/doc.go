// Package integrity provides health checks for the backends a reconciler depends on.
//
// # Checks Provided
//
//   - Storage: Checks that the configured bucket exists (used by s3:// locations and publishing).
//   - Database: Compares the inventory table columns and types with the expected row model.
//   - Inventory: Loads the served inventory and reports its size or the load error.
//
// # HTTP Endpoints
//
//   - GET /integrity : Runs all checks. Unconfigured backends are reported as skipped.
//   - GET /integrity/storage : Runs the storage check (supports ?fix=true).
//   - GET /integrity/database : Runs the schema check.
//   - GET /integrity/inventory : Loads the served inventory.
package integrity
