// Package database handles database connections and schema inspection.
//
// Connect opens a GORM connection for the configured driver (mysql, postgres or
// sqlite), applies the pool settings and pings the server within the configured
// timeout.
//
// GetTableColumns lists the columns of a table so a db:// inventory location can be
// checked before it is read or written.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    return err
//	}
//	columns, err := database.GetTableColumns(db, "inventory_items")
package database
