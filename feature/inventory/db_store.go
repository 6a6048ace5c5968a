package inventory

import (
	"context"
	"strings"
	"time"

	stock "stock-reconciler/core/inventory"
	"stock-reconciler/core/database"
	"stock-reconciler/core/errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ItemRow is the database representation of an inventory record.
// Numeric columns hold every value the CSV reader accepts: 20 integer and 18 fractional
// digits. SQLite has no exact decimal type and stores them as floating point.
type ItemRow struct {
	Item             string          `gorm:"column:item;primaryKey;size:255"`
	Quantity         decimal.Decimal `gorm:"column:quantity;type:decimal(38,18);not null"`
	ReorderThreshold decimal.Decimal `gorm:"column:reorder_threshold;type:decimal(38,18);not null"`
	OrderSuggestion  decimal.Decimal `gorm:"column:order_suggestion;type:decimal(38,18);not null"`
	ReorderNeeded    bool            `gorm:"column:reorder_needed;not null"`
	UpdatedAt        time.Time       `gorm:"column:updated_at"`
}

// DefaultTable is the table used when none is configured.
const DefaultTable = "inventory_items"

var requiredDBColumns = []string{"item", "quantity", "reorder_threshold", "order_suggestion", "reorder_needed"}

const saveBatchSize = 500

// DBStore keeps a table in a database. Extra columns are not persisted.
type DBStore struct {
	db          *gorm.DB
	table       string
	autoMigrate bool
}

// NewDBStore creates a DBStore on table.
func NewDBStore(db *gorm.DB, table string, autoMigrate bool) *DBStore {
	if table == "" {
		table = DefaultTable
	}
	return &DBStore{db: db, table: table, autoMigrate: autoMigrate}
}

// Location implements Store.
func (s *DBStore) Location() Location {
	return Location{Scheme: SchemeDB, Path: s.table}
}

// Prepare migrates the table when enabled and checks it has the inventory columns.
func (s *DBStore) Prepare(ctx context.Context) error {
	name := s.Location().String()
	if s.db == nil {
		return errors.WrapIO("connect", name, errors.New("no database connection configured"))
	}

	if s.autoMigrate {
		if err := s.db.WithContext(ctx).Table(s.table).AutoMigrate(&ItemRow{}); err != nil {
			return errors.WrapIO("migrate", name, err)
		}
	}

	columns, err := database.GetTableColumns(s.db.WithContext(ctx), s.table)
	if err != nil {
		return errors.WrapIO("inspect", name, err)
	}
	if missing := database.MissingColumns(columns, requiredDBColumns...); len(missing) > 0 {
		return errors.NewInputFormatError(name, 0, strings.Join(missing, ", "), "", "missing required column")
	}
	return nil
}

// Load implements Store. Stored flags are ignored; callers recompute them.
func (s *DBStore) Load(ctx context.Context) (stock.Table, error) {
	if err := s.Prepare(ctx); err != nil {
		return stock.Table{}, err
	}

	var rows []ItemRow
	if err := s.db.WithContext(ctx).Table(s.table).Order("item").Find(&rows).Error; err != nil {
		return stock.Table{}, errors.WrapIO("read", s.Location().String(), err)
	}

	t := stock.NewTable()
	for _, r := range rows {
		t.Records[r.Item] = stock.Record{
			Quantity:         r.Quantity,
			ReorderThreshold: r.ReorderThreshold,
			OrderSuggestion:  r.OrderSuggestion,
		}
	}
	return t, nil
}

// Save upserts every record inside one transaction.
func (s *DBStore) Save(ctx context.Context, t stock.Table) error {
	if err := s.Prepare(ctx); err != nil {
		return err
	}
	if t.Len() == 0 {
		return nil
	}

	rows := make([]ItemRow, 0, t.Len())
	for _, key := range t.Keys() {
		r := t.Records[key]
		rows = append(rows, ItemRow{
			Item:             key,
			Quantity:         r.Quantity,
			ReorderThreshold: r.ReorderThreshold,
			OrderSuggestion:  r.OrderSuggestion,
			ReorderNeeded:    r.ReorderNeeded,
		})
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Table(s.table).
			Clauses(clause.OnConflict{UpdateAll: true}).
			CreateInBatches(&rows, saveBatchSize).Error
	})
	if err != nil {
		return errors.WrapIO("write", s.Location().String(), err)
	}
	return nil
}
