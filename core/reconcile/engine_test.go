package reconcile

import (
	"testing"

	"stock-reconciler/core/inventory"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// rec builds an inventory record with the standard order suggestion.
func rec(qty, threshold string) inventory.Record {
	return inventory.Record{
		Quantity:         d(qty),
		ReorderThreshold: d(threshold),
		OrderSuggestion:  d("10"),
	}
}

func table(records map[string]inventory.Record) inventory.Table {
	t := inventory.NewTable()
	for k, r := range records {
		t.Records[k] = r
	}
	return t
}

func TestMerge_ExistingAndNewItem(t *testing.T) {
	r := New(inventory.StandardDefaults(), nil)
	inv := table(map[string]inventory.Record{"A": rec("10", "5")})
	invoice := inventory.InvoiceTable{"A": d("2"), "B": d("7")}

	out, plan := r.Merge(inv, invoice)

	a := out.Records["A"]
	assert.True(t, a.Quantity.Equal(d("12")))
	assert.False(t, a.ReorderNeeded)

	b, ok := out.Records["B"]
	require.True(t, ok)
	assert.True(t, b.Quantity.Equal(d("7")))
	assert.True(t, b.ReorderThreshold.Equal(d("5")))
	assert.True(t, b.OrderSuggestion.Equal(d("10")))
	assert.False(t, b.ReorderNeeded)

	assert.True(t, ReorderReport(out).Empty())
	assert.Equal(t, 1, plan.Summary.NewItems)
	assert.Equal(t, 1, plan.Summary.UpdatedItems)
	assert.Equal(t, 2, plan.Summary.TotalItems)
	assert.Equal(t, 0, plan.Summary.ReorderNeeded)
}

func TestMerge_LowStockIsReported(t *testing.T) {
	r := New(inventory.StandardDefaults(), nil)
	inv := table(map[string]inventory.Record{"A": rec("3", "5")})

	out, _ := r.Merge(inv, inventory.InvoiceTable{"A": d("1")})

	a := out.Records["A"]
	assert.True(t, a.Quantity.Equal(d("4")))
	assert.True(t, a.ReorderNeeded)

	report := ReorderReport(out)
	require.Len(t, report.Rows, 1)
	row := report.Rows[0]
	assert.Equal(t, "A", row.Item)
	assert.True(t, row.Quantity.Equal(d("4")))
	assert.True(t, row.ReorderThreshold.Equal(d("5")))
	assert.True(t, row.OrderSuggestion.Equal(d("10")))
}

func TestMerge_NewItemBelowDefaultThreshold(t *testing.T) {
	r := New(inventory.StandardDefaults(), nil)

	out, _ := r.Merge(inventory.NewTable(), inventory.InvoiceTable{"C": d("2")})

	c := out.Records["C"]
	assert.True(t, c.Quantity.Equal(d("2")), "new item quantity must not be double counted")
	assert.True(t, c.ReorderNeeded)

	report := ReorderReport(out)
	require.Len(t, report.Rows, 1)
	assert.Equal(t, "C", report.Rows[0].Item)
}

func TestMerge_Properties(t *testing.T) {
	r := New(inventory.Defaults{Threshold: d("4"), OrderSuggestion: d("12")}, nil)
	inv := table(map[string]inventory.Record{
		"bolt":   rec("100", "20"),
		"nut":    rec("1.5", "3"),
		"washer": rec("0", "1"),
	})
	invoice := inventory.InvoiceTable{
		"bolt":   d("0.25"),
		"nut":    d("2"),
		"gasket": d("3.5"),
		"spring": d("4"),
	}

	out, _ := r.Merge(inv, invoice)

	t.Run("Completeness", func(t *testing.T) {
		for key := range invoice {
			_, ok := out.Records[key]
			assert.True(t, ok, "invoice item %s missing from result", key)
		}
	})

	t.Run("QuantityConservation", func(t *testing.T) {
		for key, before := range inv.Records {
			delta, invoiced := invoice[key]
			if !invoiced {
				delta = decimal.Zero
			}
			assert.True(t, out.Records[key].Quantity.Equal(before.Quantity.Add(delta)), key)
		}
	})

	t.Run("NewItemDefaulting", func(t *testing.T) {
		for _, key := range []string{"gasket", "spring"} {
			got := out.Records[key]
			assert.True(t, got.Quantity.Equal(invoice[key]))
			assert.True(t, got.ReorderThreshold.Equal(d("4")))
			assert.True(t, got.OrderSuggestion.Equal(d("12")))
			assert.Equal(t, invoice[key].LessThan(d("4")), got.ReorderNeeded)
		}
	})

	t.Run("FlagCorrectness", func(t *testing.T) {
		for key, got := range out.Records {
			assert.Equal(t, got.Quantity.LessThan(got.ReorderThreshold), got.ReorderNeeded, key)
		}
	})

	t.Run("InputUntouched", func(t *testing.T) {
		assert.Equal(t, 3, inv.Len())
		assert.True(t, inv.Records["bolt"].Quantity.Equal(d("100")))
		assert.False(t, inv.Records["washer"].ReorderNeeded)
	})
}

func TestRecomputeFlags_Idempotent(t *testing.T) {
	inv := table(map[string]inventory.Record{
		"A": rec("1", "5"),
		"B": rec("5", "5"),
		"C": rec("9", "5"),
	})
	// Stale flag authored out of band must be overwritten.
	stale := inv.Records["C"]
	stale.ReorderNeeded = true
	inv.Records["C"] = stale

	once := RecomputeFlags(inv)
	twice := RecomputeFlags(once)

	assert.Equal(t, once, twice)
	assert.True(t, once.Records["A"].ReorderNeeded)
	assert.False(t, once.Records["B"].ReorderNeeded, "equal to threshold is not below it")
	assert.False(t, once.Records["C"].ReorderNeeded)
	assert.True(t, inv.Records["C"].ReorderNeeded, "input must not be mutated")
}

func TestMerge_ExtraColumnsPreserved(t *testing.T) {
	inv := inventory.NewTable()
	inv.ExtraColumns = []string{"Supplier"}
	a := rec("2", "5")
	a.Extra = map[string]string{"Supplier": "Acme"}
	inv.Records["A"] = a

	out, _ := New(inventory.StandardDefaults(), nil).Merge(inv, inventory.InvoiceTable{"A": d("1"), "N": d("1")})

	assert.Equal(t, []string{"Supplier"}, out.ExtraColumns)
	assert.Equal(t, "Acme", out.Records["A"].Extra["Supplier"])
	assert.Empty(t, out.Records["N"].Extra)
}

func TestMerge_LogsNewItems(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	r := New(inventory.StandardDefaults(), zap.New(core))

	r.Merge(table(map[string]inventory.Record{"A": rec("1", "5")}), inventory.InvoiceTable{"A": d("1"), "B": d("3")})

	entries := logs.FilterMessage("Added new item").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "B", entries[0].ContextMap()["item"])
	assert.Equal(t, "3", entries[0].ContextMap()["quantity"])
}
