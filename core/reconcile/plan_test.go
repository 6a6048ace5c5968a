package reconcile

import (
	"testing"

	"stock-reconciler/core/inventory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestBuildPlan_Actions tests that insert and update actions are planned correctly.
func TestBuildPlan_Actions(t *testing.T) {
	r := New(inventory.StandardDefaults(), nil)
	inv := table(map[string]inventory.Record{
		"A": rec("10", "5"),
		"Z": rec("1", "5"), // not invoiced, still below threshold
	})
	invoice := inventory.InvoiceTable{"B": d("3"), "A": d("2")}

	plan := r.BuildPlan(inv, invoice)

	require.Len(t, plan.Actions, 2)
	// Actions are sorted by key
	assert.Equal(t, "A", plan.Actions[0].Key)
	assert.Equal(t, ActionUpdate, plan.Actions[0].Type)
	assert.True(t, plan.Actions[0].Before.Equal(d("10")))
	assert.True(t, plan.Actions[0].After.Equal(d("12")))
	assert.False(t, plan.Actions[0].ReorderNeeded)

	assert.Equal(t, "B", plan.Actions[1].Key)
	assert.Equal(t, ActionInsert, plan.Actions[1].Type)
	assert.True(t, plan.Actions[1].Before.IsZero())
	assert.True(t, plan.Actions[1].After.Equal(d("3")))
	assert.True(t, plan.Actions[1].ReorderNeeded)

	assert.Equal(t, PlanSummary{
		TotalItems:    3,
		InvoiceLines:  2,
		NewItems:      1,
		UpdatedItems:  1,
		ReorderNeeded: 2, // B (3<5) and Z (1<5)
	}, plan.Summary)
	assert.Equal(t, []string{"B"}, plan.NewKeys())

	// Planning is pure
	assert.Equal(t, 2, inv.Len())
	assert.True(t, inv.Records["A"].Quantity.Equal(d("10")))
}

// TestApplyPlan_MatchesSummary tests that applying a plan agrees with its projections.
func TestApplyPlan_MatchesSummary(t *testing.T) {
	r := New(inventory.StandardDefaults(), nil)
	inv := table(map[string]inventory.Record{"A": rec("4", "5"), "B": rec("8", "5")})
	invoice := inventory.InvoiceTable{"A": d("0.5"), "C": d("6")}

	plan := r.BuildPlan(inv, invoice)
	out := r.ApplyPlan(inv, plan)

	assert.Equal(t, plan.Summary.TotalItems, out.Len())
	assert.Len(t, ReorderReport(out).Rows, plan.Summary.ReorderNeeded)
	for _, a := range plan.Actions {
		assert.True(t, out.Records[a.Key].Quantity.Equal(a.After), a.Key)
		assert.Equal(t, a.ReorderNeeded, out.Records[a.Key].ReorderNeeded, a.Key)
	}
}

// TestApplyPlan_StalePlan tests that a plan applied to a different table never double counts.
func TestApplyPlan_StalePlan(t *testing.T) {
	r := New(inventory.StandardDefaults(), nil)

	plan := r.BuildPlan(inventory.NewTable(), inventory.InvoiceTable{"A": d("2")})
	require.Equal(t, ActionInsert, plan.Actions[0].Type)

	// "A" appeared in the meantime: the insert turns into an addition.
	out := r.ApplyPlan(table(map[string]inventory.Record{"A": rec("3", "5")}), plan)
	assert.True(t, out.Records["A"].Quantity.Equal(d("5")))
}

func TestBuildPlan_EmptyInvoice(t *testing.T) {
	r := New(inventory.StandardDefaults(), nil)
	inv := table(map[string]inventory.Record{"A": rec("1", "5")})

	plan := r.BuildPlan(inv, inventory.InvoiceTable{})

	assert.Empty(t, plan.Actions)
	assert.Equal(t, 1, plan.Summary.TotalItems)
	assert.Equal(t, 1, plan.Summary.ReorderNeeded)
	assert.Nil(t, plan.NewKeys())
}
