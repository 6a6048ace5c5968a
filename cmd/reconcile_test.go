package cmd

import (
	"bytes"
	"encoding/json"
	"testing"

	"stock-reconciler/core/output"
	"stock-reconciler/core/reconcile"
	"stock-reconciler/feature/inventory"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResult() *inventory.ReconcileResult {
	return &inventory.ReconcileResult{
		Plan: &reconcile.Plan{
			Actions: []reconcile.Action{{
				Type:   reconcile.ActionUpdate,
				Key:    "Bolt",
				Before: decimal.NewFromInt(1),
				Delta:  decimal.NewFromInt(1),
				After:  decimal.NewFromInt(2),

				ReorderNeeded: true,
			}},
			Summary: reconcile.PlanSummary{TotalItems: 1, InvoiceLines: 1, UpdatedItems: 1, ReorderNeeded: 1},
		},
		Report: reconcile.Report{Rows: []reconcile.ReportRow{{
			Item:             "Bolt",
			Quantity:         decimal.NewFromInt(2),
			ReorderThreshold: decimal.NewFromInt(5),
			OrderSuggestion:  decimal.NewFromInt(10),
		}}},
	}
}

func TestPrintReconcileResult_DryRunJSONIsOneDocument(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printReconcileResult(&buf, output.FormatJSON, sampleResult(), true))

	var doc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Contains(t, doc, "plan")
	assert.Contains(t, doc, "report")
}

func TestPrintReconcileResult_ReportOnly(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printReconcileResult(&buf, output.FormatJSON, sampleResult(), false))

	var doc struct {
		Items []map[string]string `json:"items"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	require.Len(t, doc.Items, 1)
	assert.Equal(t, "Bolt", doc.Items[0]["item"])
}

func TestPrintReconcileResult_DryRunTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printReconcileResult(&buf, output.FormatTable, sampleResult(), true))
	assert.Contains(t, buf.String(), "1 invoice lines: 0 new, 1 updated, 1 of 1 items need reordering")
	assert.Contains(t, buf.String(), "Bolt")
}
