package output

import (
	"stock-reconciler/core/reconcile"
)

// reportView is the serialized shape of a reorder report.
// Decimals are rendered as strings so every encoder prints them exactly.
type reportView struct {
	Items []reportRowView `json:"items" yaml:"items"`
}

type reportRowView struct {
	Item             string `json:"item" yaml:"item"`
	Quantity         string `json:"quantity" yaml:"quantity"`
	ReorderThreshold string `json:"reorder_threshold" yaml:"reorder_threshold"`
	OrderSuggestion  string `json:"order_suggestion" yaml:"order_suggestion"`
}

type planView struct {
	Actions []actionView          `json:"actions" yaml:"actions"`
	Summary reconcile.PlanSummary `json:"summary" yaml:"summary"`
}

type actionView struct {
	Type          string `json:"type" yaml:"type"`
	Item          string `json:"item" yaml:"item"`
	Before        string `json:"before" yaml:"before"`
	Delta         string `json:"delta" yaml:"delta"`
	After         string `json:"after" yaml:"after"`
	ReorderNeeded bool   `json:"reorder_needed" yaml:"reorder_needed"`
}

// plain converts domain values into encoder-friendly views.
func plain(data any) any {
	switch v := data.(type) {
	case reconcile.Report:
		return ReportView(v)
	case *reconcile.Plan:
		return PlanView(v)
	default:
		return data
	}
}

// ReportView returns the serialized shape of a report. Items is never nil.
func ReportView(r reconcile.Report) any {
	view := reportView{Items: make([]reportRowView, 0, len(r.Rows))}
	for _, row := range r.Rows {
		view.Items = append(view.Items, reportRowView{
			Item:             row.Item,
			Quantity:         row.Quantity.String(),
			ReorderThreshold: row.ReorderThreshold.String(),
			OrderSuggestion:  row.OrderSuggestion.String(),
		})
	}
	return view
}

// PlanView returns the serialized shape of a plan.
func PlanView(p *reconcile.Plan) any {
	view := planView{Actions: make([]actionView, 0, len(p.Actions)), Summary: p.Summary}
	for _, a := range p.Actions {
		view.Actions = append(view.Actions, actionView{
			Type:          string(a.Type),
			Item:          a.Key,
			Before:        a.Before.String(),
			Delta:         a.Delta.String(),
			After:         a.After.String(),
			ReorderNeeded: a.ReorderNeeded,
		})
	}
	return view
}

type dryRunView struct {
	Plan   any `json:"plan" yaml:"plan"`
	Report any `json:"report" yaml:"report"`
}

// DryRunView combines a plan and the report it would produce into one document.
func DryRunView(p *reconcile.Plan, r reconcile.Report) any {
	return dryRunView{Plan: PlanView(p), Report: ReportView(r)}
}
