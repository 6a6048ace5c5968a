package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"stock-reconciler/core/reconcile"

	"github.com/goccy/go-yaml"
	"github.com/mattn/go-isatty"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// Format types for output.
type Format string

const (
	// FormatTable represents table output format.
	FormatTable Format = "table"
	// FormatJSON represents JSON output format.
	FormatJSON Format = "json"
	// FormatYAML represents YAML output format.
	FormatYAML Format = "yaml"
)

// EmptyReportMessage is printed in table mode when no item needs reordering.
const EmptyReportMessage = "No items need reordering."

// Formatter renders command results.
type Formatter interface {
	Format(w io.Writer, data any) error
}

// NewFormatter creates the formatter for a format. Unknown formats fall back to table.
func NewFormatter(format Format) Formatter {
	switch format {
	case FormatJSON:
		return &JSONFormatter{Indent: "  "}
	case FormatYAML:
		return &YAMLFormatter{}
	default:
		return &TableFormatter{}
	}
}

// JSONFormatter outputs JSON format.
type JSONFormatter struct {
	Indent string
}

// Format implements the Formatter interface for JSON output.
func (f *JSONFormatter) Format(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	if f.Indent != "" {
		encoder.SetIndent("", f.Indent)
	}
	return encoder.Encode(plain(data))
}

// YAMLFormatter outputs YAML format.
type YAMLFormatter struct{}

// Format outputs data in YAML format.
func (f *YAMLFormatter) Format(w io.Writer, data any) error {
	yamlData, err := yaml.MarshalWithOptions(plain(data),
		yaml.Indent(2),
		yaml.IndentSequence(false),
	)
	if err != nil {
		return err
	}
	_, err = w.Write(yamlData)
	return err
}

// TableFormatter outputs table format.
type TableFormatter struct{}

// Format renders reports and plans as tables. Other values fall back to JSON.
func (f *TableFormatter) Format(w io.Writer, data any) error {
	switch v := data.(type) {
	case reconcile.Report:
		if v.Empty() {
			_, err := fmt.Fprintln(w, EmptyReportMessage)
			return err
		}
		return renderTable(w, reportData(v))
	case *reconcile.Plan:
		if err := renderTable(w, planData(v)); err != nil {
			return err
		}
		_, err := fmt.Fprintf(w, "%d invoice lines: %d new, %d updated, %d of %d items need reordering\n",
			v.Summary.InvoiceLines, v.Summary.NewItems, v.Summary.UpdatedItems,
			v.Summary.ReorderNeeded, v.Summary.TotalItems)
		return err
	case Data:
		return renderTable(w, v)
	default:
		return (&JSONFormatter{Indent: "  "}).Format(w, data)
	}
}

// Data represents data formatted for table output.
type Data struct {
	Headers []string
	Rows    [][]string
	// NumericFrom is the first right-aligned column. Zero leaves every column left-aligned.
	NumericFrom int
}

func renderTable(w io.Writer, data Data) error {
	config := tablewriter.Config{}
	if data.NumericFrom > 0 {
		align := make([]tw.Align, len(data.Headers))
		for i := range align {
			align[i] = tw.AlignLeft
			if i >= data.NumericFrom {
				align[i] = tw.AlignRight
			}
		}
		config.Row.Alignment = tw.CellAlignment{PerColumn: align}
	}

	table := tablewriter.NewTable(w, tablewriter.WithConfig(config))

	headers := make([]any, len(data.Headers))
	for i, h := range data.Headers {
		headers[i] = h
	}
	table.Header(headers...)

	for _, row := range data.Rows {
		rowData := make([]any, len(row))
		for i, cell := range row {
			rowData[i] = cell
		}
		if err := table.Append(rowData...); err != nil {
			return err
		}
	}

	return table.Render()
}

func reportData(r reconcile.Report) Data {
	data := Data{
		Headers:     []string{"Item", "Quantity", "Reorder_Threshold", "Order_Suggestion"},
		NumericFrom: 1,
	}
	for _, row := range r.Rows {
		data.Rows = append(data.Rows, []string{
			row.Item,
			row.Quantity.String(),
			row.ReorderThreshold.String(),
			row.OrderSuggestion.String(),
		})
	}
	return data
}

func planData(p *reconcile.Plan) Data {
	data := Data{
		Headers: []string{"Action", "Item", "Before", "Delta", "After", "Reorder"},
	}
	for _, a := range p.Actions {
		reorder := ""
		if a.ReorderNeeded {
			reorder = "yes"
		}
		data.Rows = append(data.Rows, []string{
			string(a.Type),
			a.Key,
			a.Before.String(),
			a.Delta.String(),
			a.After.String(),
			reorder,
		})
	}
	return data
}

// DetectFormat auto-detects format based on the terminal.
func DetectFormat(explicitFormat string) Format {
	if explicitFormat != "" {
		return Format(strings.ToLower(explicitFormat))
	}

	if isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		return FormatTable
	}

	// Pipes and redirects get machine-readable output.
	return FormatJSON
}

// ParseFormat converts string to Format with validation.
func ParseFormat(s string) (Format, error) {
	format := Format(strings.ToLower(strings.TrimSpace(s)))
	switch format {
	case FormatTable, FormatJSON, FormatYAML, "":
		return format, nil
	default:
		return "", fmt.Errorf("invalid format %q: must be one of: table, json, yaml", s)
	}
}
