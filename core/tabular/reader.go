package tabular

import (
	"bufio"
	"bytes"
	"encoding/csv"
	stderrors "errors"
	"fmt"
	"io"
	"strings"

	"stock-reconciler/core/errors"
	"stock-reconciler/core/inventory"
	"stock-reconciler/core/utils"

	"github.com/shopspring/decimal"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Options controls how tables are decoded and encoded.
type Options struct {
	// KeyColumn is the item name column. Defaults to "Item".
	KeyColumn string

	// Defaults fill missing or empty threshold and suggestion cells.
	Defaults inventory.Defaults

	// AllowNegativeInvoice lets negative invoice quantities through as stock corrections.
	AllowNegativeInvoice bool
}

// DefaultOptions returns options for the "Item" key column and the standard defaults.
func DefaultOptions() Options {
	return Options{
		KeyColumn: inventory.ColItem,
		Defaults:  inventory.StandardDefaults(),
	}
}

func (o Options) keyColumn() string {
	if strings.TrimSpace(o.KeyColumn) == "" {
		return inventory.ColItem
	}
	return o.KeyColumn
}

// HeaderIndex maps column names (lowercase) to their position in the CSV row.
type HeaderIndex map[string]int

// MakeHeaderIndex creates a HeaderIndex from a CSV header row.
// Keys are lowercased for case-insensitive matching.
func MakeHeaderIndex(header []string) HeaderIndex {
	idx := make(HeaderIndex, len(header))
	for i, h := range header {
		key := strings.ToLower(utils.CleanCell(h))
		if _, dup := idx[key]; !dup {
			idx[key] = i
		}
	}
	return idx
}

// Lookup returns the position of a column.
func (h HeaderIndex) Lookup(name string) (int, bool) {
	pos, ok := h[strings.ToLower(name)]
	return pos, ok
}

// row is a data row with its 1-based line in the source.
type row struct {
	line   int
	fields []string
}

// cell returns the trimmed value at pos, or "" when the row is short.
// Quotes inside names are kept so keys survive a write and read.
func (r row) cell(pos int) string {
	if pos < 0 || pos >= len(r.fields) {
		return ""
	}
	return utils.CleanText(r.fields[pos])
}

// readRows reads a CSV stream into its header and non-blank data rows.
func readRows(source string, r io.Reader) ([]string, []row, error) {
	reader := csv.NewReader(skipBOM(r))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil, errors.NewInputFormatError(source, 0, "", "", "table is empty, a header row is required")
	}
	if err != nil {
		return nil, nil, csvError(source, err)
	}

	var rows []row
	for {
		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, csvError(source, err)
		}
		if isBlank(fields) {
			continue
		}
		line, _ := reader.FieldPos(0)
		rows = append(rows, row{line: line, fields: fields})
	}

	return header, rows, nil
}

// skipBOM removes a leading UTF-8 byte order mark written by Windows tools.
func skipBOM(r io.Reader) io.Reader {
	br := bufio.NewReader(r)
	if prefix, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(prefix, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}
	return br
}

func isBlank(fields []string) bool {
	for _, f := range fields {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

func csvError(source string, err error) error {
	var pe *csv.ParseError
	if stderrors.As(err, &pe) {
		return errors.NewInputFormatError(source, pe.Line, "", "", "unparsable CSV: "+pe.Err.Error())
	}
	return errors.WrapIO("read", source, err)
}

// requireColumn returns the position of a mandatory column.
func requireColumn(source string, idx HeaderIndex, name string) (int, error) {
	pos, ok := idx.Lookup(name)
	if !ok {
		return 0, errors.NewInputFormatError(source, 1, name, "", "missing required column")
	}
	return pos, nil
}

// parseQuantity parses a numeric cell that must not be negative unless allowNegative is set.
func parseQuantity(source string, r row, pos int, column string, allowNegative bool) (decimal.Decimal, error) {
	raw := r.cell(pos)
	v, err := utils.ParseDecimal(raw)
	if err != nil {
		msg := err.Error()
		switch {
		case raw == "":
			msg = "value is required"
		case stderrors.Is(err, utils.ErrOutOfRange):
			msg = fmt.Sprintf("out of range (at most %d integer and %d fractional digits)",
				utils.MaxIntegerDigits, utils.MaxFractionDigits)
		}
		return decimal.Zero, errors.NewInputFormatError(source, r.line, column, raw, msg)
	}
	if v.IsNegative() && !allowNegative {
		return decimal.Zero, errors.NewInputFormatError(source, r.line, column, raw, "must not be negative")
	}
	return v, nil
}

// keyCell returns the item name of a row, rejecting empty names and duplicates.
func keyCell(source string, r row, pos int, column string, seen map[string]int) (string, error) {
	key := r.cell(pos)
	if key == "" {
		return "", errors.NewInputFormatError(source, r.line, column, "", "item name is empty")
	}
	if first, dup := seen[key]; dup {
		return "", errors.NewSchemaMismatchError(source, key, first, r.line)
	}
	seen[key] = r.line
	return key, nil
}
