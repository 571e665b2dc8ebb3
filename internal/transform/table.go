package transform

import (
	"encoding/csv"
	"encoding/json"
	"io"

	"github.com/rotisserie/eris"
)

// Table is an ordered dynamic-column result set. Column order is fixed
// at construction and every row carries exactly len(Columns) cells;
// absent values are empty strings.
type Table struct {
	Columns []string
	Rows    [][]string
}

// NewTable fixes the column order.
func NewTable(columns ...string) *Table {
	return &Table{Columns: columns}
}

// Append adds a row, padding or truncating to the column count.
func (t *Table) Append(row []string) {
	cells := make([]string, len(t.Columns))
	copy(cells, row)
	t.Rows = append(t.Rows, cells)
}

// WriteCSV writes the table with its header row.
func (t *Table) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Columns); err != nil {
		return eris.Wrap(err, "transform: write csv header")
	}
	for _, row := range t.Rows {
		if err := cw.Write(row); err != nil {
			return eris.Wrap(err, "transform: write csv row")
		}
	}
	cw.Flush()
	return eris.Wrap(cw.Error(), "transform: flush csv")
}

// MarshalJSON renders the table as an array of column-keyed objects,
// which is the shape the HTTP API returns.
func (t *Table) MarshalJSON() ([]byte, error) {
	out := make([]map[string]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		obj := make(map[string]string, len(t.Columns))
		for i, col := range t.Columns {
			obj[col] = row[i]
		}
		out = append(out, obj)
	}
	return json.Marshal(struct {
		Columns []string            `json:"columns"`
		Rows    []map[string]string `json:"rows"`
	}{Columns: t.Columns, Rows: out})
}
