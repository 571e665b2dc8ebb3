// Package input reads tabular coordinate data (CSV or XLSX), detects
// the relevant columns by fuzzy name-containment, and cleans cell
// values into numeric WGS84 points.
package input

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"
)

// Table is a parsed input file: a header row plus data rows. Rows may
// be ragged; consumers index defensively.
type Table struct {
	Header []string
	Rows   [][]string
}

// Columns are the detected indices for the ID, latitude, and longitude
// columns.
type Columns struct {
	ID  int
	Lat int
	Lon int
}

// Point is one cleaned input row: an identifier plus WGS84
// coordinates. Never mutated after creation.
type Point struct {
	ID  string
	Lat float64
	Lon float64
}

// idKeywords mark candidate identifier columns.
var idKeywords = []string{"id", "point", "boring", "name"}

// ReadTable parses path as CSV or XLSX by extension.
func ReadTable(path string) (*Table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return readXLSX(path)
	default:
		f, err := os.Open(path)
		if err != nil {
			return nil, eris.Wrapf(err, "input: open %s", path)
		}
		defer func() { _ = f.Close() }()
		return ReadCSV(f)
	}
}

// ReadCSV parses CSV content into a Table.
func ReadCSV(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // allow variable fields
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		return nil, eris.Wrap(err, "input: read csv header")
	}
	for i, h := range header {
		header[i] = strings.TrimSpace(h)
	}

	t := &Table{Header: header}
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrap(err, "input: read csv row")
		}
		t.Rows = append(t.Rows, rec)
	}
	return t, nil
}

// readXLSX parses the first sheet of an XLSX workbook into a Table.
func readXLSX(path string) (*Table, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "input: open xlsx %s", path)
	}
	if len(f.Sheets) == 0 {
		return nil, eris.Errorf("input: xlsx %s has no sheets", path)
	}

	sheet := f.Sheets[0]
	t := &Table{}
	for i, row := range sheet.Rows {
		cells := make([]string, len(row.Cells))
		for j, cell := range row.Cells {
			cells[j] = strings.TrimSpace(cell.String())
		}
		if i == 0 {
			t.Header = cells
			continue
		}
		t.Rows = append(t.Rows, cells)
	}
	if t.Header == nil {
		return nil, eris.Errorf("input: xlsx %s sheet is empty", path)
	}
	return t, nil
}

// DetectColumns finds the ID, latitude, and longitude columns by
// name-containment: "lat" for latitude; "lon" or "long" for longitude;
// "id"/"point"/"boring"/"name" for the identifier, defaulting to the
// first column when nothing matches.
func DetectColumns(header []string) (Columns, error) {
	cols := Columns{ID: -1, Lat: -1, Lon: -1}

	for i, h := range header {
		name := strings.ToLower(h)

		if cols.Lat < 0 && strings.Contains(name, "lat") {
			cols.Lat = i
			continue
		}
		if cols.Lon < 0 && (strings.Contains(name, "lon") || strings.Contains(name, "long")) {
			cols.Lon = i
			continue
		}
		if cols.ID < 0 {
			for _, kw := range idKeywords {
				if strings.Contains(name, kw) {
					cols.ID = i
					break
				}
			}
		}
	}

	if cols.Lat < 0 || cols.Lon < 0 {
		return cols, eris.New("input: no latitude/longitude columns found")
	}
	if cols.ID < 0 {
		if len(header) == 0 {
			return cols, eris.New("input: empty header")
		}
		cols.ID = 0
	}
	return cols, nil
}

// CleanCoordinate strips a trailing degree symbol and surrounding
// whitespace and parses the remainder as a float.
func CleanCoordinate(raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	s = strings.ReplaceAll(s, "°", "")
	s = strings.TrimSpace(s)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, eris.Wrapf(err, "input: parse coordinate %q", raw)
	}
	return v, nil
}

// CleanRows converts table rows to Points, dropping any row whose
// coordinates cannot be parsed. Returns the kept points and the count
// of dropped rows.
func CleanRows(t *Table, cols Columns) ([]Point, int) {
	var points []Point
	var dropped int

	for _, row := range t.Rows {
		if cols.Lat >= len(row) || cols.Lon >= len(row) {
			dropped++
			continue
		}

		lat, latErr := CleanCoordinate(row[cols.Lat])
		lon, lonErr := CleanCoordinate(row[cols.Lon])
		if latErr != nil || lonErr != nil {
			dropped++
			continue
		}

		id := ""
		if cols.ID < len(row) {
			id = strings.TrimSpace(row[cols.ID])
		}

		points = append(points, Point{ID: id, Lat: lat, Lon: lon})
	}

	if dropped > 0 {
		zap.L().Info("input: dropped rows with unparseable coordinates",
			zap.Int("dropped", dropped),
			zap.Int("kept", len(points)),
		)
	}
	return points, dropped
}
