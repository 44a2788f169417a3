// Package export writes table snapshots to CSV and xlsx files. Column
// order comes from the live query, so an exported file always matches
// the current table layout.
package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/tealeg/xlsx"
	"gorm.io/gorm"
)

// ExportableTables is the set of tables an operator may export. The
// list is explicit so a table name coming from the CLI can never reach
// the query string unchecked.
var ExportableTables = map[string]bool{
	"patients":      true,
	"consultations": true,
	"stays":         true,
	"rooms":         true,
	"appointments":  true,
	"invoices":      true,
	"vaccinations":  true,
	"medications":   true,
	"audit_logs":    true,
	"settings":      true,
}

type Exporter struct {
	db  *gorm.DB
	dir string
}

func NewExporter(db *gorm.DB, dir string) *Exporter {
	return &Exporter{db: db, dir: dir}
}

// CSV dumps a table to <dir>/<table>_<timestamp>.csv and returns the
// path and row count.
func (e *Exporter) CSV(ctx context.Context, table string) (string, int, error) {
	cols, records, err := e.snapshot(ctx, table)
	if err != nil {
		return "", 0, err
	}

	path := filepath.Join(e.dir, fmt.Sprintf("%s_%s.csv", table, time.Now().Format("20060102_150405")))
	f, err := os.Create(path)
	if err != nil {
		return "", 0, fmt.Errorf("create export file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(cols); err != nil {
		return "", 0, err
	}
	if err := w.WriteAll(records); err != nil {
		return "", 0, err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", 0, err
	}
	return path, len(records), nil
}

// XLSX dumps a table to <dir>/<table>_<timestamp>.xlsx with the same
// layout as the CSV form.
func (e *Exporter) XLSX(ctx context.Context, table string) (string, int, error) {
	cols, records, err := e.snapshot(ctx, table)
	if err != nil {
		return "", 0, err
	}

	wb := xlsx.NewFile()
	sheet, err := wb.AddSheet(table)
	if err != nil {
		return "", 0, err
	}
	header := sheet.AddRow()
	for _, c := range cols {
		header.AddCell().SetString(c)
	}
	for _, rec := range records {
		row := sheet.AddRow()
		for _, v := range rec {
			row.AddCell().SetString(v)
		}
	}

	path := filepath.Join(e.dir, fmt.Sprintf("%s_%s.xlsx", table, time.Now().Format("20060102_150405")))
	if err := wb.Save(path); err != nil {
		return "", 0, fmt.Errorf("save export file: %w", err)
	}
	return path, len(records), nil
}

// snapshot reads every row of a known table, rendering each value as
// text. NULL becomes the empty string.
func (e *Exporter) snapshot(ctx context.Context, table string) ([]string, [][]string, error) {
	if !ExportableTables[table] {
		return nil, nil, fmt.Errorf("table %q is not exportable", table)
	}

	rows, err := e.db.WithContext(ctx).Raw("SELECT * FROM " + table).Rows()
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}

	var records [][]string
	values := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range values {
		ptrs[i] = &values[i]
	}
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, err
		}
		rec := make([]string, len(cols))
		for i, v := range values {
			rec[i] = renderValue(v)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}
	return cols, records, nil
}

func renderValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case []byte:
		return string(x)
	case time.Time:
		return x.Format(time.RFC3339)
	default:
		return fmt.Sprint(x)
	}
}
