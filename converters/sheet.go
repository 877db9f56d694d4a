package converters

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/alnah/go-doconv"
)

// ErrSpreadsheet indicates a workbook could not be read or written.
var ErrSpreadsheet = errors.New("spreadsheet conversion failed")

// defaultSheet is the sheet excelize.NewFile creates.
const defaultSheet = "Sheet1"

// Sheet converts between Excel workbooks and CSV.
// Only the first worksheet of a workbook is exported.
type Sheet struct{}

var _ doconv.Plugin = (*Sheet)(nil)

// NewSheet creates a Sheet plugin.
func NewSheet() *Sheet { return &Sheet{} }

func (s *Sheet) Name() string { return SheetName }

func (s *Sheet) CheckDependencies(context.Context) error { return nil }

func (s *Sheet) SupportedConversions() []doconv.Conversion {
	return []doconv.Conversion{
		{From: "xlsx", To: "csv"},
		{From: "csv", To: "xlsx"},
	}
}

func (s *Sheet) Convert(ctx context.Context, req doconv.Request) (string, error) {
	if err := checkConversion(s, req); err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var err error
	if req.To == "csv" {
		err = xlsxToCSV(req.InputPath, req.OutputHint)
	} else {
		err = csvToXLSX(req.InputPath, req.OutputHint)
	}
	if err != nil {
		return "", err
	}
	return req.OutputHint, nil
}

// xlsxToCSV writes the first worksheet of src as CSV.
func xlsxToCSV(src, dst string) (err error) {
	f, err := excelize.OpenFile(src)
	if err != nil {
		return fmt.Errorf("%w: opening %s: %v", ErrSpreadsheet, src, err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return fmt.Errorf("%w: %s has no worksheets", ErrSpreadsheet, src)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return fmt.Errorf("%w: reading sheet %q: %v", ErrSpreadsheet, sheets[0], err)
	}

	out, err := os.Create(dst) // #nosec G304 -- dst comes from the conversion plan
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("%w: %v", ErrWriteOutput, cerr)
		}
	}()

	w := csv.NewWriter(out)
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}
	return nil
}

// csvToXLSX writes src into the first sheet of a new workbook.
// Fields that parse as numbers are stored as numbers.
func csvToXLSX(src, dst string) error {
	in, err := os.Open(src) // #nosec G304 -- src comes from the conversion plan
	if err != nil {
		return fmt.Errorf("%w: %v", ErrReadInput, err)
	}
	defer func() { _ = in.Close() }()

	r := csv.NewReader(in)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return fmt.Errorf("%w: parsing CSV: %v", ErrSpreadsheet, err)
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	for i, record := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrSpreadsheet, err)
		}
		row := make([]any, len(record))
		for j, field := range record {
			row[j] = cellValue(field)
		}
		if err := f.SetSheetRow(defaultSheet, cell, &row); err != nil {
			return fmt.Errorf("%w: row %d: %v", ErrSpreadsheet, i+1, err)
		}
	}

	if err := f.SaveAs(dst); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}
	return nil
}

// cellValue returns field as a number when it reads back unchanged.
// Values such as "007", "1e3" or "NaN" stay text.
func cellValue(field string) any {
	if n, err := strconv.ParseInt(field, 10, 64); err == nil && strconv.FormatInt(n, 10) == field {
		return n
	}
	if f, err := strconv.ParseFloat(field, 64); err == nil && !math.IsInf(f, 0) && !math.IsNaN(f) &&
		strconv.FormatFloat(f, 'f', -1, 64) == field {
		return f
	}
	return field
}
