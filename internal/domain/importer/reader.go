package importer

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/hirosato/bookkeeper/internal/domain/errors"
)

// ReadFile reads a tabular import file, dispatching on the extension.
func ReadFile(path string) ([][]string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return ReadCSVFile(path)
	case ".xlsx", ".xls":
		return ReadXLSXFile(path)
	default:
		return nil, errors.NewParseError("unsupported import file type, want .csv or .xlsx", nil)
	}
}

// ReadCSVFile reads every row of a CSV file.
func ReadCSVFile(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.NewParseError("failed to open import file", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	rows, err := r.ReadAll()
	if err != nil {
		return nil, errors.NewParseError("failed to read csv file", err)
	}
	return rows, nil
}

// ReadXLSXFile reads every row of the first sheet of a spreadsheet file.
func ReadXLSXFile(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.NewParseError("failed to open spreadsheet file", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.NewParseError("spreadsheet has no sheets", nil)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, errors.NewParseError("failed to read spreadsheet rows", err)
	}
	return rows, nil
}
