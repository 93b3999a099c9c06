package tabular

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"progeval/domain/core"
	"progeval/domain/study"

	"github.com/xuri/excelize/v2"
)

// DataReader loads tabular study data from Excel or CSV files
type DataReader struct {
	filePath string
	fileType string // "xlsx" or "csv"
}

// NewDataReader creates a reader that handles both Excel and CSV files
func NewDataReader(filePath string) *DataReader {
	ext := strings.ToLower(filepath.Ext(filePath))
	fileType := "xlsx"
	if ext == ".csv" {
		fileType = "csv"
	}
	return &DataReader{filePath: filePath, fileType: fileType}
}

// Read loads the file into a column-oriented dataset. Column types are
// inferred from the cell values: a column where every non-empty cell parses
// as a number becomes numeric, everything else categorical.
func (r *DataReader) Read() (*study.Dataset, error) {
	if _, err := os.Stat(r.filePath); os.IsNotExist(err) {
		return nil, fmt.Errorf("%s file not found: %s", strings.ToUpper(r.fileType), r.filePath)
	}

	var rows [][]string
	var err error
	switch r.fileType {
	case "csv":
		rows, err = r.readCSVRows()
	case "xlsx":
		rows, err = r.readExcelRows()
	default:
		return nil, fmt.Errorf("unsupported file type: %s", r.fileType)
	}
	if err != nil {
		return nil, err
	}

	if len(rows) < 2 {
		return nil, fmt.Errorf("%s file must have a header row and at least one data row: %w",
			strings.ToUpper(r.fileType), core.ErrEmptyDataset)
	}

	return buildDataset(rows)
}

func (r *DataReader) readExcelRows() ([][]string, error) {
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	return rows, nil
}

func (r *DataReader) readCSVRows() ([][]string, error) {
	file, err := os.Open(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV file: %w", err)
	}
	return rows, nil
}

// buildDataset converts raw string rows into typed columns
func buildDataset(rows [][]string) (*study.Dataset, error) {
	headerRow := rows[0]
	headers := make([]string, len(headerRow))
	for i, header := range headerRow {
		headers[i] = strings.TrimSpace(header)
	}

	n := len(rows) - 1
	cells := make([][]string, len(headers))
	for j := range headers {
		cells[j] = make([]string, n)
	}
	for i := 1; i < len(rows); i++ {
		for j := range headers {
			if j < len(rows[i]) {
				cells[j][i-1] = strings.TrimSpace(rows[i][j])
			}
		}
	}

	columns := make([]study.Column, 0, len(headers))
	for j, header := range headers {
		if header == "" {
			return nil, fmt.Errorf("column %d has an empty header", j+1)
		}
		columns = append(columns, inferColumn(header, cells[j]))
	}

	return study.New(columns...)
}

// inferColumn types a column as numeric when every non-empty cell parses as a
// float, otherwise categorical. Empty cells become the missing marker for the
// chosen type.
func inferColumn(name string, cells []string) study.Column {
	numeric := true
	nonEmpty := 0
	for _, cell := range cells {
		if cell == "" {
			continue
		}
		nonEmpty++
		if _, err := strconv.ParseFloat(cell, 64); err != nil {
			numeric = false
			break
		}
	}

	if numeric && nonEmpty > 0 {
		values := make([]float64, len(cells))
		for i, cell := range cells {
			if cell == "" {
				values[i] = math.NaN()
				continue
			}
			v, _ := strconv.ParseFloat(cell, 64)
			values[i] = v
		}
		return study.NumericColumn(name, values)
	}

	labels := make([]string, len(cells))
	copy(labels, cells)
	return study.CategoricalColumn(name, labels)
}
