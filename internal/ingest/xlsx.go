package ingest

import (
	"errors"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// parseXLSX reads the first worksheet. Blank rows are skipped before
// row numbers are assigned.
func parseXLSX(r io.Reader) ([]Row, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}

	cells, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	return rowsFromGrid(cells), nil
}

func rowsFromGrid(cells [][]string) []Row {
	var header []string
	var rows []Row
	for _, line := range cells {
		if isBlank(line) {
			continue
		}
		if header == nil {
			header = line
			continue
		}
		rows = append(rows, rowFromCells(header, line))
	}
	return rows
}
