package ingest

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/extrame/xls"
)

const xlsCharset = "utf-8"

// parseXLS reads the first worksheet of a legacy BIFF workbook.
func parseXLS(r io.Reader) (rows []Row, err error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read workbook: %w", err)
	}

	// the decoder panics on truncated or corrupt records
	defer func() {
		if rec := recover(); rec != nil {
			rows = nil
			err = fmt.Errorf("corrupt workbook: %v", rec)
		}
	}()

	wb, err := xls.OpenReader(bytes.NewReader(data), xlsCharset)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	if wb == nil || wb.NumSheets() == 0 {
		return nil, errors.New("workbook has no sheets")
	}

	sheet := wb.GetSheet(0)
	if sheet == nil {
		return nil, errors.New("workbook has no sheets")
	}

	grid := make([][]string, 0, int(sheet.MaxRow)+1)
	for i := 0; i <= int(sheet.MaxRow); i++ {
		grid = append(grid, xlsRowCells(sheet, i))
	}
	return rowsFromGrid(grid), nil
}

func xlsRowCells(sheet *xls.WorkSheet, i int) (cells []string) {
	// Row dereferences a nil entry for rows absent from the sheet
	defer func() {
		if recover() != nil {
			cells = nil
		}
	}()

	row := sheet.Row(i)
	if row == nil {
		return nil
	}
	cells = make([]string, 0, row.LastCol()+1)
	for j := 0; j <= row.LastCol(); j++ {
		cells = append(cells, row.Col(j))
	}
	return cells
}
