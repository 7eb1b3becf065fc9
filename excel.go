package jsontemplar

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ReadTableXLSX читает лист книги Excel как таблицу: первая строка - заголовок.
// Пустое имя листа означает первый лист книги. Правила те же, что у ParseCSV:
// короткие строки добиваются пустыми значениями, пустые строки пропускаются.
func ReadTableXLSX(r io.Reader, sheet string) (*Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("открытие книги: %w", err)
	}
	defer f.Close()
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return &Table{Headers: []string{}, Rows: []Row{}}, nil
		}
		sheet = sheets[0]
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("лист %s: %w", sheet, err)
	}
	var records [][]string
	for i, row := range rows {
		rec := make([]string, len(row))
		blank := true
		for j, cell := range row {
			rec[j] = strings.TrimSpace(cell)
			if rec[j] != "" {
				blank = false
			}
		}
		if blank && i > 0 {
			continue
		}
		records = append(records, rec)
	}
	if len(records) == 0 {
		return &Table{Headers: []string{}, Rows: []Row{}}, nil
	}
	return buildTable(records[0], records[1:]), nil
}

const resultsSheet = "results"

// ExportXLSX записывает результаты режима «документ на строку» в книгу Excel:
// номер строки, исходные колонки и итоговый JSON в последней колонке.
func ExportXLSX(w io.Writer, table *Table, outputs []string) error {
	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", resultsSheet); err != nil {
		return err
	}
	var headers []string
	if table != nil {
		headers = table.Headers
	}
	titles := append(append([]string{"#"}, headers...), "json")
	for col, title := range titles {
		addr, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(resultsSheet, addr, title); err != nil {
			return err
		}
	}
	if sid, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err == nil {
		last, _ := excelize.CoordinatesToCellName(len(titles), 1)
		_ = f.SetCellStyle(resultsSheet, "A1", last, sid)
	}
	for i, out := range outputs {
		rowNum := i + 2
		addr, _ := excelize.CoordinatesToCellName(1, rowNum)
		if err := f.SetCellValue(resultsSheet, addr, i+1); err != nil {
			return err
		}
		if table != nil && i < len(table.Rows) {
			for col, h := range headers {
				addr, _ := excelize.CoordinatesToCellName(col+2, rowNum)
				if err := f.SetCellValue(resultsSheet, addr, table.Rows[i][h]); err != nil {
					return err
				}
			}
		}
		addr, _ = excelize.CoordinatesToCellName(len(titles), rowNum)
		if err := f.SetCellValue(resultsSheet, addr, out); err != nil {
			return err
		}
	}
	return f.Write(w)
}
