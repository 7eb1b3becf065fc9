package jsontemplar

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestReadTableXLSX(t *testing.T) {
	f := excelize.NewFile()
	sheet := "Sheet1"
	_ = f.SetCellValue(sheet, "A1", " name ")
	_ = f.SetCellValue(sheet, "B1", "age")
	_ = f.SetCellValue(sheet, "C1", "city")
	_ = f.SetCellValue(sheet, "A2", "John")
	_ = f.SetCellValue(sheet, "B2", 30)
	_ = f.SetCellValue(sheet, "C2", "Paris")
	// строка 3 пустая
	_ = f.SetCellValue(sheet, "A4", "Jane")

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	table, err := ReadTableXLSX(bytes.NewReader(buf.Bytes()), "")
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "age", "city"}, table.Headers)
	assert.Equal(t, []Row{
		{"name": "John", "age": "30", "city": "Paris"},
		{"name": "Jane", "age": "", "city": ""},
	}, table.Rows)

	_, err = ReadTableXLSX(bytes.NewReader(buf.Bytes()), "NoSuchSheet")
	assert.Error(t, err)

	_, err = ReadTableXLSX(bytes.NewReader([]byte("not a workbook")), "")
	assert.Error(t, err)
}

func TestExportXLSX_RoundTrip(t *testing.T) {
	table := ParseCSV("name,age\nJohn,30\nJane,25")
	outputs := []string{`{"n":"John"}`, `{"n":"Jane"}`}

	var buf bytes.Buffer
	require.NoError(t, ExportXLSX(&buf, table, outputs))

	back, err := ReadTableXLSX(bytes.NewReader(buf.Bytes()), resultsSheet)
	require.NoError(t, err)
	assert.Equal(t, []string{"#", "name", "age", "json"}, back.Headers)
	require.Equal(t, 2, back.Len())
	assert.Equal(t, Row{"#": "2", "name": "Jane", "age": "25", "json": `{"n":"Jane"}`}, back.Rows[1])

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{resultsSheet}, f.GetSheetList())
}
