package jsontemplar

import (
	"errors"
	"strings"
)

// ErrNotReady - запрос не прошёл проверку готовности (см. Result.Report).
var ErrNotReady = errors.New("шаблон не готов к подстановке")

// Request - входные данные одного запуска.
type Request struct {
	Template  string
	Table     *Table
	ArrayMode bool
	ArrayPath string
	Globals   map[string]string
	RowInputs map[int]map[string]string // индекс строки → ввод на строку
	Numeric   []string                  // дополнительные имена, выводимые числами
}

// Result - итог запуска: Outputs в режиме «документ на строку», Document - в режиме массива.
type Result struct {
	Outputs  []string
	Document string
	Report   *Report
}

// Run проверяет готовность и выполняет подстановку в выбранном режиме.
// Если проверка не пройдена, возвращает Result с отчётом и ErrNotReady.
func (e *Engine) Run(req Request) (*Result, error) {
	req.Template = sanitizeJSONBlock(req.Template)
	if req.Table == nil {
		req.Table = &Table{}
	}
	res := &Result{Report: e.Check(req)}
	if !res.Report.Ready() {
		return res, ErrNotReady
	}
	numeric := e.numericSet(req.Numeric)
	if !req.ArrayMode {
		res.Outputs = e.MergeRows(req.Template, req.Table, req.Globals, req.RowInputs, numeric)
		return res, nil
	}
	doc, err := e.MergeArray(req.Template, req.Table.Rows, strings.TrimSpace(req.ArrayPath), req.Globals, req.RowInputs, numeric)
	if err != nil {
		return res, err
	}
	res.Document = doc
	return res, nil
}
