package jsontemplar

import (
	"fmt"
	"sort"
	"strings"

	"github.com/agext/levenshtein"
)

// Misplacement - плейсхолдер ввода на строку вне массива (блокирует подстановку).
type Misplacement struct {
	Name   string
	Offset int
}

// NumericIssue - числовой ввод с нечисловым или пустым значением (блокирует подстановку).
// Row == -1 для глобальных вводов.
type NumericIssue struct {
	Name  string
	Row   int
	Value string
}

func (n NumericIssue) String() string {
	if n.Row < 0 {
		return fmt.Sprintf("%s = %q", n.Name, n.Value)
	}
	return fmt.Sprintf("%s[строка %d] = %q", n.Name, n.Row+1, n.Value)
}

// MissingColumn - плейсхолдер без колонки и без другого источника (предупреждение).
type MissingColumn struct {
	Name       string
	Suggestion string // ближайший по написанию заголовок, если нашёлся
}

// Report - итог проверки готовности к подстановке.
type Report struct {
	Syntax        Validity
	Placeholders  []Placeholder
	Missing       []MissingColumn // предупреждения
	MissingInputs []string        // текстовые вводы без значения, предупреждения
	Misplaced     []Misplacement
	NumericIssues []NumericIssue
	ArrayError    string
}

// Ready сообщает, можно ли запускать подстановку.
func (r *Report) Ready() bool {
	return r.Syntax.Valid && len(r.Misplaced) == 0 && len(r.NumericIssues) == 0 && r.ArrayError == ""
}

// Warnings возвращает неблокирующие замечания текстом.
func (r *Report) Warnings() []string {
	var out []string
	for _, m := range r.Missing {
		if m.Suggestion != "" {
			out = append(out, fmt.Sprintf("колонка %q не найдена (возможно, %q?)", m.Name, m.Suggestion))
		} else {
			out = append(out, fmt.Sprintf("колонка %q не найдена", m.Name))
		}
	}
	for _, n := range r.MissingInputs {
		out = append(out, fmt.Sprintf("ввод %q не заполнен", n))
	}
	return out
}

// Problems возвращает блокирующие ошибки текстом.
func (r *Report) Problems() []string {
	var out []string
	if !r.Syntax.Valid {
		out = append(out, "синтаксис JSON: "+r.Syntax.Error)
	}
	for _, m := range r.Misplaced {
		out = append(out, fmt.Sprintf("{{%s}} на позиции %d находится вне массива", m.Name, m.Offset))
	}
	for _, n := range r.NumericIssues {
		out = append(out, "нечисловое значение: "+n.String())
	}
	if r.ArrayError != "" {
		out = append(out, "массив: "+r.ArrayError)
	}
	return out
}

// Check вычисляет готовность запроса к подстановке, ничего не подставляя.
func (e *Engine) Check(req Request) *Report {
	var headers []string
	if req.Table != nil {
		headers = req.Table.Headers
	}
	req.Template = sanitizeJSONBlock(req.Template)
	r := &Report{
		Syntax:       ValidateJSON(req.Template),
		Placeholders: ExtractPlaceholders(req.Template, headers, e.inputs),
	}
	numeric := e.numericSet(req.Numeric)
	for _, p := range r.Placeholders {
		switch p.Kind {
		case KindUnresolved:
			if _, ok := req.Globals[p.Name]; ok {
				continue
			}
			r.Missing = append(r.Missing, MissingColumn{Name: p.Name, Suggestion: suggest(p.Name, headers)})
		case KindGlobalInput:
			v, ok := req.Globals[p.Name]
			if numeric[p.Name] {
				if !IsNumber(v) {
					r.NumericIssues = append(r.NumericIssues, NumericIssue{Name: p.Name, Row: -1, Value: v})
				}
			} else if !ok {
				r.MissingInputs = append(r.MissingInputs, p.Name)
			}
		case KindRowInput:
			for _, off := range p.Offsets {
				if !IsInsideArray(req.Template, off) {
					r.Misplaced = append(r.Misplaced, Misplacement{Name: p.Name, Offset: off})
				}
			}
			r.checkRowInput(p.Name, numeric[p.Name], req)
		}
	}
	sort.SliceStable(r.Misplaced, func(i, j int) bool { return r.Misplaced[i].Offset < r.Misplaced[j].Offset })
	if req.ArrayMode && r.Syntax.Valid {
		r.ArrayError = checkArrayPath(req.Template, req.ArrayPath)
	}
	return r
}

// checkRowInput проверяет значения ввода на строку для каждой строки таблицы
func (r *Report) checkRowInput(name string, numeric bool, req Request) {
	missing := false
	for i := 0; i < req.Table.Len(); i++ {
		v, ok := req.RowInputs[i][name]
		if numeric && !IsNumber(v) {
			r.NumericIssues = append(r.NumericIssues, NumericIssue{Name: name, Row: i, Value: v})
		}
		if !ok {
			missing = true
		}
	}
	if missing && !numeric {
		r.MissingInputs = append(r.MissingInputs, name)
	}
}

// checkArrayPath проходит путь так же, как MergeArray, и возвращает текст ошибки
func checkArrayPath(template, path string) string {
	masked, _ := maskBarePlaceholders(template)
	if _, _, err := locateArray(masked, path); err != nil {
		return err.Error()
	}
	return ""
}

// suggest подбирает заголовок, ближайший по расстоянию Левенштейна
func suggest(name string, headers []string) string {
	best, bestDist := "", -1
	for _, h := range headers {
		if strings.EqualFold(h, name) {
			return h
		}
		d := levenshtein.Distance(strings.ToLower(name), strings.ToLower(h), nil)
		if bestDist < 0 || d < bestDist {
			best, bestDist = h, d
		}
	}
	limit := len([]rune(name)) / 3
	if limit < 2 {
		limit = 2
	}
	if bestDist < 0 || bestDist > limit {
		return ""
	}
	return best
}
