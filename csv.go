package jsontemplar

import (
	"fmt"
	"strings"
)

// Row - одна строка табличных данных: заголовок колонки → значение.
type Row map[string]string

// Table - результат разбора табличного ввода. Создаётся заново при каждом разборе
// и дальше не изменяется.
type Table struct {
	Headers []string
	Rows    []Row
}

// Len возвращает количество строк данных (без заголовка)
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// HasColumn сообщает, есть ли колонка с таким заголовком
func (t *Table) HasColumn(name string) bool {
	if t == nil {
		return false
	}
	for _, h := range t.Headers {
		if h == name {
			return true
		}
	}
	return false
}

// CSVOptions управляет разбором табличного текста.
type CSVOptions struct {
	// Delimiter - разделитель полей, по умолчанию запятая
	Delimiter rune
	// NoHeader - первая строка уже содержит данные; заголовки будут column1..columnN
	NoHeader bool
}

// ParseCSV разбирает текст с разделителем-запятой, первая строка - заголовок.
// Разбор никогда не завершается ошибкой: некорректные кавычки дают разбиение «как получится».
func ParseCSV(text string) *Table {
	return ParseCSVWithOptions(text, CSVOptions{})
}

// ParseCSVWithOptions - то же, что ParseCSV, но с настраиваемым разделителем и режимом без заголовка.
func ParseCSVWithOptions(text string, opts CSVOptions) *Table {
	delim := opts.Delimiter
	if delim == 0 {
		delim = ','
	}
	text = strings.TrimRight(text, " \t\r\n")
	if text == "" {
		return &Table{Headers: []string{}, Rows: []Row{}}
	}
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	var records [][]string
	for i, line := range lines {
		// пустые строки данных пропускаем, заголовок берём всегда
		if i > 0 && strings.TrimSpace(line) == "" {
			continue
		}
		records = append(records, splitLine(line, delim))
	}
	if opts.NoHeader {
		width := 0
		for _, r := range records {
			if len(r) > width {
				width = len(r)
			}
		}
		headers := make([]string, width)
		for i := range headers {
			headers[i] = fmt.Sprintf("column%d", i+1)
		}
		return buildTable(headers, records)
	}
	return buildTable(records[0], records[1:])
}

// splitLine разбивает одну физическую строку на поля.
// Поле, побывавшее в кавычках, сохраняет пробелы как есть; остальные обрезаются.
func splitLine(line string, delim rune) []string {
	var fields []string
	var b strings.Builder
	inQuotes := false
	quoted := false
	runes := []rune(line)
	flush := func() {
		f := b.String()
		if !quoted {
			f = strings.TrimSpace(f)
		}
		fields = append(fields, f)
		b.Reset()
		quoted = false
	}
	for i := 0; i < len(runes); i++ {
		ch := runes[i]
		switch {
		case ch == '"':
			if inQuotes && i+1 < len(runes) && runes[i+1] == '"' {
				b.WriteRune('"')
				i++
				continue
			}
			inQuotes = !inQuotes
			quoted = true
		case ch == delim && !inQuotes:
			flush()
		default:
			b.WriteRune(ch)
		}
	}
	flush()
	return fields
}

// buildTable сопоставляет записи заголовкам: короткие строки добиваются пустыми значениями,
// лишние поля отбрасываются. При повторяющихся заголовках побеждает последнее значение.
func buildTable(headers []string, records [][]string) *Table {
	t := &Table{Headers: make([]string, len(headers)), Rows: make([]Row, 0, len(records))}
	for i, h := range headers {
		t.Headers[i] = strings.TrimSpace(h)
	}
	for _, rec := range records {
		row := make(Row, len(t.Headers))
		for i, h := range t.Headers {
			if i < len(rec) {
				row[h] = rec[i]
			} else {
				row[h] = ""
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}
