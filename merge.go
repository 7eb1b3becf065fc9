package jsontemplar

import (
	"fmt"
	"regexp"
	"strings"
)

// Engine подставляет значения в JSON-шаблон. Безопасен для повторного использования:
// между вызовами не хранит изменяемого состояния.
type Engine struct {
	inputs *InputRegistry
	dyn    Dynamics
}

// NewEngine создаёт движок. nil-реестр означает DefaultInputs(), пустые поля Dynamics -
// системные часы и случайность.
func NewEngine(inputs *InputRegistry, dyn Dynamics) *Engine {
	if inputs == nil {
		inputs = DefaultInputs()
	}
	return &Engine{inputs: inputs, dyn: dyn.withDefaults()}
}

// MergeInput - всё, что нужно для подстановки в один шаблон (или в один элемент массива).
type MergeInput struct {
	Row       Row
	Globals   map[string]string
	RowInputs map[string]string
	Numeric   map[string]bool // имена, которые выводятся как JSON-числа
}

// values сводит источники в одну карту. При совпадении имён побеждает более поздний:
// данные строки < глобальные вводы < вводы строки.
func (in MergeInput) values() map[string]string {
	out := make(map[string]string, len(in.Row)+len(in.Globals)+len(in.RowInputs))
	for _, src := range []map[string]string{in.Row, in.Globals, in.RowInputs} {
		for k, v := range src {
			out[k] = v
		}
	}
	return out
}

// Merge выполняет текстовую подстановку: шаблон не разбирается как JSON, поэтому
// форматирование сохраняется, а незаполненный шаблон не обязан быть валидным.
// Встроенные динамические имена здесь не трогаются, для них есть MergeRow и ResolveDynamic.
// Плейсхолдеры без источника остаются как есть.
func (e *Engine) Merge(template string, in MergeInput) string {
	return e.substitute(template, in, false)
}

// MergeRow - Merge и встроенные значения за один проход: готовый документ для одной строки.
// Подставленные значения повторно не сканируются, так что {{uuid}} внутри данных
// остаётся текстом.
func (e *Engine) MergeRow(template string, in MergeInput) string {
	return e.substitute(template, in, true)
}

// substitute - единый проход слева направо. При dynamic встроенные имена получают
// свежие значения, по одному на имя за вызов.
func (e *Engine) substitute(template string, in MergeInput, dynamic bool) string {
	toks := ScanTokens(template)
	if len(toks) == 0 {
		return template
	}
	vals := in.values()
	drawn := map[string]string{}
	var b strings.Builder
	b.Grow(len(template))
	last := 0
	for _, tk := range toks {
		if gen, ok := builtins[tk.Name]; ok {
			if !dynamic {
				continue
			}
			v, ok := drawn[tk.Name]
			if !ok {
				v = gen(e.dyn)
				drawn[tk.Name] = v
			}
			b.WriteString(template[last:tk.Start])
			b.WriteString(escapeJSON(ApplyMethods(v, tk.Methods)))
			last = tk.End
			continue
		}
		raw, ok := vals[tk.Name]
		if !ok {
			continue
		}
		v := ApplyMethods(raw, tk.Methods)
		start, end := tk.Start, tk.End
		var repl string
		if in.Numeric[tk.Name] && IsNumber(v) {
			repl = strings.TrimSpace(v)
			// "{{n}}" -> 42: кавычки вокруг токена съедаем, чтобы получилось число
			if start-1 >= last && template[start-1] == '"' && end < len(template) && template[end] == '"' {
				start--
				end++
			}
		} else {
			repl = escapeJSON(v)
		}
		b.WriteString(template[last:start])
		b.WriteString(repl)
		last = end
	}
	b.WriteString(template[last:])
	return b.String()
}

// MergeRows - режим «документ на строку». Возвращает ровно table.Len() строк в исходном
// порядке; валидный JSON форматируется с отступом в два пробела.
func (e *Engine) MergeRows(template string, table *Table, globals map[string]string, rowInputs map[int]map[string]string, numeric map[string]bool) []string {
	out := make([]string, 0, table.Len())
	if table == nil {
		return out
	}
	for i, row := range table.Rows {
		merged := e.MergeRow(template, MergeInput{Row: row, Globals: globals, RowInputs: rowInputs[i], Numeric: numeric})
		if formatted, ok := FormatJSON(merged); ok {
			merged = formatted
		}
		out = append(out, merged)
	}
	return out
}

// numericSet объединяет числовые имена реестра с дополнительными
func (e *Engine) numericSet(extra []string) map[string]bool {
	set := e.inputs.NumericNames()
	for _, n := range extra {
		set[n] = true
	}
	return set
}

var rxJSONNumber = regexp.MustCompile(`^-?(0|[1-9]\d*)(\.\d+)?([eE][+-]?\d+)?$`)

// IsNumber сообщает, является ли строка (после обрезки пробелов) числом по грамматике JSON.
func IsNumber(s string) bool {
	return rxJSONNumber.MatchString(strings.TrimSpace(s))
}

// escapeJSON экранирует значение для вставки внутрь JSON-строки (кавычки даёт сам шаблон).
func escapeJSON(s string) string {
	if !strings.ContainsAny(s, "\\\"\n\r\t\f\b") && !hasControl(s) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 8)
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case '\f':
			b.WriteString(`\f`)
		case '\b':
			b.WriteString(`\b`)
		default:
			if r < 0x20 {
				fmt.Fprintf(&b, `\u%04x`, r)
			} else {
				b.WriteRune(r)
			}
		}
	}
	return b.String()
}

func hasControl(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < 0x20 {
			return true
		}
	}
	return false
}
