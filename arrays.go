package jsontemplar

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// Region - полуоткрытый интервал [Start, End) одного литерала [...] в тексте шаблона.
type Region struct {
	Start int
	End   int
}

// jsonScanner отслеживает строковые литералы и экранирование при посимвольном проходе.
type jsonScanner struct {
	inString   bool
	escapeNext bool
}

// step обрабатывает байт и сообщает, является ли он структурным (вне строки).
func (s *jsonScanner) step(c byte) bool {
	if s.escapeNext {
		s.escapeNext = false
		return false
	}
	if s.inString {
		switch c {
		case '\\':
			s.escapeNext = true
		case '"':
			s.inString = false
		}
		return false
	}
	if c == '"' {
		s.inString = true
		return false
	}
	return true
}

// IsInsideArray сканирует префикс text[:offset] и сообщает, открыт ли хотя бы один '['.
// Смещение за концом текста обрабатывается по доступному префиксу.
func IsInsideArray(text string, offset int) bool {
	if offset > len(text) {
		offset = len(text)
	}
	var sc jsonScanner
	depth := 0
	for i := 0; i < offset; i++ {
		c := text[i]
		if !sc.step(c) {
			continue
		}
		switch c {
		case '[':
			depth++
		case ']':
			if depth > 0 {
				depth--
			}
		}
	}
	return depth > 0
}

// FindArrayRegions возвращает все сбалансированные [...] в порядке закрытия скобок.
// Вложенные регионы отслеживаются независимо; '[' без пары региона не даёт.
func FindArrayRegions(text string) []Region {
	var sc jsonScanner
	var stack []int
	var out []Region
	for i := 0; i < len(text); i++ {
		c := text[i]
		if !sc.step(c) {
			continue
		}
		switch c {
		case '[':
			stack = append(stack, i)
		case ']':
			if len(stack) == 0 {
				continue
			}
			open := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			out = append(out, Region{Start: open, End: i + 1})
		}
	}
	return out
}

// -----------------------------
// Голые плейсхолдеры
// -----------------------------

const bareSentinel = "__jsontemplar_bare_%d__"

// bareMask хранит соответствие строк-заглушек исходным токенам.
type bareMask struct {
	tokens map[string]string // "\"__jsontemplar_bare_0__\"" → "{{n}}"
}

// maskBarePlaceholders заменяет плейсхолдеры вне JSON-строк (например, "age": {{n}})
// строками-заглушками, чтобы шаблон можно было разобрать структурно.
func maskBarePlaceholders(text string) (string, *bareMask) {
	m := &bareMask{tokens: map[string]string{}}
	toks := ScanTokens(text)
	if len(toks) == 0 {
		return text, m
	}
	var sc jsonScanner
	var b strings.Builder
	pos, last := 0, 0
	for _, tk := range toks {
		for ; pos < tk.Start; pos++ {
			sc.step(text[pos])
		}
		if sc.inString {
			continue
		}
		quoted := strconv.Quote(fmt.Sprintf(bareSentinel, len(m.tokens)))
		m.tokens[quoted] = tk.Raw
		b.WriteString(text[last:tk.Start])
		b.WriteString(quoted)
		last = tk.End
		pos = tk.End
	}
	b.WriteString(text[last:])
	return b.String(), m
}

// restore возвращает исходные токены на место заглушек
func (m *bareMask) restore(text string) string {
	for q, raw := range m.tokens {
		text = strings.ReplaceAll(text, q, raw)
	}
	return text
}

// -----------------------------
// Поиск массивов в JSON
// -----------------------------

const previewLimit = 50

// ArrayInfo описывает непустой массив, найденный в шаблоне.
type ArrayInfo struct {
	Path    string // путь через точку от корня, например data.items
	Preview string // первый элемент, не длиннее 50 символов
	Length  int
}

// FindArraysInJSON обходит разобранный шаблон и перечисляет все непустые массивы.
// Если шаблон не разбирается, возвращает пустой список.
func FindArraysInJSON(template string) []ArrayInfo {
	masked, mask := maskBarePlaceholders(template)
	if !gjson.Valid(masked) {
		return []ArrayInfo{}
	}
	out := []ArrayInfo{}
	var walk func(v gjson.Result, path string)
	walk = func(v gjson.Result, path string) {
		switch {
		case v.IsArray():
			items := v.Array()
			if len(items) > 0 && path != "" {
				out = append(out, ArrayInfo{Path: path, Preview: preview(mask.restore(compactRaw(items[0].Raw))), Length: len(items)})
			}
			for i, it := range items {
				walk(it, joinPath(path, strconv.Itoa(i)))
			}
		case v.IsObject():
			v.ForEach(func(k, val gjson.Result) bool {
				walk(val, joinPath(path, k.String()))
				return true
			})
		}
	}
	walk(gjson.Parse(masked), "")
	return out
}

func joinPath(base, seg string) string {
	if base == "" {
		return seg
	}
	return base + "." + seg
}

func preview(s string) string {
	rs := []rune(s)
	if len(rs) <= previewLimit {
		return s
	}
	return string(rs[:previewLimit]) + "..."
}

// compactRaw убирает незначащие пробелы, как это сделал бы JSON.stringify без отступов
func compactRaw(raw string) string {
	var b strings.Builder
	var sc jsonScanner
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		if sc.step(c) && (c == ' ' || c == '\t' || c == '\n' || c == '\r') {
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

// -----------------------------
// Пути
// -----------------------------

// splitPath режет путь через точку на сегменты; пустые сегменты недопустимы
func splitPath(path string) ([]string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("пустой путь")
	}
	segs := strings.Split(path, ".")
	for _, s := range segs {
		if s == "" {
			return nil, fmt.Errorf("путь %q: пустой сегмент", path)
		}
	}
	return segs, nil
}

// drill проходит по сегментам, проверяя тип контейнера перед каждым шагом:
// у объекта берётся ключ, у массива - индекс. Сквозь скаляр пройти нельзя.
func drill(v gjson.Result, segs []string) (gjson.Result, error) {
	cur := v
	for i, seg := range segs {
		switch {
		case cur.IsObject():
			next := cur.Get(escapeSeg(seg))
			if !next.Exists() {
				return gjson.Result{}, fmt.Errorf("ключ %q не найден", strings.Join(segs[:i+1], "."))
			}
			cur = next
		case cur.IsArray():
			idx, err := strconv.Atoi(seg)
			items := cur.Array()
			if err != nil || idx < 0 || idx >= len(items) {
				return gjson.Result{}, fmt.Errorf("индекс %q вне массива", strings.Join(segs[:i+1], "."))
			}
			cur = items[idx]
		default:
			return gjson.Result{}, fmt.Errorf("%q не является объектом", strings.Join(segs[:i], "."))
		}
	}
	return cur, nil
}

// escapeSeg экранирует спецсимволы синтаксиса путей gjson/sjson в одном сегменте
func escapeSeg(seg string) string {
	var b strings.Builder
	for _, r := range seg {
		if strings.ContainsRune(`\.*?|#@!:,=<>%[]{}()"'`, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

func escapePath(segs []string) string {
	esc := make([]string, len(segs))
	for i, s := range segs {
		esc[i] = escapeSeg(s)
	}
	return strings.Join(esc, ".")
}

// rawJSON - сырые байты элемента, собранные обратно в документ
func rawJSON(items []string) string {
	return "[" + strings.Join(items, ",") + "]"
}
