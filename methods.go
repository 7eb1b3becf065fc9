package jsontemplar

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// methodFunc - чистое строковое преобразование из реестра методов
type methodFunc func(string) string

var methods = map[string]methodFunc{
	"toLowerCase": strings.ToLower,
	"toUpperCase": strings.ToUpper,
	"trim":        strings.TrimSpace,
	"capitalize":  capitalize,
	"titleCase":   titleCase,
	"slugify":     slugify,
	"camelCase":   camelCase,
	"pascalCase":  pascalCase,
	"snakeCase":   func(s string) string { return joinWords(s, "_") },
	"kebabCase":   func(s string) string { return joinWords(s, "-") },
	"reverse":     reverse,
	"length":      func(s string) string { return strconv.Itoa(utf8.RuneCountInString(s)) },
}

// Methods возвращает отсортированный список известных методов
func Methods() []string {
	names := make([]string, 0, len(methods))
	for n := range methods {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// IsMethod сообщает, известен ли метод
func IsMethod(name string) bool {
	_, ok := methods[name]
	return ok
}

// ApplyMethods применяет цепочку слева направо. Неизвестные методы пропускаются.
func ApplyMethods(value string, chain []string) string {
	for _, name := range chain {
		if fn, ok := methods[name]; ok {
			value = fn(value)
		}
	}
	return value
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError && size == 0 {
		return s
	}
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}

// titleCase: первая буква каждого слова (слова разделены пробельными символами) - заглавная,
// остальные - строчные. Пробелы сохраняются как есть.
func titleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	wordStart := true
	for _, r := range s {
		if unicode.IsSpace(r) {
			wordStart = true
			b.WriteRune(r)
			continue
		}
		if wordStart {
			b.WriteRune(unicode.ToUpper(r))
			wordStart = false
		} else {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}

var (
	rxSlugStrip = regexp.MustCompile(`[^\w\s-]`)
	rxSlugRuns  = regexp.MustCompile(`[\s_-]+`)
)

func slugify(s string) string {
	s = strings.TrimSpace(strings.ToLower(s))
	s = rxSlugStrip.ReplaceAllString(s, "")
	s = rxSlugRuns.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

func reverse(s string) string {
	rs := []rune(s)
	for i, j := 0, len(rs)-1; i < j; i, j = i+1, j-1 {
		rs[i], rs[j] = rs[j], rs[i]
	}
	return string(rs)
}

func camelCase(s string) string {
	words := splitWords(s)
	for i, w := range words {
		if i == 0 {
			words[i] = strings.ToLower(w)
		} else {
			words[i] = capitalize(w)
		}
	}
	return strings.Join(words, "")
}

func pascalCase(s string) string {
	words := splitWords(s)
	for i, w := range words {
		words[i] = capitalize(w)
	}
	return strings.Join(words, "")
}

func joinWords(s, sep string) string {
	words := splitWords(s)
	for i, w := range words {
		words[i] = strings.ToLower(w)
	}
	return strings.Join(words, sep)
}

// splitWords режет строку на слова: любой символ, кроме букв и цифр, - разделитель,
// плюс границы CamelCase ("orderID" → order, ID; "XMLParser" → XML, Parser).
func splitWords(s string) []string {
	var words []string
	var cur []rune
	runes := []rune(s)
	flush := func() {
		if len(cur) > 0 {
			words = append(words, string(cur))
			cur = cur[:0]
		}
	}
	for i, r := range runes {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			flush()
			continue
		}
		if len(cur) > 0 && startsWord(runes, i) {
			flush()
		}
		cur = append(cur, r)
	}
	flush()
	return words
}

func startsWord(runes []rune, i int) bool {
	r, prev := runes[i], runes[i-1]
	if !unicode.IsUpper(r) {
		return false
	}
	if unicode.IsLower(prev) || unicode.IsDigit(prev) {
		return true
	}
	// конец аббревиатуры: XMLParser → XML + Parser
	return unicode.IsUpper(prev) && i+1 < len(runes) && unicode.IsLower(runes[i+1])
}
