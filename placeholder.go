package jsontemplar

import (
	"regexp"
	"strings"
)

// Синтаксис плейсхолдеров:
// - {{name}}
// - {{name.method1().method2()}} - цепочка методов применяется слева направо
// Всё, что не похоже на .identifier(), в цепочку не попадает, но остаётся частью
// исходного текста токена.

var (
	rxToken  = regexp.MustCompile(`\{\{([^}]+)\}\}`)
	rxMethod = regexp.MustCompile(`\.([A-Za-z_$][A-Za-z0-9_$]*)\(\)`)
)

// Token - одно вхождение плейсхолдера в тексте шаблона.
type Token struct {
	Raw     string   // точный текст {{...}}
	Name    string   // базовое имя до первой точки
	Methods []string // цепочка методов в порядке применения
	Start   int      // смещение первого '{' в байтах
	End     int      // смещение сразу после '}}'
}

// ParseToken разбирает содержимое между {{ и }} на базовое имя и цепочку методов.
func ParseToken(inner string) (name string, methods []string) {
	inner = strings.TrimSpace(inner)
	name = inner
	rest := ""
	if i := strings.Index(inner, "."); i >= 0 {
		name, rest = inner[:i], inner[i:]
	}
	for _, m := range rxMethod.FindAllStringSubmatch(rest, -1) {
		methods = append(methods, m[1])
	}
	return strings.TrimSpace(name), methods
}

// ScanTokens находит все вхождения {{...}} за один проход слева направо.
func ScanTokens(text string) []Token {
	ms := rxToken.FindAllStringSubmatchIndex(text, -1)
	if len(ms) == 0 {
		return nil
	}
	toks := make([]Token, 0, len(ms))
	for _, m := range ms {
		start, end := m[0], m[1]
		name, methods := ParseToken(text[m[2]:m[3]])
		if name == "" {
			continue
		}
		toks = append(toks, Token{Raw: text[start:end], Name: name, Methods: methods, Start: start, End: end})
	}
	return toks
}

// Placeholder - уникальное базовое имя плейсхолдера в шаблоне вместе с его классификацией.
type Placeholder struct {
	Name    string
	Kind    Kind
	Offsets []int      // смещения всех вхождений
	Chains  [][]string // цепочки методов по вхождениям (nil, если методов нет)
}

// ExtractPlaceholders возвращает каждое базовое имя ровно один раз, в порядке первого появления.
func ExtractPlaceholders(template string, headers []string, inputs *InputRegistry) []Placeholder {
	if inputs == nil {
		inputs = DefaultInputs()
	}
	var out []Placeholder
	idx := map[string]int{}
	for _, tk := range ScanTokens(template) {
		i, ok := idx[tk.Name]
		if !ok {
			i = len(out)
			idx[tk.Name] = i
			out = append(out, Placeholder{Name: tk.Name, Kind: inputs.Classify(tk.Name, headers)})
		}
		out[i].Offsets = append(out[i].Offsets, tk.Start)
		out[i].Chains = append(out[i].Chains, tk.Methods)
	}
	return out
}
