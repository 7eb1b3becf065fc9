package jsontemplar

import (
	"fmt"
	"sort"
)

// Kind - категория базового имени плейсхолдера.
type Kind int

const (
	KindUnresolved Kind = iota
	KindBuiltin
	KindGlobalInput
	KindRowInput
	KindColumn
)

func (k Kind) String() string {
	switch k {
	case KindBuiltin:
		return "builtin"
	case KindGlobalInput:
		return "global-input"
	case KindRowInput:
		return "row-input"
	case KindColumn:
		return "column"
	default:
		return "unresolved"
	}
}

// InputScope - область действия пользовательского ввода
type InputScope int

const (
	ScopeGlobal InputScope = iota // одно значение на весь документ
	ScopeRow                      // своё значение для каждой строки
)

func (s InputScope) String() string {
	if s == ScopeRow {
		return "row"
	}
	return "global"
}

// InputType - тип значения пользовательского ввода
type InputType int

const (
	InputText InputType = iota
	InputNumber
)

func (t InputType) String() string {
	if t == InputNumber {
		return "number"
	}
	return "text"
}

// InputDef описывает один именованный пользовательский ввод.
type InputDef struct {
	Name  string
	Scope InputScope
	Type  InputType
}

// InputRegistry - два статических реестра: глобальные вводы и вводы на строку.
type InputRegistry struct {
	global map[string]InputDef
	row    map[string]InputDef
}

// NewInputRegistry возвращает пустой реестр.
func NewInputRegistry() *InputRegistry {
	return &InputRegistry{global: map[string]InputDef{}, row: map[string]InputDef{}}
}

// DefaultInputs - стандартный набор: userInputString/userInputNumber (глобальные)
// и rowInputString/rowInputNumber (на строку).
func DefaultInputs() *InputRegistry {
	r := NewInputRegistry()
	for _, d := range []InputDef{
		{Name: "userInputString", Scope: ScopeGlobal, Type: InputText},
		{Name: "userInputNumber", Scope: ScopeGlobal, Type: InputNumber},
		{Name: "rowInputString", Scope: ScopeRow, Type: InputText},
		{Name: "rowInputNumber", Scope: ScopeRow, Type: InputNumber},
	} {
		_ = r.Add(d)
	}
	return r
}

// Add регистрирует ввод. Имена встроенных динамических значений занимать нельзя,
// повторная регистрация заменяет прежнее описание.
func (r *InputRegistry) Add(d InputDef) error {
	if d.Name == "" {
		return fmt.Errorf("пустое имя ввода")
	}
	if IsBuiltin(d.Name) {
		return fmt.Errorf("имя %q зарезервировано встроенным значением", d.Name)
	}
	delete(r.global, d.Name)
	delete(r.row, d.Name)
	if d.Scope == ScopeRow {
		r.row[d.Name] = d
	} else {
		r.global[d.Name] = d
	}
	return nil
}

// Lookup ищет ввод сначала среди глобальных, затем среди строковых.
func (r *InputRegistry) Lookup(name string) (InputDef, bool) {
	if d, ok := r.global[name]; ok {
		return d, true
	}
	d, ok := r.row[name]
	return d, ok
}

// Defs возвращает все описания, отсортированные по имени.
func (r *InputRegistry) Defs() []InputDef {
	out := make([]InputDef, 0, len(r.global)+len(r.row))
	for _, d := range r.global {
		out = append(out, d)
	}
	for _, d := range r.row {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// NumericNames - множество имён вводов, которые выводятся как JSON-числа.
func (r *InputRegistry) NumericNames() map[string]bool {
	out := map[string]bool{}
	for _, d := range r.Defs() {
		if d.Type == InputNumber {
			out[d.Name] = true
		}
	}
	return out
}

// Classify относит базовое имя к категории. Порядок: встроенные, глобальные вводы,
// вводы на строку, колонки таблицы; иначе - не разрешено.
func (r *InputRegistry) Classify(name string, headers []string) Kind {
	if IsBuiltin(name) {
		return KindBuiltin
	}
	if _, ok := r.global[name]; ok {
		return KindGlobalInput
	}
	if _, ok := r.row[name]; ok {
		return KindRowInput
	}
	for _, h := range headers {
		if h == name {
			return KindColumn
		}
	}
	return KindUnresolved
}

// Classify классифицирует имя по стандартному набору вводов.
func Classify(name string, headers []string) Kind {
	return DefaultInputs().Classify(name, headers)
}
