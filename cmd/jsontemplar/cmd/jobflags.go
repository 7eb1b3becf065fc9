package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/nikitaxru/jsontemplar"
)

// jobFlags - флаги, из которых собирается задание (поверх файла --config).
type jobFlags struct {
	config    string
	template  string
	data      string
	sheet     string
	delimiter string
	noHeader  bool
	arrayPath string
	filter    string
	output    string
	sets      []string
	rows      []string
	numeric   []string
	inputs    []string
}

func (f *jobFlags) register(fs *pflag.FlagSet) {
	fs.StringVarP(&f.config, "config", "c", "", "Файл задания (.yaml, .yml, .toml)")
	fs.StringVarP(&f.template, "template", "t", "", "JSON-шаблон")
	fs.StringVarP(&f.data, "data", "d", "", "Данные: .csv, .tsv или .xlsx")
	fs.StringVar(&f.sheet, "sheet", "", "Лист книги Excel (по умолчанию первый)")
	fs.StringVar(&f.delimiter, "delimiter", "", "Разделитель полей CSV (по умолчанию запятая)")
	fs.BoolVar(&f.noHeader, "no-header", false, "В CSV нет строки заголовка")
	fs.StringVar(&f.arrayPath, "array-path", "", "Путь к массиву (включает режим array), например data.items")
	fs.StringVar(&f.filter, "filter", "", "Выражение expr для отбора строк, например 'num(age) >= 18'")
	fs.StringVarP(&f.output, "output", "o", "", "Файл или каталог результата; .xlsx - книга Excel")
	fs.StringArrayVar(&f.sets, "set", nil, "Глобальный ввод name=value (повторяемый)")
	fs.StringArrayVar(&f.rows, "row", nil, "Ввод на строку index:name=value, index с 0 (повторяемый)")
	fs.StringSliceVar(&f.numeric, "numeric", nil, "Дополнительные имена, выводимые числами")
	fs.StringArrayVar(&f.inputs, "input", nil, "Объявить ввод name:scope:type, например qty:row:number")
}

// build собирает задание: файл --config, затем поверх него явно заданные флаги.
func (f *jobFlags) build(cmd *cobra.Command) (*jsontemplar.Job, error) {
	var job *jsontemplar.Job
	if f.config != "" {
		j, err := jsontemplar.LoadJob(f.config)
		if err != nil {
			return nil, err
		}
		job = j
	} else {
		j, err := jsontemplar.ParseJob([]byte("{}"), "yaml")
		if err != nil {
			return nil, err
		}
		job = j
	}
	fs := cmd.Flags()
	override := func(name string, dst *string, val string) {
		if fs.Changed(name) {
			*dst = val
		}
	}
	override("template", &job.Template, f.template)
	override("data", &job.Data, f.data)
	override("sheet", &job.Sheet, f.sheet)
	override("delimiter", &job.Delimiter, unescapeDelimiter(f.delimiter))
	override("filter", &job.Filter, f.filter)
	override("output", &job.Output, f.output)
	if fs.Changed("no-header") {
		job.NoHeader = f.noHeader
	}
	if fs.Changed("array-path") {
		job.ArrayPath = f.arrayPath
		job.Mode = jsontemplar.ModeArray
	}
	for _, s := range f.sets {
		name, value, err := parseAssignment(s)
		if err != nil {
			return nil, fmt.Errorf("--set: %w", err)
		}
		job.Globals[name] = value
	}
	for _, s := range f.rows {
		idx, name, value, err := parseRowAssignment(s)
		if err != nil {
			return nil, fmt.Errorf("--row: %w", err)
		}
		if job.RowInputs[idx] == nil {
			job.RowInputs[idx] = map[string]string{}
		}
		job.RowInputs[idx][name] = value
	}
	job.Numeric = append(job.Numeric, f.numeric...)
	for _, s := range f.inputs {
		spec, err := parseInputSpec(s)
		if err != nil {
			return nil, fmt.Errorf("--input: %w", err)
		}
		job.Inputs = append(job.Inputs, spec)
	}
	return job, nil
}

// parseAssignment разбирает name=value
func parseAssignment(s string) (string, string, error) {
	name, value, ok := strings.Cut(s, "=")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return "", "", fmt.Errorf("ожидается name=value, получено %q", s)
	}
	return name, value, nil
}

// parseRowAssignment разбирает index:name=value
func parseRowAssignment(s string) (string, string, string, error) {
	idx, rest, ok := strings.Cut(s, ":")
	if !ok {
		return "", "", "", fmt.Errorf("ожидается index:name=value, получено %q", s)
	}
	idx = strings.TrimSpace(idx)
	for _, r := range idx {
		if r < '0' || r > '9' {
			return "", "", "", fmt.Errorf("номер строки %q должен быть неотрицательным целым", idx)
		}
	}
	if idx == "" {
		return "", "", "", fmt.Errorf("пустой номер строки в %q", s)
	}
	name, value, err := parseAssignment(rest)
	if err != nil {
		return "", "", "", err
	}
	return idx, name, value, nil
}

// parseInputSpec разбирает name[:scope[:type]]
func parseInputSpec(s string) (jsontemplar.InputSpec, error) {
	parts := strings.Split(s, ":")
	if len(parts) > 3 || strings.TrimSpace(parts[0]) == "" {
		return jsontemplar.InputSpec{}, fmt.Errorf("ожидается name:scope:type, получено %q", s)
	}
	spec := jsontemplar.InputSpec{Name: strings.TrimSpace(parts[0])}
	if len(parts) > 1 {
		spec.Scope = strings.TrimSpace(parts[1])
	}
	if len(parts) > 2 {
		spec.Type = strings.TrimSpace(parts[2])
	}
	return spec, nil
}

// unescapeDelimiter позволяет передать табуляцию как \t
func unescapeDelimiter(s string) string {
	if s == `\t` {
		return "\t"
	}
	return s
}
