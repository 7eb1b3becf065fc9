package jsontemplar

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

const (
	ModeIndividual = "individual"
	ModeArray      = "array"
)

// InputSpec - пользовательский ввод, объявленный в файле задания.
type InputSpec struct {
	Name  string `yaml:"name" toml:"name"`
	Scope string `yaml:"scope" toml:"scope"` // global | row
	Type  string `yaml:"type" toml:"type"`   // text | number
}

// Job описывает один запуск подстановки. Загружается из YAML или TOML.
//
//	template: template.json
//	data: people.csv        # .csv, .tsv или .xlsx
//	mode: array
//	arrayPath: data.items
//	filter: 'num(age) >= 18'
//	globals:
//	  userInputString: Q3
//	rowInputs:
//	  "0": {rowInputNumber: "5"}
//	output: out/result.json
type Job struct {
	Template  string                       `yaml:"template" toml:"template"`
	Data      string                       `yaml:"data" toml:"data"`
	Sheet     string                       `yaml:"sheet" toml:"sheet"`
	Delimiter string                       `yaml:"delimiter" toml:"delimiter"`
	NoHeader  bool                         `yaml:"noHeader" toml:"noHeader"`
	Mode      string                       `yaml:"mode" toml:"mode"`
	ArrayPath string                       `yaml:"arrayPath" toml:"arrayPath"`
	Filter    string                       `yaml:"filter" toml:"filter"`
	Output    string                       `yaml:"output" toml:"output"`
	Globals   map[string]string            `yaml:"globals" toml:"globals"`
	RowInputs map[string]map[string]string `yaml:"rowInputs" toml:"rowInputs"`
	Numeric   []string                     `yaml:"numeric" toml:"numeric"`
	Inputs    []InputSpec                  `yaml:"inputs" toml:"inputs"`
}

// LoadJob читает файл задания; формат определяется расширением (.yaml/.yml/.toml).
// Относительные пути в задании разрешаются от каталога файла.
func LoadJob(path string) (*Job, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("чтение задания %s: %w", path, err)
	}
	job, err := ParseJob(data, strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), "."))
	if err != nil {
		return nil, fmt.Errorf("задание %s: %w", path, err)
	}
	job.resolvePaths(filepath.Dir(path))
	return job, nil
}

// ParseJob разбирает задание в формате yaml/yml или toml.
func ParseJob(data []byte, format string) (*Job, error) {
	var job Job
	switch format {
	case "yaml", "yml":
		if err := yaml.Unmarshal(data, &job); err != nil {
			return nil, fmt.Errorf("разбор YAML: %w", err)
		}
	case "toml":
		if _, err := toml.Decode(string(data), &job); err != nil {
			return nil, fmt.Errorf("разбор TOML: %w", err)
		}
	default:
		return nil, fmt.Errorf("неизвестный формат задания %q", format)
	}
	applyDefaults(&job)
	return &job, nil
}

// applyDefaults заполняет необязательные поля значениями по умолчанию
func applyDefaults(job *Job) {
	job.Mode = strings.ToLower(strings.TrimSpace(job.Mode))
	if job.Mode == "" {
		if job.ArrayPath != "" {
			job.Mode = ModeArray
		} else {
			job.Mode = ModeIndividual
		}
	}
	if job.Globals == nil {
		job.Globals = map[string]string{}
	}
	if job.RowInputs == nil {
		job.RowInputs = map[string]map[string]string{}
	}
}

func (j *Job) resolvePaths(base string) {
	for _, p := range []*string{&j.Template, &j.Data, &j.Output} {
		if *p != "" && *p != "-" && !filepath.IsAbs(*p) {
			*p = filepath.Join(base, *p)
		}
	}
}

// Validate проверяет согласованность задания до чтения файлов.
func (j *Job) Validate() error {
	var errs []error
	if j.Template == "" {
		errs = append(errs, errors.New("не указан шаблон (template)"))
	}
	switch j.Mode {
	case ModeIndividual:
	case ModeArray:
		if strings.TrimSpace(j.ArrayPath) == "" {
			errs = append(errs, errors.New("режим array требует arrayPath"))
		}
	default:
		errs = append(errs, fmt.Errorf("неизвестный режим %q", j.Mode))
	}
	if utf8.RuneCountInString(j.Delimiter) > 1 {
		errs = append(errs, fmt.Errorf("разделитель %q должен быть одним символом", j.Delimiter))
	}
	for k := range j.RowInputs {
		if n, err := strconv.Atoi(k); err != nil || n < 0 {
			errs = append(errs, fmt.Errorf("rowInputs: ключ %q не является номером строки", k))
		}
	}
	if _, err := j.Registry(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Registry строит реестр вводов: стандартный набор плюс объявленные в задании.
func (j *Job) Registry() (*InputRegistry, error) {
	reg := DefaultInputs()
	for _, in := range j.Inputs {
		def := InputDef{Name: strings.TrimSpace(in.Name)}
		switch strings.ToLower(in.Scope) {
		case "", "global":
			def.Scope = ScopeGlobal
		case "row":
			def.Scope = ScopeRow
		default:
			return nil, fmt.Errorf("ввод %q: неизвестная область %q", in.Name, in.Scope)
		}
		switch strings.ToLower(in.Type) {
		case "", "text", "string":
			def.Type = InputText
		case "number", "numeric":
			def.Type = InputNumber
		default:
			return nil, fmt.Errorf("ввод %q: неизвестный тип %q", in.Name, in.Type)
		}
		if err := reg.Add(def); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

// rowInputsByIndex переводит ключи rowInputs в номера строк (0-based)
func (j *Job) rowInputsByIndex() map[int]map[string]string {
	out := make(map[int]map[string]string, len(j.RowInputs))
	for k, v := range j.RowInputs {
		if n, err := strconv.Atoi(k); err == nil {
			out[n] = v
		}
	}
	return out
}

// Outcome - результат выполнения задания.
type Outcome struct {
	Job    *Job
	Table  *Table
	Result *Result
}

// prepared - прочитанные файлы задания, готовые к проверке или запуску
type prepared struct {
	engine *Engine
	table  *Table
	req    Request
}

// prepare проверяет задание, читает шаблон и данные и применяет фильтр строк.
func (j *Job) prepare(dyn Dynamics) (*prepared, error) {
	if err := j.Validate(); err != nil {
		return nil, err
	}
	reg, _ := j.Registry()
	log.Printf("📁 Шаблон: %s", j.Template)
	tpl, err := os.ReadFile(j.Template)
	if err != nil {
		return nil, fmt.Errorf("чтение шаблона: %w", err)
	}
	table, err := j.loadTable()
	if err != nil {
		return nil, err
	}
	log.Printf("📝 Строк данных: %d, колонок: %d", table.Len(), len(table.Headers))
	if j.Filter != "" {
		table, err = FilterRows(table, j.Filter)
		if err != nil {
			return nil, err
		}
		log.Printf("🔎 После фильтра осталось строк: %d", table.Len())
	}
	return &prepared{
		engine: NewEngine(reg, dyn),
		table:  table,
		req: Request{
			Template:  string(tpl),
			Table:     table,
			ArrayMode: j.Mode == ModeArray,
			ArrayPath: j.ArrayPath,
			Globals:   j.Globals,
			RowInputs: j.rowInputsByIndex(),
			Numeric:   j.Numeric,
		},
	}, nil
}

// CheckJob читает файлы задания и возвращает отчёт о готовности, ничего не подставляя.
func CheckJob(job *Job) (*Report, error) {
	p, err := job.prepare(Dynamics{})
	if err != nil {
		return nil, err
	}
	return p.engine.Check(p.req), nil
}

// RunJob читает шаблон и данные, применяет фильтр строк и выполняет подстановку.
// Если шаблон не готов, возвращается Outcome с отчётом и ErrNotReady.
func RunJob(job *Job, dyn Dynamics) (*Outcome, error) {
	log.Printf("🔄 Запуск подстановки: режим %s", job.Mode)
	startTime := time.Now()
	p, err := job.prepare(dyn)
	if err != nil {
		log.Printf("❌ Ошибка подготовки: %v", err)
		return nil, err
	}
	res, err := p.engine.Run(p.req)
	outcome := &Outcome{Job: job, Table: p.table, Result: res}
	if res != nil && res.Report != nil {
		for _, w := range res.Report.Warnings() {
			log.Printf("⚠️ %s", w)
		}
	}
	if err != nil {
		if res != nil && res.Report != nil {
			for _, msg := range res.Report.Problems() {
				log.Printf("❌ %s", msg)
			}
		}
		log.Printf("❌ Подстановка не выполнена: %v", err)
		return outcome, err
	}
	log.Printf("✅ Подстановка завершена за %v", time.Since(startTime))
	return outcome, nil
}

// loadTable читает источник данных: xlsx через excelize, остальное - как CSV.
// Пустой путь означает пустую таблицу (шаблон без колонок).
func (j *Job) loadTable() (*Table, error) {
	if j.Data == "" {
		return &Table{Headers: []string{}, Rows: []Row{}}, nil
	}
	log.Printf("📁 Данные: %s", j.Data)
	raw, err := os.ReadFile(j.Data)
	if err != nil {
		return nil, fmt.Errorf("чтение данных: %w", err)
	}
	ext := strings.ToLower(filepath.Ext(j.Data))
	if ext == ".xlsx" {
		return ReadTableXLSX(bytes.NewReader(raw), j.Sheet)
	}
	opts := CSVOptions{NoHeader: j.NoHeader}
	if j.Delimiter != "" {
		opts.Delimiter, _ = utf8.DecodeRuneInString(j.Delimiter)
	} else if ext == ".tsv" {
		opts.Delimiter = '\t'
	}
	return ParseCSVWithOptions(string(raw), opts), nil
}

// WriteOutcome сохраняет результат. Режим массива: один файл (или stdout, если путь пуст
// или "-"). Режим «документ на строку»: каталог с row-0001.json…, книга Excel при
// расширении .xlsx, либо все документы подряд в stdout.
func WriteOutcome(o *Outcome, stdout io.Writer) error {
	out := o.Job.Output
	res := o.Result
	if o.Job.Mode == ModeArray {
		if out == "" || out == "-" {
			_, err := fmt.Fprintln(stdout, res.Document)
			return err
		}
		if err := writeFile(out, res.Document+"\n"); err != nil {
			return err
		}
		log.Printf("📄 Результат сохранен в: %s", out)
		return nil
	}
	switch {
	case out == "" || out == "-":
		for _, doc := range res.Outputs {
			if _, err := fmt.Fprintln(stdout, doc); err != nil {
				return err
			}
		}
		return nil
	case strings.EqualFold(filepath.Ext(out), ".xlsx"):
		var buf bytes.Buffer
		if err := ExportXLSX(&buf, o.Table, res.Outputs); err != nil {
			return fmt.Errorf("экспорт в Excel: %w", err)
		}
		if err := writeFile(out, buf.String()); err != nil {
			return err
		}
		log.Printf("📊 Книга Excel сохранена: %s", out)
		return nil
	default:
		if err := os.MkdirAll(out, 0o755); err != nil {
			return err
		}
		for i, doc := range res.Outputs {
			name := filepath.Join(out, fmt.Sprintf("row-%04d.json", i+1))
			if err := writeFile(name, doc+"\n"); err != nil {
				return err
			}
		}
		log.Printf("📄 Сохранено документов: %d в %s", len(res.Outputs), out)
		return nil
	}
}

func writeFile(path, content string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, []byte(content), 0o644)
}
