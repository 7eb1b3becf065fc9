package jsontemplar

import (
	"fmt"
	"strconv"
	"strings"

	expro "github.com/expr-lang/expr"
)

// FilterRows оставляет строки, для которых выражение expr-lang истинно. В окружении:
// каждая колонка как строковая переменная, row - вся строка целиком (для заголовков
// с пробелами: row["first name"]), num(s) - число из строки (0, если не число),
// empty(s) - строка пуста после обрезки пробелов. Колонка с именем row, num или empty
// перекрывает помощника; её значение по-прежнему доступно как row["..."], если это не сама row.
// Пустое выражение возвращает таблицу без изменений.
func FilterRows(table *Table, expression string) (*Table, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" || table == nil {
		return table, nil
	}
	sample := make(Row, len(table.Headers))
	for _, h := range table.Headers {
		sample[h] = ""
	}
	program, err := expro.Compile(expression, expro.Env(filterEnv(sample)), expro.AsBool())
	if err != nil {
		return nil, fmt.Errorf("фильтр %q: %w", expression, err)
	}
	out := &Table{Headers: append([]string(nil), table.Headers...), Rows: make([]Row, 0, len(table.Rows))}
	for i, row := range table.Rows {
		v, err := expro.Run(program, filterEnv(row))
		if err != nil {
			return nil, fmt.Errorf("фильтр, строка %d: %w", i+1, err)
		}
		if b, ok := v.(bool); ok && b {
			out.Rows = append(out.Rows, row)
		}
	}
	return out, nil
}

// filterEnv - окружение выражения, одинаковое на этапе компиляции и выполнения
func filterEnv(row Row) map[string]interface{} {
	env := make(map[string]interface{}, len(row)+3)
	env["row"] = map[string]string(row)
	env["num"] = func(s string) float64 {
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return 0
		}
		return f
	}
	env["empty"] = func(s string) bool { return strings.TrimSpace(s) == "" }
	for k, v := range row {
		env[k] = v
	}
	return env
}
