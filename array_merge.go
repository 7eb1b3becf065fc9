package jsontemplar

import (
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

var (
	ErrTemplateSyntax = errors.New("шаблон не является валидным JSON")
	ErrArrayPath      = errors.New("массив по указанному пути не найден")
	ErrEmptyArray     = errors.New("массив пуст: нет образца элемента")
	ErrItemSyntax     = errors.New("элемент после подстановки не является валидным JSON")
	ErrResultSyntax   = errors.New("итоговый документ не является валидным JSON")
)

const itemsSentinel = "__jsontemplar_items__"

// locateArray находит непустой массив по пути в шаблоне с замаскированными голыми
// плейсхолдерами. Тот же обход используют проверка готовности и MergeArray.
func locateArray(masked, arrayPath string) ([]string, gjson.Result, error) {
	if !gjson.Valid(masked) {
		return nil, gjson.Result{}, ErrTemplateSyntax
	}
	segs, err := splitPath(arrayPath)
	if err != nil {
		return nil, gjson.Result{}, fmt.Errorf("%w: %v", ErrArrayPath, err)
	}
	arr, err := drill(gjson.Parse(masked), segs)
	if err != nil {
		return nil, gjson.Result{}, fmt.Errorf("%w: %v", ErrArrayPath, err)
	}
	if !arr.IsArray() {
		return nil, gjson.Result{}, fmt.Errorf("%w: %q не является массивом", ErrArrayPath, arrayPath)
	}
	if len(arr.Array()) == 0 {
		return nil, gjson.Result{}, fmt.Errorf("%w: %q", ErrEmptyArray, arrayPath)
	}
	return segs, arr, nil
}

// MergeArray - режим «один документ»: массив по пути arrayPath заменяется элементами,
// по одному на строку. Первый элемент исходного массива служит шаблоном элемента.
// Плейсхолдеры вне массива заполняются один раз на весь документ (глобальные вводы
// и встроенные значения - одно общее значение).
// При любой ошибке возвращается исходный шаблон и ошибка.
func (e *Engine) MergeArray(template string, rows []Row, arrayPath string, globals map[string]string, rowInputs map[int]map[string]string, numeric map[string]bool) (string, error) {
	masked, mask := maskBarePlaceholders(template)
	segs, arr, err := locateArray(masked, arrayPath)
	if err != nil {
		return template, err
	}
	itemTpl := mask.restore(compactRaw(arr.Array()[0].Raw))

	items := make([]string, 0, len(rows))
	for i, row := range rows {
		merged := e.MergeRow(itemTpl, MergeInput{Row: row, Globals: globals, RowInputs: rowInputs[i], Numeric: numeric})
		if !gjson.Valid(merged) {
			return template, fmt.Errorf("%w: строка %d", ErrItemSyntax, i+1)
		}
		items = append(items, merged)
	}

	// Каркас документа: массив заменён заглушкой, чтобы общие плейсхолдеры
	// заполнялись только вне сгенерированных элементов.
	path := escapePath(segs)
	shell, err := sjson.Set(masked, path, itemsSentinel)
	if err != nil {
		return template, fmt.Errorf("%w: %v", ErrArrayPath, err)
	}
	shell = e.MergeRow(mask.restore(shell), MergeInput{Globals: globals, Numeric: numeric})
	if !gjson.Valid(shell) {
		return template, ErrResultSyntax
	}
	// ключи пути могли измениться при подстановке
	if slot := gjson.Get(shell, path); slot.Type != gjson.String || slot.Str != itemsSentinel {
		return template, fmt.Errorf("%w: путь %q изменился после подстановки", ErrArrayPath, arrayPath)
	}
	doc, err := sjson.SetRaw(shell, path, rawJSON(items))
	if err != nil {
		return template, fmt.Errorf("%w: %v", ErrResultSyntax, err)
	}

	formatted, ok := FormatJSON(doc)
	if !ok {
		return template, ErrResultSyntax
	}
	return formatted, nil
}
