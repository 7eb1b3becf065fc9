package jsontemplar

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

const indent = "  "

// FormatJSON приводит JSON к виду с отступом в два пробела. Порядок ключей и запись
// чисел сохраняются; повторное форматирование даёт тот же результат байт в байт.
// Если текст - не JSON, он возвращается как есть вместе с false.
func FormatJSON(s string) (string, bool) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return s, false
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, []byte(trimmed), "", indent); err != nil {
		return s, false
	}
	return buf.String(), true
}

// Validity - результат проверки синтаксиса шаблона.
type Validity struct {
	Valid bool
	Error string
}

// ValidateJSON проверяет синтаксис шаблона. Плейсхолдеры вне строк ("n": {{n}})
// считаются значениями, поэтому шаблон с числовыми вводами без кавычек валиден.
func ValidateJSON(template string) Validity {
	if strings.TrimSpace(template) == "" {
		return Validity{Error: "шаблон пуст"}
	}
	masked, _ := maskBarePlaceholders(template)
	var v interface{}
	err := json.Unmarshal([]byte(masked), &v)
	if err == nil {
		return Validity{Valid: true}
	}
	return Validity{Error: describeSyntaxError(masked, err)}
}

// describeSyntaxError превращает ошибку encoding/json в сообщение со строкой и столбцом.
func describeSyntaxError(src string, err error) string {
	var se *json.SyntaxError
	if errors.As(err, &se) {
		line, col := lineCol(src, int(se.Offset))
		return fmt.Sprintf("строка %d, столбец %d: %s", line, col, se.Error())
	}
	return err.Error()
}

func lineCol(src string, offset int) (int, int) {
	if offset > len(src) {
		offset = len(src)
	}
	line, col := 1, 1
	for _, r := range src[:offset] {
		if r == '\n' {
			line++
			col = 1
			continue
		}
		col++
	}
	return line, col
}

// sanitizeJSONBlock извлекает JSON, обёрнутый в тройные кавычки ``` ... ```.
// Если таких кавычек нет, либо структура неверная, возвращает исходную строку.
var fenceRx = regexp.MustCompile("(?s)```[a-zA-Z]*\\n(.*?)```")

func sanitizeJSONBlock(s string) string {
	if !strings.Contains(s, "```") {
		return s
	}
	m := fenceRx.FindStringSubmatch(s)
	if len(m) >= 2 {
		return strings.TrimSpace(m[1])
	}
	return s
}
