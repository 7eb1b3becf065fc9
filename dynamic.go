package jsontemplar

import (
	"math/rand/v2"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Dynamics - источники времени и случайности для встроенных плейсхолдеров.
// Пустые поля заменяются значениями по умолчанию в NewEngine.
type Dynamics struct {
	Now    func() time.Time
	UUID   func() string
	Random func(n int) int // равномерно в [0, n)
}

// DefaultDynamics - системные часы, uuid v4 и math/rand/v2.
func DefaultDynamics() Dynamics {
	return Dynamics{Now: time.Now, UUID: uuid.NewString, Random: rand.IntN}
}

func (d Dynamics) withDefaults() Dynamics {
	def := DefaultDynamics()
	if d.Now == nil {
		d.Now = def.Now
	}
	if d.UUID == nil {
		d.UUID = def.UUID
	}
	if d.Random == nil {
		d.Random = def.Random
	}
	return d
}

const randomNumberLimit = 1000000

// builtins - встроенные динамические значения. Время - всегда UTC.
var builtins = map[string]func(Dynamics) string{
	"currentDatetime": func(d Dynamics) string { return d.Now().UTC().Format("2006-01-02T15:04:05.000Z") },
	"currentDate":     func(d Dynamics) string { return d.Now().UTC().Format("2006-01-02") },
	"currentTime":     func(d Dynamics) string { return d.Now().UTC().Format("15:04:05") },
	"timestamp":       func(d Dynamics) string { return strconv.FormatInt(d.Now().UnixMilli(), 10) },
	"uuid":            func(d Dynamics) string { return d.UUID() },
	"randomNumber":    func(d Dynamics) string { return strconv.Itoa(d.Random(randomNumberLimit)) },
}

// IsBuiltin сообщает, является ли имя встроенным динамическим значением.
func IsBuiltin(name string) bool {
	_, ok := builtins[name]
	return ok
}

// BuiltinNames возвращает отсортированный список встроенных имён.
func BuiltinNames() []string {
	names := make([]string, 0, len(builtins))
	for n := range builtins {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// ResolveDynamic заменяет встроенные плейсхолдеры свежими значениями. Каждый вызов берёт
// новое время и новую случайность; внутри одного вызова все вхождения одного имени
// получают одно и то же значение. Остальные плейсхолдеры не трогаются.
func (e *Engine) ResolveDynamic(text string) string {
	return e.substitute(text, MergeInput{}, true)
}
