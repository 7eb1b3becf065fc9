package cmd

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"
)

var quiet bool

var rootCmd = &cobra.Command{
	Use:   "jsontemplar",
	Short: "Подстановка табличных данных в JSON-шаблон",
	Long: `jsontemplar подставляет значения из CSV/XLSX в плейсхолдеры {{...}} JSON-шаблона.

Режимы:
  individual - один JSON-документ на каждую строку данных
  array      - один документ, массив по пути --array-path заполняется строками

Плейсхолдеры:
  {{column}}                   значение колонки
  {{column.trim().slugify()}}  цепочка методов
  {{uuid}}, {{currentDatetime}}, {{currentDate}}, {{currentTime}},
  {{timestamp}}, {{randomNumber}}  встроенные динамические значения
  {{userInputString}}, {{userInputNumber}}  глобальные вводы (--set)
  {{rowInputString}}, {{rowInputNumber}}    вводы на строку (--row), только внутри массивов`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if quiet {
			log.SetOutput(io.Discard)
		}
	},
}

// Execute запускает корневую команду
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Не выводить журнал выполнения")
}

func printError(msg string, err error) {
	fmt.Fprintf(os.Stderr, "Ошибка: %s: %v\n", msg, err)
}
