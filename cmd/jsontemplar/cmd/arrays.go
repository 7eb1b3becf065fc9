package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nikitaxru/jsontemplar"
)

var arraysTemplate string

var arraysCmd = &cobra.Command{
	Use:   "arrays",
	Short: "Показать массивы шаблона",
	Long: `Перечисляет массивы JSON-шаблона: путь (для --array-path), число элементов
и начало первого элемента.

Пример:
  jsontemplar arrays -t tpl.json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if arraysTemplate == "" {
			return fmt.Errorf("не указан шаблон (-t)")
		}
		raw, err := os.ReadFile(arraysTemplate)
		if err != nil {
			printError("чтение шаблона", err)
			return err
		}
		found := jsontemplar.FindArraysInJSON(string(raw))
		out := cmd.OutOrStdout()
		if len(found) == 0 {
			fmt.Fprintln(out, mutedStyle.Render("Массивов не найдено"))
			return nil
		}
		fmt.Fprintln(out, titleStyle.Render(fmt.Sprintf("Массивы (%d)", len(found))))
		for _, a := range found {
			fmt.Fprintf(out, "%s  %s  %s\n", okStyle.Render(a.Path), mutedStyle.Render(fmt.Sprintf("[%d]", a.Length)), a.Preview)
		}
		return nil
	},
}

func init() {
	arraysCmd.Flags().StringVarP(&arraysTemplate, "template", "t", "", "JSON-шаблон")
	rootCmd.AddCommand(arraysCmd)
}
