package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nikitaxru/jsontemplar"
)

var checkFlags jobFlags

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Проверить готовность шаблона",
	Long: `Проверяет синтаксис шаблона, наличие колонок, расположение вводов на строку
и корректность числовых вводов. Код выхода 1, если подстановка заблокирована.

Примеры:
  jsontemplar check -t tpl.json -d people.csv
  jsontemplar check -c job.yaml`,
	RunE: runCheck,
}

func init() {
	checkFlags.register(checkCmd.Flags())
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	job, err := checkFlags.build(cmd)
	if err != nil {
		printError("задание", err)
		return err
	}
	report, err := jsontemplar.CheckJob(job)
	if err != nil {
		printError("проверка", err)
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderReport(report))
	if !report.Ready() {
		return errors.New("шаблон не готов")
	}
	return nil
}
