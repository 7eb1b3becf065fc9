package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nikitaxru/jsontemplar"
)

var (
	mergeFlags jobFlags
	mergeWatch bool
)

var mergeCmd = &cobra.Command{
	Use:   "merge",
	Short: "Подставить данные в шаблон",
	Long: `Подставляет строки таблицы в JSON-шаблон.

Примеры:
  jsontemplar merge -t tpl.json -d people.csv -o out/
  jsontemplar merge -t tpl.json -d people.xlsx --array-path data.items -o result.json
  jsontemplar merge -t tpl.json -d people.csv --set userInputString=Q3 --row 0:rowInputNumber=5
  jsontemplar merge -c job.yaml --watch`,
	RunE: runMerge,
}

func init() {
	mergeFlags.register(mergeCmd.Flags())
	mergeCmd.Flags().BoolVarP(&mergeWatch, "watch", "w", false, "Перезапускать при изменении шаблона, данных или задания")
	rootCmd.AddCommand(mergeCmd)
}

func runMerge(cmd *cobra.Command, args []string) error {
	job, err := mergeFlags.build(cmd)
	if err != nil {
		printError("задание", err)
		return err
	}
	if !mergeWatch {
		return mergeOnce(cmd, job)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	files := []string{job.Template, job.Data, mergeFlags.config}
	return watchFiles(ctx, files, func() {
		// задание перечитываем целиком: файл --config мог измениться
		j, err := mergeFlags.build(cmd)
		if err != nil {
			printError("задание", err)
			return
		}
		_ = mergeOnce(cmd, j)
	})
}

func mergeOnce(cmd *cobra.Command, job *jsontemplar.Job) error {
	outcome, err := jsontemplar.RunJob(job, jsontemplar.Dynamics{})
	if err != nil {
		if errors.Is(err, jsontemplar.ErrNotReady) && outcome != nil {
			cmd.PrintErrln(renderReport(outcome.Result.Report))
		}
		return err
	}
	if err := jsontemplar.WriteOutcome(outcome, cmd.OutOrStdout()); err != nil {
		printError("запись результата", err)
		return err
	}
	return nil
}
