package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nikitaxru/jsontemplar"
)

var (
	phTemplate string
	phHeaders  []string
	phInputs   []string
)

var placeholdersCmd = &cobra.Command{
	Use:     "placeholders",
	Aliases: []string{"ph"},
	Short:   "Показать плейсхолдеры шаблона и их категории",
	Long: `Перечисляет уникальные плейсхолдеры шаблона в порядке появления
с категорией: column, builtin, global-input, row-input или unresolved.

Пример:
  jsontemplar placeholders -t tpl.json --columns name,email`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if phTemplate == "" {
			return fmt.Errorf("не указан шаблон (-t)")
		}
		raw, err := os.ReadFile(phTemplate)
		if err != nil {
			printError("чтение шаблона", err)
			return err
		}
		job := &jsontemplar.Job{}
		for _, s := range phInputs {
			spec, err := parseInputSpec(s)
			if err != nil {
				return fmt.Errorf("--input: %w", err)
			}
			job.Inputs = append(job.Inputs, spec)
		}
		reg, err := job.Registry()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, p := range jsontemplar.ExtractPlaceholders(string(raw), phHeaders, reg) {
			line := fmt.Sprintf("%-24s %s ×%d", p.Name, kindStyle(p.Kind).Render(p.Kind.String()), len(p.Offsets))
			if chains := distinctChains(p.Chains); len(chains) > 0 {
				line += mutedStyle.Render("  " + strings.Join(chains, ", "))
			}
			fmt.Fprintln(out, line)
		}
		return nil
	},
}

// distinctChains собирает различные цепочки методов вида .trim().slugify()
func distinctChains(chains [][]string) []string {
	seen := map[string]bool{}
	var out []string
	for _, c := range chains {
		if len(c) == 0 {
			continue
		}
		s := "." + strings.Join(c, "().") + "()"
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

func init() {
	placeholdersCmd.Flags().StringVarP(&phTemplate, "template", "t", "", "JSON-шаблон")
	placeholdersCmd.Flags().StringSliceVar(&phHeaders, "columns", nil, "Имена колонок данных")
	placeholdersCmd.Flags().StringArrayVar(&phInputs, "input", nil, "Объявить ввод name:scope:type")
	rootCmd.AddCommand(placeholdersCmd)
}
