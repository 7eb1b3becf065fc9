package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nikitaxru/jsontemplar"
)

var (
	colorSuccess = lipgloss.Color("#10B981")
	colorWarning = lipgloss.Color("#F59E0B")
	colorError   = lipgloss.Color("#EF4444")
	colorMuted   = lipgloss.Color("#6B7280")

	titleStyle   = lipgloss.NewStyle().Bold(true).MarginBottom(1)
	okStyle      = lipgloss.NewStyle().Foreground(colorSuccess).Bold(true)
	warnStyle    = lipgloss.NewStyle().Foreground(colorWarning)
	errStyle     = lipgloss.NewStyle().Foreground(colorError).Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(colorMuted)
	sectionStyle = lipgloss.NewStyle().PaddingLeft(2)
)

// kindStyle окрашивает категорию плейсхолдера
func kindStyle(k jsontemplar.Kind) lipgloss.Style {
	switch k {
	case jsontemplar.KindUnresolved:
		return warnStyle
	case jsontemplar.KindBuiltin:
		return mutedStyle
	default:
		return lipgloss.NewStyle()
	}
}

// renderReport выводит отчёт о готовности шаблона
func renderReport(r *jsontemplar.Report) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Проверка шаблона"))
	b.WriteString("\n")

	if len(r.Placeholders) > 0 {
		var lines []string
		for _, p := range r.Placeholders {
			lines = append(lines, fmt.Sprintf("{{%s}} %s ×%d", p.Name, kindStyle(p.Kind).Render(p.Kind.String()), len(p.Offsets)))
		}
		b.WriteString("Плейсхолдеры:\n")
		b.WriteString(sectionStyle.Render(strings.Join(lines, "\n")))
		b.WriteString("\n")
	}
	for _, w := range r.Warnings() {
		b.WriteString(warnStyle.Render("⚠ " + w))
		b.WriteString("\n")
	}
	for _, p := range r.Problems() {
		b.WriteString(errStyle.Render("✗ " + p))
		b.WriteString("\n")
	}
	if r.Ready() {
		b.WriteString(okStyle.Render("✓ Готов к подстановке"))
	} else {
		b.WriteString(errStyle.Render("✗ Подстановка заблокирована"))
	}
	return b.String()
}
