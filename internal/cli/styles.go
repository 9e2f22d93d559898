package cli

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/dayglow/internal/models"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	failStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

var severityColors = map[models.Severity]lipgloss.Color{
	models.SeverityWarn: lipgloss.Color("214"),
	models.SeverityTip:  lipgloss.Color("39"),
	models.SeverityInfo: lipgloss.Color("241"),
}

func card(sev models.Severity) lipgloss.Style {
	color, ok := severityColors[sev]
	if !ok {
		color = severityColors[models.SeverityInfo]
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(color).
		Padding(0, 1).
		Width(60)
}
