package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/lunahq/curator/internal/curation"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B")).
			MarginBottom(1)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444444")).
			Padding(0, 1)

	panelTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#5B8DEF"))

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#AAAAAA"))

	footerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			MarginTop(1)

	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#1A1A1A")).
			Background(lipgloss.Color("#5B8DEF")).
			Padding(0, 1)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#AAAAAA")).
				Padding(0, 1)

	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
)

var tierColors = map[curation.Tier]lipgloss.Color{
	curation.TierGood:     lipgloss.Color("#4BB543"),
	curation.TierCaution:  lipgloss.Color("#E5C07B"),
	curation.TierPoor:     lipgloss.Color("#E06C75"),
	curation.TierUnscored: lipgloss.Color("#888888"),
}

// tierStyle colors a score by its presentation tier.
func tierStyle(tier curation.Tier) lipgloss.Style {
	color, ok := tierColors[tier]
	if !ok {
		color = tierColors[curation.TierUnscored]
	}
	return lipgloss.NewStyle().Foreground(color)
}

var badgeColors = map[string]lipgloss.Color{
	"APPROVE":    lipgloss.Color("#4BB543"),
	"REVIEW":     lipgloss.Color("#E5C07B"),
	"REJECT":     lipgloss.Color("#E06C75"),
	"Not scored": lipgloss.Color("#888888"),
}

// badgeStyle colors a recommendation badge; unknown labels render muted, the
// label text itself passes through untouched.
func badgeStyle(label string) lipgloss.Style {
	color, ok := badgeColors[label]
	if !ok {
		color = lipgloss.Color("#AAAAAA")
	}
	return lipgloss.NewStyle().Bold(true).Foreground(color)
}
